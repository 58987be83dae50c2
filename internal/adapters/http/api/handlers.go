package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
)

func sessionKey(c *gin.Context) domain.SessionKey {
	return domain.SessionKey(c.Param("key"))
}

func playerParam(c *gin.Context) (domain.PlayerID, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("player id %q is not a number", c.Param("id"))
	}
	return domain.PlayerID(id), nil
}

// viewer is the optional actor of a read request.
func viewer(c *gin.Context) domain.PlayerID {
	id, _ := strconv.ParseInt(c.GetHeader(actorHeader), 10, 64)
	return domain.PlayerID(id)
}

func (h *handler) listSessions(c *gin.Context) {
	sessions, err := h.svc.ListSessions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, newSessionView(session, viewer(c)))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

func (h *handler) getSession(c *gin.Context) {
	session, err := h.svc.GetSession(c.Request.Context(), sessionKey(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, viewer(c)))
}

func (h *handler) phaseStatus(c *gin.Context) {
	status, err := h.svc.PhaseStatus(c.Request.Context(), sessionKey(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newPhaseView(status))
}

func (h *handler) tally(c *gin.Context) {
	tally, err := h.svc.Tally(c.Request.Context(), sessionKey(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newTallyView(tally))
}

type startRequest struct {
	GuildID        string `json:"guild_id"`
	Preset         string `json:"preset"`
	MinPlayers     int    `json:"min_players"`
	MaxPlayers     int    `json:"max_players"`
	Signup         string `json:"signup"`
	Day            string `json:"day"`
	Night          string `json:"night"`
	NeutralsTeamed bool   `json:"neutrals_teamed"`
	RoleDensity    string `json:"role_density"`
	GameLength     string `json:"game_length"`
}

func (h *handler) startSession(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	cmd, err := application.BuildStartCommand(sessionKey(c), actor(c), application.StartOptions(req))
	if err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.svc.StartSession(c.Request.Context(), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionView(session, actor(c)))
}

func (h *handler) deleteSession(c *gin.Context) {
	err := h.svc.DeleteSession(c.Request.Context(), application.DeleteSessionCommand{
		Key:         sessionKey(c),
		RequesterID: actor(c),
		Elevated:    elevated(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) cancelSession(c *gin.Context) {
	session, err := h.svc.CancelSession(c.Request.Context(), application.CancelSessionCommand{
		Key:         sessionKey(c),
		RequesterID: actor(c),
		Elevated:    elevated(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, actor(c)))
}

type joinRequest struct {
	DisplayName string `json:"display_name"`
	Tentative   bool   `json:"tentative"`
}

func (h *handler) join(c *gin.Context) {
	var req joinRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	cmd := application.JoinCommand{Key: sessionKey(c), PlayerID: actor(c), DisplayName: req.DisplayName}

	if req.Tentative {
		session, err := h.svc.JoinTentative(c.Request.Context(), cmd)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": newSessionView(session, actor(c))})
		return
	}

	result, err := h.svc.Join(c.Request.Context(), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	body := gin.H{
		"session":  newSessionView(result.Session, actor(c)),
		"promoted": result.Promoted,
		"no_op":    result.NoOp,
	}
	if result.Evicted != nil {
		body["evicted"] = int64(*result.Evicted)
	}
	c.JSON(http.StatusOK, body)
}

func (h *handler) withdraw(c *gin.Context) {
	session, err := h.svc.Withdraw(c.Request.Context(), application.WithdrawCommand{Key: sessionKey(c), PlayerID: actor(c)})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": newSessionView(session, actor(c))})
}

type factionsRequest struct {
	Mafia          int  `json:"mafia" binding:"required"`
	Neutral        int  `json:"neutral"`
	NeutralsTeamed bool `json:"neutrals_teamed"`
}

func (h *handler) setFactions(c *gin.Context) {
	var req factionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.svc.SetFactionCounts(c.Request.Context(), application.SetFactionCountsCommand{
		Key:            sessionKey(c),
		RequesterID:    actor(c),
		MafiaCount:     req.Mafia,
		NeutralCount:   req.Neutral,
		NeutralsTeamed: req.NeutralsTeamed,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, actor(c)))
}

func (h *handler) assignRoles(c *gin.Context) {
	session, err := h.svc.AssignRolesAndStart(c.Request.Context(), application.AssignRolesCommand{Key: sessionKey(c), RequesterID: actor(c)})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, actor(c)))
}

type phaseRequest struct {
	Target string `json:"target" binding:"required"`
}

func (h *handler) advancePhase(c *gin.Context) {
	var req phaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	target, err := application.ParsePhase(req.Target)
	if err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.svc.AdvancePhaseManually(c.Request.Context(), application.AdvancePhaseCommand{
		Key:         sessionKey(c),
		RequesterID: actor(c),
		Target:      target,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, actor(c)))
}

type voteRequest struct {
	// Target is a player id or display name.
	Target string `json:"target" binding:"required"`
}

func (h *handler) castVote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.svc.GetSession(c.Request.Context(), sessionKey(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	target, ok := session.LookupPlayer(req.Target)
	if !ok {
		h.fail(c, fmt.Errorf("%w: %q", domain.ErrTargetNotAlive, req.Target))
		return
	}

	result, err := h.svc.CastVote(c.Request.Context(), application.CastVoteCommand{
		Key:      sessionKey(c),
		VoterID:  actor(c),
		TargetID: target.ID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tally": newTallyView(result.Tally), "hammered": result.Hammered})
}

func (h *handler) retractVote(c *gin.Context) {
	result, err := h.svc.RetractVote(c.Request.Context(), application.RetractVoteCommand{Key: sessionKey(c), VoterID: actor(c)})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tally": newTallyView(result.Tally)})
}

type debugRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *handler) setDebugMode(c *gin.Context) {
	var req debugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.svc.SetDebugMode(c.Request.Context(), application.SetDebugModeCommand{
		Key:         sessionKey(c),
		RequesterID: actor(c),
		Enabled:     req.Enabled,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, actor(c)))
}

type syntheticRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role"`
}

func (h *handler) addSynthetic(c *gin.Context) {
	var req syntheticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	player, err := h.svc.AddSyntheticPlayer(c.Request.Context(), application.AddSyntheticPlayerCommand{
		Key:         sessionKey(c),
		RequesterID: actor(c),
		Name:        req.Name,
		Role:        req.Role,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, playerView{
		ID:        int64(player.ID),
		Name:      player.DisplayName,
		Status:    string(player.Status),
		Synthetic: true,
		Role:      player.Role,
	})
}

func (h *handler) removeSynthetic(c *gin.Context) {
	session, err := h.svc.RemoveSyntheticPlayer(c.Request.Context(), application.RemoveSyntheticPlayerCommand{
		Key:         sessionKey(c),
		RequesterID: actor(c),
		Name:        c.Param("name"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, actor(c)))
}

type syntheticVoteRequest struct {
	// Target empty retracts the synthetic player's vote.
	Target string `json:"target"`
}

func (h *handler) syntheticVote(c *gin.Context) {
	var req syntheticVoteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	result, err := h.svc.SyntheticVote(c.Request.Context(), application.SyntheticVoteCommand{
		Key:         sessionKey(c),
		RequesterID: actor(c),
		Voter:       c.Param("name"),
		Target:      req.Target,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tally": newTallyView(result.Tally), "hammered": result.Hammered})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *handler) setPlayerStatus(c *gin.Context) {
	player, err := playerParam(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	status, err := application.ParsePlayerStatus(req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	session, err := h.svc.SetPlayerStatus(c.Request.Context(), application.SetPlayerStatusCommand{
		Key:         sessionKey(c),
		RequesterID: actor(c),
		PlayerID:    player,
		Status:      status,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, actor(c)))
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *handler) assignRole(c *gin.Context) {
	player, err := playerParam(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.svc.AssignDebugRole(c.Request.Context(), application.AssignDebugRoleCommand{
		Key:         sessionKey(c),
		RequesterID: actor(c),
		PlayerID:    player,
		Role:        req.Role,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session, actor(c)))
}
