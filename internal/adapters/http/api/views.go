package api

import (
	"time"

	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
)

type playerView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Tentative bool   `json:"tentative,omitempty"`
	Synthetic bool   `json:"synthetic,omitempty"`
	Role      string `json:"role,omitempty"`
}

type sessionView struct {
	Key            string       `json:"key"`
	HostID         int64        `json:"host_id"`
	Phase          string       `json:"phase"`
	PhaseNumber    int          `json:"phase_number"`
	EndsAt         time.Time    `json:"ends_at"`
	MinPlayers     int          `json:"min_players"`
	MaxPlayers     *int         `json:"max_players,omitempty"`
	RoleDensity    string       `json:"role_density"`
	GameLength     string       `json:"game_length"`
	NeutralsTeamed bool         `json:"neutrals_teamed"`
	MafiaCount     *int         `json:"mafia_count,omitempty"`
	NeutralCount   *int         `json:"neutral_count,omitempty"`
	DebugMode      bool         `json:"debug_mode,omitempty"`
	Players        []playerView `json:"players"`
}

// newSessionView shows roles only to the host of a session in debug mode.
func newSessionView(session domain.Session, viewer domain.PlayerID) sessionView {
	reveal := session.DebugMode && session.IsHost(viewer)
	players := make([]playerView, 0, session.RosterSize())
	for _, p := range session.AllPlayers() {
		view := playerView{
			ID:        int64(p.ID),
			Name:      session.DisplayName(p.ID),
			Status:    string(p.Status),
			Tentative: p.Tentative,
			Synthetic: p.Synthetic(),
		}
		if reveal {
			view.Role = p.Role
		}
		players = append(players, view)
	}

	return sessionView{
		Key:            string(session.Key),
		HostID:         int64(session.HostID),
		Phase:          string(session.Phase.Name),
		PhaseNumber:    session.Phase.Number,
		EndsAt:         session.Phase.EndsAt,
		MinPlayers:     session.Config.MinPlayers,
		MaxPlayers:     session.Config.MaxPlayers,
		RoleDensity:    string(session.Config.RoleDensity),
		GameLength:     string(session.Config.GameLength),
		NeutralsTeamed: session.Config.NeutralsTeamed,
		MafiaCount:     session.MafiaCount,
		NeutralCount:   session.NeutralCount,
		DebugMode:      session.DebugMode,
		Players:        players,
	}
}

type tallyEntryView struct {
	Target   int64   `json:"target"`
	Voters   []int64 `json:"voters"`
	Count    int     `json:"count"`
	ToHammer int     `json:"to_hammer"`
}

type tallyView struct {
	Day        int              `json:"day"`
	Alive      int              `json:"alive"`
	Majority   int              `json:"majority"`
	Entries    []tallyEntryView `json:"entries"`
	NotVoting  []int64          `json:"not_voting"`
	Hammered   bool             `json:"hammered"`
	HammeredID int64            `json:"hammered_id,omitempty"`
}

func newTallyView(tally domain.Tally) tallyView {
	view := tallyView{
		Day:        tally.Day,
		Alive:      tally.Alive,
		Majority:   tally.Majority,
		Entries:    make([]tallyEntryView, 0, len(tally.Entries)),
		NotVoting:  ids(tally.NotVoting),
		Hammered:   tally.Hammered,
		HammeredID: int64(tally.HammeredID),
	}
	for _, entry := range tally.Entries {
		view.Entries = append(view.Entries, tallyEntryView{
			Target:   int64(entry.Target),
			Voters:   ids(entry.Voters),
			Count:    entry.Count,
			ToHammer: entry.ToHammer,
		})
	}
	return view
}

type phaseView struct {
	Key             string    `json:"key"`
	Phase           string    `json:"phase"`
	Number          int       `json:"number"`
	EndsAt          time.Time `json:"ends_at"`
	RemainingSec    int64     `json:"remaining_sec"`
	DeadlineHandled bool      `json:"deadline_handled"`
}

func newPhaseView(status application.PhaseStatus) phaseView {
	return phaseView{
		Key:             string(status.Key),
		Phase:           string(status.Phase),
		Number:          status.Number,
		EndsAt:          status.EndsAt,
		RemainingSec:    int64(status.Remaining / time.Second),
		DeadlineHandled: status.DeadlineHandled,
	}
}

func ids(in []domain.PlayerID) []int64 {
	out := make([]int64, len(in))
	for i, id := range in {
		out[i] = int64(id)
	}
	return out
}
