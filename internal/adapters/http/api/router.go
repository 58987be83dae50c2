// Package api exposes session commands and queries over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
)

// SessionService is the application surface the API drives.
type SessionService interface {
	StartSession(ctx context.Context, cmd application.StartSessionCommand) (domain.Session, error)
	Join(ctx context.Context, cmd application.JoinCommand) (application.JoinResult, error)
	JoinTentative(ctx context.Context, cmd application.JoinCommand) (domain.Session, error)
	Withdraw(ctx context.Context, cmd application.WithdrawCommand) (domain.Session, error)
	SetFactionCounts(ctx context.Context, cmd application.SetFactionCountsCommand) (domain.Session, error)
	AssignRolesAndStart(ctx context.Context, cmd application.AssignRolesCommand) (domain.Session, error)
	AdvancePhaseManually(ctx context.Context, cmd application.AdvancePhaseCommand) (domain.Session, error)
	CastVote(ctx context.Context, cmd application.CastVoteCommand) (application.VoteResult, error)
	RetractVote(ctx context.Context, cmd application.RetractVoteCommand) (application.VoteResult, error)
	CancelSession(ctx context.Context, cmd application.CancelSessionCommand) (domain.Session, error)
	DeleteSession(ctx context.Context, cmd application.DeleteSessionCommand) error
	SetDebugMode(ctx context.Context, cmd application.SetDebugModeCommand) (domain.Session, error)
	AddSyntheticPlayer(ctx context.Context, cmd application.AddSyntheticPlayerCommand) (domain.Player, error)
	RemoveSyntheticPlayer(ctx context.Context, cmd application.RemoveSyntheticPlayerCommand) (domain.Session, error)
	SyntheticVote(ctx context.Context, cmd application.SyntheticVoteCommand) (application.VoteResult, error)
	SetPlayerStatus(ctx context.Context, cmd application.SetPlayerStatusCommand) (domain.Session, error)
	AssignDebugRole(ctx context.Context, cmd application.AssignDebugRoleCommand) (domain.Session, error)
	GetSession(ctx context.Context, key domain.SessionKey) (domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
	PhaseStatus(ctx context.Context, key domain.SessionKey) (application.PhaseStatus, error)
	Tally(ctx context.Context, key domain.SessionKey) (domain.Tally, error)
}

var _ SessionService = (*application.Service)(nil)

type Options struct {
	AllowedOrigins []string
	// RatePerSecond and Burst bound the commands one actor may send.
	RatePerSecond float64
	Burst         int
	Logger        zerolog.Logger
	// Live, when set, is mounted at GET /ws.
	Live http.Handler
}

type handler struct {
	svc    SessionService
	logger zerolog.Logger
}

func NewRouter(svc SessionService, opts Options) *gin.Engine {
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(opts.Logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders: []string{"Content-Type", "Origin", actorHeader, elevatedHeader},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Live != nil {
		r.GET("/ws", gin.WrapH(opts.Live))
	}

	h := &handler{svc: svc, logger: opts.Logger}
	limiter := newActorLimiter(rate.Limit(opts.RatePerSecond), opts.Burst)

	read := r.Group("/sessions")
	read.GET("", h.listSessions)
	read.GET("/:key", h.getSession)
	read.GET("/:key/phase", h.phaseStatus)
	read.GET("/:key/tally", h.tally)

	write := r.Group("/sessions", requireActor(), limiter.middleware())
	write.POST("/:key", h.startSession)
	write.DELETE("/:key", h.deleteSession)
	write.POST("/:key/cancel", h.cancelSession)
	write.POST("/:key/join", h.join)
	write.POST("/:key/withdraw", h.withdraw)
	write.PUT("/:key/factions", h.setFactions)
	write.POST("/:key/start", h.assignRoles)
	write.POST("/:key/phase", h.advancePhase)
	write.POST("/:key/votes", h.castVote)
	write.DELETE("/:key/votes", h.retractVote)
	write.PUT("/:key/debug", h.setDebugMode)
	write.POST("/:key/synthetic", h.addSynthetic)
	write.DELETE("/:key/synthetic/:name", h.removeSynthetic)
	write.POST("/:key/synthetic/:name/vote", h.syntheticVote)
	write.PUT("/:key/players/:id/status", h.setPlayerStatus)
	write.PUT("/:key/players/:id/role", h.assignRole)

	return r
}
