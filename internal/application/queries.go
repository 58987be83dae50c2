package application

import (
	"time"

	"github.com/bnema/mafia-engine/internal/domain"
)

type JoinResult struct {
	Session  domain.Session
	Promoted bool
	NoOp     bool
	Evicted  *domain.PlayerID
}

type VoteResult struct {
	Session  domain.Session
	Tally    domain.Tally
	Hammered bool
}

type PhaseStatus struct {
	Key             domain.SessionKey
	Phase           domain.PhaseName
	Number          int
	EndsAt          time.Time
	Remaining       time.Duration
	DeadlineHandled bool
}

type TickReport struct {
	Checked   int
	Due       int
	Processed int
	Failed    int
}
