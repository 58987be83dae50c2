package application

import (
	"context"

	"github.com/bnema/mafia-engine/internal/domain"
)

// PhaseResolver runs end-of-phase game rules. It receives a copy of the
// session and returns the session to persist plus channel announcements.
type PhaseResolver interface {
	ResolveDayEnd(ctx context.Context, session domain.Session) (domain.Session, []string, error)
	ResolveNightEnd(ctx context.Context, session domain.Session) (domain.Session, []string, error)
}

// NoopResolver leaves sessions untouched.
type NoopResolver struct{}

func (NoopResolver) ResolveDayEnd(_ context.Context, session domain.Session) (domain.Session, []string, error) {
	return session, nil, nil
}

func (NoopResolver) ResolveNightEnd(_ context.Context, session domain.Session) (domain.Session, []string, error) {
	return session, nil, nil
}
