package ports

import (
	"context"

	"github.com/bnema/mafia-engine/internal/domain"
)

// SessionStore persists whole sessions keyed by domain.Session.Key.
// Get returns domain.ErrSessionNotFound for unknown keys.
type SessionStore interface {
	Get(ctx context.Context, key domain.SessionKey) (domain.Session, error)
	Put(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, key domain.SessionKey) error
	List(ctx context.Context) ([]domain.Session, error)
}
