package ports

import (
	"context"

	"github.com/bnema/mafia-engine/internal/domain"
)

type Notifier interface {
	NotifyChannel(ctx context.Context, key domain.SessionKey, text string) error
	NotifyUser(ctx context.Context, playerID domain.PlayerID, text string) error
	// RequestPrivateChannel opens a channel limited to members and returns its reference.
	RequestPrivateChannel(ctx context.Context, key domain.SessionKey, members []domain.PlayerID) (string, error)
	UpdateRenderedRoster(ctx context.Context, key domain.SessionKey) error
	UpdateRenderedTally(ctx context.Context, key domain.SessionKey) error
}
