package application

import (
	"context"

	"github.com/bnema/mafia-engine/internal/domain"
	"github.com/bnema/mafia-engine/internal/ports"
)

type notice struct {
	kind string
	send func(ctx context.Context, n ports.Notifier) error
}

// outbox collects notifications while a session is being mutated. They are
// sent only after the session has been persisted.
type outbox []notice

func (o *outbox) channel(key domain.SessionKey, text string) {
	*o = append(*o, notice{kind: "channel", send: func(ctx context.Context, n ports.Notifier) error {
		return n.NotifyChannel(ctx, key, text)
	}})
}

// user skips synthetic players, they have no inbox.
func (o *outbox) user(id domain.PlayerID, text string) {
	if id < 0 {
		return
	}
	*o = append(*o, notice{kind: "user", send: func(ctx context.Context, n ports.Notifier) error {
		return n.NotifyUser(ctx, id, text)
	}})
}

func (o *outbox) roster(key domain.SessionKey) {
	*o = append(*o, notice{kind: "roster", send: func(ctx context.Context, n ports.Notifier) error {
		return n.UpdateRenderedRoster(ctx, key)
	}})
}

func (o *outbox) tally(key domain.SessionKey) {
	*o = append(*o, notice{kind: "tally", send: func(ctx context.Context, n ports.Notifier) error {
		return n.UpdateRenderedTally(ctx, key)
	}})
}

// dispatch never fails the caller; a notifier error is logged and dropped.
func (s *Service) dispatch(ctx context.Context, key domain.SessionKey, out outbox) {
	if s.notifier == nil || len(out) == 0 {
		return
	}
	base := context.WithoutCancel(ctx)
	for _, n := range out {
		sendCtx, cancel := context.WithTimeout(base, s.notifyTimeout)
		err := n.send(sendCtx, s.notifier)
		cancel()
		if err != nil {
			s.logger.Warn().Err(err).Str("session", string(key)).Str("notice", n.kind).Msg("notification failed")
		}
	}
}
