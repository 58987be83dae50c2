// Package multi fans notifications out to several notifiers.
package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/mafia-engine/internal/domain"
	"github.com/bnema/mafia-engine/internal/ports"
)

// Notifier delivers every message to all sinks. Private channels are opened
// on the first sink that can provide one.
type Notifier struct {
	sinks []ports.Notifier
}

var _ ports.Notifier = (*Notifier)(nil)

var errNoSinks = errors.New("multi notifier needs at least one sink")

func New(sinks ...ports.Notifier) *Notifier {
	n, err := NewChecked(sinks...)
	if err != nil {
		panic(err)
	}

	return n
}

func NewChecked(sinks ...ports.Notifier) (*Notifier, error) {
	kept := make([]ports.Notifier, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}
	if len(kept) == 0 {
		return nil, errNoSinks
	}

	return &Notifier{sinks: kept}, nil
}

func (n *Notifier) NotifyChannel(ctx context.Context, key domain.SessionKey, text string) error {
	return n.each(ctx, "notify channel", func(sink ports.Notifier) error {
		return sink.NotifyChannel(ctx, key, text)
	})
}

func (n *Notifier) NotifyUser(ctx context.Context, playerID domain.PlayerID, text string) error {
	return n.each(ctx, "notify user", func(sink ports.Notifier) error {
		return sink.NotifyUser(ctx, playerID, text)
	})
}

func (n *Notifier) UpdateRenderedRoster(ctx context.Context, key domain.SessionKey) error {
	return n.each(ctx, "update roster", func(sink ports.Notifier) error {
		return sink.UpdateRenderedRoster(ctx, key)
	})
}

func (n *Notifier) UpdateRenderedTally(ctx context.Context, key domain.SessionKey) error {
	return n.each(ctx, "update tally", func(sink ports.Notifier) error {
		return sink.UpdateRenderedTally(ctx, key)
	})
}

func (n *Notifier) RequestPrivateChannel(ctx context.Context, key domain.SessionKey, members []domain.PlayerID) (string, error) {
	var errs []error
	for i, sink := range n.sinks {
		ref, err := sink.RequestPrivateChannel(ctx, key, members)
		if err == nil {
			return ref, nil
		}
		if shouldStop(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
	}

	return "", fmt.Errorf("request private channel: %w", errors.Join(errs...))
}

// each keeps going after a failing sink and reports every failure.
func (n *Notifier) each(ctx context.Context, op string, fn func(ports.Notifier) error) error {
	var errs []error
	for i, sink := range n.sinks {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := fn(sink); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%s: %w", op, errors.Join(errs...))
}

func shouldStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
