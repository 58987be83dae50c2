// Package console prints notifications to a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	rendersession "github.com/bnema/mafia-engine/internal/adapters/render/session"
	"github.com/bnema/mafia-engine/internal/domain"
	"github.com/bnema/mafia-engine/internal/ports"
)

// SessionReader is the part of a session store the notifier needs to redraw views.
type SessionReader interface {
	Get(ctx context.Context, key domain.SessionKey) (domain.Session, error)
}

type Notifier struct {
	mu       sync.Mutex
	out      io.Writer
	sessions SessionReader
	channel  lipgloss.Style
	direct   lipgloss.Style
	private  lipgloss.Style
}

var _ ports.Notifier = (*Notifier)(nil)

func New(out io.Writer, sessions SessionReader) *Notifier {
	return &Notifier{
		out:      out,
		sessions: sessions,
		channel:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		direct:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		private:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

func (n *Notifier) NotifyChannel(ctx context.Context, key domain.SessionKey, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.print(n.channel.Render("#"+string(key)), text)
}

func (n *Notifier) NotifyUser(ctx context.Context, playerID domain.PlayerID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.print(n.direct.Render(fmt.Sprintf("@%d", playerID)), text)
}

func (n *Notifier) RequestPrivateChannel(ctx context.Context, key domain.SessionKey, members []domain.PlayerID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := "private-" + uuid.NewString()
	names := make([]string, 0, len(members))
	for _, id := range members {
		names = append(names, fmt.Sprintf("%d", id))
	}
	text := fmt.Sprintf("opened %s for %s", ref, strings.Join(names, ", "))
	if err := n.print(n.private.Render("#"+string(key)), text); err != nil {
		return "", err
	}
	return ref, nil
}

func (n *Notifier) UpdateRenderedRoster(ctx context.Context, key domain.SessionKey) error {
	return n.redraw(ctx, key, rendersession.ViewRoster)
}

func (n *Notifier) UpdateRenderedTally(ctx context.Context, key domain.SessionKey) error {
	return n.redraw(ctx, key, rendersession.ViewTally)
}

func (n *Notifier) redraw(ctx context.Context, key domain.SessionKey, view rendersession.View) error {
	if n.sessions == nil {
		return nil
	}
	session, err := n.sessions.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load session for %s: %w", view, err)
	}
	rendered, err := rendersession.Render(view, session, rendersession.RenderOptions{})
	if err != nil {
		return fmt.Errorf("render %s: %w", view, err)
	}
	return n.print(n.channel.Render("#"+string(key)), "\n"+rendered)
}

func (n *Notifier) print(prefix, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := fmt.Fprintf(n.out, "%s %s\n", prefix, text); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}
