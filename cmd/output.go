package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	rendersession "github.com/bnema/mafia-engine/internal/adapters/render/session"
	"github.com/bnema/mafia-engine/internal/domain"
)

type sessionSummary struct {
	Key       string    `json:"key"`
	Host      int64     `json:"host"`
	Phase     string    `json:"phase"`
	Number    int       `json:"number"`
	EndsAt    time.Time `json:"ends_at"`
	Players   int       `json:"players"`
	Alive     int       `json:"alive"`
	DebugMode bool      `json:"debug_mode"`
}

func summarize(session domain.Session) sessionSummary {
	return sessionSummary{
		Key:       string(session.Key),
		Host:      int64(session.HostID),
		Phase:     string(session.Phase.Name),
		Number:    session.Phase.Number,
		EndsAt:    session.Phase.EndsAt,
		Players:   session.RosterSize(),
		Alive:     len(session.AlivePlayers()),
		DebugMode: session.DebugMode,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderSession prints a view of session. Roles are shown to the host in debug mode only.
func (a *app) renderSession(cmd *cobra.Command, view rendersession.View, session domain.Session) error {
	rendered, err := a.renderer(view, session, rendersession.RenderOptions{
		Now:         a.now(),
		RevealRoles: session.DebugMode && session.IsHost(domain.PlayerID(a.actorID)),
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", view, err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func parseView(raw string) (rendersession.View, error) {
	switch view := rendersession.View(strings.ToLower(strings.TrimSpace(raw))); view {
	case rendersession.ViewStatus, rendersession.ViewRoster, rendersession.ViewTally:
		return view, nil
	default:
		return "", fmt.Errorf("unknown view %q (status|roster|tally)", raw)
	}
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
