package session

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/mafia-engine/internal/domain"
)

// hammerHintWindow is how close a target must be before the tally shows a hint.
const hammerHintWindow = 3

type RenderOptions struct {
	Now         time.Time
	RevealRoles bool
}

func renderView(view View, session domain.Session, opts RenderOptions, s styles) string {
	switch view {
	case ViewRoster:
		return renderRoster(session, opts, s)
	case ViewTally:
		return renderTally(session, s)
	default:
		return renderStatus(session, opts, s)
	}
}

func renderStatus(session domain.Session, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Mafia game " + string(session.Key)),
		s.header.Render(fmt.Sprintf("host: %s", session.DisplayName(session.HostID))),
		s.detail.Render("phase: " + phaseLabel(session.Phase)),
	}

	if !session.Terminal() {
		lines = append(lines, s.detail.Render(formatDeadline(session.Phase.EndsAt, opts.Now)))
		if total := phaseLength(session); total > 0 && !opts.Now.IsZero() {
			lines = append(lines, renderProgressBar(session.Phase.Remaining(opts.Now), total, 24, s))
		}
		if session.Phase.DeadlineHandled {
			lines = append(lines, s.warning.Render("[waiting for host]"))
		}
	}

	alive := len(session.AlivePlayers())
	lines = append(lines, s.detail.Render(fmt.Sprintf("players: %d alive / %d", alive, session.RosterSize())))
	if session.DebugMode {
		lines = append(lines, s.warning.Render("[debug mode]"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRoster(session domain.Session, opts RenderOptions, s styles) string {
	capacity := fmt.Sprintf("%d", session.RosterSize())
	if session.Config.MaxPlayers != nil {
		capacity = fmt.Sprintf("%d/%d", session.RosterSize(), *session.Config.MaxPlayers)
	}
	lines := []string{s.title.Render(fmt.Sprintf("Roster (%s)", capacity))}

	players := session.AllPlayers()
	if len(players) == 0 {
		lines = append(lines, s.empty.Render("No players have joined yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, player := range players {
		lines = append(lines, rosterLine(i+1, session, player, opts, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func rosterLine(n int, session domain.Session, player domain.Player, opts RenderOptions, s styles) string {
	name := session.DisplayName(player.ID)
	style := s.player
	var tags []string
	switch {
	case !player.Alive():
		style = s.dead
		tags = append(tags, "dead")
	case player.Tentative:
		style = s.tentative
		tags = append(tags, "tentative")
	case player.Synthetic():
		style = s.synthetic
	}
	if player.Synthetic() {
		tags = append(tags, "synthetic")
	}

	line := fmt.Sprintf("%2d. %s", n, style.Render(name))
	if len(tags) > 0 {
		line += " " + s.header.Render("("+strings.Join(tags, ", ")+")")
	}
	if opts.RevealRoles && player.Role != "" {
		line += " " + s.detail.Render("- "+player.Role)
	}
	return line
}

func renderTally(session domain.Session, s styles) string {
	tally := session.Tally()
	lines := []string{
		s.title.Render(fmt.Sprintf("Day %d vote count", tally.Day)),
		s.header.Render(fmt.Sprintf("majority: %d of %d alive", tally.Majority, tally.Alive)),
	}

	if len(tally.Entries) == 0 {
		lines = append(lines, s.empty.Render("No votes yet."))
	}
	for _, entry := range tally.Entries {
		voters := make([]string, 0, len(entry.Voters))
		for _, voter := range entry.Voters {
			voters = append(voters, session.DisplayName(voter))
		}
		line := fmt.Sprintf("%s (%d): %s", s.player.Render(session.DisplayName(entry.Target)), entry.Count, strings.Join(voters, ", "))
		if entry.ToHammer > 0 && entry.ToHammer <= hammerHintWindow {
			line += " " + s.hint.Render(fmt.Sprintf("- %d to hammer", entry.ToHammer))
		}
		lines = append(lines, line)
	}

	if len(tally.NotVoting) > 0 {
		names := make([]string, 0, len(tally.NotVoting))
		for _, id := range tally.NotVoting {
			names = append(names, session.DisplayName(id))
		}
		lines = append(lines, s.section.Render(s.detail.Render("not voting: "+strings.Join(names, ", "))))
	}

	if tally.Hammered {
		lines = append(lines, s.warning.Render(session.DisplayName(tally.HammeredID)+" has been hammered"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func phaseLabel(phase domain.Phase) string {
	switch phase.Name {
	case domain.PhaseDay, domain.PhaseNight, domain.PhaseTwilight:
		return fmt.Sprintf("%s %d", phase.Name, phase.Number)
	default:
		return string(phase.Name)
	}
}

func phaseLength(session domain.Session) time.Duration {
	switch session.Phase.Name {
	case domain.PhaseDay:
		return session.Config.DayDuration
	case domain.PhaseNight:
		return session.Config.NightDuration
	case domain.PhaseTwilight:
		return domain.TwilightDuration
	default:
		return 0
	}
}

func renderProgressBar(remaining, total time.Duration, width int, s styles) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	fraction := float64(remaining) / float64(total)
	filled := int(math.Round(float64(width) * fraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func formatDeadline(endsAt, now time.Time) string {
	if endsAt.IsZero() {
		return "ends: unknown"
	}
	if now.IsZero() {
		return "ends " + endsAt.UTC().Format(time.RFC3339)
	}
	if !endsAt.After(now) {
		return "deadline passed"
	}

	remaining := endsAt.Sub(now)
	switch {
	case remaining < time.Hour:
		minutes := int(math.Ceil(remaining.Minutes()))
		return fmt.Sprintf("ends in %d %s (%s)", minutes, plural(minutes, "minute"), endsAt.UTC().Format("15:04"))
	case remaining < 24*time.Hour:
		hours := int(math.Ceil(remaining.Hours()))
		return fmt.Sprintf("ends in %d %s (%s)", hours, plural(hours, "hour"), endsAt.UTC().Format("15:04"))
	default:
		days := int(math.Ceil(remaining.Hours() / 24))
		return fmt.Sprintf("ends in %d %s (%s)", days, plural(days, "day"), endsAt.UTC().Format("15:04 on 02 Jan"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
