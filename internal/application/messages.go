package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/mafia-engine/internal/domain"
)

func signupOpenedMessage(session domain.Session) string {
	capacity := "no cap"
	if session.Config.MaxPlayers != nil {
		capacity = fmt.Sprintf("max %d", *session.Config.MaxPlayers)
	}
	return fmt.Sprintf("Signups are open, hosted by %d (min %d, %s). Signups close at %s.",
		session.HostID, session.Config.MinPlayers, capacity, formatDeadline(session.Phase.EndsAt))
}

func evictedMessage(key domain.SessionKey) string {
	return fmt.Sprintf("Your tentative signup in %s was removed to make room for a confirmed player.", key)
}

func roleMessage(session domain.Session, player domain.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your role in %s: %s.", session.Key, player.Role)
	if player.Role == domain.RoleMafia && len(session.Factions.Mafia) > 1 {
		teammates := make([]string, 0, len(session.Factions.Mafia)-1)
		for _, id := range session.Factions.Mafia {
			if id != player.ID {
				teammates = append(teammates, session.DisplayName(id))
			}
		}
		fmt.Fprintf(&b, " Your teammates: %s.", strings.Join(teammates, ", "))
	}
	return b.String()
}

func phaseStartedMessage(session domain.Session) string {
	name := "Day"
	if session.Phase.Name == domain.PhaseNight {
		name = "Night"
	}
	return fmt.Sprintf("%s %d has begun. It ends at %s.", name, session.Phase.Number, formatDeadline(session.Phase.EndsAt))
}

func hammerMessage(session domain.Session, target domain.PlayerID) string {
	return fmt.Sprintf("%s has been hammered. Twilight ends at %s.", session.DisplayName(target), formatDeadline(session.Phase.EndsAt))
}

func hostHammerMessage(session domain.Session, target domain.PlayerID) string {
	return fmt.Sprintf("Day %d in %s: %s reached majority. Resolve the elimination before twilight ends.",
		session.Phase.Number, session.Key, session.DisplayName(target))
}

func signupExtendedMessage(session domain.Session) string {
	return fmt.Sprintf("Not enough players yet (%d of %d). Signups are extended until %s.",
		session.RosterSize(), session.Config.MinPlayers, formatDeadline(session.Phase.EndsAt))
}

func signupCancelledMessage(session domain.Session) string {
	return fmt.Sprintf("Signups closed with %d of %d players. The game has been cancelled.",
		session.RosterSize(), session.Config.MinPlayers)
}

func signupClosedMessage(session domain.Session) string {
	return fmt.Sprintf("Signups are closed with %d players. Waiting for the host to set up roles.", session.RosterSize())
}

func hostRoleSetupMessage(session domain.Session) string {
	suggested := domain.SuggestedMafiaCount(session.RosterSize(), session.Config.RoleDensity)
	return fmt.Sprintf("Signups in %s are closed with %d players. Set faction counts (suggested mafia: %d) and start the game.",
		session.Key, session.RosterSize(), suggested)
}

func phaseExpiredMessage(session domain.Session) string {
	name := "Day"
	if session.Phase.Name == domain.PhaseNight {
		name = "Night"
	}
	return fmt.Sprintf("%s %d has ended. Waiting for the host.", name, session.Phase.Number)
}

func cancelledMessage(requester domain.PlayerID) string {
	return fmt.Sprintf("The game has been cancelled by %d.", requester)
}

func formatDeadline(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
