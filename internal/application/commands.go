package application

import (
	"time"

	"github.com/bnema/mafia-engine/internal/domain"
)

type StartSessionCommand struct {
	Key            domain.SessionKey
	GuildID        string
	HostID         domain.PlayerID
	MinPlayers     int
	MaxPlayers     *int
	SignupDuration time.Duration
	DayDuration    time.Duration
	NightDuration  time.Duration
	NeutralsTeamed bool
	RoleDensity    domain.RoleDensity
	GameLength     domain.GameLength
}

type JoinCommand struct {
	Key         domain.SessionKey
	PlayerID    domain.PlayerID
	DisplayName string
}

type WithdrawCommand struct {
	Key      domain.SessionKey
	PlayerID domain.PlayerID
}

type SetFactionCountsCommand struct {
	Key            domain.SessionKey
	RequesterID    domain.PlayerID
	MafiaCount     int
	NeutralCount   int
	NeutralsTeamed bool
}

type AssignRolesCommand struct {
	Key         domain.SessionKey
	RequesterID domain.PlayerID
}

type AdvancePhaseCommand struct {
	Key         domain.SessionKey
	RequesterID domain.PlayerID
	Target      domain.PhaseName
}

type CastVoteCommand struct {
	Key      domain.SessionKey
	VoterID  domain.PlayerID
	TargetID domain.PlayerID
}

type RetractVoteCommand struct {
	Key     domain.SessionKey
	VoterID domain.PlayerID
}

type CancelSessionCommand struct {
	Key         domain.SessionKey
	RequesterID domain.PlayerID
	// Elevated marks the moderator force-end path.
	Elevated bool
}

type DeleteSessionCommand struct {
	Key         domain.SessionKey
	RequesterID domain.PlayerID
	Elevated    bool
}

type SetDebugModeCommand struct {
	Key         domain.SessionKey
	RequesterID domain.PlayerID
	Enabled     bool
}

type AddSyntheticPlayerCommand struct {
	Key         domain.SessionKey
	RequesterID domain.PlayerID
	Name        string
	Role        string
}

type RemoveSyntheticPlayerCommand struct {
	Key         domain.SessionKey
	RequesterID domain.PlayerID
	Name        string
}

type SetPlayerStatusCommand struct {
	Key         domain.SessionKey
	RequesterID domain.PlayerID
	PlayerID    domain.PlayerID
	Status      domain.PlayerStatus
}

type AssignDebugRoleCommand struct {
	Key         domain.SessionKey
	RequesterID domain.PlayerID
	PlayerID    domain.PlayerID
	Role        string
}

// SyntheticVoteCommand lets the host vote on behalf of a synthetic player.
type SyntheticVoteCommand struct {
	Key         domain.SessionKey
	RequesterID domain.PlayerID
	Voter       string
	// Target is a player id or display name. Empty retracts the vote.
	Target string
}
