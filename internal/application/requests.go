package application

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/mafia-engine/internal/domain"
)

// ErrInvalidInput marks raw user input that could not be parsed.
var ErrInvalidInput = errors.New("invalid input")

// StartOptions is the raw, user-facing form of StartSessionCommand shared by the CLI and the HTTP API.
type StartOptions struct {
	GuildID        string
	Preset         string
	MinPlayers     int
	MaxPlayers     int
	Signup         string
	Day            string
	Night          string
	NeutralsTeamed bool
	RoleDensity    string
	GameLength     string
}

// BuildStartCommand parses opts. An explicit MinPlayers or MaxPlayers overrides the preset.
func BuildStartCommand(key domain.SessionKey, host domain.PlayerID, opts StartOptions) (StartSessionCommand, error) {
	cmd := StartSessionCommand{
		Key:            key,
		GuildID:        opts.GuildID,
		HostID:         host,
		NeutralsTeamed: opts.NeutralsTeamed,
	}
	if strings.TrimSpace(string(key)) == "" {
		return StartSessionCommand{}, fmt.Errorf("%w: session key is required", ErrInvalidInput)
	}

	if opts.Preset != "" {
		preset, ok := domain.LookupPlayerCapPreset(opts.Preset)
		if !ok {
			return StartSessionCommand{}, fmt.Errorf("%w: unknown player cap preset %q", ErrInvalidInput, opts.Preset)
		}
		cmd.MinPlayers = preset.Min
		cmd.MaxPlayers = preset.Max
	}
	if opts.MinPlayers > 0 {
		cmd.MinPlayers = opts.MinPlayers
	}
	if opts.MaxPlayers > 0 {
		cmd.MaxPlayers = domain.IntPtr(opts.MaxPlayers)
	}

	var err error
	if cmd.RoleDensity, err = domain.ParseRoleDensity(opts.RoleDensity); err != nil {
		return StartSessionCommand{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if cmd.GameLength, err = domain.ParseGameLength(opts.GameLength); err != nil {
		return StartSessionCommand{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if opts.Signup != "" {
		if cmd.SignupDuration, err = domain.ParseSignupDuration(opts.Signup); err != nil {
			return StartSessionCommand{}, err
		}
	}
	if cmd.DayDuration, err = parsePhaseDuration("day", opts.Day); err != nil {
		return StartSessionCommand{}, err
	}
	if cmd.NightDuration, err = parsePhaseDuration("night", opts.Night); err != nil {
		return StartSessionCommand{}, err
	}
	return cmd, nil
}

func parsePhaseDuration(name, raw string) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s duration %q: %v", ErrInvalidInput, name, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s duration must be positive", domain.ErrInvalidDuration, name)
	}
	return d, nil
}

// ParsePhase accepts a phase name in any case.
func ParsePhase(raw string) (domain.PhaseName, error) {
	name := domain.PhaseName(strings.ToUpper(strings.TrimSpace(raw)))
	switch name {
	case domain.PhaseDay, domain.PhaseNight:
		return name, nil
	default:
		return "", fmt.Errorf("%w: phase must be day or night, got %q", ErrInvalidInput, raw)
	}
}

// ParsePlayerStatus accepts alive/dead and the kill/revive verbs.
func ParsePlayerStatus(raw string) (domain.PlayerStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "alive", "revive":
		return domain.PlayerAlive, nil
	case "dead", "kill":
		return domain.PlayerDead, nil
	default:
		return "", fmt.Errorf("%w: player status must be alive or dead, got %q", ErrInvalidInput, raw)
	}
}
