package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type RoleDensity string

const (
	DensityVanilla RoleDensity = "VANILLA"
	DensityLight   RoleDensity = "LIGHT"
	DensityHeavy   RoleDensity = "HEAVY"
)

func ParseRoleDensity(raw string) (RoleDensity, error) {
	switch RoleDensity(strings.ToUpper(strings.TrimSpace(raw))) {
	case DensityVanilla:
		return DensityVanilla, nil
	case DensityLight, "":
		return DensityLight, nil
	case DensityHeavy:
		return DensityHeavy, nil
	default:
		return "", fmt.Errorf("unknown role density %q", raw)
	}
}

type GameLength string

const (
	GameLengthQuick    GameLength = "QUICK"
	GameLengthLong     GameLength = "LONG"
	GameLengthExtended GameLength = "EXTENDED"
)

func ParseGameLength(raw string) (GameLength, error) {
	switch GameLength(strings.ToUpper(strings.TrimSpace(raw))) {
	case GameLengthQuick:
		return GameLengthQuick, nil
	case GameLengthLong, "":
		return GameLengthLong, nil
	case GameLengthExtended:
		return GameLengthExtended, nil
	default:
		return "", fmt.Errorf("unknown game length %q", raw)
	}
}

// PhaseDurations returns the default day and night durations of a game length.
func (l GameLength) PhaseDurations() (day, night time.Duration) {
	switch l {
	case GameLengthQuick:
		return 30 * time.Minute, 10 * time.Minute
	case GameLengthExtended:
		return 7 * 24 * time.Hour, 48 * time.Hour
	default:
		return DefaultDayDuration, DefaultNightDuration
	}
}

const (
	DefaultMinPlayers     = 5
	DefaultMaxPlayers     = 13
	DefaultDayDuration    = 24 * time.Hour
	DefaultNightDuration  = 8 * time.Hour
	DefaultSignupDuration = 24 * time.Hour

	MinSignupDuration = 5 * time.Minute
	MaxSignupDuration = 14 * 24 * time.Hour
)

type SessionConfig struct {
	MinPlayers     int
	MaxPlayers     *int
	SignupDeadline time.Time
	DayDuration    time.Duration
	NightDuration  time.Duration
	NeutralsTeamed bool
	RoleDensity    RoleDensity
	GameLength     GameLength
}

func DefaultSessionConfig(now time.Time) SessionConfig {
	return SessionConfig{
		MinPlayers:     DefaultMinPlayers,
		MaxPlayers:     IntPtr(DefaultMaxPlayers),
		SignupDeadline: truncate(now.Add(DefaultSignupDuration)),
		DayDuration:    DefaultDayDuration,
		NightDuration:  DefaultNightDuration,
		RoleDensity:    DensityLight,
		GameLength:     GameLengthLong,
	}
}

func (c SessionConfig) Validate() error {
	if c.MinPlayers < 1 {
		return fmt.Errorf("%w: min players must be at least 1", ErrInvalidCount)
	}
	if c.MaxPlayers != nil && *c.MaxPlayers < c.MinPlayers {
		return fmt.Errorf("%w: max players %d below min players %d", ErrInvalidCount, *c.MaxPlayers, c.MinPlayers)
	}
	if c.DayDuration <= 0 || c.NightDuration <= 0 {
		return fmt.Errorf("%w: phase durations must be positive", ErrInvalidDuration)
	}
	return nil
}

type PlayerCapPreset struct {
	Name string
	Min  int
	Max  *int
}

var PlayerCapPresets = []PlayerCapPreset{
	{Name: "micro", Min: 5, Max: IntPtr(7)},
	{Name: "normal", Min: 7, Max: IntPtr(13)},
	{Name: "large", Min: 14, Max: IntPtr(25)},
	{Name: "unlimited", Min: 5},
}

func LookupPlayerCapPreset(name string) (PlayerCapPreset, bool) {
	for _, preset := range PlayerCapPresets {
		if strings.EqualFold(preset.Name, name) {
			return PlayerCapPreset{Name: preset.Name, Min: preset.Min, Max: cloneInt(preset.Max)}, true
		}
	}
	return PlayerCapPreset{}, false
}

// SuggestedMafiaCount is the mafia size offered to a host configuring roles.
func SuggestedMafiaCount(total int, density RoleDensity) int {
	var count int
	switch density {
	case DensityVanilla:
		count = total / 4
	case DensityHeavy:
		count = total / 2
	default:
		count = total / 3
	}
	return max(1, count)
}

// ParseSignupDuration accepts "30m", "2h", "1d" or a plain number of seconds.
func ParseSignupDuration(raw string) (time.Duration, error) {
	value := strings.TrimSpace(strings.ToLower(raw))
	if value == "" {
		return 0, fmt.Errorf("%w: empty duration", ErrInvalidDuration)
	}

	unit := time.Second
	switch value[len(value)-1] {
	case 'm':
		unit = time.Minute
		value = value[:len(value)-1]
	case 'h':
		unit = time.Hour
		value = value[:len(value)-1]
	case 'd':
		unit = 24 * time.Hour
		value = value[:len(value)-1]
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not like 30m, 2h, 1d or seconds", ErrInvalidDuration, raw)
	}

	duration := time.Duration(n) * unit
	if duration < MinSignupDuration {
		return 0, fmt.Errorf("%w: signup must last at least 5 minutes", ErrInvalidDuration)
	}
	if duration > MaxSignupDuration {
		return 0, fmt.Errorf("%w: signup cannot exceed 14 days", ErrInvalidDuration)
	}
	return duration, nil
}
