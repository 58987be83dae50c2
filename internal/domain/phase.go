package domain

import (
	"fmt"
	"time"
)

type PhaseName string

const (
	PhaseSignup    PhaseName = "SIGNUP"
	PhaseDay       PhaseName = "DAY"
	PhaseNight     PhaseName = "NIGHT"
	PhaseTwilight  PhaseName = "TWILIGHT"
	PhaseEnded     PhaseName = "ENDED"
	PhaseCancelled PhaseName = "CANCELLED"
)

const (
	TwilightDuration  = 60 * time.Second
	SignupGracePeriod = 10 * time.Minute
)

func (n PhaseName) Terminal() bool {
	return n == PhaseEnded || n == PhaseCancelled
}

type Phase struct {
	Name   PhaseName
	Number int
	EndsAt time.Time
	// DeadlineHandled is set once the expiry of this phase instance has been processed.
	DeadlineHandled bool
}

func (p Phase) Due(now time.Time) bool {
	if p.Name.Terminal() || p.DeadlineHandled || p.EndsAt.IsZero() {
		return false
	}
	return !p.EndsAt.After(now)
}

func (p Phase) Remaining(now time.Time) time.Duration {
	return max(0, p.EndsAt.Sub(now))
}

func (s Session) Terminal() bool {
	return s.Phase.Name.Terminal()
}

// SignupOpen reports whether roster changes are still accepted.
func (s Session) SignupOpen() bool {
	return s.Phase.Name == PhaseSignup && !s.Phase.DeadlineHandled
}

// SignupExtended reports whether the signup deadline has already been pushed back once.
func (s Session) SignupExtended() bool {
	return !s.Config.SignupDeadline.Equal(s.Phase.EndsAt)
}

var manualTransitions = map[PhaseName][]PhaseName{
	PhaseNight:    {PhaseDay},
	PhaseDay:      {PhaseNight},
	PhaseTwilight: {PhaseNight},
}

func (s Session) CanAdvanceTo(target PhaseName) bool {
	for _, allowed := range manualTransitions[s.Phase.Name] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AdvanceTo applies a host-triggered DAY or NIGHT transition.
func (s *Session) AdvanceTo(target PhaseName, now time.Time) error {
	if target != PhaseDay && target != PhaseNight {
		return fmt.Errorf("%w: cannot advance to %s", ErrInvalidPhase, target)
	}
	if !s.CanAdvanceTo(target) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidPhase, s.Phase.Name, target)
	}
	if target == PhaseDay {
		s.EnterDay(now)
	} else {
		s.EnterNight(now)
	}
	return nil
}

func (s *Session) EnterDay(now time.Time) {
	s.Phase = Phase{
		Name:   PhaseDay,
		Number: s.Phase.Number + 1,
		EndsAt: truncate(now.Add(s.Config.DayDuration)),
	}
	s.clearVotes()
}

func (s *Session) EnterNight(now time.Time) {
	s.Phase = Phase{
		Name:   PhaseNight,
		Number: s.Phase.Number,
		EndsAt: truncate(now.Add(s.Config.NightDuration)),
	}
	s.clearVotes()
}

// EnterTwilight follows an elimination hammer; votes are kept.
func (s *Session) EnterTwilight(now time.Time) error {
	if s.Phase.Name != PhaseDay {
		return fmt.Errorf("%w: twilight only follows a day", ErrInvalidPhase)
	}
	s.Phase = Phase{
		Name:   PhaseTwilight,
		Number: s.Phase.Number,
		EndsAt: truncate(now.Add(TwilightDuration)),
	}
	return nil
}

func (s *Session) Cancel() error {
	if s.Terminal() {
		return fmt.Errorf("%w: session already %s", ErrInvalidPhase, s.Phase.Name)
	}
	s.Phase = Phase{
		Name:   PhaseCancelled,
		Number: s.Phase.Number,
		EndsAt: s.Phase.EndsAt,
	}
	return nil
}

// ExtendSignup pushes the original deadline back by the grace period, once.
func (s *Session) ExtendSignup() error {
	if s.Phase.Name != PhaseSignup {
		return fmt.Errorf("%w: only signup can be extended", ErrInvalidPhase)
	}
	if s.SignupExtended() {
		return fmt.Errorf("%w: signup already extended", ErrInvalidPhase)
	}
	s.Phase.EndsAt = truncate(s.Phase.EndsAt.Add(SignupGracePeriod))
	return nil
}

func (s *Session) CloseSignup() {
	s.Phase.DeadlineHandled = true
}

func (s *Session) MarkDeadlineHandled() {
	s.Phase.DeadlineHandled = true
}

func (s *Session) clearVotes() {
	s.Votes = map[PlayerID]PlayerID{}
}
