package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualTransitions(t *testing.T) {
	s, now := newDaySession(t, 5)
	require.NoError(t, s.CastVote(1, 2))

	require.ErrorIs(t, s.AdvanceTo(PhaseDay, now), ErrInvalidPhase)

	later := now.Add(3 * time.Hour)
	require.NoError(t, s.AdvanceTo(PhaseNight, later))
	assert.Equal(t, PhaseNight, s.Phase.Name)
	assert.Equal(t, 1, s.Phase.Number)
	assert.Equal(t, later.Add(s.Config.NightDuration), s.Phase.EndsAt)
	assert.Empty(t, s.Votes)

	require.ErrorIs(t, s.AdvanceTo(PhaseNight, later), ErrInvalidPhase)

	require.NoError(t, s.AdvanceTo(PhaseDay, later))
	assert.Equal(t, PhaseDay, s.Phase.Name)
	assert.Equal(t, 2, s.Phase.Number)
	assert.Equal(t, later.Add(s.Config.DayDuration), s.Phase.EndsAt)
}

func TestTwilightAdvancesToNight(t *testing.T) {
	s, now := newDaySession(t, 3)
	require.NoError(t, s.EnterTwilight(now))

	require.False(t, s.CanAdvanceTo(PhaseDay))
	require.NoError(t, s.AdvanceTo(PhaseNight, now))
	assert.Equal(t, PhaseNight, s.Phase.Name)
}

func TestSignupCannotBeAdvancedManually(t *testing.T) {
	s := newSignupSession(t, nil)

	require.ErrorIs(t, s.AdvanceTo(PhaseDay, time.Now()), ErrInvalidPhase)
	require.ErrorIs(t, s.AdvanceTo(PhaseNight, time.Now()), ErrInvalidPhase)
	require.ErrorIs(t, s.AdvanceTo(PhaseCancelled, time.Now()), ErrInvalidPhase)
}

func TestCancelIsTerminal(t *testing.T) {
	s := newSignupSession(t, nil)

	require.NoError(t, s.Cancel())
	assert.True(t, s.Terminal())
	require.ErrorIs(t, s.Cancel(), ErrInvalidPhase)
	assert.False(t, s.Phase.Due(s.Phase.EndsAt.Add(time.Hour)))
}

func TestDue(t *testing.T) {
	s, now := newDaySession(t, 3)

	assert.False(t, s.Phase.Due(now))
	assert.True(t, s.Phase.Due(s.Phase.EndsAt))
	assert.True(t, s.Phase.Due(s.Phase.EndsAt.Add(time.Second)))

	s.MarkDeadlineHandled()
	assert.False(t, s.Phase.Due(s.Phase.EndsAt.Add(time.Second)))
}

func TestExtendSignupOnlyOnce(t *testing.T) {
	s := newSignupSession(t, nil)
	deadline := s.Phase.EndsAt
	require.False(t, s.SignupExtended())

	require.NoError(t, s.ExtendSignup())
	assert.Equal(t, deadline.Add(600*time.Second), s.Phase.EndsAt)
	assert.True(t, s.SignupExtended())

	require.ErrorIs(t, s.ExtendSignup(), ErrInvalidPhase)
	assert.Equal(t, deadline.Add(600*time.Second), s.Phase.EndsAt)
}

func TestRemaining(t *testing.T) {
	p := Phase{Name: PhaseDay, EndsAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}

	assert.Equal(t, 2*time.Hour, p.Remaining(p.EndsAt.Add(-2*time.Hour)))
	assert.Equal(t, time.Duration(0), p.Remaining(p.EndsAt.Add(time.Minute)))
}
