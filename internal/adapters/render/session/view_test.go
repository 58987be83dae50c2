package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/mafia-engine/internal/domain"
)

var now = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func daySession() domain.Session {
	session := domain.NewSession("chan-1", "", 100, domain.SessionConfig{
		MinPlayers:     5,
		MaxPlayers:     domain.IntPtr(13),
		SignupDeadline: now.Add(-time.Hour),
		DayDuration:    24 * time.Hour,
		NightDuration:  8 * time.Hour,
	})
	session.Players = []domain.Player{
		{ID: 1, Status: domain.PlayerAlive, DisplayName: "alice", Role: domain.RoleMafia},
		{ID: 2, Status: domain.PlayerAlive, DisplayName: "bob"},
		{ID: 3, Status: domain.PlayerAlive, DisplayName: "carol"},
		{ID: 4, Status: domain.PlayerAlive, DisplayName: "dave"},
		{ID: 5, Status: domain.PlayerDead, DisplayName: "erin"},
	}
	session.SyntheticPlayers = []domain.Player{
		{ID: -1, Status: domain.PlayerAlive, DisplayName: "Dummy1"},
	}
	session.Phase = domain.Phase{Name: domain.PhaseDay, Number: 2, EndsAt: now.Add(13 * time.Hour)}
	return session
}

func TestRenderStatus(t *testing.T) {
	output, err := Render(ViewStatus, daySession(), RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "Mafia game chan-1")
	assert.Contains(t, output, "host: player 100")
	assert.Contains(t, output, "phase: DAY 2")
	assert.Contains(t, output, "ends in 13 hours (07:00)")
	assert.Contains(t, output, "players: 5 alive / 6")
	assert.Contains(t, output, "[")
	assert.NotContains(t, output, "waiting for host")
}

func TestRenderStatusAfterHandledDeadline(t *testing.T) {
	session := daySession()
	session.Phase.EndsAt = now.Add(-time.Minute)
	session.Phase.DeadlineHandled = true

	output, err := Render(ViewStatus, session, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "deadline passed")
	assert.Contains(t, output, "[waiting for host]")
}

func TestRenderRoster(t *testing.T) {
	session := daySession()
	session.Players[3].Tentative = true

	output, err := Render(ViewRoster, session, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Roster (6/13)")
	assert.Contains(t, output, "alice")
	assert.Contains(t, output, "(tentative)")
	assert.Contains(t, output, "(dead)")
	assert.Contains(t, output, "(synthetic)")
	assert.NotContains(t, output, "Mafia")
}

func TestRenderRosterRevealsRoles(t *testing.T) {
	output, err := Render(ViewRoster, daySession(), RenderOptions{RevealRoles: true})

	require.NoError(t, err)
	assert.Contains(t, output, "- Mafia")
}

func TestRenderEmptyRoster(t *testing.T) {
	session := domain.NewSession("chan-2", "", 100, domain.SessionConfig{MinPlayers: 5, SignupDeadline: now})

	output, err := Render(ViewRoster, session, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Roster (0)")
	assert.Contains(t, output, "No players have joined yet.")
}

func TestRenderTally(t *testing.T) {
	session := daySession()
	session.Votes = map[domain.PlayerID]domain.PlayerID{1: 3, 2: 3, -1: 1}

	output, err := Render(ViewTally, session, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Day 2 vote count")
	assert.Contains(t, output, "majority: 3 of 5 alive")
	assert.Contains(t, output, "carol (2): alice, bob - 1 to hammer")
	assert.Contains(t, output, "alice (1): Dummy1 - 2 to hammer")
	assert.Contains(t, output, "not voting: carol, dave")
	assert.NotContains(t, output, "hammered")
}

func TestRenderTallyShowsHammer(t *testing.T) {
	session := daySession()
	session.Votes = map[domain.PlayerID]domain.PlayerID{1: 4, 2: 4, 3: 4}

	output, err := Render(ViewTally, session, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "dave (3): alice, bob, carol")
	assert.Contains(t, output, "dave has been hammered")
}

func TestFormatDeadline(t *testing.T) {
	assert.Equal(t, "ends in 1 minute (18:00)", formatDeadline(now.Add(30*time.Second), now))
	assert.Equal(t, "ends in 2 days (18:00 on 03 Mar)", formatDeadline(now.Add(48*time.Hour), now))
	assert.Equal(t, "ends 2026-03-01T18:00:00Z", formatDeadline(now, time.Time{}))
}
