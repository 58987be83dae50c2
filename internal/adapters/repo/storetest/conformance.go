// Package storetest checks that a ports.SessionStore implementation honours
// the storage contract. Every backend runs ValidateSessionStore from its own tests.
package storetest

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/mafia-engine/internal/domain"
	"github.com/bnema/mafia-engine/internal/ports"
)

// SampleSession returns a session mid-game with every optional field populated.
func SampleSession(key domain.SessionKey) domain.Session {
	deadline := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	session := domain.Session{
		Key:     key,
		GuildID: "guild-7",
		HostID:  1000,
		Config: domain.SessionConfig{
			MinPlayers:     5,
			MaxPlayers:     domain.IntPtr(13),
			SignupDeadline: deadline,
			DayDuration:    24 * time.Hour,
			NightDuration:  8 * time.Hour,
			NeutralsTeamed: true,
			RoleDensity:    domain.DensityHeavy,
			GameLength:     domain.GameLengthLong,
		},
		Players: []domain.Player{
			{ID: 1, Status: domain.PlayerAlive, Role: domain.RoleMafia, DisplayName: "alice", JoinSeq: 1},
			{ID: 2, Status: domain.PlayerDead, Role: "Cop", DisplayName: "bob", JoinSeq: 2},
			{ID: 3, Status: domain.PlayerAlive, Role: domain.RoleVanillaTownie, JoinSeq: 3},
			{ID: 4, Status: domain.PlayerAlive, Role: "Jester", JoinSeq: 5},
		},
		SyntheticPlayers: []domain.Player{
			{ID: -1, Status: domain.PlayerAlive, Role: domain.RoleVanillaTownie, DisplayName: "Dummy1", JoinSeq: 4},
		},
		Factions: domain.Factions{
			Mafia:   []domain.PlayerID{1},
			Neutral: []domain.PlayerID{4},
			Town:    []domain.PlayerID{2, 3, -1},
		},
		MafiaCount:   domain.IntPtr(1),
		NeutralCount: domain.IntPtr(1),
		Phase: domain.Phase{
			Name:   domain.PhaseDay,
			Number: 2,
			EndsAt: deadline.Add(48 * time.Hour),
		},
		Votes: map[domain.PlayerID]domain.PlayerID{1: 3, -1: 1},
		Refs: map[string]string{
			domain.RefSignupMessage: "msg-1",
			domain.RefTallyMessage:  "msg-2",
		},
		DebugMode: true,
		NextSeq:   5,
	}
	return session
}

// MinimalSession leaves every optional field empty.
func MinimalSession(key domain.SessionKey) domain.Session {
	return domain.NewSession(key, "", 42, domain.SessionConfig{
		MinPlayers:     5,
		SignupDeadline: time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC),
		DayDuration:    time.Hour,
		NightDuration:  time.Hour,
		RoleDensity:    domain.DensityVanilla,
		GameLength:     domain.GameLengthQuick,
	})
}

// AssignedSession is a freshly dealt game with no neutrals.
func AssignedSession(t *testing.T, key domain.SessionKey) domain.Session {
	t.Helper()
	session := MinimalSession(key)
	for i := 1; i <= 5; i++ {
		session.Players = append(session.Players, domain.Player{ID: domain.PlayerID(i), Status: domain.PlayerAlive, JoinSeq: uint64(i)})
	}
	session.NextSeq = 5
	session.MafiaCount = domain.IntPtr(1)
	session.NeutralCount = domain.IntPtr(0)

	assignment, err := domain.AssignRoles(session.PlayerIDs(), 1, 0, session.Config.RoleDensity, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	session.ApplyAssignment(assignment)
	session.EnterDay(session.Config.SignupDeadline)
	return session
}

func ValidateSessionStore(t *testing.T, store ports.SessionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		full := SampleSession("conformance-full")
		minimal := MinimalSession("conformance-minimal")
		require.NoError(t, store.Put(ctx, full))
		require.NoError(t, store.Put(ctx, minimal))

		got, err := store.Get(ctx, full.Key)
		require.NoError(t, err)
		assert.Equal(t, full, got)

		got, err = store.Get(ctx, minimal.Key)
		require.NoError(t, err)
		assert.Equal(t, minimal, got)
	})

	t.Run("round trip after dealing roles", func(t *testing.T) {
		assigned := AssignedSession(t, "conformance-assigned")
		require.NoError(t, store.Put(ctx, assigned))

		got, err := store.Get(ctx, assigned.Key)
		require.NoError(t, err)
		assert.Equal(t, assigned, got)
		assert.Nil(t, got.Factions.Neutral)
	})

	t.Run("put replaces", func(t *testing.T) {
		session := SampleSession("conformance-replace")
		require.NoError(t, store.Put(ctx, session))

		session.Phase = domain.Phase{Name: domain.PhaseCancelled, Number: 2, EndsAt: session.Phase.EndsAt}
		session.Votes = map[domain.PlayerID]domain.PlayerID{}
		require.NoError(t, store.Put(ctx, session))

		got, err := store.Get(ctx, session.Key)
		require.NoError(t, err)
		assert.Equal(t, session, got)
	})

	t.Run("list and delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, MinimalSession("conformance-list")))

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		keys := make([]domain.SessionKey, 0, len(sessions))
		for _, s := range sessions {
			keys = append(keys, s.Key)
		}
		assert.Contains(t, keys, domain.SessionKey("conformance-list"))

		require.NoError(t, store.Delete(ctx, "conformance-list"))
		_, err = store.Get(ctx, "conformance-list")
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
		require.NoError(t, store.Delete(ctx, "conformance-list"))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := store.Put(cancelled, MinimalSession("conformance-cancelled"))
		require.ErrorIs(t, err, context.Canceled)
	})
}
