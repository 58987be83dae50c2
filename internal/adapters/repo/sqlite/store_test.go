package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/mafia-engine/internal/adapters/repo/storetest"
	"github.com/bnema/mafia-engine/internal/domain"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreConformance(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "sessions.db"))
	storetest.ValidateSessionStore(t, store)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	require.Error(t, err)
	assert.ErrorContains(t, err, "storage path is required")
}

func TestReopenKeepsSessionsAndSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	first, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, storetest.SampleSession("chan-1")))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	got, err := second.Get(ctx, "chan-1")
	require.NoError(t, err)
	assert.Equal(t, storetest.SampleSession("chan-1"), got)
}

func TestListOrdersByKey(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "sessions.db"))
	ctx := context.Background()

	for _, key := range []domain.SessionKey{"c", "a", "b"} {
		require.NoError(t, store.Put(ctx, storetest.MinimalSession(key)))
	}

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, domain.SessionKey("a"), sessions[0].Key)
	assert.Equal(t, domain.SessionKey("c"), sessions[2].Key)
}

func TestGetRejectsFutureSchemaVersion(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "sessions.db"))
	ctx := context.Background()

	_, err := store.sqlDB.ExecContext(ctx,
		`INSERT INTO sessions (session_key, phase, ends_at, data, updated_at) VALUES (?, ?, ?, ?, ?)`,
		"future", "SIGNUP", 0, `{"version":99,"session":{"key":"future"}}`, 0,
	)
	require.NoError(t, err)

	_, err = store.Get(ctx, "future")
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported session schema version")
}
