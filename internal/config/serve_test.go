package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServeDefaults(t *testing.T) {
	cfg, err := LoadServe()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 4, cfg.TickConcurrency)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Empty(t, cfg.OTelEndpoint)
}

func TestLoadServeFromEnv(t *testing.T) {
	t.Setenv("MAFIA_LISTEN_ADDR", ":9000")
	t.Setenv("MAFIA_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("MAFIA_POLL_INTERVAL", "250ms")
	t.Setenv("MAFIA_TICK_CONCURRENCY", "8")
	t.Setenv("MAFIA_LOG_JSON", "true")

	cfg, err := LoadServe()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 8, cfg.TickConcurrency)
	assert.True(t, cfg.LogJSON)
}

func TestLoadServeRejectsBadValues(t *testing.T) {
	t.Setenv("MAFIA_POLL_INTERVAL", "soon")
	_, err := LoadServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")

	t.Setenv("MAFIA_POLL_INTERVAL", "1s")
	t.Setenv("MAFIA_TICK_CONCURRENCY", "0")
	_, err = LoadServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick concurrency")
}
