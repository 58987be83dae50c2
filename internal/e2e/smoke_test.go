package e2e

import (
	"bytes"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeSessionsFixture(home))

	stdout, stderr, err := runMafia(t, binaryPath, home, "vote", "tally", "chan-1")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Day 1 vote count")
	assert.Contains(t, stdout, "bob (1): alice")

	stdout, stderr, err = runMafia(t, binaryPath, home, "tick", "--quiet")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Day 1 has ended")
	assert.Contains(t, stdout, "checked 1, due 1, advanced 1, failed 0")

	stdout, stderr, err = runMafia(t, binaryPath, home, "tick", "--quiet")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "due 0")

	stdout, stderr, err = runMafia(t, binaryPath, home, "--as", "7", "phase", "advance", "chan-1", "night")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "chan-1 is now NIGHT 1")
}

func TestServeSmoke(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	addr := freeAddr(t)

	cmd := exec.Command(binaryPath, "serve", "--listen", addr, "--poll-interval", "100ms")
	cmd.Env = append(os.Environ(), "HOME="+home, "MAFIA_STORE_DRIVER=memory")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	base := "http://" + addr
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond, "stderr: %s", stderr.String())

	req, err := http.NewRequest(http.MethodPost, base+"/sessions/chan-1", strings.NewReader(`{"min_players":3}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "7")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, cmd.Process.Signal(os.Interrupt))
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err, "stderr: %s", stderr.String())
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not stop on interrupt")
	}
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "mafia-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/mafia")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build mafia binary: %s", string(output))
	return binaryPath
}

func runMafia(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

// writeSessionsFixture stores a day-1 game whose deadline has already passed.
func writeSessionsFixture(home string) error {
	configDir := filepath.Join(home, ".mafia")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	sessions := `version = 1

[[sessions]]
key = "chan-1"
host_id = 7
next_seq = 4

[sessions.config]
min_players = 3
signup_deadline = "2020-01-01T12:00:00Z"
day_duration_sec = 86400
night_duration_sec = 28800
role_density = "VANILLA"
game_length = "LONG"

[[sessions.players]]
id = 1
status = "alive"
role = "Mafia"
display_name = "alice"
join_seq = 1

[[sessions.players]]
id = 2
status = "alive"
role = "Vanilla Townie"
display_name = "bob"
join_seq = 2

[[sessions.players]]
id = 3
status = "alive"
role = "Vanilla Townie"
display_name = "carol"
join_seq = 3

[sessions.factions]
mafia = [1]
town = [2, 3]

[sessions.phase]
name = "DAY"
number = 1
ends_at = "2020-01-02T12:00:00Z"

[[sessions.votes]]
voter = 1
target = 2
`

	return os.WriteFile(filepath.Join(configDir, "sessions.toml"), []byte(sessions), 0o600)
}
