package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 120, cfg.Game.TurnTimeLimit)
	assert.Equal(t, 6, cfg.Game.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Cleanup.IntervalDuration())
	assert.Equal(t, 30*time.Minute, cfg.Cleanup.LobbyMaxAgeDuration())
	assert.Equal(t, 1000, cfg.Cleanup.BatchSize)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
game:
  turn_time_limit: 60
cleanup:
  lobby_max_age: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Explicit values win, everything else defaults.
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Game.TurnTimeLimitDuration())
	assert.Equal(t, 10*time.Minute, cfg.Cleanup.LobbyMaxAgeDuration())
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 6, cfg.Game.MaxAttempts)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestBotDelayRange(t *testing.T) {
	t.Parallel()

	cfg := Default()
	minDelay, maxDelay := cfg.Game.BotDelayRange()
	assert.Equal(t, 2*time.Second, minDelay)
	assert.Equal(t, 5*time.Second, maxDelay)
}
