package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HELMSMAN_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8010, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "@every 1m", cfg.SnapshotSchedule)
	assert.Equal(t, 1000, cfg.SnapshotHistory)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HELMSMAN_DATA_DIR", t.TempDir())
	t.Setenv("HELMSMAN_PORT", "9099")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("HELMSMAN_ACCOUNT_BALANCE", "250000.50")
	t.Setenv("HELMSMAN_SNAPSHOT_SCHEDULE", "@every 5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9099, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.InDelta(t, 250000.50, cfg.AccountBalance, 1e-9)
	assert.Equal(t, "@every 5m", cfg.SnapshotSchedule)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HELMSMAN_DATA_DIR", t.TempDir())
	t.Setenv("HELMSMAN_PORT", "not-a-number")
	t.Setenv("HELMSMAN_ACCOUNT_BALANCE", "abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8010, cfg.Port)
	assert.Equal(t, 0.0, cfg.AccountBalance)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 8010}
	assert.NoError(t, cfg.Validate())

	cfg.Port = -1
	assert.Error(t, cfg.Validate())

	cfg.Port = 8010
	cfg.AccountBalance = -5
	assert.Error(t, cfg.Validate())

	cfg.AccountBalance = 0
	cfg.SnapshotHistory = -1
	assert.Error(t, cfg.Validate())
}
