package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ORGCHART_DB", "ORGCHART_ROOT_NAME", "ORGCHART_LOG_LEVEL", "ORGCHART_LOG_FILE",
		"ORGCHART_LOG_USECASES", "ORGCHART_QUEUE_SIZE", "ORGCHART_MAX_DROP_DISTANCE",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def, cfg)
	assert.Equal(t, "organization.sqlite3", filepath.Base(cfg.DBPath))
	assert.Equal(t, 16, cfg.QueueSize)
	assert.InDelta(t, 1000, cfg.MaxDropDistance, 1e-9)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORGCHART_DB", "/tmp/org.db")
	t.Setenv("ORGCHART_ROOT_NAME", "District Office")
	t.Setenv("ORGCHART_LOG_LEVEL", "debug")
	t.Setenv("ORGCHART_LOG_USECASES", "true")
	t.Setenv("ORGCHART_QUEUE_SIZE", "64")
	t.Setenv("ORGCHART_MAX_DROP_DISTANCE", "250.5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/org.db", cfg.DBPath)
	assert.Equal(t, "District Office", cfg.RootName)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, 64, cfg.QueueSize)
	assert.InDelta(t, 250.5, cfg.MaxDropDistance, 1e-9)
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("ORGCHART_ROOT_NAME=From File\nORGCHART_QUEUE_SIZE=8\n"), 0o644))
	t.Setenv("ORGCHART_QUEUE_SIZE", "32")

	n, err := LoadEnv([]string{file, filepath.Join(t.TempDir(), "absent")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "From File", cfg.RootName)
	assert.Equal(t, 32, cfg.QueueSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"queue size", "ORGCHART_QUEUE_SIZE", "0", "ORGCHART_QUEUE_SIZE"},
		{"queue size not a number", "ORGCHART_QUEUE_SIZE", "many", "parsing environment"},
		{"drop distance", "ORGCHART_MAX_DROP_DISTANCE", "-5", "ORGCHART_MAX_DROP_DISTANCE"},
		{"log level", "ORGCHART_LOG_LEVEL", "loud", "ORGCHART_LOG_LEVEL"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
