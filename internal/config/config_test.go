package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BUDGET_DATA_DIR", "PORT", "LOG_LEVEL", "DEV_MODE", "SOLVER_TIMEOUT", "REDIS_URL", "CACHE_TTL",
		"HISTORY_LIMIT", "HISTORY_RETENTION", "RETENTION_SCHEDULE", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("BUDGET_DATA_DIR", filepath.Join(t.TempDir(), "data"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.DataDir))
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, DefaultSolverTimeout, cfg.SolverTimeout)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultHistoryLimit, cfg.HistoryLimit)
	assert.Equal(t, DefaultHistoryRetention, cfg.HistoryRetention)
	assert.Equal(t, DefaultRetentionSchedule, cfg.RetentionSchedule)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8000"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("SOLVER_TIMEOUT", "2500ms")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("HISTORY_LIMIT", "25")
	t.Setenv("HISTORY_RETENTION", "5")
	t.Setenv("RETENTION_SCHEDULE", "*/5 * * * *")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 2500*time.Millisecond, cfg.SolverTimeout)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Equal(t, 5, cfg.HistoryRetention)
	assert.Equal(t, "*/5 * * * *", cfg.RetentionSchedule)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_TimeoutInSeconds(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLVER_TIMEOUT", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.SolverTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad timeout", "SOLVER_TIMEOUT", "soon"},
		{"zero timeout", "SOLVER_TIMEOUT", "0"},
		{"negative cache ttl", "CACHE_TTL", "-1m"},
		{"port out of range", "PORT", "70000"},
		{"zero history limit", "HISTORY_LIMIT", "0"},
		{"negative retention", "HISTORY_RETENTION", "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
