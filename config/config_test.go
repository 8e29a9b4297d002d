package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "APP_ENV", "LOG_LEVEL", "DB_PATH", "CORS_ORIGINS", "DEFAULT_EOBI", "JITTER_SEED"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "reports.db", cfg.Database.Path)
	assert.Empty(t, cfg.App.CORSOrigins)
	assert.Equal(t, "250", cfg.Report.DefaultEOBI.String())
	assert.Zero(t, cfg.Report.JitterSeed)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("DEFAULT_EOBI", "370")
	t.Setenv("JITTER_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSOrigins)
	assert.Equal(t, "370", cfg.Report.DefaultEOBI.String())
	assert.Equal(t, uint64(42), cfg.Report.JitterSeed)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("APP_PORT", "eighty")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("APP_PORT", "8080")
	t.Setenv("DEFAULT_EOBI", "-1")
	_, err = Load()
	assert.Error(t, err)
}
