package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, "postgres://localhost/test", cfg.Database.URL)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	assert.Equal(t, time.Hour, cfg.ResetTTL())
	assert.False(t, cfg.IsProduction())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ENV", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("env: production\nport: \"8080\"\ndatabase:\n  url: postgres://db/prod\nauth:\n  session_ttl_hours: 24\n  expose_reset_token: true\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://db/prod", cfg.Database.URL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL())
	assert.True(t, cfg.IsProduction())
	// The demo flag never survives into production.
	assert.False(t, cfg.ResetTokenExposed())
}

func TestEnvBeatsFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("ENV", "staging")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: development\ndatabase:\n  url: postgres://file/db\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
}
