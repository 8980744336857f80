package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "epicrm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "epicrm.db", cfg.Database.DSN)
	assert.Empty(t, cfg.Telemetry.DSN, "telemetry should be disabled by default")
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
database:
  driver: postgres
  dsn: host=db port=5432 user=crm dbname=crm sslmode=disable
telemetry:
  dsn: https://key@sentry.example.com/42
  environment: production
auth:
  jwt_secret: file-secret
  session_ttl: 30m
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "https://key@sentry.example.com/42", cfg.Telemetry.DSN)
	assert.Equal(t, "production", cfg.Telemetry.Environment)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
database:
  driver: sqlite
  dsn: local.db
`)
	t.Setenv("EPICRM_DATABASE_DRIVER", "postgres")
	t.Setenv("EPICRM_AUTH_JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver, "environment should win over file")
	assert.Equal(t, "local.db", cfg.Database.DSN, "unset keys should keep file values")
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err, "a file given explicitly must exist")
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	path := writeConfigFile(t, `
auth:
  session_ttl: 0s
`)

	_, err := Load(path)
	assert.Error(t, err)
}
