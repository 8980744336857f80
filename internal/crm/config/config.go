// Package config loads application settings from an optional YAML file
// and EPICRM_* environment variables. Environment variables win over
// file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application settings.
type Config struct {
	Database  DatabaseConfig
	Telemetry TelemetryConfig
	Auth      AuthConfig
	Log       LogConfig
}

// DatabaseConfig describes how to reach the database.
type DatabaseConfig struct {
	// Driver selects the dialect, "sqlite" or "postgres".
	Driver string
	// DSN is the sqlite file path or the postgres connection string.
	DSN string
}

// TelemetryConfig describes the external error collector.
type TelemetryConfig struct {
	// DSN is the collector endpoint. Empty disables reporting.
	DSN string
	// Environment tags reported events, e.g. "development".
	Environment string
}

// AuthConfig carries the session token settings.
type AuthConfig struct {
	// JWTSecret signs session tokens. When empty the binary generates
	// an ephemeral secret, so sessions do not survive restarts.
	JWTSecret string
	// SessionTTL is how long a login stays valid.
	SessionTTL time.Duration
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string
	// Format is "console" or "json".
	Format string
}

// Load reads settings from the given file and the environment. With an
// empty path the file is searched in the working directory and the
// user config directory, and is optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("epicrm")
		v.AddConfigPath(".")
		if base, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(base, "epicrm"))
		}
		// Defaults cover a missing file when no path was forced.
		_ = v.ReadInConfig()
	}

	v.SetEnvPrefix("EPICRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		Database: DatabaseConfig{
			Driver: v.GetString("database.driver"),
			DSN:    v.GetString("database.dsn"),
		},
		Telemetry: TelemetryConfig{
			DSN:         v.GetString("telemetry.dsn"),
			Environment: v.GetString("telemetry.environment"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("auth.jwt_secret"),
			SessionTTL: v.GetDuration("auth.session_ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if cfg.Auth.SessionTTL <= 0 {
		return nil, fmt.Errorf("auth.session_ttl must be positive, got %s", cfg.Auth.SessionTTL)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "epicrm.db")
	v.SetDefault("telemetry.dsn", "")
	v.SetDefault("telemetry.environment", "development")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_ttl", "12h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
