// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/ocms-console/internal/scheduler"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL   string `env:"CONSOLE_API_BASE_URL,required"`
	AssetBaseURL string `env:"CONSOLE_ASSET_BASE_URL"` // Defaults to APIBaseURL

	SessionSecret   string        `env:"CONSOLE_SESSION_SECRET,required"`
	SessionDBPath   string        `env:"CONSOLE_SESSION_DB_PATH" envDefault:"./data/console.db"`
	SessionLifetime time.Duration `env:"CONSOLE_SESSION_LIFETIME" envDefault:"24h"`

	ServerHost string `env:"CONSOLE_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"CONSOLE_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"CONSOLE_ENV" envDefault:"development"`

	// Logging
	LogLevel      string `env:"CONSOLE_LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"CONSOLE_LOG_FILE"` // Optional rotating file for warnings and errors
	LogMaxSizeMB  int    `env:"CONSOLE_LOG_MAX_SIZE_MB" envDefault:"10"`
	LogMaxBackups int    `env:"CONSOLE_LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"CONSOLE_LOG_MAX_AGE_DAYS" envDefault:"28"`

	// Login throttling state
	RedisURL    string `env:"CONSOLE_REDIS_URL"`                          // Optional Redis URL shared by console replicas
	CachePrefix string `env:"CONSOLE_CACHE_PREFIX" envDefault:"console:"` // Redis key prefix

	DefaultLang string `env:"CONSOLE_DEFAULT_LANG" envDefault:"en"` // Admin UI language

	// Optional MaxMind country database for login audit logs
	GeoIPDBPath string `env:"CONSOLE_GEOIP_DB_PATH"`

	// Backend reachability probe reported by /health; "off" disables it
	BackendProbeSchedule string        `env:"CONSOLE_BACKEND_PROBE_SCHEDULE" envDefault:"@every 1m"`
	BackendProbeTimeout  time.Duration `env:"CONSOLE_BACKEND_PROBE_TIMEOUT" envDefault:"5s"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedis returns true if Redis is configured for throttling state.
func (c Config) UseRedis() bool {
	return c.RedisURL != ""
}

// LogFileEnabled returns true if the rotating log file is configured.
func (c Config) LogFileEnabled() bool {
	return c.LogFile != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// BackendProbeEnabled returns true if the backend probe should run.
func (c Config) BackendProbeEnabled() bool {
	return c.BackendProbeSchedule != "off"
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CONSOLE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("CONSOLE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CONSOLE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if err := validateBaseURL("CONSOLE_API_BASE_URL", cfg.APIBaseURL); err != nil {
		return nil, err
	}
	if cfg.AssetBaseURL == "" {
		cfg.AssetBaseURL = cfg.APIBaseURL
	}
	cfg.AssetBaseURL = strings.TrimRight(cfg.AssetBaseURL, "/")
	if err := validateBaseURL("CONSOLE_ASSET_BASE_URL", cfg.AssetBaseURL); err != nil {
		return nil, err
	}

	if cfg.SessionLifetime <= 0 {
		return nil, fmt.Errorf("CONSOLE_SESSION_LIFETIME must be positive, got %s", cfg.SessionLifetime)
	}

	switch cfg.DefaultLang {
	case "en", "mn":
	default:
		return nil, fmt.Errorf("CONSOLE_DEFAULT_LANG must be en or mn, got %q", cfg.DefaultLang)
	}

	if cfg.BackendProbeEnabled() {
		if err := scheduler.ValidateSchedule(cfg.BackendProbeSchedule); err != nil {
			return nil, fmt.Errorf("CONSOLE_BACKEND_PROBE_SCHEDULE is invalid: %w", err)
		}
		if cfg.BackendProbeTimeout <= 0 {
			return nil, fmt.Errorf("CONSOLE_BACKEND_PROBE_TIMEOUT must be positive, got %s", cfg.BackendProbeTimeout)
		}
	}

	return cfg, nil
}

// validateBaseURL requires an absolute http(s) URL.
func validateBaseURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
