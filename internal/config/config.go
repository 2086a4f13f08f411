// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"FIRMSITE_DB_PATH" envDefault:"./data/firmsite.db"`
	SessionSecret string `env:"FIRMSITE_SESSION_SECRET,required"`
	ServerHost    string `env:"FIRMSITE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"FIRMSITE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"FIRMSITE_ENV" envDefault:"development"`
	LogLevel      string `env:"FIRMSITE_LOG_LEVEL" envDefault:"info"`

	// Bearer tokens for the JSON API and the admin-users function
	TokenSecret string        `env:"FIRMSITE_TOKEN_SECRET"` // Falls back to SessionSecret
	TokenTTL    time.Duration `env:"FIRMSITE_TOKEN_TTL" envDefault:"1h"`

	// Media bucket
	MediaDir  string `env:"FIRMSITE_MEDIA_DIR" envDefault:"./media"`
	PublicURL string `env:"FIRMSITE_PUBLIC_URL"` // Base for public image URLs, empty means relative

	// Cache configuration
	RedisURL     string `env:"FIRMSITE_REDIS_URL"`                             // Optional Redis URL for distributed caching
	CachePrefix  string `env:"FIRMSITE_CACHE_PREFIX" envDefault:"firmsite:"`   // Redis key prefix
	CacheTTL     int    `env:"FIRMSITE_CACHE_TTL" envDefault:"300"`            // Content cache TTL in seconds
	CacheMaxSize int    `env:"FIRMSITE_CACHE_MAX_SIZE" envDefault:"1000"`      // Max memory cache entries

	EventRetentionDays int `env:"FIRMSITE_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Seeding configuration
	DoSeed            bool   `env:"FIRMSITE_DO_SEED" envDefault:"false"`
	SeedAdminEmail    string `env:"FIRMSITE_SEED_ADMIN_EMAIL" envDefault:"admin@example.com"`
	SeedAdminPassword string `env:"FIRMSITE_SEED_ADMIN_PASSWORD"`

	// Comma-separated origins for the JSON API; empty allows any origin
	CORSAllowedOrigins []string `env:"FIRMSITE_CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SigningSecret returns the secret used to sign bearer tokens.
func (c Config) SigningSecret() string {
	if c.TokenSecret != "" {
		return c.TokenSecret
	}
	return c.SessionSecret
}

// CacheTTLDuration returns the content cache TTL.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validateSecret("FIRMSITE_SESSION_SECRET", cfg.SessionSecret); err != nil {
		return nil, err
	}
	if cfg.TokenSecret != "" {
		if err := validateSecret("FIRMSITE_TOKEN_SECRET", cfg.TokenSecret); err != nil {
			return nil, err
		}
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("FIRMSITE_TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("FIRMSITE_EVENT_RETENTION_DAYS must be at least 1, got %d", cfg.EventRetentionDays)
	}

	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	return cfg, nil
}

func validateSecret(name, secret string) error {
	if len(secret) < MinSessionSecretLength {
		return fmt.Errorf("%s must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			name, MinSessionSecretLength, len(secret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if secret == weak {
			return fmt.Errorf("%s is a known default value and must not be used; "+
				"generate a secure secret with: openssl rand -base64 32", name)
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(secret) {
		slog.Warn(name + " has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
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
