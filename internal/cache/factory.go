package cache

import (
	"log/slog"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set, e.g. redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis
	Prefix string

	DefaultTTL      time.Duration
	MaxSize         int // Maximum entries for the memory cache (0 = unlimited)
	CleanupInterval time.Duration
}

// New creates the configured cache backend. When Redis is configured but
// unreachable, it falls back to memory so the site keeps serving.
func New(cfg Config, logger *slog.Logger) (Cacher, string) {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			return rc, "redis"
		}
		logger.Warn("redis cache unavailable, falling back to memory cache",
			"error", err, "category", "cache")
	}

	cleanup := cfg.CleanupInterval
	if cleanup == 0 {
		cleanup = time.Minute
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cleanup,
	}), "memory"
}
