// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"net/url"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects Redis when set. Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	DefaultTTL      time.Duration
	CleanupInterval time.Duration

	// FallbackToMemory uses the memory cache when Redis is unreachable.
	FallbackToMemory bool
}

// Info describes the cache backend that was created.
type Info struct {
	Backend  string // "memory" or "redis"
	Fallback bool   // true when Redis was requested but memory is used
}

// New creates a cache from cfg. Without a Redis URL the memory cache is used.
func New(ctx context.Context, cfg Config) (Cache, Info, error) {
	if cfg.RedisURL == "" {
		return newMemory(cfg), Info{Backend: "memory"}, nil
	}

	rc, err := NewRedisCache(ctx, cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
	if err == nil {
		slog.Info("using redis cache", "url", sanitizeRedisURL(cfg.RedisURL), "prefix", rc.prefix)
		return rc, Info{Backend: "redis"}, nil
	}
	if !cfg.FallbackToMemory {
		return nil, Info{}, err
	}
	slog.Warn("redis unavailable, falling back to memory cache",
		"url", sanitizeRedisURL(cfg.RedisURL), "error", err)
	return newMemory(cfg), Info{Backend: "memory", Fallback: true}, nil
}

func newMemory(cfg Config) *MemoryCache {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		CleanupInterval: interval,
	})
}

// sanitizeRedisURL removes the password from a Redis URL for logging.
func sanitizeRedisURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "redis://***"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}
