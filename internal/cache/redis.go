// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "console:"

	// redisConnectTimeout bounds the startup ping so an unreachable server
	// falls back to memory quickly.
	redisConnectTimeout = 3 * time.Second

	// maxUpdateAttempts bounds optimistic retries when replicas race on the
	// same login key.
	maxUpdateAttempts = 8
)

// RedisCache keeps login throttling state in Redis so that every console
// replica sees the same failure counters and lockouts.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool
}

// NewRedisCache connects to rawURL and verifies the server answers.
// An empty prefix uses "console:". A non-positive defaultTTL uses one hour.
func NewRedisCache(ctx context.Context, rawURL, prefix string, defaultTTL time.Duration) (*RedisCache, error) {
	if rawURL == "" {
		return nil, errors.New("redis URL is required")
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	// The login form is the only writer, so a small pool is plenty.
	opts.PoolSize = 4
	opts.DialTimeout = redisConnectTimeout
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", sanitizeRedisURL(rawURL), err)
	}

	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &RedisCache{client: client, prefix: prefix, defaultTTL: defaultTTL}, nil
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) ttl(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return c.defaultTTL
	}
	return ttl
}

// Get retrieves a value. Missing keys return ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set stores a value with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if err := c.client.Set(ctx, c.key(key), value, c.ttl(ttl)).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Has reports whether key exists.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	n, err := c.client.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Update runs fn inside a WATCH transaction and retries when another
// replica changes the key first.
func (c *RedisCache) Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	k := c.key(key)
	ttl = c.ttl(ttl)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, k).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			current = nil
		case err != nil:
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, k)
				return nil
			}
			pipe.Set(ctx, k, next, ttl)
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		err := c.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrUpdateConflict
}

// Close releases the connection pool. Later calls return ErrCacheClosed.
func (c *RedisCache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.client.Close()
}
