// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the key/value store behind login throttling state.
// It never holds backend domain records.
package cache

import (
	"context"
	"time"
)

// Cache defines the interface for cache implementations.
// All implementations must be thread-safe.
type Cache interface {
	// Get returns ErrCacheMiss if key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A zero TTL uses the default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Has checks if a key exists and is not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Update applies fn to the current value of key atomically with respect
	// to other Update calls, including those from other console replicas.
	// fn receives nil when the key is absent. A nil result deletes the key.
	// An error from fn aborts the update and is returned unchanged.
	Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error

	// Close releases any resources held by the cache.
	Close() error
}

// UpdateFunc computes the next value of a key from its current value.
type UpdateFunc func(current []byte) ([]byte, error)

// Error represents an error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found in cache or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"

	// ErrUpdateConflict is returned when Update keeps losing races for a key.
	ErrUpdateConflict Error = "cache update conflict"
)
