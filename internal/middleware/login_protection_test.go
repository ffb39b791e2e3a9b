// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-console/internal/cache"
)

func newTestLoginProtection(t *testing.T, cfg LoginProtectionConfig) *LoginProtection {
	t.Helper()
	store := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour, CleanupInterval: time.Hour})
	lp := NewLoginProtection(cfg, store)
	t.Cleanup(func() {
		lp.Stop()
		_ = store.Close()
	})
	return lp
}

func TestNewLoginProtection_Defaults(t *testing.T) {
	lp := newTestLoginProtection(t, LoginProtectionConfig{})

	assert.Equal(t, 5, lp.maxFailedAttempts)
	assert.Equal(t, 15*time.Minute, lp.lockoutDuration)
	assert.Equal(t, 15*time.Minute, lp.attemptWindow)
}

func TestLoginProtection_LocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	lp := newTestLoginProtection(t, LoginProtectionConfig{MaxFailedAttempts: 3, LockoutDuration: time.Minute})

	for i := 0; i < 2; i++ {
		locked, _ := lp.RecordFailedAttempt(ctx, "Bold")
		require.False(t, locked, "attempt %d should not lock", i+1)
	}
	assert.Equal(t, 1, lp.GetRemainingAttempts(ctx, "bold"))

	locked, dur := lp.RecordFailedAttempt(ctx, "bold")
	require.True(t, locked)
	assert.Equal(t, time.Minute, dur)

	isLocked, remaining := lp.IsAccountLocked(ctx, "BOLD")
	assert.True(t, isLocked, "username lookup should be case-insensitive")
	assert.Greater(t, remaining, time.Duration(0))
}

func TestLoginProtection_LockoutBackoffDoubles(t *testing.T) {
	ctx := context.Background()
	lp := newTestLoginProtection(t, LoginProtectionConfig{MaxFailedAttempts: 1, LockoutDuration: time.Minute})

	_, first := lp.RecordFailedAttempt(ctx, "u")
	_, second := lp.RecordFailedAttempt(ctx, "u")
	_, third := lp.RecordFailedAttempt(ctx, "u")

	assert.Equal(t, time.Minute, first)
	assert.Equal(t, 2*time.Minute, second)
	assert.Equal(t, 4*time.Minute, third)
}

func TestLoginProtection_WindowResetStillCountsTowardsLock(t *testing.T) {
	ctx := context.Background()
	lp := newTestLoginProtection(t, LoginProtectionConfig{
		MaxFailedAttempts: 1,
		LockoutDuration:   time.Minute,
		AttemptWindow:     10 * time.Millisecond,
	})

	locked, first := lp.RecordFailedAttempt(ctx, "u")
	require.True(t, locked, "first failure should lock with a threshold of 1")
	assert.Equal(t, time.Minute, first)

	time.Sleep(20 * time.Millisecond)

	locked, second := lp.RecordFailedAttempt(ctx, "u")
	require.True(t, locked, "failure after the window reset should lock")
	assert.Equal(t, 2*time.Minute, second)
}

func TestLoginProtection_ConcurrentFailuresLockOnce(t *testing.T) {
	ctx := context.Background()
	lp := newTestLoginProtection(t, LoginProtectionConfig{MaxFailedAttempts: 10, LockoutDuration: time.Minute})

	var (
		wg    sync.WaitGroup
		locks atomic.Int32
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if locked, _ := lp.RecordFailedAttempt(ctx, "Bold"); locked {
				locks.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), locks.Load(), "exactly the tenth failure should lock")
	locked, _ := lp.IsAccountLocked(ctx, "bold")
	assert.True(t, locked)
}

func TestLoginProtection_SuccessClearsAttempts(t *testing.T) {
	ctx := context.Background()
	lp := newTestLoginProtection(t, LoginProtectionConfig{MaxFailedAttempts: 2})

	lp.RecordFailedAttempt(ctx, "u")
	lp.RecordFailedAttempt(ctx, "u")
	locked, _ := lp.IsAccountLocked(ctx, "u")
	require.True(t, locked)

	lp.RecordSuccessfulLogin(ctx, "u")

	locked, _ = lp.IsAccountLocked(ctx, "u")
	assert.False(t, locked)
	assert.Equal(t, 2, lp.GetRemainingAttempts(ctx, "u"))
}

func TestLoginProtection_UnknownAccountNotLocked(t *testing.T) {
	lp := newTestLoginProtection(t, LoginProtectionConfig{})

	locked, remaining := lp.IsAccountLocked(context.Background(), "nobody")
	assert.False(t, locked)
	assert.Zero(t, remaining)
}

func TestLoginProtection_Middleware(t *testing.T) {
	lp := newTestLoginProtection(t, LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	// GET requests are never limited.
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLimiterCache_ClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")

	assert.False(t, lc.clearIfExceeds(5))
	assert.Equal(t, 2, lc.len())
	assert.True(t, lc.clearIfExceeds(1))
	assert.Equal(t, 0, lc.len())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:1234"
	assert.Equal(t, "203.0.113.5", clientIP(req))

	req.RemoteAddr = "203.0.113.5"
	assert.Equal(t, "203.0.113.5", clientIP(req))
}
