// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/ocms-console/internal/cache"
	"github.com/olegiv/ocms-console/internal/i18n"
)

// maxLockoutDuration caps the exponential lockout backoff.
const maxLockoutDuration = 24 * time.Hour

// LoginProtection provides combined IP rate limiting and account lockout
// protection for the login form. Lockout state lives in a cache.Cache so
// that replicas sharing Redis see the same counters.
type LoginProtection struct {
	ipLimiters *limiterCache[string]

	store cache.Cache

	maxFailedAttempts int
	lockoutDuration   time.Duration // Base lockout duration (doubles with each lockout)
	attemptWindow     time.Duration

	stopCh chan struct{}
}

// loginAttempt tracks failed login attempts for an account.
type loginAttempt struct {
	Count       int       `json:"count"`
	FirstFailed time.Time `json:"first_failed"`
	LockedUntil time.Time `json:"locked_until"`
	Lockouts    int       `json:"lockouts"`
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is requests per second per IP (default: 0.5 = 1 request per 2 seconds)
	IPRateLimit float64
	// IPBurst is the maximum burst size for IP rate limiting (default: 5)
	IPBurst int
	// MaxFailedAttempts before account lockout (default: 5)
	MaxFailedAttempts int
	// LockoutDuration is base lockout time, doubles with each lockout (default: 15 minutes)
	LockoutDuration time.Duration
	// AttemptWindow is the time window for counting failed attempts (default: 15 minutes)
	AttemptWindow time.Duration
}

// DefaultLoginProtectionConfig returns sensible defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection creates a login protection instance storing lockout
// state in store.
func NewLoginProtection(cfg LoginProtectionConfig, store cache.Cache) *LoginProtection {
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = 0.5
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = 5
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = 15 * time.Minute
	}

	lp := &LoginProtection{
		ipLimiters:        newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		store:             store,
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
		stopCh:            make(chan struct{}),
	}

	go lp.cleanup()

	return lp
}

// Stop ends the background cleanup.
func (lp *LoginProtection) Stop() {
	select {
	case <-lp.stopCh:
	default:
		close(lp.stopCh)
	}
}

func attemptKey(username string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(username))
}

func (lp *LoginProtection) load(ctx context.Context, username string) (*loginAttempt, error) {
	data, err := lp.store.Get(ctx, attemptKey(username))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeAttempt(data), nil
}

// decodeAttempt treats absent or unreadable state as no prior failures.
func decodeAttempt(data []byte) *loginAttempt {
	if data == nil {
		return nil
	}
	var a loginAttempt
	if err := json.Unmarshal(data, &a); err != nil {
		return nil
	}
	return &a
}

// CheckIPRateLimit checks if the IP is rate limited.
// Returns true if the request should be allowed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	return lp.ipLimiters.get(ip).Allow()
}

// IsAccountLocked checks if an account is currently locked.
// Returns (locked, remainingTime). Store errors fail open.
func (lp *LoginProtection) IsAccountLocked(ctx context.Context, username string) (bool, time.Duration) {
	a, err := lp.load(ctx, username)
	if err != nil {
		slog.Error("failed to read login attempts", "error", err)
		return false, 0
	}
	if a == nil {
		return false, 0
	}
	if remaining := time.Until(a.LockedUntil); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// RecordFailedAttempt records a failed login attempt.
// Returns (locked, lockDuration) if the account is now locked.
func (lp *LoginProtection) RecordFailedAttempt(ctx context.Context, username string) (bool, time.Duration) {
	var (
		locked       bool
		lockDuration time.Duration
		lockouts     int
	)

	// Keep state long enough to remember lockouts for backoff.
	err := lp.store.Update(ctx, attemptKey(username), maxLockoutDuration, func(current []byte) ([]byte, error) {
		var a *loginAttempt
		a, lockDuration = lp.nextAttempt(decodeAttempt(current), time.Now())
		locked = lockDuration > 0
		lockouts = a.Lockouts
		return json.Marshal(a)
	})
	if err != nil {
		slog.Error("failed to record login attempt", "error", err)
		return false, 0
	}

	if locked {
		slog.Warn("account locked due to failed attempts",
			"username", username,
			"lockouts", lockouts,
			"duration", lockDuration,
		)
	}
	return locked, lockDuration
}

// nextAttempt counts one more failure and locks the account once the
// threshold is reached, returning the lock duration it applied.
func (lp *LoginProtection) nextAttempt(a *loginAttempt, now time.Time) (*loginAttempt, time.Duration) {
	switch {
	case a == nil:
		a = &loginAttempt{Count: 1, FirstFailed: now}
	case now.Sub(a.FirstFailed) > lp.attemptWindow:
		// Lockouts survive the reset so repeat offenders keep backing off.
		a.Count = 1
		a.FirstFailed = now
	default:
		a.Count++
	}

	if a.Count < lp.maxFailedAttempts {
		return a, 0
	}

	lockDuration := lp.lockoutDuration
	for i := 0; i < a.Lockouts; i++ {
		lockDuration *= 2
		if lockDuration > maxLockoutDuration {
			lockDuration = maxLockoutDuration
			break
		}
	}

	a.LockedUntil = now.Add(lockDuration)
	a.Lockouts++
	a.Count = 0
	return a, lockDuration
}

// RecordSuccessfulLogin clears failed attempt tracking for an account.
func (lp *LoginProtection) RecordSuccessfulLogin(ctx context.Context, username string) {
	if err := lp.store.Delete(ctx, attemptKey(username)); err != nil {
		slog.Error("failed to clear login attempts", "error", err)
	}
	slog.Debug("login attempts cleared", "username", username)
}

// GetRemainingAttempts returns the number of remaining attempts before lockout.
func (lp *LoginProtection) GetRemainingAttempts(ctx context.Context, username string) int {
	a, err := lp.load(ctx, username)
	if err != nil || a == nil {
		return lp.maxFailedAttempts
	}
	if time.Since(a.FirstFailed) > lp.attemptWindow {
		return lp.maxFailedAttempts
	}
	return max(lp.maxFailedAttempts-a.Count, 0)
}

// cleanup periodically bounds the IP limiter map. Cached lockout state
// expires on its own.
func (lp *LoginProtection) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if lp.ipLimiters.clearIfExceeds(10000) {
				slog.Info("cleared IP rate limiters due to size")
			}
		case <-lp.stopCh:
			return
		}
	}
}

// Middleware returns HTTP middleware for IP rate limiting on login.
// This should be applied to the login POST route.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "ip", ip)
				http.Error(w, i18n.T(GetAdminLang(r), "auth.rate_limit"), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the request's client address. chi's RealIP middleware
// has already resolved proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
