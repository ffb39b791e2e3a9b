// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pinger checks that a remote service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeResult is the outcome of one reachability check.
type ProbeResult struct {
	Reachable bool
	CheckedAt time.Time
	Latency   time.Duration
	Error     string
}

// BackendProbe periodically checks that the backend API answers and keeps
// the latest result for the health endpoint.
type BackendProbe struct {
	pinger  Pinger
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.RWMutex
	last    ProbeResult
	checked bool
}

// NewBackendProbe creates a probe. Each check is bounded by timeout.
func NewBackendProbe(pinger Pinger, timeout time.Duration, logger *slog.Logger) *BackendProbe {
	return &BackendProbe{
		pinger:  pinger,
		timeout: timeout,
		logger:  logger,
	}
}

// Run performs one check and records its result. Transitions between
// reachable and unreachable are logged.
func (p *BackendProbe) Run(ctx context.Context) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.pinger.Ping(ctx)
	res := ProbeResult{
		Reachable: err == nil,
		CheckedAt: start.UTC(),
		Latency:   time.Since(start),
	}
	if err != nil {
		res.Error = err.Error()
	}

	p.mu.Lock()
	prev, hadPrev := p.last, p.checked
	p.last, p.checked = res, true
	p.mu.Unlock()

	switch {
	case !res.Reachable && (!hadPrev || prev.Reachable):
		p.logger.Warn("backend unreachable", "error", res.Error)
	case res.Reachable && hadPrev && !prev.Reachable:
		p.logger.Info("backend reachable again", "latency", res.Latency.String())
	}
	return res
}

// Last returns the most recent result. ok is false before the first check.
func (p *BackendProbe) Last() (ProbeResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.checked
}
