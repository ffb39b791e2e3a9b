// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/olegiv/ocms-console/internal/scheduler"
	"github.com/olegiv/ocms-console/internal/version"
)

// BackendStatus reports the last backend reachability check.
type BackendStatus interface {
	Last() (scheduler.ProbeResult, bool)
}

// HealthHandler handles health check requests. It reports on the console
// process and its session store. The backend API is never called from a
// request; its status comes from the scheduled probe when one is set.
type HealthHandler struct {
	db        *sql.DB
	backend   BackendStatus
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:        db,
		version:   info,
		startTime: time.Now(),
	}
}

// SetBackendStatus adds the backend probe result to health reports.
func (h *HealthHandler) SetBackendStatus(b BackendStatus) {
	h.backend = b
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{"sessions": h.checkSessionStore(r.Context())}
	if h.backend != nil {
		checks["backend"] = h.checkBackend()
	}

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Version,
		Checks:    checks,
	}

	code := http.StatusOK
	for _, c := range checks {
		if c.Status == "unhealthy" {
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

func (h *HealthHandler) checkSessionStore(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: "unhealthy", Message: "session store not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		return Check{Status: "unhealthy", Message: "session store unreachable"}
	}
	return Check{Status: "healthy", Latency: time.Since(start).Round(time.Microsecond).String()}
}

// checkBackend reports the last probe result. Before the first probe has
// finished the status is unknown, which does not degrade the report.
func (h *HealthHandler) checkBackend() Check {
	res, ok := h.backend.Last()
	if !ok {
		return Check{Status: "unknown", Message: "not checked yet"}
	}
	if !res.Reachable {
		return Check{Status: "unhealthy", Message: "backend unreachable"}
	}
	return Check{Status: "healthy", Latency: res.Latency.Round(time.Microsecond).String()}
}
