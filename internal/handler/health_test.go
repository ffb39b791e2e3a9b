// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/ocms-console/internal/scheduler"
	"github.com/olegiv/ocms-console/internal/testutil"
	"github.com/olegiv/ocms-console/internal/version"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name           string
		closeDB        bool
		noDB           bool
		wantStatusCode int
		wantStatus     string
		wantCheck      string
	}{
		{"healthy", false, false, http.StatusOK, "healthy", "healthy"},
		{"closed store", true, false, http.StatusServiceUnavailable, "degraded", "unhealthy"},
		{"no store", false, true, http.StatusServiceUnavailable, "degraded", "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.TestDB(t)
			if tt.closeDB {
				_ = db.Close()
			}
			if tt.noDB {
				db = nil
			}
			h := NewHealthHandler(db, version.Info{Version: "v1.2.3"})

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assertStatus(t, rec.Code, tt.wantStatusCode)
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var got HealthStatus
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q; want %q", got.Status, tt.wantStatus)
			}
			if got.Version != "v1.2.3" {
				t.Errorf("version = %q", got.Version)
			}
			if c := got.Checks["sessions"]; c.Status != tt.wantCheck {
				t.Errorf("sessions check = %+v; want %s", c, tt.wantCheck)
			}
		})
	}
}

type stubBackendStatus struct {
	res scheduler.ProbeResult
	ok  bool
}

func (s stubBackendStatus) Last() (scheduler.ProbeResult, bool) { return s.res, s.ok }

func TestHealth_BackendProbe(t *testing.T) {
	tests := []struct {
		name           string
		probe          stubBackendStatus
		wantStatusCode int
		wantCheck      string
	}{
		{"not checked yet", stubBackendStatus{}, http.StatusOK, "unknown"},
		{"reachable", stubBackendStatus{scheduler.ProbeResult{Reachable: true, Latency: 3 * time.Millisecond}, true}, http.StatusOK, "healthy"},
		{"unreachable", stubBackendStatus{scheduler.ProbeResult{Error: "connection refused"}, true}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(testutil.TestDB(t), version.Info{})
			h.SetBackendStatus(tt.probe)

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assertStatus(t, rec.Code, tt.wantStatusCode)
			var got HealthStatus
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if c := got.Checks["backend"]; c.Status != tt.wantCheck {
				t.Errorf("backend check = %+v; want %s", c, tt.wantCheck)
			}
			if got.Checks["backend"].Message == "connection refused" {
				t.Error("probe error details leaked into the public report")
			}
		})
	}
}

func TestLiveness(t *testing.T) {
	h := NewHealthHandler(nil, version.Info{})

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assertStatus(t, rec.Code, http.StatusOK)
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "alive" {
		t.Errorf("status = %q; want alive", body["status"])
	}
}
