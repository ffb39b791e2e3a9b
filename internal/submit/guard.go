// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package submit keeps a form submission single-flight: each rendered form
// carries a submission ID, and a second POST with the same ID is rejected
// while the first is still waiting on the backend.
package submit

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// FieldName is the hidden form field carrying the submission ID.
const FieldName = "submit_id"

// Guard tracks in-flight submission IDs.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewGuard creates an empty Guard.
func NewGuard() *Guard {
	return &Guard{inFlight: make(map[string]struct{})}
}

// NewID returns a fresh submission ID for a rendered form.
func NewID() string {
	return uuid.NewString()
}

// Begin marks id as in flight. It returns false if id is already in flight.
// An empty id is always accepted and never tracked.
func (g *Guard) Begin(id string) bool {
	if id == "" {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[id]; busy {
		return false
	}
	g.inFlight[id] = struct{}{}
	return true
}

// End releases id.
func (g *Guard) End(id string) {
	if id == "" {
		return
	}
	g.mu.Lock()
	delete(g.inFlight, id)
	g.mu.Unlock()
}

// InFlight returns the number of submissions currently being processed.
func (g *Guard) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inFlight)
}

// Middleware rejects duplicate POSTs with 409 Conflict. The ID is released
// once the wrapped handler returns.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		id := r.PostFormValue(FieldName)
		if !g.Begin(id) {
			slog.Warn("duplicate submission rejected", "path", r.URL.Path, "submit_id", id)
			w.Header().Set("HX-Reswap", "none")
			w.Header().Set("HX-Trigger", `{"showToast": "This form is already being processed", "toastType": "error"}`)
			http.Error(w, "This form is already being processed", http.StatusConflict)
			return
		}
		defer g.End(id)
		next.ServeHTTP(w, r)
	})
}
