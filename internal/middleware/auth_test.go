// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/policy"
	"github.com/olegiv/ocms-console/internal/session"
)

func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE sessions (token TEXT PRIMARY KEY, data BLOB NOT NULL, expiry REAL NOT NULL)`); err != nil {
		t.Fatalf("failed to create sessions table: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return session.New(db, session.Options{})
}

// requestWithIdentity returns a request whose context holds a loaded session.
// A nil user leaves the session empty.
func requestWithIdentity(t *testing.T, sm *scs.SessionManager, token string, user *model.User) *http.Request {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if user != nil {
		if err := session.PutIdentity(ctx, sm, token, user); err != nil {
			t.Fatalf("PutIdentity: %v", err)
		}
	}
	return httptest.NewRequest(http.MethodGet, "/admin/blogs", nil).WithContext(ctx)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return tok
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_RedirectsWithoutIdentity(t *testing.T) {
	sm := testSessionManager(t)
	called := false

	rec := httptest.NewRecorder()
	Auth(sm)(okHandler(&called)).ServeHTTP(rec, requestWithIdentity(t, sm, "", nil))

	if called {
		t.Error("next handler should not run without identity")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Errorf("Location = %q, want %q", loc, LoginPath)
	}
}

func TestAuth_PassesIdentityToContext(t *testing.T) {
	sm := testSessionManager(t)
	user := &model.User{ID: "u1", Username: "bold", Role: model.RoleAdmin}
	token := signedToken(t, time.Now().Add(time.Hour))

	var gotUser *model.User
	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUser(r)
		gotToken = GetToken(r)
	})

	rec := httptest.NewRecorder()
	Auth(sm)(next).ServeHTTP(rec, requestWithIdentity(t, sm, token, user))

	if gotUser == nil || gotUser.ID != "u1" {
		t.Fatalf("GetUser = %+v, want u1", gotUser)
	}
	if gotToken != token {
		t.Errorf("GetToken = %q, want %q", gotToken, token)
	}
}

func TestAuth_OpaqueTokenNeverExpires(t *testing.T) {
	sm := testSessionManager(t)
	called := false

	rec := httptest.NewRecorder()
	req := requestWithIdentity(t, sm, "opaque-token", &model.User{ID: "u1", Role: model.RoleUser})
	Auth(sm)(okHandler(&called)).ServeHTTP(rec, req)

	if !called {
		t.Error("opaque token should pass the gate")
	}
}

func TestAuth_ExpiredTokenClearsSession(t *testing.T) {
	sm := testSessionManager(t)
	user := &model.User{ID: "u1", Role: model.RoleAdmin}
	token := signedToken(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	origNow := now
	now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC) }
	t.Cleanup(func() { now = origNow })

	called := false
	req := requestWithIdentity(t, sm, token, user)
	rec := httptest.NewRecorder()
	Auth(sm)(okHandler(&called)).ServeHTTP(rec, req)

	if called {
		t.Error("expired token should not reach the handler")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != LoginPath {
		t.Errorf("got %d %q, want redirect to login", rec.Code, rec.Header().Get("Location"))
	}
	if _, u := session.Identity(req.Context(), sm); u != nil {
		t.Error("identity should be cleared")
	}
	if got := sm.GetString(req.Context(), session.KeyFlash); got != "Your session has expired. Please sign in again." {
		t.Errorf("flash = %q", got)
	}
}

func TestAuth_ExpiredTokenFlashFollowsLanguage(t *testing.T) {
	sm := testSessionManager(t)
	token := signedToken(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	origNow := now
	now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = origNow })

	called := false
	req := requestWithIdentity(t, sm, token, &model.User{ID: "u1", Role: model.RoleUser})
	sm.Put(req.Context(), session.KeyLanguage, "mn")
	Auth(sm)(okHandler(&called)).ServeHTTP(httptest.NewRecorder(), req)

	if got := sm.GetString(req.Context(), session.KeyFlash); got != "Таны сесс дууссан байна. Дахин нэвтэрнэ үү." {
		t.Errorf("flash = %q; want the Mongolian message", got)
	}
}

func TestGuestOnly(t *testing.T) {
	sm := testSessionManager(t)

	tests := []struct {
		name       string
		user       *model.User
		token      string
		wantCalled bool
	}{
		{"guest sees login", nil, "", true},
		{"signed in redirected", &model.User{ID: "u1", Role: model.RoleUser}, "opaque", false},
		{"expired token sees login", &model.User{ID: "u1", Role: model.RoleUser}, signedToken(t, time.Now().Add(-time.Hour)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			rec := httptest.NewRecorder()
			GuestOnly(sm)(okHandler(&called)).ServeHTTP(rec, requestWithIdentity(t, sm, tt.token, tt.user))

			if called != tt.wantCalled {
				t.Errorf("called = %v, want %v", called, tt.wantCalled)
			}
			if !tt.wantCalled && rec.Header().Get("Location") != DefaultAuthedURL {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), DefaultAuthedURL)
			}
		})
	}
}

func TestRequireAction(t *testing.T) {
	tests := []struct {
		name       string
		user       *model.User
		action     policy.Action
		wantStatus int
	}{
		{"no user redirects", nil, policy.BlogWrite, http.StatusSeeOther},
		{"user cannot write blogs", &model.User{ID: "1", Role: model.RoleUser}, policy.BlogWrite, http.StatusForbidden},
		{"admin writes blogs", &model.User{ID: "2", Role: model.RoleAdmin}, policy.BlogWrite, http.StatusOK},
		{"admin cannot delete users", &model.User{ID: "2", Role: model.RoleAdmin}, policy.UserDelete, http.StatusForbidden},
		{"super-admin deletes users", &model.User{ID: "3", Role: model.RoleSuperAdmin}, policy.UserDelete, http.StatusOK},
		{"super-admin resets passwords", &model.User{ID: "3", Role: model.RoleSuperAdmin}, policy.UserResetPassword, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			req := httptest.NewRequest(http.MethodPost, "/admin/users/1/delete", nil)
			if tt.user != nil {
				req = WithIdentity(req, tt.user, "tok")
			}
			rec := httptest.NewRecorder()
			RequireAction(tt.action)(okHandler(&called)).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("called = %v", called)
			}
		})
	}
}

func TestGetUserID_NoUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := GetUserID(req); id != "" {
		t.Errorf("GetUserID = %q, want empty", id)
	}
}
