// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the identity gate,
// authorization, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/logging"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/policy"
	"github.com/olegiv/ocms-console/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for identity data.
const (
	ContextKeyUser  ContextKey = "user"
	ContextKeyToken ContextKey = "token"
)

// Routes the identity gate redirects to.
const (
	LoginPath        = "/login"
	DefaultAuthedURL = "/admin"
)

// now is replaced in tests.
var now = time.Now

// Auth creates middleware that requires an identity in the session.
// Requests without one, or whose token has expired, are redirected to the
// login page. Otherwise the user and token are placed in the request context.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, user := session.Identity(r.Context(), sm)
			if user == nil {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if backend.TokenExpired(token, now()) {
				slog.Info("session token expired", "user_id", user.ID)
				session.ClearIdentity(r.Context(), sm)
				sm.Put(r.Context(), session.KeyFlash, i18n.T(sessionLang(r, sm), "auth.session_expired"))
				sm.Put(r.Context(), session.KeyFlashTyp, "info")
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeyToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionLang returns the UI language chosen in sm's session, falling back
// to GetAdminLang.
func sessionLang(r *http.Request, sm *scs.SessionManager) string {
	if lang := sm.GetString(r.Context(), session.KeyLanguage); lang != "" && i18n.IsSupported(lang) {
		return lang
	}
	return GetAdminLang(r)
}

// GuestOnly redirects requests that already carry an identity to the
// default authenticated route. It guards the login page.
func GuestOnly(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, user := session.Identity(r.Context(), sm); user != nil && !backend.TokenExpired(token, now()) {
				http.Redirect(w, r, DefaultAuthedURL, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(ContextKeyUser).(*model.User)
	return user
}

// GetUserID returns the current user's ID from context, or "" if not found.
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return ""
}

// GetToken returns the session bearer token from context.
func GetToken(r *http.Request) string {
	token, _ := r.Context().Value(ContextKeyToken).(string)
	return token
}

// WithIdentity returns a copy of r carrying user and token, as Auth would.
func WithIdentity(r *http.Request, user *model.User, token string) *http.Request {
	ctx := context.WithValue(r.Context(), ContextKeyUser, user)
	ctx = context.WithValue(ctx, ContextKeyToken, token)
	return r.WithContext(ctx)
}

// RequireAction creates middleware that allows the request only when the
// current user's role is in the allow-list of action.
func RequireAction(action policy.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if !policy.Can(user, action) {
				slog.WarnContext(r.Context(), "access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"action", string(action),
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestPath creates middleware that stores the request path in the context.
// The logging handler includes it in file log records.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestPath(r.Context(), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
