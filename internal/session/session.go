// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session stores the console identity (bearer token and user record)
// in an scs session backed by SQLite.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/model"
)

// Session keys
const (
	KeyToken    = "token"
	KeyUser     = "user"
	KeyFlash    = "flash"
	KeyFlashTyp = "flash_type"
	KeyLanguage = "admin_lang"
)

// CookieName is the session cookie name.
const CookieName = "console_session"

// Options configures the session manager.
type Options struct {
	Lifetime time.Duration
	Secure   bool
}

// New creates a session manager configured with the SQLite store.
func New(db *sql.DB, opts Options) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = opts.Lifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = 24 * time.Hour
	}
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = opts.Secure

	return sm
}

// PutIdentity stores the token and user after a successful login.
func PutIdentity(ctx context.Context, sm *scs.SessionManager, token string, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	sm.Put(ctx, KeyToken, token)
	sm.Put(ctx, KeyUser, string(data))
	return nil
}

// Identity returns the stored token and user. user is nil when the session
// holds no identity or the stored record cannot be decoded.
func Identity(ctx context.Context, sm *scs.SessionManager) (token string, user *model.User) {
	token = sm.GetString(ctx, KeyToken)
	raw := sm.GetString(ctx, KeyUser)
	if token == "" || raw == "" {
		return "", nil
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		return "", nil
	}
	return token, &u
}

// ClearIdentity removes the token and user, keeping UI preferences.
func ClearIdentity(ctx context.Context, sm *scs.SessionManager) {
	sm.Remove(ctx, KeyToken)
	sm.Remove(ctx, KeyUser)
}
