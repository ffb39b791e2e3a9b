// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/session"
)

// AuthHandler handles authentication routes. Credentials are checked by
// the backend; the console keeps the returned token and user in the session.
type AuthHandler struct {
	api             *backend.Client
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	locator         CountryLocator
}

// CountryLocator maps a client address to a country code for audit logs.
type CountryLocator interface {
	Country(addr string) string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(api *backend.Client, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		api:             api,
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// SetCountryLocator adds the client country to login audit logs.
func (h *AuthHandler) SetCountryLocator(l CountryLocator) {
	h.locator = l
}

// country returns the client country for logging, or "" when unknown.
func (h *AuthHandler) country(r *http.Request) string {
	if h.locator == nil {
		return ""
	}
	return h.locator.Country(r.RemoteAddr)
}

// LoginData holds data for the login template.
type LoginData struct {
	Username string
}

// LoginForm renders the login page. Signed-in users never reach it; the
// GuestOnly middleware redirects them to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)
	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: i18n.T(lang, "title.login"),
		Data:  LoginData{Username: r.URL.Query().Get("username")},
	}); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "flash.invalid_form"))
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.required"))
		return
	}

	// Check if account is locked
	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(r.Context(), username); locked {
			slog.Warn("login attempt on locked account", "username", username, "remote_addr", r.RemoteAddr)
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.account_locked", formatDuration(remaining)))
			return
		}
	}

	result, err := h.api.Login(r.Context(), backend.Credentials{Username: username, Password: password})
	if err != nil {
		if !isCredentialError(err) {
			slog.Error("login request failed", "username", username, "error", err)
			flashError(w, r, h.renderer, redirectLogin, backend.UserMessage(err))
			return
		}

		slog.Info("login failed", "username", username, "remote_addr", r.RemoteAddr, "country", h.country(r))
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(r.Context(), username); locked {
				slog.Warn("account locked due to failed attempts", "username", username, "duration", lockDuration.String())
				flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.account_locked", formatDuration(lockDuration)))
				return
			}
			remaining := h.loginProtection.GetRemainingAttempts(r.Context(), username)
			if remaining <= 3 && remaining > 0 {
				flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.attempts_remaining", remaining))
				return
			}
		}
		flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.invalid_credentials"))
		return
	}

	// Clear failed attempts on successful login
	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(r.Context(), username)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	if err := session.PutIdentity(r.Context(), h.sessionManager, result.Token, result.User); err != nil {
		logAndInternalError(w, "failed to store session identity", "error", err)
		return
	}

	device := parseUserAgent(r.UserAgent())
	slog.Info("user logged in",
		"user_id", result.User.ID,
		"username", result.User.Username,
		"role", result.User.Role,
		"browser", device.Browser,
		"os", device.OS,
		"device", device.DeviceType,
		"country", h.country(r),
	)

	flashSuccess(w, r, h.renderer, redirectAdmin, i18n.T(lang, "auth.welcome", result.User.FullName()))
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	_, user := session.Identity(r.Context(), h.sessionManager)
	lang := middleware.GetAdminLang(r)

	// Destroy the session
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	if user != nil {
		slog.Info("user logged out", "user_id", user.ID)
	}

	// Keep the UI language across the fresh session
	h.sessionManager.Put(r.Context(), session.KeyLanguage, lang)
	flashAndRedirect(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.logged_out"), flashTypeInfo)
}

// SetLanguage handles POST /language - stores the UI language preference
// and returns to the page the form was posted from.
func (h *AuthHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if !i18n.IsSupported(lang) {
		lang = i18n.GetDefaultLanguage()
	}
	h.sessionManager.Put(r.Context(), session.KeyLanguage, lang)

	http.Redirect(w, r, localReferer(r, redirectAdmin), http.StatusSeeOther)
}

// localReferer returns the path and query of the Referer header when it
// points at this host, otherwise fallback.
func localReferer(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") {
		return fallback
	}
	if ref.Host != "" && ref.Host != r.Host {
		return fallback
	}
	if strings.HasPrefix(ref.Path, "//") {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// isCredentialError reports whether the backend refused the credentials
// rather than failing to answer.
func isCredentialError(err error) bool {
	be, ok := asBackendError(err)
	if !ok {
		return false
	}
	switch be.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
