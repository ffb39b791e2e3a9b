// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/session"
)

// globalSessionManager is set by SetSessionManager and used by GetAdminLang.
var globalSessionManager *scs.SessionManager

// SetSessionManager sets the global session manager for UI language retrieval.
// This should be called during application initialization.
func SetSessionManager(sm *scs.SessionManager) {
	globalSessionManager = sm
}

// GetAdminLang retrieves the UI language preference from the session.
// Falls back to the Accept-Language header, then the configured default.
func GetAdminLang(r *http.Request) string {
	if globalSessionManager != nil {
		if lang := globalSessionManager.GetString(r.Context(), session.KeyLanguage); lang != "" && i18n.IsSupported(lang) {
			return lang
		}
	}
	if acceptLang := r.Header.Get("Accept-Language"); acceptLang != "" {
		if lang := i18n.MatchLanguage(acceptLang); lang != "" {
			return lang
		}
	}
	return i18n.GetDefaultLanguage()
}
