// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/uikit"
)

// confirmTokenField is the hidden form field carrying the confirmation token.
const confirmTokenField = "confirm_token"

// ConfirmData is the view model of the shared delete confirmation page.
type ConfirmData struct {
	Entity    string // translated entity name
	Target    string // what is being deleted, as shown to the user
	ActionURL string
	CancelURL string
	Token     string
}

func confirmKey(entity, id string) string {
	return "confirm:" + entity + ":" + id
}

// issueConfirmToken stores a fresh one-shot token for deleting entity/id.
func issueConfirmToken(ctx context.Context, sm *scs.SessionManager, entity, id string) string {
	token := uuid.NewString()
	sm.Put(ctx, confirmKey(entity, id), token)
	return token
}

// consumeConfirmToken reports whether posted matches the stored token. The
// stored token is removed either way, so each confirmation is used once.
func consumeConfirmToken(ctx context.Context, sm *scs.SessionManager, entity, id, posted string) bool {
	stored := sm.PopString(ctx, confirmKey(entity, id))
	if stored == "" || posted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(posted)) == 1
}

// deleteTarget describes one delete flow.
type deleteTarget struct {
	entity  string // session key part and log name, e.g. "category"
	labelID string // i18n key of the entity name
	listURL string
}

// renderConfirm renders the confirmation page for deleting id.
func (h *backendHandler) renderConfirm(w http.ResponseWriter, r *http.Request, t deleteTarget, id, targetName string) {
	lang := middleware.GetAdminLang(r)
	entityName := i18n.T(lang, t.labelID)
	data := ConfirmData{
		Entity:    entityName,
		Target:    targetName,
		ActionURL: t.listURL + "/" + id + RouteSuffixDelete,
		CancelURL: t.listURL,
		Token:     issueConfirmToken(r.Context(), h.sessionManager, t.entity, id),
	}
	h.render(w, r, http.StatusOK, "admin/confirm_delete", render.TemplateData{
		Title: i18n.T(lang, "title.confirm_delete"),
		Data:  data,
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: entityName, URL: t.listURL},
			uikit.Breadcrumb{Label: i18n.T(lang, "btn.delete")},
		),
	})
}

// confirmedDelete issues the destructive call only when the posted token
// matches the one issued by the confirmation page. Without it the browser
// is sent back to the confirmation page and the backend is never called.
func (h *backendHandler) confirmedDelete(w http.ResponseWriter, r *http.Request, t deleteTarget, id string, del func(ctx context.Context, id string) error) {
	lang := middleware.GetAdminLang(r)
	confirmURL := t.listURL + "/" + id + RouteSuffixDelete

	if !parseFormOrRedirect(w, r, h.renderer, confirmURL) {
		return
	}
	if !consumeConfirmToken(r.Context(), h.sessionManager, t.entity, id, r.PostFormValue(confirmTokenField)) {
		slog.Warn("delete without confirmation", "entity", t.entity, "id", id, "user_id", middleware.GetUserID(r))
		flashAndRedirect(w, r, h.renderer, confirmURL, i18n.T(lang, "flash.confirm_expired"), flashTypeInfo)
		return
	}

	if err := del(r.Context(), id); err != nil {
		if backend.IsUnauthorized(err) {
			h.expireSession(w, r)
			return
		}
		slog.Error("failed to delete "+t.entity, "error", err, t.entity+"_id", id)
		flashError(w, r, h.renderer, t.listURL, backend.UserMessage(err))
		return
	}

	slog.Info(t.entity+" deleted", t.entity+"_id", id, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, t.listURL, i18n.T(lang, "flash.deleted", i18n.T(lang, t.labelID)))
}
