// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/uikit"
)

// MessagesHandler handles contact message routes. Messages are read-only
// apart from the seen flag.
type MessagesHandler struct {
	backendHandler
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(api *backend.Client, renderer *render.Renderer, sm *scs.SessionManager) *MessagesHandler {
	return &MessagesHandler{backendHandler: newBackendHandler(api, renderer, sm)}
}

// MessagesListData holds data for the messages list template.
type MessagesListData struct {
	Messages   []model.Message
	Query      ListQuery
	Pagination uikit.Pagination
}

// List handles GET /admin/messages - displays a filtered list of messages.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)

	page, ok := fetchList(w, r, &h.backendHandler, redirectAdminMessages, "messages",
		func(ctx context.Context, q ListQuery) (*backend.Paginated[model.Message], error) {
			return h.client(r).ListMessages(ctx, q.Values())
		})
	if !ok {
		return
	}

	h.renderList(w, r, "admin/messages_list", page.LoadError, render.TemplateData{
		Title: i18n.T(lang, "title.messages"),
		Data: MessagesListData{
			Messages:   page.Items,
			Query:      page.Query,
			Pagination: page.Pagination,
		},
		Breadcrumbs: adminBreadcrumbs(lang, uikit.Breadcrumb{Label: i18n.T(lang, "nav.messages"), URL: redirectAdminMessages}),
	})
}

// Detail handles GET /admin/messages/{id} - shows one message. Viewing does
// not mark it seen.
func (h *MessagesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	msg, _, ok := requireEntity(w, r, &h.backendHandler, redirectAdminMessages, "message", h.client(r).GetMessage)
	if !ok {
		return
	}

	lang := middleware.GetAdminLang(r)
	h.render(w, r, http.StatusOK, "admin/messages_detail", render.TemplateData{
		Title: i18n.T(lang, "title.message"),
		Data:  msg,
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: i18n.T(lang, "nav.messages"), URL: redirectAdminMessages},
			uikit.Breadcrumb{Label: msg.Subject},
		),
	})
}

// MarkSeen handles POST /admin/messages/{id}/seen. htmx requests get the
// updated table row and a toast; plain posts are redirected to the list.
func (h *MessagesHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	id := chiID(r)
	lang := middleware.GetAdminLang(r)

	msg, err := h.client(r).MarkMessageSeen(r.Context(), id)
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.expireSession(w, r)
			return
		}
		slog.Error("failed to mark message seen", "error", err, "message_id", id)
		if isHTMX(r) {
			w.Header().Set("HX-Reswap", "none")
			setToast(w, backend.UserMessage(err), flashTypeError)
			w.WriteHeader(failureStatus(err))
			return
		}
		flashError(w, r, h.renderer, redirectAdminMessages, backend.UserMessage(err))
		return
	}

	slog.Info("message marked seen", "message_id", id, "updated_by", middleware.GetUserID(r))

	if isHTMX(r) {
		setToast(w, i18n.T(lang, "flash.message_seen"), flashTypeSuccess)
		if err := h.renderer.RenderPartial(w, r, "admin/messages_list", "message_row", render.TemplateData{Data: msg}); err != nil {
			logAndInternalError(w, "failed to render message row", "error", err)
		}
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminMessages, i18n.T(lang, "flash.message_seen"))
}
