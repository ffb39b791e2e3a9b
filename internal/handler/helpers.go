// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/session"
	"github.com/olegiv/ocms-console/internal/uikit"
)

// backendHandler carries what every entity handler needs: the API client,
// the renderer and the session manager.
type backendHandler struct {
	api            *backend.Client
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

func newBackendHandler(api *backend.Client, renderer *render.Renderer, sm *scs.SessionManager) backendHandler {
	return backendHandler{api: api, renderer: renderer, sessionManager: sm}
}

// client returns the API client authenticated as the session user.
func (h *backendHandler) client(r *http.Request) *backend.Client {
	return h.api.WithToken(middleware.GetToken(r))
}

// render writes a page and turns a template failure into a 500.
func (h *backendHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	if err := h.renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, "failed to render template", "template", name, "error", err)
	}
}

// expireSession drops the identity after the backend rejected the token
// and sends the browser to the login page.
func (h *backendHandler) expireSession(w http.ResponseWriter, r *http.Request) {
	slog.Info("backend rejected session token", "user_id", middleware.GetUserID(r), "path", r.URL.Path)
	session.ClearIdentity(r.Context(), h.sessionManager)
	h.renderer.SetFlash(r, i18n.T(middleware.GetAdminLang(r), "auth.session_expired"), flashTypeInfo)
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", redirectLogin)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
}

// renderNotFound renders the generic not-found page.
func (h *backendHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)
	h.render(w, r, http.StatusNotFound, "errors/not_found", render.TemplateData{
		Title: i18n.T(lang, "title.not_found"),
	})
}

// handleReadError deals with a failed detail fetch: 401 ends the session,
// 404 renders the not-found page, anything else goes back to listURL with
// the backend message.
func (h *backendHandler) handleReadError(w http.ResponseWriter, r *http.Request, err error, listURL, entity, id string) {
	switch {
	case backend.IsUnauthorized(err):
		h.expireSession(w, r)
	case backend.IsNotFound(err):
		h.renderNotFound(w, r)
	default:
		slog.Error("failed to get "+entity, "error", err, entity+"_id", id)
		flashError(w, r, h.renderer, listURL, backend.UserMessage(err))
	}
}

// handleWriteError re-renders a form after a failed backend write. The draft
// in data is kept and the backend message is shown as an error toast.
func (h *backendHandler) handleWriteError(w http.ResponseWriter, r *http.Request, err error, name string, data render.TemplateData, logMsg string, args ...any) {
	if backend.IsUnauthorized(err) {
		h.expireSession(w, r)
		return
	}
	slog.Error(logMsg, append(args, "error", err)...)
	data.Flash = backend.UserMessage(err)
	data.FlashType = flashTypeError
	h.render(w, r, failureStatus(err), name, data)
}

// renderInvalid re-renders a form that failed local validation.
func (h *backendHandler) renderInvalid(w http.ResponseWriter, r *http.Request, name string, data render.TemplateData) {
	data.Flash = i18n.T(middleware.GetAdminLang(r), "form.invalid")
	data.FlashType = flashTypeError
	h.render(w, r, http.StatusUnprocessableEntity, name, data)
}

// requireEntity fetches one record for a detail or edit view. On failure the
// response has already been written and ok is false.
func requireEntity[T any](
	w http.ResponseWriter,
	r *http.Request,
	h *backendHandler,
	listURL string,
	entity string,
	fetch func(ctx context.Context, id string) (*T, error),
) (record *T, id string, ok bool) {
	id = chiID(r)
	record, err := fetch(r.Context(), id)
	if err != nil {
		h.handleReadError(w, r, err, listURL, entity, id)
		return nil, id, false
	}
	return record, id, true
}

// chiID returns the {id} route parameter.
func chiID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// listPage holds a fetched page of records ready for a list template.
type listPage[T any] struct {
	Items      []T
	Query      ListQuery
	Pagination uikit.Pagination
	LoadError  string
}

// fetchList runs one backend list call with the parsed filters. A failed
// call yields an empty page with LoadError set; a 401 ends the session and
// ok is false.
func fetchList[T any](
	w http.ResponseWriter,
	r *http.Request,
	h *backendHandler,
	baseURL string,
	entity string,
	list func(ctx context.Context, query ListQuery) (*backend.Paginated[T], error),
) (page listPage[T], ok bool) {
	page.Query = ParseListQuery(r)

	result, err := list(r.Context(), page.Query)
	if err != nil {
		if backend.IsUnauthorized(err) {
			h.expireSession(w, r)
			return page, false
		}
		slog.Error("failed to list "+entity, "error", err, "query", page.Query.Values().Encode())
		page.LoadError = backend.UserMessage(err)
		page.Pagination = uikit.NewPagination(1, 0, 0, baseURL, page.Query.Values())
		return page, true
	}

	page.Items = result.Data
	page.Pagination = uikit.NewPagination(result.CurrentPage, result.TotalPages, result.Total, baseURL, page.Query.Values())
	return page, true
}

// renderList renders a list page, surfacing a load failure as an error
// flash with 502.
func (h *backendHandler) renderList(w http.ResponseWriter, r *http.Request, name string, loadError string, data render.TemplateData) {
	status := http.StatusOK
	if loadError != "" {
		data.Flash = loadError
		data.FlashType = flashTypeError
		status = http.StatusBadGateway
	}
	h.render(w, r, status, name, data)
}

// adminBreadcrumbs starts every breadcrumb trail at the dashboard.
func adminBreadcrumbs(lang string, crumbs ...uikit.Breadcrumb) []uikit.Breadcrumb {
	out := []uikit.Breadcrumb{{Label: i18n.T(lang, "nav.dashboard"), URL: redirectAdmin}}
	out = append(out, crumbs...)
	if len(out) > 0 {
		out[len(out)-1].Active = true
	}
	return out
}
