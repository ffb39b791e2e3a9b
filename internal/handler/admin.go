// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the console's HTTP handlers: authentication,
// the dashboard, and list, form and delete views for each backend entity.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/render"
)

// recentMessagesLimit caps the unseen messages shown on the dashboard.
const recentMessagesLimit = 5

// DashboardStats holds the totals displayed on the dashboard. A count the
// backend could not provide is -1.
type DashboardStats struct {
	Blogs          int
	Pages          int
	UnseenMessages int
	Surveys        int
}

// DashboardData holds all dashboard data including stats and recent items.
type DashboardData struct {
	Stats          DashboardStats
	RecentMessages []model.Message
}

// AdminHandler handles the dashboard.
type AdminHandler struct {
	backendHandler
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(api *backend.Client, renderer *render.Renderer, sm *scs.SessionManager) *AdminHandler {
	return &AdminHandler{backendHandler: newBackendHandler(api, renderer, sm)}
}

// Dashboard renders the admin dashboard with totals and unseen messages.
// Each count is one list call; a failed count is shown as unavailable.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	api := h.client(r)
	lang := middleware.GetAdminLang(r)

	var stats DashboardStats
	var recent []model.Message

	blogs, err := api.ListBlogs(ctx, nil)
	if backend.IsUnauthorized(err) {
		h.expireSession(w, r)
		return
	}
	stats.Blogs = dashboardCount("blogs", blogs, err)

	pages, err := api.ListPages(ctx, nil)
	if backend.IsUnauthorized(err) {
		h.expireSession(w, r)
		return
	}
	stats.Pages = dashboardCount("pages", pages, err)

	messages, err := api.ListMessages(ctx, url.Values{paramStatus: {model.MessageStatusUnseen}})
	if backend.IsUnauthorized(err) {
		h.expireSession(w, r)
		return
	}
	stats.UnseenMessages = dashboardCount("unseen messages", messages, err)
	if err == nil {
		recent = messages.Data
		if len(recent) > recentMessagesLimit {
			recent = recent[:recentMessagesLimit]
		}
	}

	surveys, err := api.ListSurveys(ctx, nil)
	if backend.IsUnauthorized(err) {
		h.expireSession(w, r)
		return
	}
	stats.Surveys = dashboardCount("surveys", surveys, err)

	h.render(w, r, http.StatusOK, "admin/dashboard", render.TemplateData{
		Title: i18n.T(lang, "title.dashboard"),
		Data: DashboardData{
			Stats:          stats,
			RecentMessages: recent,
		},
		Breadcrumbs: adminBreadcrumbs(lang),
	})
}

// dashboardCount returns the total of a list call, or -1 when it failed.
func dashboardCount[T any](what string, res *backend.Paginated[T], err error) int {
	if err != nil {
		slog.Error("failed to count "+what, "error", err)
		return -1
	}
	return res.Total
}

// NotFound renders the not-found page for unknown routes.
func (h *AdminHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r)
}
