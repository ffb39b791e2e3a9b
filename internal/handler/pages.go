// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/chips"
	"github.com/olegiv/ocms-console/internal/form"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/uikit"
	"github.com/olegiv/ocms-console/internal/util"
)

// PagesHandler handles static page management routes. Pages are addressed
// by slug in console URLs and by ID in backend writes.
type PagesHandler struct {
	backendHandler
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(api *backend.Client, renderer *render.Renderer, sm *scs.SessionManager) *PagesHandler {
	return &PagesHandler{backendHandler: newBackendHandler(api, renderer, sm)}
}

var pageDelete = deleteTarget{entity: "page", labelID: "entity.page", listURL: redirectAdminPages}

// PagesListData holds data for the pages list template.
type PagesListData struct {
	Pages      []model.Page
	Query      ListQuery
	Pagination uikit.Pagination
}

// PageFormData holds data for the page form template.
type PageFormData struct {
	Page            *model.Page
	Keywords        []string
	Sections        []model.Section
	SelectedSection map[string]bool
	Errors          form.Errors
	FormValues      form.Values
	IsEdit          bool
}

// List handles GET /admin/pages - displays a list of pages.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)

	page, ok := fetchList(w, r, &h.backendHandler, redirectAdminPages, "pages",
		func(ctx context.Context, q ListQuery) (*backend.Paginated[model.Page], error) {
			return h.client(r).ListPages(ctx, q.Values())
		})
	if !ok {
		return
	}

	h.renderList(w, r, "admin/pages_list", page.LoadError, render.TemplateData{
		Title: i18n.T(lang, "title.pages"),
		Data: PagesListData{
			Pages:      page.Items,
			Query:      page.Query,
			Pagination: page.Pagination,
		},
		Breadcrumbs: adminBreadcrumbs(lang, uikit.Breadcrumb{Label: i18n.T(lang, "nav.pages"), URL: redirectAdminPages}),
	})
}

// NewForm handles GET /admin/pages/new - displays the new page form.
func (h *PagesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, PageFormData{
		Keywords:        []string{},
		Sections:        h.sectionOptions(r),
		SelectedSection: map[string]bool{},
		Errors:          form.New(),
		FormValues:      form.Values{},
	})
}

// Create handles POST /admin/pages - creates a new page.
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPages+RouteSuffixNew) {
		return
	}

	in, data := parsePageForm(r)
	data.Sections = h.sectionOptions(r)
	if !data.Errors.Valid() {
		h.renderInvalid(w, r, "admin/pages_form", h.formTemplateData(r, data))
		return
	}

	page, err := h.client(r).CreatePage(r.Context(), in)
	if err != nil {
		h.handleWriteError(w, r, err, "admin/pages_form", h.formTemplateData(r, data), "failed to create page", "slug", in.Slug)
		return
	}

	slog.Info("page created", "page_id", page.ID, "slug", page.Slug, "created_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminPages, i18n.T(lang, "flash.created", i18n.T(lang, "entity.page")))
}

// EditForm handles GET /admin/pages/{slug} - displays the edit page form.
func (h *PagesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	page, ok := h.requirePage(w, r)
	if !ok {
		return
	}

	values := form.Values{"slug": page.Slug}
	values.SetLocalized("name", page.Name)
	values.SetLocalized("description", page.Description)

	selected := make(map[string]bool, len(page.Sections))
	for _, id := range page.SectionIDs() {
		selected[id] = true
	}

	h.renderForm(w, r, http.StatusOK, PageFormData{
		Page:            page,
		Keywords:        chips.New(page.Keywords...).Tokens,
		Sections:        h.sectionOptions(r),
		SelectedSection: selected,
		Errors:          form.New(),
		FormValues:      values,
		IsEdit:          true,
	})
}

// Update handles PUT/POST /admin/pages/{slug} - updates an existing page.
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	page, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, pageURL(page.Slug)) {
		return
	}

	in, data := parsePageForm(r)
	data.Page = page
	data.IsEdit = true
	data.Sections = h.sectionOptions(r)
	if !data.Errors.Valid() {
		h.renderInvalid(w, r, "admin/pages_form", h.formTemplateData(r, data))
		return
	}

	if _, err := h.client(r).UpdatePage(r.Context(), page.ID, in); err != nil {
		h.handleWriteError(w, r, err, "admin/pages_form", h.formTemplateData(r, data), "failed to update page", "page_id", page.ID)
		return
	}

	slog.Info("page updated", "page_id", page.ID, "slug", in.Slug, "updated_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminPages, i18n.T(lang, "flash.updated", i18n.T(lang, "entity.page")))
}

// ConfirmDelete handles GET /admin/pages/{slug}/delete - asks for confirmation.
func (h *PagesHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	page, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	h.renderConfirm(w, r, pageDelete, page.Slug, page.Name.Or(middleware.GetAdminLang(r)))
}

// Delete handles POST /admin/pages/{slug}/delete - deletes a confirmed page.
func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	h.confirmedDelete(w, r, pageDelete, slug, func(ctx context.Context, _ string) error {
		page, err := h.client(r).GetPage(ctx, slug)
		if err != nil {
			return err
		}
		return h.client(r).DeletePage(ctx, page.ID)
	})
}

// requirePage fetches the page named by the {slug} route parameter.
func (h *PagesHandler) requirePage(w http.ResponseWriter, r *http.Request) (*model.Page, bool) {
	slug := chi.URLParam(r, "slug")
	page, err := h.client(r).GetPage(r.Context(), slug)
	if err != nil {
		h.handleReadError(w, r, err, redirectAdminPages, "page", slug)
		return nil, false
	}
	return page, true
}

// sectionOptions loads the first page of sections for the section picker.
func (h *PagesHandler) sectionOptions(r *http.Request) []model.Section {
	res, err := h.client(r).ListSections(r.Context(), nil)
	if err != nil {
		slog.Warn("failed to load section options", "error", err)
		return nil
	}
	return res.Data
}

func (h *PagesHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data PageFormData) {
	h.render(w, r, status, "admin/pages_form", h.formTemplateData(r, data))
}

func (h *PagesHandler) formTemplateData(r *http.Request, data PageFormData) render.TemplateData {
	lang := middleware.GetAdminLang(r)
	title := i18n.T(lang, "title.page_new")
	if data.IsEdit {
		title = i18n.T(lang, "title.page_edit")
	}
	return render.TemplateData{
		Title: title,
		Data:  data,
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: i18n.T(lang, "nav.pages"), URL: redirectAdminPages},
			uikit.Breadcrumb{Label: title},
		),
	}
}

// reservedPageSlug would shadow the new-page form route.
const reservedPageSlug = "new"

func pageURL(slug string) string {
	return redirectAdminPages + "/" + url.PathEscape(slug)
}

// parsePageForm reads and validates the page form. Keywords arrive as the
// committed chips plus whatever is still typed in the keyword input; a blank
// slug is suggested from the English name, or the Mongolian one.
func parsePageForm(r *http.Request) (backend.PageInput, PageFormData) {
	name := form.Localized(r, "name")
	description := form.Localized(r, "description")

	slug := strings.TrimSpace(r.FormValue("slug"))
	if slug == "" {
		slug = util.SuggestSlug(name.EN, name.MN)
	}

	keywords := chips.Parse(r.FormValue("keyword_draft"), r.PostForm["keywords"]...)
	sectionIDs := nonBlank(r.PostForm["sections"])
	selected := make(map[string]bool, len(sectionIDs))
	for _, id := range sectionIDs {
		selected[id] = true
	}

	values := form.Values{"slug": slug}
	values.SetLocalized("name", name)
	values.SetLocalized("description", description)

	errs := form.New()
	errs.Require("slug", "Slug", slug)
	if slug != "" && !util.IsValidSlug(slug) {
		errs.Add("slug", "Slug may only contain lowercase letters, digits and hyphens")
	}
	if slug == reservedPageSlug {
		errs.Add("slug", "This slug is reserved")
	}
	errs.RequireLocalized("name", "Name", name)
	errs.RequireLocalized("description", "Description", description)

	return backend.PageInput{
			Slug:        slug,
			Name:        name,
			Description: description,
			Keywords:    keywords,
			Sections:    sectionIDs,
		}, PageFormData{
			Keywords:        keywords,
			SelectedSection: selected,
			Errors:          errs,
			FormValues:      values,
		}
}
