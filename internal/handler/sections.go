// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/form"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/uikit"
)

// SectionKeys are the section keys offered in the form. Other keys are
// accepted as free text; only these get their content shape checked.
var SectionKeys = []string{model.SectionKeyFooter, model.SectionKeyHomeBlog}

// SectionsHandler handles page section management routes.
type SectionsHandler struct {
	backendHandler
}

// NewSectionsHandler creates a new SectionsHandler.
func NewSectionsHandler(api *backend.Client, renderer *render.Renderer, sm *scs.SessionManager) *SectionsHandler {
	return &SectionsHandler{backendHandler: newBackendHandler(api, renderer, sm)}
}

var sectionDelete = deleteTarget{entity: "section", labelID: "entity.section", listURL: redirectAdminSections}

// SectionsListData holds data for the sections list template.
type SectionsListData struct {
	Sections   []model.Section
	Query      ListQuery
	Pagination uikit.Pagination
}

// SectionFormData holds data for the section form template.
type SectionFormData struct {
	Section    *model.Section
	Keys       []string
	Errors     form.Errors
	FormValues form.Values
	IsEdit     bool
}

// List handles GET /admin/sections - displays a list of sections.
func (h *SectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)

	page, ok := fetchList(w, r, &h.backendHandler, redirectAdminSections, "sections",
		func(ctx context.Context, q ListQuery) (*backend.Paginated[model.Section], error) {
			return h.client(r).ListSections(ctx, q.Values())
		})
	if !ok {
		return
	}

	h.renderList(w, r, "admin/sections_list", page.LoadError, render.TemplateData{
		Title: i18n.T(lang, "title.sections"),
		Data: SectionsListData{
			Sections:   page.Items,
			Query:      page.Query,
			Pagination: page.Pagination,
		},
		Breadcrumbs: adminBreadcrumbs(lang, uikit.Breadcrumb{Label: i18n.T(lang, "nav.sections"), URL: redirectAdminSections}),
	})
}

// NewForm handles GET /admin/sections/new - displays the new section form.
func (h *SectionsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "admin/sections_form", h.formTemplateData(r, SectionFormData{
		Keys:       SectionKeys,
		Errors:     form.New(),
		FormValues: form.Values{"sort": "0", "content": "{}"},
	}))
}

// Create handles POST /admin/sections - creates a new section.
func (h *SectionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSections+RouteSuffixNew) {
		return
	}

	in, values, errs := parseSectionForm(r)
	data := SectionFormData{Keys: SectionKeys, Errors: errs, FormValues: values}
	if !errs.Valid() {
		h.renderInvalid(w, r, "admin/sections_form", h.formTemplateData(r, data))
		return
	}

	section, err := h.client(r).CreateSection(r.Context(), in)
	if err != nil {
		h.handleWriteError(w, r, err, "admin/sections_form", h.formTemplateData(r, data), "failed to create section", "key", in.Key)
		return
	}

	slog.Info("section created", "section_id", section.ID, "key", section.Key, "created_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminSections, i18n.T(lang, "flash.created", i18n.T(lang, "entity.section")))
}

// EditForm handles GET /admin/sections/{id} - displays the edit section form.
func (h *SectionsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	section, _, ok := requireEntity(w, r, &h.backendHandler, redirectAdminSections, "section", h.client(r).GetSection)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, "admin/sections_form", h.formTemplateData(r, SectionFormData{
		Section: section,
		Keys:    SectionKeys,
		Errors:  form.New(),
		FormValues: form.Values{
			"key":     section.Key,
			"sort":    strconv.Itoa(section.Sort),
			"content": uikit.PrettyJSON(section.Content),
		},
		IsEdit: true,
	}))
}

// Update handles PUT/POST /admin/sections/{id} - updates an existing section.
func (h *SectionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	section, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminSections, "section", h.client(r).GetSection)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSections+"/"+id) {
		return
	}

	in, values, errs := parseSectionForm(r)
	data := SectionFormData{Section: section, Keys: SectionKeys, Errors: errs, FormValues: values, IsEdit: true}
	if !errs.Valid() {
		h.renderInvalid(w, r, "admin/sections_form", h.formTemplateData(r, data))
		return
	}

	if _, err := h.client(r).UpdateSection(r.Context(), id, in); err != nil {
		h.handleWriteError(w, r, err, "admin/sections_form", h.formTemplateData(r, data), "failed to update section", "section_id", id)
		return
	}

	slog.Info("section updated", "section_id", id, "key", in.Key, "updated_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminSections, i18n.T(lang, "flash.updated", i18n.T(lang, "entity.section")))
}

// ConfirmDelete handles GET /admin/sections/{id}/delete - asks for confirmation.
func (h *SectionsHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	section, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminSections, "section", h.client(r).GetSection)
	if !ok {
		return
	}
	h.renderConfirm(w, r, sectionDelete, id, section.Key)
}

// Delete handles POST /admin/sections/{id}/delete - deletes a confirmed section.
func (h *SectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.confirmedDelete(w, r, sectionDelete, chiID(r), h.client(r).DeleteSection)
}

func (h *SectionsHandler) formTemplateData(r *http.Request, data SectionFormData) render.TemplateData {
	lang := middleware.GetAdminLang(r)
	title := i18n.T(lang, "title.section_new")
	if data.IsEdit {
		title = i18n.T(lang, "title.section_edit")
	}
	return render.TemplateData{
		Title: title,
		Data:  data,
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: i18n.T(lang, "nav.sections"), URL: redirectAdminSections},
			uikit.Breadcrumb{Label: title},
		),
	}
}

// parseSectionForm reads and validates the section form. The content must
// be a JSON object matching the shape its key expects.
func parseSectionForm(r *http.Request) (backend.SectionInput, form.Values, form.Errors) {
	values := form.Values{
		"key":     strings.TrimSpace(r.FormValue("key")),
		"sort":    strings.TrimSpace(r.FormValue("sort")),
		"content": strings.TrimSpace(r.FormValue("content")),
	}

	errs := form.New()
	errs.Require("key", "Key", values["key"])

	sort := 0
	if values["sort"] != "" {
		n, err := strconv.Atoi(values["sort"])
		if err != nil {
			errs.Add("sort", "Sort must be a whole number")
		}
		sort = n
	}

	errs.Require("content", "Content", values["content"])
	if values["content"] != "" {
		if err := model.ValidateSectionContent(values["key"], []byte(values["content"])); err != nil {
			errs.Add("content", err.Error())
		}
	}

	return backend.SectionInput{
		Key:     values["key"],
		Sort:    sort,
		Content: json.RawMessage(values["content"]),
	}, values, errs
}
