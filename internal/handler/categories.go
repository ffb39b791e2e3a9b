// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/form"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/uikit"
)

// CategoriesHandler handles category management routes.
type CategoriesHandler struct {
	backendHandler
}

// NewCategoriesHandler creates a new CategoriesHandler.
func NewCategoriesHandler(api *backend.Client, renderer *render.Renderer, sm *scs.SessionManager) *CategoriesHandler {
	return &CategoriesHandler{backendHandler: newBackendHandler(api, renderer, sm)}
}

var categoryDelete = deleteTarget{entity: "category", labelID: "entity.category", listURL: redirectAdminCategories}

// CategoriesListData holds data for the categories list template.
type CategoriesListData struct {
	Categories []model.Category
	Query      ListQuery
	Pagination uikit.Pagination
}

// CategoryFormData holds data for the category form template.
type CategoryFormData struct {
	Category   *model.Category
	Errors     form.Errors
	FormValues form.Values
	IsEdit     bool
}

// List handles GET /admin/categories - displays a list of categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)

	page, ok := fetchList(w, r, &h.backendHandler, redirectAdminCategories, "categories",
		func(ctx context.Context, q ListQuery) (*backend.Paginated[model.Category], error) {
			return h.client(r).ListCategories(ctx, q.Values())
		})
	if !ok {
		return
	}

	h.renderList(w, r, "admin/categories_list", page.LoadError, render.TemplateData{
		Title: i18n.T(lang, "title.categories"),
		Data: CategoriesListData{
			Categories: page.Items,
			Query:      page.Query,
			Pagination: page.Pagination,
		},
		Breadcrumbs: adminBreadcrumbs(lang, uikit.Breadcrumb{Label: i18n.T(lang, "nav.categories"), URL: redirectAdminCategories}),
	})
}

// NewForm handles GET /admin/categories/new - displays the new category form.
func (h *CategoriesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, CategoryFormData{
		Errors:     form.New(),
		FormValues: form.Values{},
	})
}

// Create handles POST /admin/categories - creates a new category.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategories+RouteSuffixNew) {
		return
	}

	in, values, errs := parseCategoryForm(r)
	data := CategoryFormData{Errors: errs, FormValues: values}
	if !errs.Valid() {
		h.renderInvalid(w, r, "admin/categories_form", h.formTemplateData(r, data))
		return
	}

	category, err := h.client(r).CreateCategory(r.Context(), in)
	if err != nil {
		h.handleWriteError(w, r, err, "admin/categories_form", h.formTemplateData(r, data), "failed to create category")
		return
	}

	slog.Info("category created", "category_id", category.ID, "created_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminCategories, i18n.T(lang, "flash.created", i18n.T(lang, "entity.category")))
}

// EditForm handles GET /admin/categories/{id} - displays the edit category form.
func (h *CategoriesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	category, _, ok := requireEntity(w, r, &h.backendHandler, redirectAdminCategories, "category", h.client(r).GetCategory)
	if !ok {
		return
	}

	values := form.Values{}
	values.SetLocalized("name", category.Name)
	values.SetLocalized("description", category.Description)

	h.renderForm(w, r, http.StatusOK, CategoryFormData{
		Category:   category,
		Errors:     form.New(),
		FormValues: values,
		IsEdit:     true,
	})
}

// Update handles PUT/POST /admin/categories/{id} - updates an existing category.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	category, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminCategories, "category", h.client(r).GetCategory)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategories+"/"+id) {
		return
	}

	in, values, errs := parseCategoryForm(r)
	data := CategoryFormData{Category: category, Errors: errs, FormValues: values, IsEdit: true}
	if !errs.Valid() {
		h.renderInvalid(w, r, "admin/categories_form", h.formTemplateData(r, data))
		return
	}

	if _, err := h.client(r).UpdateCategory(r.Context(), id, in); err != nil {
		h.handleWriteError(w, r, err, "admin/categories_form", h.formTemplateData(r, data), "failed to update category", "category_id", id)
		return
	}

	slog.Info("category updated", "category_id", id, "updated_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminCategories, i18n.T(lang, "flash.updated", i18n.T(lang, "entity.category")))
}

// ConfirmDelete handles GET /admin/categories/{id}/delete - asks for confirmation.
func (h *CategoriesHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	category, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminCategories, "category", h.client(r).GetCategory)
	if !ok {
		return
	}
	h.renderConfirm(w, r, categoryDelete, id, category.Name.Or(middleware.GetAdminLang(r)))
}

// Delete handles POST /admin/categories/{id}/delete - deletes a confirmed category.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.confirmedDelete(w, r, categoryDelete, chiID(r), h.client(r).DeleteCategory)
}

func (h *CategoriesHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data CategoryFormData) {
	h.render(w, r, status, "admin/categories_form", h.formTemplateData(r, data))
}

func (h *CategoriesHandler) formTemplateData(r *http.Request, data CategoryFormData) render.TemplateData {
	lang := middleware.GetAdminLang(r)
	title := i18n.T(lang, "title.category_new")
	if data.IsEdit {
		title = i18n.T(lang, "title.category_edit")
	}
	return render.TemplateData{
		Title: title,
		Data:  data,
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: i18n.T(lang, "nav.categories"), URL: redirectAdminCategories},
			uikit.Breadcrumb{Label: title},
		),
	}
}

// parseCategoryForm reads and validates the category form. Both name and
// description are required in both languages.
func parseCategoryForm(r *http.Request) (backend.CategoryInput, form.Values, form.Errors) {
	name := form.Localized(r, "name")
	description := form.Localized(r, "description")

	values := form.Values{}
	values.SetLocalized("name", name)
	values.SetLocalized("description", description)

	errs := form.New()
	errs.RequireLocalized("name", "Name", name)
	errs.RequireLocalized("description", "Description", description)

	return backend.CategoryInput{Name: name, Description: description}, values, errs
}
