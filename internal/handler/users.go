// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/form"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/session"
	"github.com/olegiv/ocms-console/internal/uikit"
)

// MinPasswordLength is the shortest password accepted by the user forms.
const MinPasswordLength = 8

// UsersHandler handles staff user management routes.
type UsersHandler struct {
	backendHandler
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(api *backend.Client, renderer *render.Renderer, sm *scs.SessionManager) *UsersHandler {
	return &UsersHandler{backendHandler: newBackendHandler(api, renderer, sm)}
}

var userDelete = deleteTarget{entity: "user", labelID: "entity.user", listURL: redirectAdminUsers}

// UsersListData holds data for the users list template.
type UsersListData struct {
	Users      []model.User
	Query      ListQuery
	Pagination uikit.Pagination
}

// UserFormData holds data for the user form template.
type UserFormData struct {
	User       *model.User
	Errors     form.Errors
	FormValues form.Values
	IsEdit     bool
}

// ResetPasswordData holds data for the reset password template.
type ResetPasswordData struct {
	User   *model.User
	Errors form.Errors
}

// List handles GET /admin/users - displays a list of users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)

	page, ok := fetchList(w, r, &h.backendHandler, redirectAdminUsers, "users",
		func(ctx context.Context, q ListQuery) (*backend.Paginated[model.User], error) {
			return h.client(r).ListUsers(ctx, q.Values())
		})
	if !ok {
		return
	}

	h.renderList(w, r, "admin/users_list", page.LoadError, render.TemplateData{
		Title: i18n.T(lang, "title.users"),
		Data: UsersListData{
			Users:      page.Items,
			Query:      page.Query,
			Pagination: page.Pagination,
		},
		Breadcrumbs: adminBreadcrumbs(lang, uikit.Breadcrumb{Label: i18n.T(lang, "nav.users"), URL: redirectAdminUsers}),
	})
}

// NewForm handles GET /admin/users/new - displays the new user form.
func (h *UsersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "admin/users_form", h.formTemplateData(r, UserFormData{
		Errors:     form.New(),
		FormValues: form.Values{"role": model.RoleUser},
	}))
}

// Create handles POST /admin/users - creates a new user.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers+RouteSuffixNew) {
		return
	}

	in, values, errs := parseUserForm(r, middleware.GetUser(r), nil)
	data := UserFormData{Errors: errs, FormValues: values}
	if !errs.Valid() {
		h.renderInvalid(w, r, "admin/users_form", h.formTemplateData(r, data))
		return
	}

	user, err := h.client(r).CreateUser(r.Context(), in)
	if err != nil {
		h.handleWriteError(w, r, err, "admin/users_form", h.formTemplateData(r, data), "failed to create user", "username", in.Username)
		return
	}

	slog.Info("user created", "user_id", user.ID, "username", user.Username, "role", user.Role, "created_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminUsers, i18n.T(lang, "flash.created", i18n.T(lang, "entity.user")))
}

// EditForm handles GET /admin/users/{id} - displays the edit user form.
func (h *UsersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requireEntity(w, r, &h.backendHandler, redirectAdminUsers, "user", h.client(r).GetUser)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, "admin/users_form", h.formTemplateData(r, UserFormData{
		User:   user,
		Errors: form.New(),
		FormValues: form.Values{
			"username":      user.Username,
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"role":          user.Role,
			"profile_image": user.ProfileImage,
		},
		IsEdit: true,
	}))
}

// Update handles PUT/POST /admin/users/{id} - updates an existing user.
// Passwords are changed only through the reset password action.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminUsers, "user", h.client(r).GetUser)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers+"/"+id) {
		return
	}

	in, values, errs := parseUserForm(r, middleware.GetUser(r), user)
	data := UserFormData{User: user, Errors: errs, FormValues: values, IsEdit: true}
	if !errs.Valid() {
		h.renderInvalid(w, r, "admin/users_form", h.formTemplateData(r, data))
		return
	}

	updated, err := h.client(r).UpdateUser(r.Context(), id, in)
	if err != nil {
		h.handleWriteError(w, r, err, "admin/users_form", h.formTemplateData(r, data), "failed to update user", "user_id", id)
		return
	}

	// Keep the session copy of the signed-in user current.
	if updated != nil && updated.ID == id && id == middleware.GetUserID(r) {
		if err := h.refreshIdentity(r, updated); err != nil {
			slog.Warn("failed to refresh session user", "user_id", id, "error", err)
		}
	}

	slog.Info("user updated", "user_id", id, "role", in.Role, "updated_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminUsers, i18n.T(lang, "flash.updated", i18n.T(lang, "entity.user")))
}

// ConfirmDelete handles GET /admin/users/{id}/delete - asks for confirmation.
func (h *UsersHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	user, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminUsers, "user", h.client(r).GetUser)
	if !ok {
		return
	}
	if id == middleware.GetUserID(r) {
		flashError(w, r, h.renderer, redirectAdminUsers, i18n.T(middleware.GetAdminLang(r), "user.cannot_delete_self"))
		return
	}
	h.renderConfirm(w, r, userDelete, id, user.FullName()+" ("+user.Username+")")
}

// Delete handles POST /admin/users/{id}/delete - deletes a confirmed user.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chiID(r)
	if id == middleware.GetUserID(r) {
		flashError(w, r, h.renderer, redirectAdminUsers, i18n.T(middleware.GetAdminLang(r), "user.cannot_delete_self"))
		return
	}
	h.confirmedDelete(w, r, userDelete, id, h.client(r).DeleteUser)
}

// ResetPasswordForm handles GET /admin/users/{id}/reset-password.
func (h *UsersHandler) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requireEntity(w, r, &h.backendHandler, redirectAdminUsers, "user", h.client(r).GetUser)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "admin/users_reset_password", h.resetTemplateData(r, ResetPasswordData{
		User:   user,
		Errors: form.New(),
	}))
}

// ResetPassword handles POST /admin/users/{id}/reset-password. The new
// password is never echoed back into the form.
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	user, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminUsers, "user", h.client(r).GetUser)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers+"/"+id+RouteSuffixResetPassword) {
		return
	}

	password := r.PostFormValue("password")
	errs := form.New()
	errs.Require("password", "Password", password)
	errs.MinLength("password", "Password", password, MinPasswordLength)
	data := ResetPasswordData{User: user, Errors: errs}
	if !errs.Valid() {
		h.renderInvalid(w, r, "admin/users_reset_password", h.resetTemplateData(r, data))
		return
	}

	if err := h.client(r).ResetPassword(r.Context(), id, password); err != nil {
		h.handleWriteError(w, r, err, "admin/users_reset_password", h.resetTemplateData(r, data), "failed to reset password", "user_id", id)
		return
	}

	slog.Info("password reset", "user_id", id, "reset_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, i18n.T(middleware.GetAdminLang(r), "flash.password_reset"))
}

// refreshIdentity stores the updated record of the signed-in user.
func (h *UsersHandler) refreshIdentity(r *http.Request, user *model.User) error {
	return session.PutIdentity(r.Context(), h.sessionManager, middleware.GetToken(r), user)
}

func (h *UsersHandler) formTemplateData(r *http.Request, data UserFormData) render.TemplateData {
	lang := middleware.GetAdminLang(r)
	title := i18n.T(lang, "title.user_new")
	if data.IsEdit {
		title = i18n.T(lang, "title.user_edit")
	}
	return render.TemplateData{
		Title: title,
		Data:  data,
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: i18n.T(lang, "nav.users"), URL: redirectAdminUsers},
			uikit.Breadcrumb{Label: title},
		),
	}
}

func (h *UsersHandler) resetTemplateData(r *http.Request, data ResetPasswordData) render.TemplateData {
	lang := middleware.GetAdminLang(r)
	return render.TemplateData{
		Title: i18n.T(lang, "title.reset_password"),
		Data:  data,
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: i18n.T(lang, "nav.users"), URL: redirectAdminUsers},
			uikit.Breadcrumb{Label: data.User.FullName()},
			uikit.Breadcrumb{Label: i18n.T(lang, "title.reset_password")},
		),
	}
}

// parseUserForm reads and validates the user form. target is the user being
// edited, nil on create, where a password is required. Only a super-admin
// may grant or take away the super-admin role.
func parseUserForm(r *http.Request, actor, target *model.User) (backend.UserInput, form.Values, form.Errors) {
	values := form.Values{
		"username":      strings.TrimSpace(r.FormValue("username")),
		"first_name":    strings.TrimSpace(r.FormValue("first_name")),
		"last_name":     strings.TrimSpace(r.FormValue("last_name")),
		"role":          r.FormValue("role"),
		"profile_image": strings.TrimSpace(r.FormValue("profile_image")),
	}

	errs := form.New()
	errs.Require("username", "Username", values["username"])
	errs.Require("first_name", "First name", values["first_name"])
	errs.Require("last_name", "Last name", values["last_name"])
	errs.OneOf("role", "Role", values["role"], model.ValidRoles)
	if !actor.HasRole(model.RoleSuperAdmin) {
		wasSuper := target != nil && target.Role == model.RoleSuperAdmin
		switch {
		case values["role"] == model.RoleSuperAdmin && !wasSuper:
			errs.Add("role", "Only a super-admin can grant the super-admin role")
		case values["role"] != model.RoleSuperAdmin && wasSuper:
			errs.Add("role", "Only a super-admin can change a super-admin's role")
		}
	}

	in := backend.UserInput{
		Username:     values["username"],
		FirstName:    values["first_name"],
		LastName:     values["last_name"],
		Role:         values["role"],
		ProfileImage: values["profile_image"],
	}

	if target == nil {
		password := r.PostFormValue("password")
		errs.Require("password", "Password", password)
		errs.MinLength("password", "Password", password, MinPasswordLength)
		in.Password = password
	}

	return in, values, errs
}
