// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/ocms-console/internal/handler"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/policy"
	"github.com/olegiv/ocms-console/internal/submit"
	"github.com/olegiv/ocms-console/web"
)

// crudHandlers defines the standard CRUD handler methods of an entity.
type crudHandlers struct {
	List          http.HandlerFunc
	NewForm       http.HandlerFunc
	Create        http.HandlerFunc
	EditForm      http.HandlerFunc
	Update        http.HandlerFunc
	ConfirmDelete http.HandlerFunc
	Delete        http.HandlerFunc
}

// registerCRUD registers standard CRUD routes for a resource. The list is
// open to every signed-in role; everything else requires write.
// Routes: GET /, GET /new, POST /, GET /{id}, PUT /{id}, POST /{id},
// GET /{id}/delete, POST /{id}/delete
func registerCRUD(r chi.Router, base, baseID string, write policy.Action, h crudHandlers) {
	r.Get(base, h.List)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAction(write))
		r.Get(base+handler.RouteSuffixNew, h.NewForm)
		r.Post(base, h.Create)
		r.Get(baseID, h.EditForm)
		r.Put(baseID, h.Update)
		r.Post(baseID, h.Update) // HTML forms can't send PUT
		r.Get(baseID+handler.RouteSuffixDelete, h.ConfirmDelete)
		r.Post(baseID+handler.RouteSuffixDelete, h.Delete)
	})
}

// handlers bundles everything the router dispatches to.
type handlers struct {
	auth       *handler.AuthHandler
	admin      *handler.AdminHandler
	health     *handler.HealthHandler
	categories *handler.CategoriesHandler
	blogs      *handler.BlogsHandler
	pages      *handler.PagesHandler
	sections   *handler.SectionsHandler
	surveys    *handler.SurveysHandler
	messages   *handler.MessagesHandler
	users      *handler.UsersHandler
}

// routerConfig carries the middleware dependencies of the router.
type routerConfig struct {
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	submitGuard     *submit.Guard
	csrfKey         []byte
	isDev           bool
	serverAddr      string
	assetBaseURL    string
}

// newRouter builds the console's HTTP routes.
func newRouter(cfg routerConfig, h handlers) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.isDev, cfg.assetBaseURL)))
	r.Use(middleware.RequestPath)

	// Health checks carry no session.
	r.Get(handler.RouteHealth, h.health.Health)
	r.Get(handler.RouteHealth+"/live", h.health.Liveness)

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return nil, fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(86400)(http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/dist/*", staticHandler)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(cfg.csrfKey, cfg.isDev, cfg.serverAddr))

	r.Group(func(r chi.Router) {
		r.Use(cfg.sessionManager.LoadAndSave)
		r.Use(csrfMiddleware)
		r.Use(cfg.submitGuard.Middleware)

		r.Get(handler.RouteRoot, func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, handler.RouteAdmin, http.StatusSeeOther)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.GuestOnly(cfg.sessionManager))
			r.Get(handler.RouteLogin, h.auth.LoginForm)
			r.With(cfg.loginProtection.Middleware()).Post(handler.RouteLogin, h.auth.Login)
		})

		r.Post(handler.RouteLogout, h.auth.Logout)
		r.Post(handler.RouteLanguage, h.auth.SetLanguage)

		r.Route(handler.RouteAdmin, func(r chi.Router) {
			r.Use(middleware.Auth(cfg.sessionManager))

			r.Get(handler.RouteRoot, h.admin.Dashboard)

			registerCRUD(r, handler.RouteCategories, handler.RouteCategories+handler.RouteParamID, policy.CategoryWrite, crudHandlers{
				List: h.categories.List, NewForm: h.categories.NewForm, Create: h.categories.Create,
				EditForm: h.categories.EditForm, Update: h.categories.Update,
				ConfirmDelete: h.categories.ConfirmDelete, Delete: h.categories.Delete,
			})

			registerCRUD(r, handler.RouteBlogs, handler.RouteBlogs+handler.RouteParamID, policy.BlogWrite, crudHandlers{
				List: h.blogs.List, NewForm: h.blogs.NewForm, Create: h.blogs.Create,
				EditForm: h.blogs.EditForm, Update: h.blogs.Update,
				ConfirmDelete: h.blogs.ConfirmDelete, Delete: h.blogs.Delete,
			})
			r.Get(handler.RouteBlogs+handler.RouteParamID+handler.RouteSuffixPreview, h.blogs.Preview)

			// Pages are addressed by slug.
			registerCRUD(r, handler.RoutePages, handler.RoutePages+handler.RouteParamSlug, policy.PageWrite, crudHandlers{
				List: h.pages.List, NewForm: h.pages.NewForm, Create: h.pages.Create,
				EditForm: h.pages.EditForm, Update: h.pages.Update,
				ConfirmDelete: h.pages.ConfirmDelete, Delete: h.pages.Delete,
			})

			registerCRUD(r, handler.RouteSections, handler.RouteSections+handler.RouteParamID, policy.SectionWrite, crudHandlers{
				List: h.sections.List, NewForm: h.sections.NewForm, Create: h.sections.Create,
				EditForm: h.sections.EditForm, Update: h.sections.Update,
				ConfirmDelete: h.sections.ConfirmDelete, Delete: h.sections.Delete,
			})

			registerCRUD(r, handler.RouteSurveys, handler.RouteSurveys+handler.RouteParamID, policy.SurveyWrite, crudHandlers{
				List: h.surveys.List, NewForm: h.surveys.NewForm, Create: h.surveys.Create,
				EditForm: h.surveys.EditForm, Update: h.surveys.Update,
				ConfirmDelete: h.surveys.ConfirmDelete, Delete: h.surveys.Delete,
			})
			r.Get(handler.RouteSurveys+handler.RouteParamID+handler.RouteSuffixResponses, h.surveys.Responses)

			r.Get(handler.RouteMessages, h.messages.List)
			r.Get(handler.RouteMessages+handler.RouteParamID, h.messages.Detail)
			r.With(middleware.RequireAction(policy.MessageUpdate)).
				Post(handler.RouteMessages+handler.RouteParamID+handler.RouteSuffixSeen, h.messages.MarkSeen)

			// Staff accounts
			usersID := handler.RouteUsers + handler.RouteParamID
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAction(policy.UserWrite))
				r.Get(handler.RouteUsers, h.users.List)
				r.Get(handler.RouteUsers+handler.RouteSuffixNew, h.users.NewForm)
				r.Post(handler.RouteUsers, h.users.Create)
				r.Get(usersID, h.users.EditForm)
				r.Put(usersID, h.users.Update)
				r.Post(usersID, h.users.Update)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAction(policy.UserDelete))
				r.Get(usersID+handler.RouteSuffixDelete, h.users.ConfirmDelete)
				r.Post(usersID+handler.RouteSuffixDelete, h.users.Delete)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAction(policy.UserResetPassword))
				r.Get(usersID+handler.RouteSuffixResetPassword, h.users.ResetPasswordForm)
				r.Post(usersID+handler.RouteSuffixResetPassword, h.users.ResetPassword)
			})
		})

		r.NotFound(h.admin.NotFound)
	})

	return r, nil
}
