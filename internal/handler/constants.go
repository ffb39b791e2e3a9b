// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route path constants for the console.
const (
	RouteRoot     = "/"
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteLanguage = "/language"
	RouteHealth   = "/health"
	RouteAdmin    = "/admin"

	RouteBlogs      = "/blogs"
	RouteCategories = "/categories"
	RoutePages      = "/pages"
	RouteSections   = "/sections"
	RouteSurveys    = "/surveys"
	RouteMessages   = "/messages"
	RouteUsers      = "/users"
)

// Route suffix constants appended to entity routes.
const (
	RouteParamID             = "/{id}"
	RouteParamSlug           = "/{slug}"
	RouteSuffixNew           = "/new"
	RouteSuffixDelete        = "/delete"
	RouteSuffixResetPassword = "/reset-password"
	RouteSuffixSeen          = "/seen"
	RouteSuffixResponses     = "/responses"
	RouteSuffixPreview       = "/preview"
)

// Redirect targets after a form post.
const (
	redirectLogin           = RouteLogin
	redirectAdmin           = RouteAdmin
	redirectAdminBlogs      = RouteAdmin + RouteBlogs
	redirectAdminCategories = RouteAdmin + RouteCategories
	redirectAdminPages      = RouteAdmin + RoutePages
	redirectAdminSections   = RouteAdmin + RouteSections
	redirectAdminSurveys    = RouteAdmin + RouteSurveys
	redirectAdminMessages   = RouteAdmin + RouteMessages
	redirectAdminUsers      = RouteAdmin + RouteUsers
)

// Flash types understood by the layout.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
	flashTypeInfo    = "info"
)
