// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/form"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/model"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/uikit"
)

// SurveysHandler handles survey management routes.
type SurveysHandler struct {
	backendHandler
}

// NewSurveysHandler creates a new SurveysHandler.
func NewSurveysHandler(api *backend.Client, renderer *render.Renderer, sm *scs.SessionManager) *SurveysHandler {
	return &SurveysHandler{backendHandler: newBackendHandler(api, renderer, sm)}
}

var surveyDelete = deleteTarget{entity: "survey", labelID: "entity.survey", listURL: redirectAdminSurveys}

// SurveysListData holds data for the surveys list template.
type SurveysListData struct {
	Surveys    []model.Survey
	Query      ListQuery
	Pagination uikit.Pagination
}

// SurveyFormData holds data for the survey form template.
type SurveyFormData struct {
	Survey     *model.Survey
	Versions   []model.SurveyVersion
	Errors     form.Errors
	FormValues form.Values
	IsEdit     bool
}

// SurveyResponsesData holds data for the survey responses template.
type SurveyResponsesData struct {
	Survey     *model.Survey
	Versions   []model.SurveyVersion
	Responses  []model.SurveyResponse
	Query      ListQuery
	Pagination uikit.Pagination
}

// List handles GET /admin/surveys - displays a list of surveys.
func (h *SurveysHandler) List(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)

	page, ok := fetchList(w, r, &h.backendHandler, redirectAdminSurveys, "surveys",
		func(ctx context.Context, q ListQuery) (*backend.Paginated[model.Survey], error) {
			return h.client(r).ListSurveys(ctx, q.Values())
		})
	if !ok {
		return
	}

	h.renderList(w, r, "admin/surveys_list", page.LoadError, render.TemplateData{
		Title: i18n.T(lang, "title.surveys"),
		Data: SurveysListData{
			Surveys:    page.Items,
			Query:      page.Query,
			Pagination: page.Pagination,
		},
		Breadcrumbs: adminBreadcrumbs(lang, uikit.Breadcrumb{Label: i18n.T(lang, "nav.surveys"), URL: redirectAdminSurveys}),
	})
}

// NewForm handles GET /admin/surveys/new - displays the new survey form.
func (h *SurveysHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "admin/surveys_form", h.formTemplateData(r, SurveyFormData{
		Errors:     form.New(),
		FormValues: form.Values{},
	}))
}

// Create handles POST /admin/surveys - creates a new survey.
func (h *SurveysHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSurveys+RouteSuffixNew) {
		return
	}

	in, values, errs := parseSurveyForm(r)
	data := SurveyFormData{Errors: errs, FormValues: values}
	if !errs.Valid() {
		h.renderInvalid(w, r, "admin/surveys_form", h.formTemplateData(r, data))
		return
	}

	survey, err := h.client(r).CreateSurvey(r.Context(), in)
	if err != nil {
		h.handleWriteError(w, r, err, "admin/surveys_form", h.formTemplateData(r, data), "failed to create survey")
		return
	}

	slog.Info("survey created", "survey_id", survey.ID, "questions", len(in.Questions), "created_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminSurveys, i18n.T(lang, "flash.created", i18n.T(lang, "entity.survey")))
}

// EditForm handles GET /admin/surveys/{id} - displays the edit survey form.
// The questions field is prefilled from the latest version.
func (h *SurveysHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	survey, _, ok := requireEntity(w, r, &h.backendHandler, redirectAdminSurveys, "survey", h.client(r).GetSurvey)
	if !ok {
		return
	}
	survey.Versions = h.versions(r, survey)

	values := form.Values{}
	values.SetLocalized("title", survey.Title)
	values.SetLocalized("description", survey.Description)
	if latest := survey.LatestVersion(); latest != nil {
		values["questions"] = model.FormatQuestions(latest.Questions)
	}

	h.render(w, r, http.StatusOK, "admin/surveys_form", h.formTemplateData(r, SurveyFormData{
		Survey:     survey,
		Versions:   survey.Versions,
		Errors:     form.New(),
		FormValues: values,
		IsEdit:     true,
	}))
}

// Update handles PUT/POST /admin/surveys/{id} - updates a survey. Changed
// questions produce a new version on the backend.
func (h *SurveysHandler) Update(w http.ResponseWriter, r *http.Request) {
	survey, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminSurveys, "survey", h.client(r).GetSurvey)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSurveys+"/"+id) {
		return
	}

	in, values, errs := parseSurveyForm(r)
	data := SurveyFormData{Survey: survey, Versions: survey.Versions, Errors: errs, FormValues: values, IsEdit: true}
	if !errs.Valid() {
		h.renderInvalid(w, r, "admin/surveys_form", h.formTemplateData(r, data))
		return
	}

	if _, err := h.client(r).UpdateSurvey(r.Context(), id, in); err != nil {
		h.handleWriteError(w, r, err, "admin/surveys_form", h.formTemplateData(r, data), "failed to update survey", "survey_id", id)
		return
	}

	slog.Info("survey updated", "survey_id", id, "questions", len(in.Questions), "updated_by", middleware.GetUserID(r))
	lang := middleware.GetAdminLang(r)
	flashSuccess(w, r, h.renderer, redirectAdminSurveys, i18n.T(lang, "flash.updated", i18n.T(lang, "entity.survey")))
}

// Responses handles GET /admin/surveys/{id}/responses - lists a survey's
// responses, filterable by version and search text.
func (h *SurveysHandler) Responses(w http.ResponseWriter, r *http.Request) {
	survey, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminSurveys, "survey", h.client(r).GetSurvey)
	if !ok {
		return
	}
	survey.Versions = h.versions(r, survey)

	baseURL := redirectAdminSurveys + "/" + id + RouteSuffixResponses
	page, ok := fetchList(w, r, &h.backendHandler, baseURL, "survey responses",
		func(ctx context.Context, q ListQuery) (*backend.Paginated[model.SurveyResponse], error) {
			return h.client(r).ListSurveyResponses(ctx, id, q.Values())
		})
	if !ok {
		return
	}

	lang := middleware.GetAdminLang(r)
	title := survey.Title.Or(lang)
	h.renderList(w, r, "admin/surveys_responses", page.LoadError, render.TemplateData{
		Title: i18n.T(lang, "title.survey_responses"),
		Data: SurveyResponsesData{
			Survey:     survey,
			Versions:   survey.Versions,
			Responses:  page.Items,
			Query:      page.Query,
			Pagination: page.Pagination,
		},
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: i18n.T(lang, "nav.surveys"), URL: redirectAdminSurveys},
			uikit.Breadcrumb{Label: title, URL: redirectAdminSurveys + "/" + id},
			uikit.Breadcrumb{Label: i18n.T(lang, "label.responses")},
		),
	})
}

// ConfirmDelete handles GET /admin/surveys/{id}/delete - asks for confirmation.
func (h *SurveysHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	survey, id, ok := requireEntity(w, r, &h.backendHandler, redirectAdminSurveys, "survey", h.client(r).GetSurvey)
	if !ok {
		return
	}
	h.renderConfirm(w, r, surveyDelete, id, survey.Title.Or(middleware.GetAdminLang(r)))
}

// Delete handles POST /admin/surveys/{id}/delete - deletes a confirmed survey.
func (h *SurveysHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.confirmedDelete(w, r, surveyDelete, chiID(r), h.client(r).DeleteSurvey)
}

// versions returns the survey's versions, newest first. They are fetched
// separately when the survey record does not embed them.
func (h *SurveysHandler) versions(r *http.Request, survey *model.Survey) []model.SurveyVersion {
	versions := survey.Versions
	if len(versions) == 0 {
		fetched, err := h.client(r).ListSurveyVersions(r.Context(), survey.ID)
		if err != nil {
			slog.Warn("failed to load survey versions", "survey_id", survey.ID, "error", err)
			return nil
		}
		versions = fetched
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Version > versions[j].Version })
	return versions
}

func (h *SurveysHandler) formTemplateData(r *http.Request, data SurveyFormData) render.TemplateData {
	lang := middleware.GetAdminLang(r)
	title := i18n.T(lang, "title.survey_new")
	if data.IsEdit {
		title = i18n.T(lang, "title.survey_edit")
	}
	return render.TemplateData{
		Title: title,
		Data:  data,
		Breadcrumbs: adminBreadcrumbs(lang,
			uikit.Breadcrumb{Label: i18n.T(lang, "nav.surveys"), URL: redirectAdminSurveys},
			uikit.Breadcrumb{Label: title},
		),
	}
}

// parseSurveyForm reads and validates the survey form. Questions are entered
// one per line as "English | Mongolian".
func parseSurveyForm(r *http.Request) (backend.SurveyInput, form.Values, form.Errors) {
	title := form.Localized(r, "title")
	description := form.Localized(r, "description")
	questionsText := r.FormValue("questions")
	questions := model.ParseQuestions(questionsText)

	values := form.Values{"questions": questionsText}
	values.SetLocalized("title", title)
	values.SetLocalized("description", description)

	errs := form.New()
	errs.RequireLocalized("title", "Title", title)
	errs.RequireLocalized("description", "Description", description)
	if len(questions) == 0 {
		errs.Add("questions", "At least one question is required")
	}

	return backend.SurveyInput{
		Title:       title,
		Description: description,
		Questions:   questions,
	}, values, errs
}
