// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/ocms-console/internal/model"
)

const surveysPath = "/surveys"

// SurveyInput is the body of a survey create or update. The backend stores
// changed questions as a new version.
type SurveyInput struct {
	Title       model.LocalizedText `json:"title"`
	Description model.LocalizedText `json:"description"`
	Questions   []model.Question    `json:"questions"`
}

// ListSurveys returns one page of surveys.
func (c *Client) ListSurveys(ctx context.Context, query url.Values) (*Paginated[model.Survey], error) {
	return list[model.Survey](ctx, c, surveysPath, query)
}

// GetSurvey returns one survey.
func (c *Client) GetSurvey(ctx context.Context, id string) (*model.Survey, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return getJSON[model.Survey](ctx, c, resourcePath(surveysPath, id), nil)
}

// CreateSurvey creates a survey.
func (c *Client) CreateSurvey(ctx context.Context, in SurveyInput) (*model.Survey, error) {
	return sendJSON[model.Survey](ctx, c, http.MethodPost, surveysPath, in)
}

// UpdateSurvey replaces a survey.
func (c *Client) UpdateSurvey(ctx context.Context, id string, in SurveyInput) (*model.Survey, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return sendJSON[model.Survey](ctx, c, http.MethodPut, resourcePath(surveysPath, id), in)
}

// DeleteSurvey deletes a survey with all its versions and responses.
func (c *Client) DeleteSurvey(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, resourcePath(surveysPath, id), nil, nil, nil)
}

// ListSurveyVersions returns every version of a survey.
func (c *Client) ListSurveyVersions(ctx context.Context, id string) ([]model.SurveyVersion, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	res, err := getJSON[[]model.SurveyVersion](ctx, c, resourcePath(surveysPath, id)+"/versions", nil)
	if err != nil {
		return nil, err
	}
	return *res, nil
}

// ListSurveyResponses returns one page of a survey's responses. query may
// carry version and search filters.
func (c *Client) ListSurveyResponses(ctx context.Context, id string, query url.Values) (*Paginated[model.SurveyResponse], error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return list[model.SurveyResponse](ctx, c, resourcePath(surveysPath, id)+"/responses", query)
}
