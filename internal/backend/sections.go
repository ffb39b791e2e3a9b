// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/olegiv/ocms-console/internal/model"
)

const sectionsPath = "/sections"

// SectionInput is the body of a section create or update.
type SectionInput struct {
	Key     string          `json:"key"`
	Sort    int             `json:"sort"`
	Content json.RawMessage `json:"content"`
}

// ListSections returns one page of sections.
func (c *Client) ListSections(ctx context.Context, query url.Values) (*Paginated[model.Section], error) {
	return list[model.Section](ctx, c, sectionsPath, query)
}

// GetSection returns one section.
func (c *Client) GetSection(ctx context.Context, id string) (*model.Section, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return getJSON[model.Section](ctx, c, resourcePath(sectionsPath, id), nil)
}

// CreateSection creates a section.
func (c *Client) CreateSection(ctx context.Context, in SectionInput) (*model.Section, error) {
	return sendJSON[model.Section](ctx, c, http.MethodPost, sectionsPath, in)
}

// UpdateSection replaces a section.
func (c *Client) UpdateSection(ctx context.Context, id string, in SectionInput) (*model.Section, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return sendJSON[model.Section](ctx, c, http.MethodPut, resourcePath(sectionsPath, id), in)
}

// DeleteSection deletes a section.
func (c *Client) DeleteSection(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, resourcePath(sectionsPath, id), nil, nil, nil)
}
