// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/ocms-console/internal/model"
)

const pagesPath = "/pages"

// PageInput is the body of a page create or update.
type PageInput struct {
	Slug        string              `json:"slug"`
	Name        model.LocalizedText `json:"name"`
	Description model.LocalizedText `json:"description"`
	Keywords    []string            `json:"keywords"`
	Sections    []string            `json:"sections"`
}

// ListPages returns one page of pages.
func (c *Client) ListPages(ctx context.Context, query url.Values) (*Paginated[model.Page], error) {
	return list[model.Page](ctx, c, pagesPath, query)
}

// GetPage looks a page up by slug.
func (c *Client) GetPage(ctx context.Context, slug string) (*model.Page, error) {
	if err := checkID(slug); err != nil {
		return nil, err
	}
	return getJSON[model.Page](ctx, c, resourcePath(pagesPath, slug), nil)
}

// CreatePage creates a page.
func (c *Client) CreatePage(ctx context.Context, in PageInput) (*model.Page, error) {
	return sendJSON[model.Page](ctx, c, http.MethodPost, pagesPath, in)
}

// UpdatePage replaces the page with the given ID.
func (c *Client) UpdatePage(ctx context.Context, id string, in PageInput) (*model.Page, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return sendJSON[model.Page](ctx, c, http.MethodPut, resourcePath(pagesPath, id), in)
}

// DeletePage deletes the page with the given ID.
func (c *Client) DeletePage(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, resourcePath(pagesPath, id), nil, nil, nil)
}
