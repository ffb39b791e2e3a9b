// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/olegiv/ocms-console/internal/model"
)

const categoriesPath = "/categories"

// maxCategoryPages bounds AllCategories against a backend that never
// reports a last page.
const maxCategoryPages = 50

// CategoryInput is the body of a category create or update.
type CategoryInput struct {
	Name        model.LocalizedText `json:"name"`
	Description model.LocalizedText `json:"description"`
}

// ListCategories returns one page of categories.
func (c *Client) ListCategories(ctx context.Context, query url.Values) (*Paginated[model.Category], error) {
	return list[model.Category](ctx, c, categoriesPath, query)
}

// AllCategories walks every page of the category list. It feeds the
// category pickers of the blog editor and filters.
func (c *Client) AllCategories(ctx context.Context) ([]model.Category, error) {
	var all []model.Category
	for page := 1; page <= maxCategoryPages; page++ {
		q := url.Values{}
		if page > 1 {
			q.Set("page", strconv.Itoa(page))
		}
		res, err := c.ListCategories(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Data...)
		if len(res.Data) == 0 || res.CurrentPage >= res.TotalPages {
			break
		}
	}
	return all, nil
}

// GetCategory returns one category.
func (c *Client) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return getJSON[model.Category](ctx, c, resourcePath(categoriesPath, id), nil)
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	return sendJSON[model.Category](ctx, c, http.MethodPost, categoriesPath, in)
}

// UpdateCategory replaces a category.
func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*model.Category, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return sendJSON[model.Category](ctx, c, http.MethodPut, resourcePath(categoriesPath, id), in)
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, resourcePath(categoriesPath, id), nil, nil, nil)
}
