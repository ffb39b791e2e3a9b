// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/ocms-console/internal/model"
)

const blogsPath = "/blogs"

// BlogInput is the body of a blog create or update.
type BlogInput struct {
	Title      string               `json:"title"`
	Thumbnail  string               `json:"thumbnail,omitempty"`
	Content    []model.ContentBlock `json:"content"`
	Categories []string             `json:"categories"`
	Status     string               `json:"status"`
	Language   string               `json:"language"`
}

// ListBlogs returns one page of blogs matching query.
func (c *Client) ListBlogs(ctx context.Context, query url.Values) (*Paginated[model.Blog], error) {
	return list[model.Blog](ctx, c, blogsPath, query)
}

// GetBlog returns one blog.
func (c *Client) GetBlog(ctx context.Context, id string) (*model.Blog, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return getJSON[model.Blog](ctx, c, resourcePath(blogsPath, id), nil)
}

// CreateBlog creates a blog.
func (c *Client) CreateBlog(ctx context.Context, in BlogInput) (*model.Blog, error) {
	return sendJSON[model.Blog](ctx, c, http.MethodPost, blogsPath, in)
}

// UpdateBlog replaces a blog.
func (c *Client) UpdateBlog(ctx context.Context, id string, in BlogInput) (*model.Blog, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return sendJSON[model.Blog](ctx, c, http.MethodPut, resourcePath(blogsPath, id), in)
}

// DeleteBlog deletes a blog.
func (c *Client) DeleteBlog(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, resourcePath(blogsPath, id), nil, nil, nil)
}
