// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/ocms-console/internal/model"
)

const usersPath = "/users"

// UserInput is the body of a user create or update. Password is only sent
// on create.
type UserInput struct {
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
	Password     string `json:"password,omitempty"`
}

type resetPasswordInput struct {
	Password string `json:"password"`
}

// ListUsers returns one page of users.
func (c *Client) ListUsers(ctx context.Context, query url.Values) (*Paginated[model.User], error) {
	return list[model.User](ctx, c, usersPath, query)
}

// GetUser returns one user.
func (c *Client) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return getJSON[model.User](ctx, c, resourcePath(usersPath, id), nil)
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*model.User, error) {
	return sendJSON[model.User](ctx, c, http.MethodPost, usersPath, in)
}

// UpdateUser replaces a user's profile and role.
func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (*model.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	in.Password = ""
	return sendJSON[model.User](ctx, c, http.MethodPut, resourcePath(usersPath, id), in)
}

// DeleteUser deletes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, resourcePath(usersPath, id), nil, nil, nil)
}

// ResetPassword sets a new password for a user.
func (c *Client) ResetPassword(ctx context.Context, id, password string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, resourcePath(usersPath, id)+"/reset-password", nil,
		resetPasswordInput{Password: password}, nil)
}
