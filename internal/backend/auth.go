// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/olegiv/ocms-console/internal/model"
)

// Credentials are posted to the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is a successful login: a bearer token and its user.
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	res, err := sendJSON[LoginResult](ctx, c, http.MethodPost, "/auth/login", creds)
	if err != nil {
		return nil, err
	}
	if res.Token == "" || res.User == nil {
		return nil, errors.New("login response missing token or user")
	}
	return res, nil
}
