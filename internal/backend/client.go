// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package backend is the REST client for the content backend. Every call
// takes the caller's context; the client sets no timeouts of its own, so a
// request lives exactly as long as the browser request that triggered it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Backend response limits
const (
	MaxResponseLen = 10 << 20 // Maximum response body read (10MB)
	UserAgent      = "ocms-console/1.0"
)

// envelope is the uniform response shape of every backend call.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Paginated is a page of records plus pagination metadata.
type Paginated[T any] struct {
	Data        []T `json:"data"`
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
}

// Client calls the backend REST API. A Client is safe for concurrent use.
// WithToken returns a copy that authenticates as a session user.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", baseURL)
	}
	c := &Client{baseURL: u, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Ping checks that the API root answers. Any response below 500 counts as
// reachable, since the root itself may not be a routed resource.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/", nil), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseLen))
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return &Error{Status: resp.StatusCode, Code: resp.StatusCode}
	}
	return nil
}

// endpoint joins the base URL and an already-escaped path.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + path
	if p, err := url.PathUnescape(u.RawPath); err == nil {
		u.Path = p
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs one request and decodes the envelope's data into out.
// out may be nil when the caller does not need the payload.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	return decodeEnvelope(resp.StatusCode, respBody, out)
}

// decodeEnvelope applies the success rule: HTTP status below 400 and an
// envelope code in 200..299. An envelope without a code takes the HTTP status.
func decodeEnvelope(status int, body []byte, out any) error {
	var env envelope
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			if status >= http.StatusBadRequest {
				return &Error{Status: status, Code: status}
			}
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	if env.Code == 0 {
		env.Code = status
	}

	if status >= http.StatusBadRequest || env.Code < 200 || env.Code > 299 {
		return &Error{Status: status, Code: env.Code, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func sendJSON[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	if err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *Client, path string, query url.Values) (*Paginated[T], error) {
	return getJSON[Paginated[T]](ctx, c, path, query)
}

func resourcePath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

// ErrEmptyID is returned when a call needs a record ID and none was given.
var ErrEmptyID = errors.New("backend: empty id")

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}
	return nil
}
