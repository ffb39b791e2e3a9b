// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-console/internal/model"
)

// recordedRequest is what the fake backend saw.
type recordedRequest struct {
	Method string
	Path   string
	Raw    string
	Query  url.Values
	Auth   string
	Body   []byte
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	response string
}

func newFakeBackend(t *testing.T, status int, response string) (*fakeBackend, *Client) {
	t.Helper()
	fb := &fakeBackend{status: status, response: response}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Raw:    r.URL.EscapedPath(),
			Query:  r.URL.Query(),
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		fb.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fb.status)
		_, _ = io.WriteString(w, fb.response)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api/", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return fb, c
}

func (fb *fakeBackend) last(t *testing.T) recordedRequest {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(t, fb.requests, "no request reached the backend")
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) count() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.requests)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	tests := []string{"ftp://example.com", "example.com/api", "://bad"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := New(in)
			assert.Error(t, err)
		})
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("https://api.example.com/v1/")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1", c.BaseURL())
}

func TestClient_BearerToken(t *testing.T) {
	fb, c := newFakeBackend(t, http.StatusOK, `{"code":200,"data":{"data":[],"total":0,"totalPages":0,"currentPage":1}}`)

	_, err := c.WithToken("secret-token").ListBlogs(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", fb.last(t).Auth)

	_, err = c.ListBlogs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, fb.last(t).Auth, "base client must not carry a token")
}

func TestClient_QueryPassthrough(t *testing.T) {
	fb, c := newFakeBackend(t, http.StatusOK, `{"code":200,"data":{"data":[],"total":0,"totalPages":5,"currentPage":99}}`)

	q := url.Values{"search": {"news"}, "status": {"draft"}, "page": {"99"}}
	res, err := c.ListBlogs(context.Background(), q)
	require.NoError(t, err)

	got := fb.last(t)
	assert.Equal(t, "/api/blogs", got.Path)
	assert.Equal(t, "news", got.Query.Get("search"))
	assert.Equal(t, "draft", got.Query.Get("status"))
	assert.Equal(t, "99", got.Query.Get("page"), "out-of-range pages are forwarded unmodified")
	assert.Equal(t, 99, res.CurrentPage)
	assert.Equal(t, 5, res.TotalPages)
}

func TestClient_EmptyQuery(t *testing.T) {
	fb, c := newFakeBackend(t, http.StatusOK, `{"code":200,"data":{"data":[],"total":0,"totalPages":1,"currentPage":1}}`)

	_, err := c.ListCategories(context.Background(), url.Values{})
	require.NoError(t, err)
	assert.Empty(t, fb.last(t).Query)
}

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantCode    int
		wantMessage string
	}{
		{"success", 200, `{"code":200,"data":{"id":"1"}}`, false, 0, ""},
		{"created", 201, `{"code":201,"data":{"id":"1"}}`, false, 0, ""},
		{"missing code takes status", 200, `{"data":{"id":"1"}}`, false, 0, ""},
		{"empty body", 204, ``, false, 0, ""},
		{"envelope failure on 200", 200, `{"code":409,"message":"Slug taken"}`, true, 409, "Slug taken"},
		{"http failure", 400, `{"code":400,"message":"Name is required"}`, true, 400, "Name is required"},
		{"http failure with success code", 500, `{"code":200}`, true, 200, ""},
		{"non json failure", 502, `<html>bad gateway</html>`, true, 502, ""},
		{"code below range", 200, `{"code":100}`, true, 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out model.Category
			err := decodeEnvelope(tt.status, []byte(tt.body), &out)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var be *Error
			require.True(t, errors.As(err, &be), "want *Error, got %v", err)
			assert.Equal(t, tt.status, be.Status)
			assert.Equal(t, tt.wantCode, be.Code)
			assert.Equal(t, tt.wantMessage, be.Message)
		})
	}
}

func TestDecodeEnvelope_MalformedSuccess(t *testing.T) {
	err := decodeEnvelope(200, []byte(`not json`), nil)
	require.Error(t, err)
	var be *Error
	assert.False(t, errors.As(err, &be))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Slug taken", UserMessage(&Error{Status: 409, Code: 409, Message: "Slug taken"}))
	assert.Equal(t, GenericFailure, UserMessage(&Error{Status: 500, Code: 500}))
	assert.Equal(t, GenericFailure, UserMessage(errors.New("dial tcp: connection refused")))
}

func TestErrorClassification(t *testing.T) {
	notFound := &Error{Status: 404, Code: 404}
	unauthorized := &Error{Status: 200, Code: 401}
	forbidden := &Error{Status: 403, Code: 403}

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(forbidden))
	assert.True(t, IsUnauthorized(unauthorized), "envelope code alone is enough")
	assert.True(t, IsForbidden(forbidden))
	assert.False(t, IsUnauthorized(errors.New("other")))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = c.GetBlog(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, GenericFailure, UserMessage(err))
}

func TestClient_Ping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"root not routed", http.StatusNotFound, false},
		{"unauthorized", http.StatusUnauthorized, false},
		{"server error", http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, c := newFakeBackend(t, tt.status, `{}`)

			err := c.Ping(context.Background())

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, GenericFailure, UserMessage(err))
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, 1, fb.count())
			req := fb.last(t)
			assert.Equal(t, "/api/", req.Path)
			assert.Empty(t, req.Auth)
		})
	}
}

func TestClient_PingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	assert.Error(t, c.Ping(context.Background()))
}

func TestClient_ContextCanceled(t *testing.T) {
	_, c := newFakeBackend(t, http.StatusOK, `{"code":200}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetBlog(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_EmptyIDNeverCallsBackend(t *testing.T) {
	fb, c := newFakeBackend(t, http.StatusOK, `{"code":200}`)
	ctx := context.Background()

	assert.ErrorIs(t, c.DeleteBlog(ctx, ""), ErrEmptyID)
	assert.ErrorIs(t, c.DeleteUser(ctx, "  "), ErrEmptyID)
	_, err := c.UpdateCategory(ctx, "", CategoryInput{})
	assert.ErrorIs(t, err, ErrEmptyID)
	assert.Zero(t, fb.count())
}

func TestLogin(t *testing.T) {
	fb, c := newFakeBackend(t, http.StatusOK,
		`{"code":200,"data":{"token":"jwt","user":{"id":"u1","username":"bold","role":"admin"}}}`)

	res, err := c.Login(context.Background(), Credentials{Username: "bold", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, model.RoleAdmin, res.User.Role)

	got := fb.last(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/auth/login", got.Path)
	var creds Credentials
	require.NoError(t, json.Unmarshal(got.Body, &creds))
	assert.Equal(t, "bold", creds.Username)
}

func TestLogin_MissingToken(t *testing.T) {
	_, c := newFakeBackend(t, http.StatusOK, `{"code":200,"data":{"user":{"id":"u1"}}}`)

	_, err := c.Login(context.Background(), Credentials{Username: "bold", Password: "pw"})
	assert.Error(t, err)
}

func TestLogin_BadCredentials(t *testing.T) {
	_, c := newFakeBackend(t, http.StatusUnauthorized, `{"code":401,"message":"Invalid credentials"}`)

	_, err := c.Login(context.Background(), Credentials{Username: "bold", Password: "nope"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid credentials", UserMessage(err))
}
