// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericFailure is shown when the backend gave no usable message.
const GenericFailure = "Request failed. Please try again."

// Error is a non-success response envelope.
type Error struct {
	Status  int    // HTTP status
	Code    int    // envelope code
	Message string // backend-provided message, may be empty
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error %d (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("backend error %d (status %d)", e.Code, e.Status)
}

func (e *Error) is(code int) bool {
	return e.Status == code || e.Code == code
}

// UserMessage returns the text to show in a failure toast: the backend
// message when there is one, otherwise GenericFailure.
func UserMessage(err error) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return GenericFailure
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.is(http.StatusNotFound)
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.is(http.StatusUnauthorized)
}

// IsForbidden reports whether err is a backend 403.
func IsForbidden(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.is(http.StatusForbidden)
}
