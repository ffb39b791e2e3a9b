// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Category groups blog posts.
type Category struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
}
