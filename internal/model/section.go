// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Known section keys with a typed content shape.
const (
	SectionKeyFooter   = "footer"
	SectionKeyHomeBlog = "home-blog"
)

// Section is a keyed content fragment. The shape of Content depends on Key.
type Section struct {
	ID      string          `json:"id"`
	Key     string          `json:"key"`
	Sort    int             `json:"sort"`
	Content json.RawMessage `json:"content"`
}

// FooterContent is the content of a "footer" section.
type FooterContent struct {
	Address   LocalizedText `json:"address"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Copyright LocalizedText `json:"copyright"`
	Links     []FooterLink  `json:"links,omitempty"`
}

// FooterLink is a link shown in the footer.
type FooterLink struct {
	Label LocalizedText `json:"label"`
	URL   string        `json:"url"`
}

// HomeBlogContent is the content of a "home-blog" section.
type HomeBlogContent struct {
	Title    LocalizedText `json:"title"`
	Category string        `json:"category,omitempty"`
	Limit    int           `json:"limit"`
}

// ValidateSectionContent checks that content is a JSON object and, for known
// keys, that it decodes into the typed shape with its required fields set.
func ValidateSectionContent(key string, content []byte) error {
	if !json.Valid(content) {
		return errors.New("content must be valid JSON")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(content, &obj); err != nil {
		return errors.New("content must be a JSON object")
	}

	switch key {
	case SectionKeyFooter:
		var fc FooterContent
		if err := json.Unmarshal(content, &fc); err != nil {
			return fmt.Errorf("invalid footer content: %w", err)
		}
		if !fc.Copyright.Complete() {
			return errors.New("footer copyright requires both languages")
		}
	case SectionKeyHomeBlog:
		var hb HomeBlogContent
		if err := json.Unmarshal(content, &hb); err != nil {
			return fmt.Errorf("invalid home-blog content: %w", err)
		}
		if !hb.Title.Complete() {
			return errors.New("home-blog title requires both languages")
		}
		if hb.Limit < 1 {
			return errors.New("home-blog limit must be at least 1")
		}
	}
	return nil
}
