// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestValidateSectionContent(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		content string
		wantErr bool
	}{
		{"invalid json", "hero", `{`, true},
		{"array is not an object", "hero", `[1,2]`, true},
		{"unknown key any object", "hero", `{"image":"/a.png"}`, false},
		{"footer ok", SectionKeyFooter, `{"email":"a@b.mn","copyright":{"en":"(c)","mn":"(c)"}}`, false},
		{"footer missing mn copyright", SectionKeyFooter, `{"copyright":{"en":"(c)"}}`, true},
		{"home-blog ok", SectionKeyHomeBlog, `{"title":{"en":"Blog","mn":"Блог"},"limit":3}`, false},
		{"home-blog zero limit", SectionKeyHomeBlog, `{"title":{"en":"Blog","mn":"Блог"},"limit":0}`, true},
		{"home-blog wrong type", SectionKeyHomeBlog, `{"title":"Blog","limit":3}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSectionContent(tt.key, []byte(tt.content))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSectionContent() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
