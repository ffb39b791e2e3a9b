// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "testing"

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name       string
		ua         string
		wantDevice string
		wantKnown  bool
	}{
		{"empty", "", "desktop", false},
		{"desktop chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", "desktop", true},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", "mobile", true},
		{"bot", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "bot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseUserAgent(tt.ua)
			if got.DeviceType != tt.wantDevice {
				t.Errorf("DeviceType = %q; want %q", got.DeviceType, tt.wantDevice)
			}
			if tt.wantKnown && got.Browser == "Unknown" {
				t.Errorf("Browser = Unknown for %q", tt.ua)
			}
			if !tt.wantKnown && (got.Browser != "Unknown" || got.OS != "Unknown") {
				t.Errorf("got %+v; want Unknown browser and OS", got)
			}
		})
	}
}
