// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"github.com/mileusna/useragent"
)

// loginDevice is the browser summary written to the login log.
type loginDevice struct {
	Browser    string
	OS         string
	DeviceType string
}

// parseUserAgent extracts browser, OS, and device type from a user agent string.
func parseUserAgent(uaString string) loginDevice {
	ua := useragent.Parse(uaString)

	result := loginDevice{
		Browser: ua.Name,
		OS:      ua.OS,
	}

	// Handle empty/unknown values
	if result.Browser == "" {
		result.Browser = "Unknown"
	}
	if result.OS == "" {
		result.OS = "Unknown"
	}

	switch {
	case ua.Mobile:
		result.DeviceType = "mobile"
	case ua.Tablet:
		result.DeviceType = "tablet"
	case ua.Bot:
		result.DeviceType = "bot"
	default:
		result.DeviceType = "desktop"
	}

	return result
}
