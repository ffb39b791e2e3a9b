// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves client addresses to ISO country codes for the
// login audit log, using a MaxMind GeoLite2/GeoIP2 country database.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// Local is reported for loopback, private and link-local addresses.
const Local = "LOCAL"

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Locator looks up countries. A Locator without a database still
// classifies local addresses. It is safe for concurrent use.
type Locator struct {
	mu      sync.RWMutex
	path    string
	reader  *maxminddb.Reader
	modTime time.Time
}

// Open creates a Locator backed by the database at path. An empty path
// gives a Locator with lookups disabled.
func Open(path string) (*Locator, error) {
	l := &Locator{path: path}
	if path == "" {
		return l, nil
	}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

// load (re)opens the database when its file changed. Caller holds mu.
func (l *Locator) load() error {
	info, err := os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("geoip database %s: %w", l.path, err)
	}
	if l.reader != nil && info.ModTime().Equal(l.modTime) {
		return nil
	}

	reader, err := maxminddb.Open(l.path)
	if err != nil {
		return fmt.Errorf("opening geoip database: %w", err)
	}
	if l.reader != nil {
		_ = l.reader.Close()
	}
	l.reader = reader
	l.modTime = info.ModTime()
	return nil
}

// Reload picks up a replaced database file. The current database stays
// in use when the new one cannot be opened.
func (l *Locator) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.path == "" {
		return nil
	}
	return l.load()
}

// Enabled reports whether a database is loaded.
func (l *Locator) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reader != nil
}

// Country returns the ISO code for addr, which may carry a port. It
// returns Local for non-public addresses and "" when unknown.
func (l *Locator) Country(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return ""
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return Local
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.reader == nil {
		return ""
	}
	var rec countryRecord
	if err := l.reader.Lookup(ip, &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Close releases the database.
func (l *Locator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reader == nil {
		return nil
	}
	err := l.reader.Close()
	l.reader = nil
	return err
}
