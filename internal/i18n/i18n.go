// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n translates the console UI into English and Mongolian.
// English is the source catalog; every other catalog is checked against it.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// SourceLanguage is the catalog every key must exist in.
const SourceLanguage = "en"

// SupportedLanguages lists the UI languages in display order.
var SupportedLanguages = []string{SourceLanguage, "mn"}

var languageNames = map[string]string{
	"en": "English",
	"mn": "Монгол",
}

// message is one entry of a locales/<lang>/messages.json file.
type message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

type messageFile struct {
	Language string    `json:"language"`
	Messages []message `json:"messages"`
}

type catalogSet struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	matcher      language.Matcher
	defaultLang  string
}

var catalogs *catalogSet

// Init loads the embedded catalogs. defaultLang answers requests without a
// usable preference; an unsupported value falls back to SourceLanguage.
// Keys missing from a translation are logged and served in English.
func Init(logger *slog.Logger, defaultLang string) error {
	defaultLang = strings.ToLower(defaultLang)
	if !IsSupported(defaultLang) {
		defaultLang = SourceLanguage
	}

	set := &catalogSet{
		translations: make(map[string]map[string]string, len(SupportedLanguages)),
		defaultLang:  defaultLang,
	}
	tags := make([]language.Tag, 0, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		tags = append(tags, language.MustParse(lang))
		msgs, err := loadCatalog(lang)
		if err != nil {
			return err
		}
		set.translations[lang] = msgs
	}
	set.matcher = language.NewMatcher(tags)

	for _, lang := range SupportedLanguages {
		if missing := set.missing(lang); len(missing) > 0 && logger != nil {
			logger.Warn("untranslated UI messages", "language", lang, "count", len(missing), "keys", missing)
		}
	}

	catalogs = set
	return nil
}

func loadCatalog(lang string) (map[string]string, error) {
	path := "locales/" + lang + "/messages.json"
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var file messageFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if file.Language != lang {
		return nil, fmt.Errorf("%s declares language %q", path, file.Language)
	}

	msgs := make(map[string]string, len(file.Messages))
	for _, m := range file.Messages {
		if _, dup := msgs[m.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate message %q", path, m.ID)
		}
		if m.Translation != "" {
			msgs[m.ID] = m.Translation
		}
	}
	return msgs, nil
}

// missing returns the source keys lang has no translation for, sorted.
func (s *catalogSet) missing(lang string) []string {
	var keys []string
	for key := range s.translations[SourceLanguage] {
		if _, ok := s.translations[lang][key]; !ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// Missing returns the English keys that lang does not translate.
func Missing(lang string) []string {
	if catalogs == nil {
		return nil
	}
	catalogs.mu.RLock()
	defer catalogs.mu.RUnlock()
	return catalogs.missing(lang)
}

// T translates key into lang, formatting args into the message. It tries
// lang, then the default language, then English, and finally returns the
// key itself.
func T(lang, key string, args ...any) string {
	if catalogs == nil {
		return key
	}

	catalogs.mu.RLock()
	msg, ok := catalogs.lookup(key, lang, catalogs.defaultLang, SourceLanguage)
	catalogs.mu.RUnlock()

	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func (s *catalogSet) lookup(key string, langs ...string) (string, bool) {
	for _, lang := range langs {
		if msg, ok := s.translations[lang][key]; ok {
			return msg, true
		}
	}
	return "", false
}

// MatchLanguage picks the UI language for an Accept-Language header or a
// bare language code such as "mn-MN". Anything the console does not
// speak gets the default language.
func MatchLanguage(acceptLang string) string {
	if catalogs == nil {
		return SourceLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return catalogs.defaultLang
	}
	_, idx, conf := catalogs.matcher.Match(tags...)
	if conf == language.No {
		return catalogs.defaultLang
	}
	return SupportedLanguages[idx]
}

// IsSupported reports whether lang is a UI language. Case is ignored.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, strings.ToLower(lang))
}

// GetDefaultLanguage returns the configured default UI language.
func GetDefaultLanguage() string {
	if catalogs == nil {
		return SourceLanguage
	}
	return catalogs.defaultLang
}

// Languages returns the UI languages in display order.
func Languages() []string {
	return slices.Clone(SupportedLanguages)
}

// LanguageName returns the native name of a UI language, or the code itself.
func LanguageName(lang string) string {
	if name, ok := languageNames[lang]; ok {
		return name
	}
	return lang
}
