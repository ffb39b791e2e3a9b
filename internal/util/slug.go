// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util builds page slugs from localized names. Mongolian Cyrillic
// is romanized with a fixed table; any other script goes through unidecode.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds suggested slugs. Longer names are cut at a word break.
const MaxSlugLength = 80

// mongolianLatin romanizes lower-case Mongolian Cyrillic. ь and ъ are dropped.
var mongolianLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "ye", 'ё': "yo",
	'ж': "j", 'з': "z", 'и': "i", 'й': "i", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'ө': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ү': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh",
	'щ': "sh", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

var (
	nonSlugRun  = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	stripMarks  = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify turns a page name into a slug: lower-case ASCII words joined by
// single hyphens, at most MaxSlugLength bytes long.
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if latin, ok := mongolianLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}

	ascii, _, err := transform.String(stripMarks, b.String())
	if err != nil {
		ascii = b.String()
	}
	ascii = strings.ToLower(unidecode.Unidecode(ascii))

	slug := strings.Trim(nonSlugRun.ReplaceAllString(ascii, "-"), "-")
	return truncateSlug(slug)
}

func truncateSlug(slug string) string {
	if len(slug) <= MaxSlugLength {
		return slug
	}
	slug = slug[:MaxSlugLength]
	if i := strings.LastIndexByte(slug, '-'); i > 0 {
		slug = slug[:i]
	}
	return strings.Trim(slug, "-")
}

// SuggestSlug returns the slug of the first name that yields one, so an
// English name wins over its Mongolian counterpart.
func SuggestSlug(names ...string) string {
	for _, name := range names {
		if slug := Slugify(name); slug != "" {
			return slug
		}
	}
	return ""
}

// IsValidSlug reports whether s is lower-case ASCII words joined by single
// hyphens.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
