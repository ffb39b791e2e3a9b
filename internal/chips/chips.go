// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package chips implements the keyword input: free text is accumulated into a
// draft and committed as a token on Enter or comma. Tokens keep insertion
// order and are unique.
package chips

import "strings"

// Key is a non-character key event.
type Key int

// Keys understood by Input.Press.
const (
	KeyEnter Key = iota
	KeyBackspace
)

// Separator commits the current draft when typed.
const Separator = ','

// Input is the keyword input state.
type Input struct {
	Draft  string
	Tokens []string
}

// New returns an input prefilled with tokens. Duplicates and blanks are dropped.
func New(tokens ...string) *Input {
	in := &Input{}
	for _, t := range tokens {
		in.add(t)
	}
	return in
}

// Composing reports whether a draft is being typed.
func (in *Input) Composing() bool {
	return in.Draft != ""
}

// Type handles a character key.
func (in *Input) Type(r rune) {
	if r == Separator {
		in.commit()
		return
	}
	if r == '\n' || r == '\r' {
		in.commit()
		return
	}
	in.Draft += string(r)
}

// Press handles a non-character key.
func (in *Input) Press(k Key) {
	switch k {
	case KeyEnter:
		in.commit()
	case KeyBackspace:
		if in.Draft == "" {
			if n := len(in.Tokens); n > 0 {
				in.Tokens = in.Tokens[:n-1]
			}
			return
		}
		runes := []rune(in.Draft)
		in.Draft = string(runes[:len(runes)-1])
	}
}

// Remove deletes a token by value.
func (in *Input) Remove(token string) {
	for i, t := range in.Tokens {
		if t == token {
			in.Tokens = append(in.Tokens[:i], in.Tokens[i+1:]...)
			return
		}
	}
}

// Has reports whether token is present.
func (in *Input) Has(token string) bool {
	for _, t := range in.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

func (in *Input) commit() {
	in.add(in.Draft)
	in.Draft = ""
}

func (in *Input) add(token string) {
	token = strings.TrimSpace(token)
	if token == "" || in.Has(token) {
		return
	}
	in.Tokens = append(in.Tokens, token)
}

// Parse feeds s through an input that already holds existing, then presses
// Enter so a trailing draft is committed.
func Parse(s string, existing ...string) []string {
	in := New(existing...)
	for _, r := range s {
		in.Type(r)
	}
	in.Press(KeyEnter)
	if in.Tokens == nil {
		return []string{}
	}
	return in.Tokens
}
