// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestParseQuestions(t *testing.T) {
	text := "How old are you? | Та хэдэн настай вэ?\n\n  Favourite colour  \n"
	qs := ParseQuestions(text)
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}
	if qs[0].Label.EN != "How old are you?" || qs[0].Label.MN != "Та хэдэн настай вэ?" {
		t.Errorf("question 0 = %+v", qs[0].Label)
	}
	if qs[1].Label.EN != "Favourite colour" || qs[1].Label.MN != "Favourite colour" {
		t.Errorf("question 1 = %+v", qs[1].Label)
	}
	if qs[0].Type != QuestionTypeText {
		t.Errorf("type = %q, want text", qs[0].Type)
	}
}

func TestFormatQuestionsRoundTrip(t *testing.T) {
	text := "A | Б\nC | Д"
	if got := FormatQuestions(ParseQuestions(text)); got != text {
		t.Errorf("FormatQuestions() = %q, want %q", got, text)
	}
}

func TestSurveyLatestVersion(t *testing.T) {
	s := Survey{}
	if s.LatestVersion() != nil {
		t.Error("expected nil for survey without versions")
	}
	s.Versions = []SurveyVersion{{Version: 2}, {Version: 3}, {Version: 1}}
	if v := s.LatestVersion(); v == nil || v.Version != 3 {
		t.Errorf("LatestVersion() = %+v, want version 3", v)
	}
}
