// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Question types
const (
	QuestionTypeText   = "text"
	QuestionTypeChoice = "choice"
	QuestionTypeRating = "rating"
)

// Survey is a versioned questionnaire. Editing a survey's questions creates a
// new version on the backend; responses reference the version they answered.
type Survey struct {
	ID            string          `json:"id"`
	Title         LocalizedText   `json:"title"`
	Description   LocalizedText   `json:"description"`
	Versions      []SurveyVersion `json:"versions,omitempty"`
	ResponseCount int             `json:"responseCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// LatestVersion returns the highest version, or nil when there is none.
func (s *Survey) LatestVersion() *SurveyVersion {
	var latest *SurveyVersion
	for i := range s.Versions {
		if latest == nil || s.Versions[i].Version > latest.Version {
			latest = &s.Versions[i]
		}
	}
	return latest
}

// SurveyVersion is an immutable snapshot of a survey's questions.
type SurveyVersion struct {
	ID        string     `json:"id"`
	Version   int        `json:"version"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Question is one survey question.
type Question struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Label   LocalizedText   `json:"label"`
	Options []LocalizedText `json:"options,omitempty"`
}

// SurveyResponse is one submitted set of answers.
type SurveyResponse struct {
	ID        string    `json:"id"`
	SurveyID  string    `json:"surveyId"`
	Version   int       `json:"version"`
	Answers   []Answer  `json:"answers"`
	CreatedAt time.Time `json:"createdAt"`
}

// Answer is the answer to one question.
type Answer struct {
	QuestionID string `json:"questionId"`
	Question   string `json:"question,omitempty"`
	Value      string `json:"value"`
}

// ParseQuestions reads the survey editor's question list: one question per
// line as "English | Mongolian". Lines with a single value use it for both
// languages; blank lines are skipped.
func ParseQuestions(text string) []Question {
	var questions []Question
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		en, mn, found := strings.Cut(line, "|")
		en, mn = strings.TrimSpace(en), strings.TrimSpace(mn)
		if !found || mn == "" {
			mn = en
		}
		if en == "" {
			en = mn
		}
		questions = append(questions, Question{
			Type:  QuestionTypeText,
			Label: LocalizedText{EN: en, MN: mn},
		})
	}
	return questions
}

// FormatQuestions is the inverse of ParseQuestions.
func FormatQuestions(questions []Question) string {
	lines := make([]string, 0, len(questions))
	for _, q := range questions {
		lines = append(lines, q.Label.EN+" | "+q.Label.MN)
	}
	return strings.Join(lines, "\n")
}
