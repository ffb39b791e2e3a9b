// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package policy holds the single table mapping console actions to the roles
// allowed to perform them. Templates use it to decide which controls render;
// middleware uses it to reject mutating requests.
package policy

import (
	"slices"
	"sort"

	"github.com/olegiv/ocms-console/internal/model"
)

// Action names a guarded operation.
type Action string

// Guarded actions.
const (
	CategoryWrite     Action = "category.write"
	BlogWrite         Action = "blog.write"
	PageWrite         Action = "page.write"
	SectionWrite      Action = "section.write"
	SurveyWrite       Action = "survey.write"
	MessageUpdate     Action = "message.update"
	UserWrite         Action = "user.write"
	UserDelete        Action = "user.delete"
	UserResetPassword Action = "user.reset_password"
)

var (
	staff      = []string{model.RoleAdmin, model.RoleSuperAdmin}
	superAdmin = []string{model.RoleSuperAdmin}
)

var allowList = map[Action][]string{
	CategoryWrite:     staff,
	BlogWrite:         staff,
	PageWrite:         staff,
	SectionWrite:      staff,
	SurveyWrite:       staff,
	MessageUpdate:     staff,
	UserWrite:         staff,
	UserDelete:        superAdmin,
	UserResetPassword: superAdmin,
}

// Can reports whether user may perform action. Unknown actions and a nil
// user are always denied.
func Can(user *model.User, action Action) bool {
	if user == nil {
		return false
	}
	roles, ok := allowList[action]
	if !ok {
		return false
	}
	return slices.Contains(roles, user.Role)
}

// Roles returns the roles allowed to perform action.
func Roles(action Action) []string {
	return slices.Clone(allowList[action])
}

// Actions returns all known actions, sorted.
func Actions() []Action {
	out := make([]Action, 0, len(allowList))
	for a := range allowList {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Known reports whether action is in the table.
func Known(action Action) bool {
	_, ok := allowList[action]
	return ok
}
