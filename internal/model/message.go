// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Message statuses
const (
	MessageStatusSeen   = "seen"
	MessageStatusUnseen = "unseen"
)

// MessageStatuses lists valid message statuses.
var MessageStatuses = []string{MessageStatusUnseen, MessageStatusSeen}

// Message is a contact-form message.
type Message struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsSeen returns true if the message was marked seen.
func (m *Message) IsSeen() bool {
	return m.Status == MessageStatusSeen
}
