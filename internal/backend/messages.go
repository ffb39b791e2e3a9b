// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/ocms-console/internal/model"
)

const messagesPath = "/messages"

// ListMessages returns one page of contact messages.
func (c *Client) ListMessages(ctx context.Context, query url.Values) (*Paginated[model.Message], error) {
	return list[model.Message](ctx, c, messagesPath, query)
}

// GetMessage returns one message. Reading a message does not mark it seen.
func (c *Client) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return getJSON[model.Message](ctx, c, resourcePath(messagesPath, id), nil)
}

// MarkMessageSeen sets a message's status to seen and returns the result.
func (c *Client) MarkMessageSeen(ctx context.Context, id string) (*model.Message, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	msg, err := sendJSON[model.Message](ctx, c, http.MethodPatch, resourcePath(messagesPath, id)+"/seen", nil)
	if err != nil {
		return nil, err
	}
	// Some backends answer with an empty data payload.
	if msg.ID == "" {
		msg.ID = id
	}
	msg.Status = model.MessageStatusSeen
	return msg, nil
}
