package api

import (
	"context"
	"net/url"

	"github.com/nhle/study-dashboard/internal/model"
)

// ListChatSessions returns every chat session with its messages.
func (c *Client) ListChatSessions(ctx context.Context) ([]model.ChatSession, error) {
	var out []model.ChatSession
	if err := c.Get(ctx, "/chat/sessions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateChatSession starts a new, empty chat session.
func (c *Client) CreateChatSession(ctx context.Context, in model.ChatSessionInput) (*model.ChatSession, error) {
	var out model.ChatSession
	if err := c.Post(ctx, "/chat/sessions", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameChatSession changes a session's title.
func (c *Client) RenameChatSession(ctx context.Context, in model.ChatSessionInput) (*model.ChatSession, error) {
	var out model.ChatSession
	if err := c.Patch(ctx, "/chat/sessions/"+url.PathEscape(in.ID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteChatSession deletes a session and its messages.
func (c *Client) DeleteChatSession(ctx context.Context, id string) error {
	return c.Delete(ctx, "/chat/sessions/"+url.PathEscape(id))
}

// SendChatMessage posts a user message. The result holds the stored user
// message followed by the assistant's reply, in order.
func (c *Client) SendChatMessage(
	ctx context.Context,
	sessionID string,
	in model.SendMessageInput,
) (*model.SendMessageResult, error) {
	var out model.SendMessageResult
	path := "/chat/sessions/" + url.PathEscape(sessionID) + "/messages"
	if err := c.Post(ctx, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
