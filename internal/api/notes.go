package api

import (
	"context"
	"net/url"

	"github.com/nhle/study-dashboard/internal/model"
)

// ListNotes returns every note of the signed-in user.
func (c *Client) ListNotes(ctx context.Context) ([]model.Note, error) {
	var out []model.Note
	if err := c.Get(ctx, "/notes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateNote creates a note and returns the server's copy.
func (c *Client) CreateNote(ctx context.Context, in model.NoteInput) (*model.Note, error) {
	var out model.Note
	if err := c.Post(ctx, "/notes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNote applies a partial update and returns the server's copy.
func (c *Client) UpdateNote(ctx context.Context, u model.NoteUpdate) (*model.Note, error) {
	var out model.Note
	if err := c.Patch(ctx, "/notes/"+url.PathEscape(u.ID), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNote deletes a note by ID.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.Delete(ctx, "/notes/"+url.PathEscape(id))
}

// SummarizeNote asks the backend to generate an AI summary for a note.
func (c *Client) SummarizeNote(ctx context.Context, id string) (*model.NoteSummary, error) {
	var out model.NoteSummary
	if err := c.Post(ctx, "/notes/"+url.PathEscape(id)+"/summary", nil, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = id
	}
	return &out, nil
}
