package api

import (
	"context"
	"net/url"

	"github.com/nhle/study-dashboard/internal/model"
)

// ListObjectives returns every objective of the signed-in user.
func (c *Client) ListObjectives(ctx context.Context) ([]model.Objective, error) {
	var out []model.Objective
	if err := c.Get(ctx, "/objectives", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateObjective creates an objective and returns the server's copy.
func (c *Client) CreateObjective(ctx context.Context, in model.ObjectiveInput) (*model.Objective, error) {
	var out model.Objective
	if err := c.Post(ctx, "/objectives", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateObjective applies a partial update and returns the server's copy.
func (c *Client) UpdateObjective(ctx context.Context, u model.ObjectiveUpdate) (*model.Objective, error) {
	var out model.Objective
	if err := c.Patch(ctx, "/objectives/"+url.PathEscape(u.ID), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteObjective deletes an objective by ID.
func (c *Client) DeleteObjective(ctx context.Context, id string) error {
	return c.Delete(ctx, "/objectives/"+url.PathEscape(id))
}
