package api

import (
	"context"
	"net/url"

	"github.com/nhle/study-dashboard/internal/model"
)

// ListTasks returns every task of the signed-in user.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.Get(ctx, "/tasks", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask creates a task and returns the server's copy.
func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	in.Tags = model.NormalizeTags(in.Tags)
	var out model.Task
	if err := c.Post(ctx, "/tasks", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask applies a partial update and returns the server's copy.
func (c *Client) UpdateTask(ctx context.Context, u model.TaskUpdate) (*model.Task, error) {
	if u.Tags != nil {
		tags := model.NormalizeTags(*u.Tags)
		if tags == nil {
			tags = []string{}
		}
		u.Tags = &tags
	}
	var out model.Task
	if err := c.Patch(ctx, "/tasks/"+url.PathEscape(u.ID), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask deletes a task by ID.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.Delete(ctx, "/tasks/"+url.PathEscape(id))
}
