package api

import (
	"context"

	"github.com/nhle/study-dashboard/internal/model"
)

// ListAchievements returns the user's achievements with server-computed
// unlock state.
func (c *Client) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	var out []model.Achievement
	if err := c.Get(ctx, "/achievements", &out); err != nil {
		return nil, err
	}
	return out, nil
}
