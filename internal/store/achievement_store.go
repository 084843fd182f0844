package store

import (
	"context"
	"fmt"

	"github.com/nhle/study-dashboard/internal/model"
)

// AchievementAPI is the slice of the backend client the achievement store
// needs.
type AchievementAPI interface {
	ListAchievements(ctx context.Context) ([]model.Achievement, error)
}

// AchievementStore caches the user's achievements. It is read-only: the
// backend decides what is unlocked.
type AchievementStore struct {
	*Collection[model.Achievement]
	api AchievementAPI
}

// NewAchievementStore creates an empty achievement store.
func NewAchievementStore(api AchievementAPI) *AchievementStore {
	return &AchievementStore{Collection: NewCollection[model.Achievement](), api: api}
}

// Fetch replaces the cached achievements with the backend's list.
func (s *AchievementStore) Fetch(ctx context.Context) error {
	s.beginFetch()
	items, err := s.api.ListAchievements(ctx)
	if err != nil {
		err = fmt.Errorf("fetching achievements: %w", err)
	}
	s.endFetch(items, err)
	return err
}

// UnlockedCount returns how many cached achievements are unlocked.
func (s *AchievementStore) UnlockedCount() int {
	return len(s.filter(func(a model.Achievement) bool { return a.Unlocked }))
}

// Completion returns the unlocked share as a percentage (0-100).
func (s *AchievementStore) Completion() int {
	total := s.Len()
	if total == 0 {
		return 0
	}
	return s.UnlockedCount() * 100 / total
}
