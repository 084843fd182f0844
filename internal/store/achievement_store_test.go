package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/model"
)

type fakeAchievementAPI struct {
	achievements []model.Achievement
	failWith     error
}

func (f *fakeAchievementAPI) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.achievements, nil
}

func TestAchievementStoreCompletion(t *testing.T) {
	tests := []struct {
		name         string
		achievements []model.Achievement
		wantUnlocked int
		wantPercent  int
	}{
		{"none", nil, 0, 0},
		{"all locked", []model.Achievement{{ID: "a"}, {ID: "b"}}, 0, 0},
		{"one of three", []model.Achievement{{ID: "a", Unlocked: true}, {ID: "b"}, {ID: "c"}}, 1, 33},
		{"all unlocked", []model.Achievement{{ID: "a", Unlocked: true}, {ID: "b", Unlocked: true}}, 2, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAchievementStore(&fakeAchievementAPI{achievements: tt.achievements})
			require.NoError(t, s.Fetch(context.Background()))
			assert.Equal(t, tt.wantUnlocked, s.UnlockedCount())
			assert.Equal(t, tt.wantPercent, s.Completion())
		})
	}
}

func TestAchievementStoreFetchFailureKeepsItems(t *testing.T) {
	fake := &fakeAchievementAPI{achievements: []model.Achievement{{ID: "a", Unlocked: true}}}
	s := NewAchievementStore(fake)
	require.NoError(t, s.Fetch(context.Background()))

	fake.failWith = errors.New("boom")
	require.Error(t, s.Fetch(context.Background()))
	assert.Equal(t, 100, s.Completion())
	assert.Contains(t, s.Snapshot().Error, "fetching achievements")
}
