package store

import (
	"context"
	"errors"
	"sync"

	"github.com/nhle/study-dashboard/internal/api"
)

// Set groups one store per entity type, all talking to the same client.
// It is built explicitly and passed to whatever needs it.
type Set struct {
	Objectives   *ObjectiveStore
	Tasks        *TaskStore
	Notes        *NoteStore
	Achievements *AchievementStore
	Chat         *ChatStore
}

// NewSet creates a store for every entity type backed by client.
func NewSet(client *api.Client) *Set {
	return &Set{
		Objectives:   NewObjectiveStore(client),
		Tasks:        NewTaskStore(client),
		Notes:        NewNoteStore(client),
		Achievements: NewAchievementStore(client),
		Chat:         NewChatStore(client),
	}
}

// Fetcher is anything that can refresh itself from the backend.
type Fetcher interface {
	Fetch(ctx context.Context) error
}

// Fetchers returns the set's stores keyed by a stable name.
func (s *Set) Fetchers() map[string]Fetcher {
	return map[string]Fetcher{
		"objectives":   s.Objectives,
		"tasks":        s.Tasks,
		"notes":        s.Notes,
		"achievements": s.Achievements,
		"chat":         s.Chat,
	}
}

// FetchAll refreshes every store concurrently and joins their errors.
func (s *Set) FetchAll(ctx context.Context) error {
	fetchers := s.Fetchers()
	errs := make([]error, 0, len(fetchers))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, f := range fetchers {
		wg.Add(1)
		go func(f Fetcher) {
			defer wg.Done()
			if err := f.Fetch(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(f)
	}
	wg.Wait()
	return errors.Join(errs...)
}
