package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/study-dashboard/internal/model"
)

// ObjectiveAPI is the slice of the backend client the objective store needs.
type ObjectiveAPI interface {
	ListObjectives(ctx context.Context) ([]model.Objective, error)
	CreateObjective(ctx context.Context, in model.ObjectiveInput) (*model.Objective, error)
	UpdateObjective(ctx context.Context, u model.ObjectiveUpdate) (*model.Objective, error)
	DeleteObjective(ctx context.Context, id string) error
}

// ObjectiveStore caches the user's objectives.
type ObjectiveStore struct {
	*Collection[model.Objective]
	api ObjectiveAPI
}

// NewObjectiveStore creates an empty objective store.
func NewObjectiveStore(api ObjectiveAPI) *ObjectiveStore {
	return &ObjectiveStore{Collection: NewCollection[model.Objective](), api: api}
}

// Fetch replaces the cached objectives with the backend's list.
func (s *ObjectiveStore) Fetch(ctx context.Context) error {
	s.beginFetch()
	items, err := s.api.ListObjectives(ctx)
	if err != nil {
		err = fmt.Errorf("fetching objectives: %w", err)
	}
	s.endFetch(items, err)
	return err
}

// Create creates an objective and appends the server's copy.
func (s *ObjectiveStore) Create(ctx context.Context, in model.ObjectiveInput) (*model.Objective, error) {
	s.begin()
	if err := in.Validate(); err != nil {
		s.fail(err)
		return nil, err
	}
	obj, err := s.api.CreateObjective(ctx, in)
	if err != nil {
		err = fmt.Errorf("creating objective: %w", err)
		s.fail(err)
		return nil, err
	}
	s.upsert(*obj)
	return obj, nil
}

// Update applies a partial update and replaces the cached objective.
func (s *ObjectiveStore) Update(ctx context.Context, u model.ObjectiveUpdate) (*model.Objective, error) {
	s.begin()
	if err := u.Validate(); err != nil {
		s.fail(err)
		return nil, err
	}
	obj, err := s.api.UpdateObjective(ctx, u)
	if err != nil {
		err = fmt.Errorf("updating objective %s: %w", u.ID, err)
		s.fail(err)
		return nil, err
	}
	s.upsert(*obj)
	return obj, nil
}

// Delete deletes an objective. Tasks pointing at it are left alone.
func (s *ObjectiveStore) Delete(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.DeleteObjective(ctx, id); err != nil {
		err = fmt.Errorf("deleting objective %s: %w", id, err)
		s.fail(err)
		return err
	}
	s.remove(id)
	return nil
}

// CountByStatus returns how many cached objectives are in each status.
func (s *ObjectiveStore) CountByStatus() map[model.ObjectiveStatus]int {
	counts := make(map[model.ObjectiveStatus]int)
	for _, o := range s.Items() {
		counts[o.Status]++
	}
	return counts
}

// Overdue returns the objectives past their due date and not completed.
func (s *ObjectiveStore) Overdue(now time.Time) []model.Objective {
	return s.filter(func(o model.Objective) bool { return o.IsOverdue(now) })
}
