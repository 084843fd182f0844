package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/study-dashboard/internal/model"
)

// TaskAPI is the slice of the backend client the task store needs.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, u model.TaskUpdate) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TaskStore caches the user's tasks.
type TaskStore struct {
	*Collection[model.Task]
	api TaskAPI
}

// NewTaskStore creates an empty task store.
func NewTaskStore(api TaskAPI) *TaskStore {
	return &TaskStore{Collection: NewCollection[model.Task](), api: api}
}

// Fetch replaces the cached tasks with the backend's list.
func (s *TaskStore) Fetch(ctx context.Context) error {
	s.beginFetch()
	items, err := s.api.ListTasks(ctx)
	if err != nil {
		err = fmt.Errorf("fetching tasks: %w", err)
	}
	s.endFetch(items, err)
	return err
}

// Create creates a task and appends the server's copy.
func (s *TaskStore) Create(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	s.begin()
	if err := in.Validate(); err != nil {
		s.fail(err)
		return nil, err
	}
	task, err := s.api.CreateTask(ctx, in)
	if err != nil {
		err = fmt.Errorf("creating task: %w", err)
		s.fail(err)
		return nil, err
	}
	s.upsert(*task)
	return task, nil
}

// Update applies a partial update and replaces the cached task.
func (s *TaskStore) Update(ctx context.Context, u model.TaskUpdate) (*model.Task, error) {
	s.begin()
	if err := u.Validate(); err != nil {
		s.fail(err)
		return nil, err
	}
	task, err := s.api.UpdateTask(ctx, u)
	if err != nil {
		err = fmt.Errorf("updating task %s: %w", u.ID, err)
		s.fail(err)
		return nil, err
	}
	s.upsert(*task)
	return task, nil
}

// Delete deletes a task by ID.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.DeleteTask(ctx, id); err != nil {
		err = fmt.Errorf("deleting task %s: %w", id, err)
		s.fail(err)
		return err
	}
	s.remove(id)
	return nil
}

// ForObjective returns the cached tasks attached to an objective.
func (s *TaskStore) ForObjective(goalID string) []model.Task {
	return s.filter(func(t model.Task) bool { return t.GoalID == goalID })
}

// CountByStatus returns how many cached tasks are in each status.
func (s *TaskStore) CountByStatus() map[model.TaskStatus]int {
	counts := make(map[model.TaskStatus]int)
	for _, t := range s.Items() {
		counts[t.Status]++
	}
	return counts
}

// Overdue returns the tasks past their due date and not completed.
func (s *TaskStore) Overdue(now time.Time) []model.Task {
	return s.filter(func(t model.Task) bool { return t.IsOverdue(now) })
}

// Tags returns every tag in use, in order of first appearance.
func (s *TaskStore) Tags() []string {
	var all []string
	for _, t := range s.Items() {
		all = append(all, t.Tags...)
	}
	return model.NormalizeTags(all)
}
