package store

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nhle/study-dashboard/internal/api"
	"github.com/nhle/study-dashboard/internal/model"
)

// fakeTaskAPI is an in-memory TaskAPI. listHook, when set, replaces
// ListTasks so tests can control response timing.
type fakeTaskAPI struct {
	mu       sync.Mutex
	tasks    []model.Task
	nextID   int
	failWith error
	listHook func(ctx context.Context) ([]model.Task, error)
}

func (f *fakeTaskAPI) ListTasks(ctx context.Context) ([]model.Task, error) {
	if f.listHook != nil {
		return f.listHook(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeTaskAPI) CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.nextID++
	task := model.Task{
		ID:        fmt.Sprintf("t%d", f.nextID),
		Title:     in.Title,
		DueDate:   in.DueDate,
		Status:    model.TaskTodo,
		Priority:  in.Priority,
		GoalID:    in.GoalID,
		Tags:      model.NormalizeTags(in.Tags),
		CreatedAt: time.Now().UTC(),
	}
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *fakeTaskAPI) UpdateTask(ctx context.Context, u model.TaskUpdate) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.tasks {
		if f.tasks[i].ID != u.ID {
			continue
		}
		if u.Title != nil {
			f.tasks[i].Title = *u.Title
		}
		if u.Status != nil {
			f.tasks[i].Status = *u.Status
		}
		if u.Priority != nil {
			f.tasks[i].Priority = *u.Priority
		}
		task := f.tasks[i]
		return &task, nil
	}
	return nil, &api.APIError{StatusCode: http.StatusNotFound, Message: "task " + u.ID + " not found"}
}

func (f *fakeTaskAPI) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &api.APIError{StatusCode: http.StatusNotFound, Message: "task " + id + " not found"}
}
