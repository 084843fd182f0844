package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/api"
	"github.com/nhle/study-dashboard/internal/model"
)

func TestTaskStoreCreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore(&fakeTaskAPI{})

	created, err := s.Create(ctx, model.TaskInput{
		Title:    "Write report",
		Priority: model.TaskPriorityHigh,
		GoalID:   "g1",
		DueDate:  "2024-06-01",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Write report", items[0].Title)

	completed := model.TaskCompleted
	_, err = s.Update(ctx, model.TaskUpdate{ID: created.ID, Status: &completed})
	require.NoError(t, err)

	got, ok := s.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, model.TaskCompleted, got.Status)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, model.TaskPriorityHigh, got.Priority)
	assert.Equal(t, "g1", got.GoalID)
	assert.Equal(t, "2024-06-01", got.DueDate)

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.Empty(t, s.Items())
	assert.NoError(t, s.Err())
}

func TestTaskStoreValidationSkipsNetwork(t *testing.T) {
	fake := &fakeTaskAPI{failWith: errors.New("must not be called")}
	s := NewTaskStore(fake)

	_, err := s.Create(context.Background(), model.TaskInput{Title: "  "})
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
	assert.Equal(t, err, s.Err())
	assert.Empty(t, s.Items())
}

func TestTaskStoreFetchFailureKeepsItems(t *testing.T) {
	ctx := context.Background()
	fake := &fakeTaskAPI{}
	s := NewTaskStore(fake)
	_, err := s.Create(ctx, model.TaskInput{Title: "keep me"})
	require.NoError(t, err)

	fake.failWith = &api.UnavailableError{Op: "GET /tasks", Err: errors.New("connection refused")}
	err = s.Fetch(ctx)
	require.Error(t, err)
	assert.True(t, api.IsUnavailable(err))

	snap := s.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.False(t, snap.IsLoading)
	assert.Contains(t, snap.Error, "fetching tasks")

	fake.failWith = nil
	require.NoError(t, s.Fetch(ctx))
	assert.Empty(t, s.Snapshot().Error)
}

func TestTaskStoreDeleteMissingLeavesCollection(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore(&fakeTaskAPI{})
	_, err := s.Create(ctx, model.TaskInput{Title: "one"})
	require.NoError(t, err)

	err = s.Delete(ctx, "missing")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.Len(t, s.Items(), 1)
}

func TestTaskStoreFailedCreateDoesNotInsert(t *testing.T) {
	fake := &fakeTaskAPI{failWith: &api.APIError{StatusCode: http.StatusBadRequest, Message: "nope"}}
	s := NewTaskStore(fake)

	_, err := s.Create(context.Background(), model.TaskInput{Title: "phantom"})
	require.Error(t, err)
	assert.Empty(t, s.Items())
	assert.Contains(t, s.Snapshot().Error, "nope")
}

// Two overlapping fetches: the one that resolves last wins, whatever the
// order they were issued in.
func TestTaskStoreConcurrentFetchLastResolvedWins(t *testing.T) {
	release := map[string]chan struct{}{
		"slow": make(chan struct{}),
		"fast": make(chan struct{}),
	}
	calls := make(chan string, 2)
	order := []string{"slow", "fast"}
	next := 0
	fake := &fakeTaskAPI{}
	fake.listHook = func(ctx context.Context) ([]model.Task, error) {
		fake.mu.Lock()
		name := order[next]
		next++
		fake.mu.Unlock()
		calls <- name
		<-release[name]
		return []model.Task{{ID: name, Title: name}}, nil
	}
	s := NewTaskStore(fake)

	done := make(chan error, 2)
	go func() { done <- s.Fetch(context.Background()) }()
	require.Equal(t, "slow", <-calls)
	go func() { done <- s.Fetch(context.Background()) }()
	require.Equal(t, "fast", <-calls)
	assert.True(t, s.IsLoading())

	close(release["fast"])
	require.NoError(t, <-done)
	assert.True(t, s.IsLoading(), "slow fetch is still in flight")
	assert.Equal(t, "fast", s.Items()[0].ID)

	close(release["slow"])
	require.NoError(t, <-done)
	assert.False(t, s.IsLoading())

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "slow", items[0].ID)
}

func TestTaskStoreDerivedViews(t *testing.T) {
	ctx := context.Background()
	s := NewTaskStore(&fakeTaskAPI{})
	_, err := s.Create(ctx, model.TaskInput{Title: "a", GoalID: "g1", DueDate: "2020-01-01", Tags: []string{"go", " go", "web"}})
	require.NoError(t, err)
	b, err := s.Create(ctx, model.TaskInput{Title: "b", GoalID: "g2", DueDate: "2020-01-01", Tags: []string{"db"}})
	require.NoError(t, err)
	completed := model.TaskCompleted
	_, err = s.Update(ctx, model.TaskUpdate{ID: b.ID, Status: &completed})
	require.NoError(t, err)

	assert.Len(t, s.ForObjective("g1"), 1)
	assert.Equal(t, map[model.TaskStatus]int{model.TaskTodo: 1, model.TaskCompleted: 1}, s.CountByStatus())
	overdue := s.Overdue(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	require.Len(t, overdue, 1)
	assert.Equal(t, "a", overdue[0].Title)
	assert.Equal(t, []string{"go", "web", "db"}, s.Tags())
}

func TestTaskStoreSubscriberMayReadDuringConcurrentCreates(t *testing.T) {
	s := NewTaskStore(&fakeTaskAPI{})
	s.Subscribe(func(Snapshot[model.Task]) {
		time.Sleep(time.Millisecond)
		_ = s.Len()
		_ = s.Items()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _ = s.Create(context.Background(), model.TaskInput{Title: fmt.Sprintf("task %d", i)})
			}(i)
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent Create calls with a reading subscriber did not finish")
	}
	assert.Equal(t, 20, s.Len())
}
