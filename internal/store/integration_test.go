package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/api"
	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/store"
	"github.com/nhle/study-dashboard/tests/testutil"
)

func TestTaskLifecycleAgainstBackend(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewTestBackend(t)
	set := store.NewSet(backend.Client(t))

	task, err := set.Tasks.Create(ctx, model.TaskInput{
		Title:    "Write report",
		Priority: model.TaskPriorityHigh,
		GoalID:   "g1",
		DueDate:  "2024-06-01",
	})
	require.NoError(t, err)
	require.Len(t, set.Tasks.Items(), 1)
	assert.Equal(t, model.TaskTodo, task.Status)

	completed := model.TaskCompleted
	_, err = set.Tasks.Update(ctx, model.TaskUpdate{ID: task.ID, Status: &completed})
	require.NoError(t, err)

	got, ok := set.Tasks.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, model.TaskCompleted, got.Status)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, model.TaskPriorityHigh, got.Priority)
	assert.Equal(t, "g1", got.GoalID)
	assert.Equal(t, "2024-06-01", got.DueDate)

	require.NoError(t, set.Tasks.Delete(ctx, task.ID))
	assert.Empty(t, set.Tasks.Items())

	require.NoError(t, set.Tasks.Fetch(ctx))
	assert.Empty(t, set.Tasks.Items())
}

func TestDeleteUnknownIDAgainstBackend(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewTestBackend(t)
	set := store.NewSet(backend.Client(t))

	_, err := set.Notes.Create(ctx, model.NoteInput{Title: "Keep"})
	require.NoError(t, err)

	err = set.Notes.Delete(ctx, "does-not-exist")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.Len(t, set.Notes.Items(), 1)
}

func TestObjectiveProgressIsServerDerived(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewTestBackend(t)
	set := store.NewSet(backend.Client(t))

	obj, err := set.Objectives.Create(ctx, model.ObjectiveInput{Title: "Learn Go"})
	require.NoError(t, err)
	assert.Equal(t, model.ObjectiveNotStarted, obj.Status)
	assert.Equal(t, model.ObjectivePriorityMedium, obj.Priority)

	var ids []string
	for _, title := range []string{"Tour", "Effective Go", "Build a CLI"} {
		task, err := set.Tasks.Create(ctx, model.TaskInput{Title: title, GoalID: obj.ID})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	completed := model.TaskCompleted
	_, err = set.Tasks.Update(ctx, model.TaskUpdate{ID: ids[0], Status: &completed})
	require.NoError(t, err)

	require.NoError(t, set.FetchAll(ctx))
	got, ok := set.Objectives.Get(obj.ID)
	require.True(t, ok)
	assert.Equal(t, 3, got.TotalTasks)
	assert.Equal(t, 1, got.CompletedTasks)
	assert.Equal(t, 33, got.Progress)
	assert.Equal(t, ids, got.RelatedTasks)
}

func TestChatAndSummaryAgainstBackend(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewTestBackend(t)
	set := store.NewSet(backend.Client(t))

	note, err := set.Notes.Create(ctx, model.NoteInput{Title: "Recursion", Content: "A function calling itself. Needs a base case."})
	require.NoError(t, err)
	summary, err := set.Notes.GenerateAISummary(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, summary.HasAISummary)
	assert.Len(t, set.Notes.WithSummary(), 1)

	session, err := set.Chat.Create(ctx, model.ChatSessionInput{})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Title)

	msgs, err := set.Chat.SendMessage(ctx, session.ID, "Show me recursion")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.ChatRoleUser, msgs[0].Role)
	assert.Equal(t, model.ChatMessageNote, msgs[1].Type)

	require.NoError(t, set.Achievements.Fetch(ctx))
	assert.Equal(t, 3, set.Achievements.UnlockedCount())
}
