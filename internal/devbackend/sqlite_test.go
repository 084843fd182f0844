package devbackend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestUser(t *testing.T, s *SQLiteStore, email string) string {
	t.Helper()
	u, err := s.CreateUser(context.Background(), email, "hash")
	require.NoError(t, err)
	return u.ID
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.runMigrations())

	var version int
	require.NoError(t, s.db.Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, len(migrations), version)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	newTestUser(t, s, "Ada@Example.com")

	_, err := s.CreateUser(context.Background(), "ada@example.com", "other")
	assert.ErrorIs(t, err, ErrConflict)

	u, err := s.GetUserByEmail(context.Background(), " ADA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestTaskCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	uid := newTestUser(t, s, "a@example.com")

	task, err := s.CreateTask(ctx, uid, model.TaskInput{Title: " Read ", Tags: []string{"go", "go", " db "}})
	require.NoError(t, err)
	assert.Equal(t, "Read", task.Title)
	assert.Equal(t, model.TaskTodo, task.Status)
	assert.Equal(t, model.TaskPriorityMedium, task.Priority)
	assert.Equal(t, []string{"go", "db"}, task.Tags)

	tags := []string{}
	priority := model.TaskPriorityLow
	updated, err := s.UpdateTask(ctx, uid, model.TaskUpdate{ID: task.ID, Priority: &priority, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, model.TaskPriorityLow, updated.Priority)
	assert.Equal(t, "Read", updated.Title)
	assert.Empty(t, updated.Tags)

	require.NoError(t, s.DeleteTask(ctx, uid, task.ID))
	err = s.DeleteTask(ctx, uid, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "task "+task.ID+" not found")
}

func TestEntitiesAreScopedToUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	note, err := s.CreateNote(ctx, alice, model.NoteInput{Title: "Private"})
	require.NoError(t, err)

	_, err = s.GetNoteByID(ctx, bob, note.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteNote(ctx, bob, note.ID), ErrNotFound)

	notes, err := s.GetNotes(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestObjectiveProgress(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	uid := newTestUser(t, s, "a@example.com")

	obj, err := s.CreateObjective(ctx, uid, model.ObjectiveInput{Title: "Algorithms"})
	require.NoError(t, err)
	assert.Equal(t, 0, obj.Progress)
	assert.Equal(t, []string{}, obj.RelatedTasks)

	done := model.TaskCompleted
	for i := 0; i < 2; i++ {
		in := model.TaskInput{Title: "t", GoalID: obj.ID}
		if i == 0 {
			in.Status = done
		}
		_, err := s.CreateTask(ctx, uid, in)
		require.NoError(t, err)
	}
	_, err = s.CreateTask(ctx, uid, model.TaskInput{Title: "unrelated"})
	require.NoError(t, err)

	objectives, err := s.GetObjectives(ctx, uid)
	require.NoError(t, err)
	require.Len(t, objectives, 1)
	assert.Equal(t, 2, objectives[0].TotalTasks)
	assert.Equal(t, 1, objectives[0].CompletedTasks)
	assert.Equal(t, 50, objectives[0].Progress)
	assert.Len(t, objectives[0].RelatedTasks, 2)

	// Deleting the objective leaves its tasks in place.
	require.NoError(t, s.DeleteObjective(ctx, uid, obj.ID))
	tasks, err := s.GetTasks(ctx, uid, TaskFilter{GoalID: &obj.ID})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestUpdateNoteContentDropsSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	uid := newTestUser(t, s, "a@example.com")

	note, err := s.CreateNote(ctx, uid, model.NoteInput{Title: "T", Content: "old"})
	require.NoError(t, err)
	_, err = s.SetNoteSummary(ctx, uid, note.ID, "summary")
	require.NoError(t, err)

	title := "T2"
	n, err := s.UpdateNote(ctx, uid, model.NoteUpdate{ID: note.ID, Title: &title})
	require.NoError(t, err)
	assert.True(t, n.HasAISummary)

	content := "new"
	n, err = s.UpdateNote(ctx, uid, model.NoteUpdate{ID: note.ID, Content: &content})
	require.NoError(t, err)
	assert.False(t, n.HasAISummary)
	assert.Empty(t, n.AISummary)
}

func TestChatMessagesKeepOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	uid := newTestUser(t, s, "a@example.com")

	session, err := s.CreateChatSession(ctx, uid, "")
	require.NoError(t, err)
	assert.Equal(t, defaultChatTitle, session.Title)
	assert.Equal(t, []model.ChatMessage{}, session.Messages)

	for _, content := range []string{"one", "two"} {
		_, err := s.AppendChatMessages(ctx, uid, session.ID, []model.ChatMessage{
			{Role: model.ChatRoleUser, Content: content},
			{Role: model.ChatRoleAssistant, Content: "re: " + content,
				Metadata: &model.ChatMessageMetadata{NoteIDs: []string{"n1"}}},
		})
		require.NoError(t, err)
	}

	sessions, err := s.GetChatSessions(ctx, uid)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	var contents []string
	for _, m := range sessions[0].Messages {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"one", "re: one", "two", "re: two"}, contents)
	require.NotNil(t, sessions[0].Messages[1].Metadata)
	assert.Equal(t, []string{"n1"}, sessions[0].Messages[1].Metadata.NoteIDs)

	_, err = s.AppendChatMessages(ctx, uid, "missing", []model.ChatMessage{{Role: model.ChatRoleUser, Content: "x"}})
	assert.ErrorIs(t, err, ErrNotFound)
}
