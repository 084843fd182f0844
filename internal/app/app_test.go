package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/store"
	appsync "github.com/nhle/study-dashboard/internal/sync"
	"github.com/nhle/study-dashboard/tests/testutil"
)

func newTestModel(t *testing.T) (Model, *store.Set) {
	t.Helper()
	backend := testutil.NewTestBackend(t)
	set := store.NewSet(backend.Client(t))
	m := New(set, appsync.New(nil), "ada@example.com")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model), set
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(k)
	return updated.(Model), cmd
}

var tab = tea.KeyMsg{Type: tea.KeyTab}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabsCycle(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, SectionOverview, m.Active())

	for i := 0; i < int(numSections); i++ {
		m, _ = press(t, m, tab)
	}
	assert.Equal(t, SectionOverview, m.Active())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, SectionAchievements, m.Active())
}

func TestCompleteTaskFromList(t *testing.T) {
	m, set := newTestModel(t)
	ctx := context.Background()
	_, err := set.Tasks.Create(ctx, model.TaskInput{Title: "Write report"})
	require.NoError(t, err)

	updated, _ := m.Update(appsync.SyncResultMsg{Name: "tasks"})
	m = updated.(Model)
	m, _ = press(t, m, tab)
	m, _ = press(t, m, tab)
	require.Equal(t, SectionTasks, m.Active())

	m, cmd := press(t, m, runes("x"))
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	tasks := set.Tasks.Items()
	require.Len(t, tasks, 1)
	assert.Equal(t, model.TaskCompleted, tasks[0].Status)
	assert.Equal(t, "task updated", m.flash)
	assert.False(t, m.flashErr)
}

func TestNewChatOpensPanel(t *testing.T) {
	m, set := newTestModel(t)
	for m.Active() != SectionChat {
		m, _ = press(t, m, tab)
	}

	m, cmd := press(t, m, runes("n"))
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	require.True(t, m.chatOpen)
	require.Equal(t, 1, set.Chat.Len())
	assert.Equal(t, set.Chat.Items()[0].ID, m.chat.SessionID())

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	assert.False(t, updated.(Model).chatOpen)
}

func TestOverviewShowsCounts(t *testing.T) {
	m, set := newTestModel(t)
	ctx := context.Background()
	_, err := set.Notes.Create(ctx, model.NoteInput{Title: "Recursion", Content: "A function calling itself."})
	require.NoError(t, err)
	_, err = set.Tasks.Create(ctx, model.TaskInput{Title: "Read", Tags: []string{"cs"}})
	require.NoError(t, err)

	out := m.View()
	assert.Contains(t, out, "Study Dashboard · ada@example.com")
	assert.Contains(t, out, "1 total · 0 with AI summary")
	assert.Contains(t, out, "#cs")
}

func TestFailedActionShowsError(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(actionDoneMsg{verb: "task updated", err: assert.AnError})
	m = updated.(Model)
	assert.True(t, m.flashErr)
	assert.Equal(t, assert.AnError.Error(), m.flash)
}

func TestDetailPanelFollowsStore(t *testing.T) {
	m, set := newTestModel(t)
	ctx := context.Background()
	obj, err := set.Objectives.Create(ctx, model.ObjectiveInput{Title: "Learn Go"})
	require.NoError(t, err)
	task, err := set.Tasks.Create(ctx, model.TaskInput{Title: "Tour of Go", GoalID: obj.ID})
	require.NoError(t, err)

	updated, _ := m.Update(appsync.SyncResultMsg{Name: "tasks"})
	m = updated.(Model)
	m, _ = press(t, m, tab)
	m, _ = press(t, m, tab)
	require.Equal(t, SectionTasks, m.Active())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.detailOpen)
	assert.Equal(t, task.ID, m.detailID)
	assert.Contains(t, m.View(), "Learn Go")

	require.NoError(t, set.Tasks.Delete(ctx, task.ID))
	updated, _ = m.Update(appsync.SyncResultMsg{Name: "tasks"})
	m = updated.(Model)
	assert.Contains(t, m.View(), "no longer exists")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	assert.False(t, updated.(Model).detailOpen)
}
