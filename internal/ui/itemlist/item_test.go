package itemlist

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/model"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func TestTaskLine(t *testing.T) {
	line := ansi.Strip(TaskItem{Task: model.Task{
		ID: "t1", Title: "Write report", Status: model.TaskInProgress,
		Priority: model.TaskPriorityHigh, DueDate: "2024-06-01", Tags: []string{"a", "b", "c"},
	}}.Line(now))

	assert.Contains(t, line, "○ in progress P1 Write report")
	assert.Contains(t, line, "#a #b #…")
	assert.Contains(t, line, "OVERDUE Jun 01")
}

func TestCompletedTaskIsNotOverdue(t *testing.T) {
	line := ansi.Strip(TaskItem{Task: model.Task{
		Title: "Done", Status: model.TaskCompleted, DueDate: "2024-06-01",
	}}.Line(now))
	assert.Contains(t, line, "✓")
	assert.NotContains(t, line, "OVERDUE")
	assert.Contains(t, line, "due Jun 01")
}

func TestObjectiveLine(t *testing.T) {
	line := ansi.Strip(ObjectiveItem{Objective: model.Objective{
		Title: "Algorithms", Status: model.ObjectiveInProgress, Priority: model.ObjectivePriorityHigh,
		Progress: 33, CompletedTasks: 1, TotalTasks: 3,
	}}.Line(now))
	assert.Contains(t, line, " 33%")
	assert.Contains(t, line, "Algorithms")
	assert.Contains(t, line, "1/3 tasks")
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{48 * time.Hour, "2d ago"},
		{15 * 24 * time.Hour, "2w ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeTime(now.Add(-tt.ago), now))
	}
	assert.Empty(t, relativeTime(time.Time{}, now))
}

func TestSetRowsKeepsSelection(t *testing.T) {
	m := New("Tasks", "none", 80, 10)
	m.SetRows([]Row{
		TaskItem{Task: model.Task{ID: "a", Title: "A"}},
		TaskItem{Task: model.Task{ID: "b", Title: "B"}},
	})
	m.list.Select(1)

	m.SetRows([]Row{
		TaskItem{Task: model.Task{ID: "c", Title: "C"}},
		TaskItem{Task: model.Task{ID: "a", Title: "A"}},
		TaskItem{Task: model.Task{ID: "b", Title: "B"}},
	})
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", row.ID())
	assert.Equal(t, 3, m.Len())
}
