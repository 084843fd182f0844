package itemlist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/theme"
)

// Row is a list entry the delegate knows how to draw.
type Row interface {
	list.Item
	ID() string
	Line(now time.Time) string
}

// ObjectiveItem wraps a model.Objective for the list.
type ObjectiveItem struct{ Objective model.Objective }

func (i ObjectiveItem) FilterValue() string { return i.Objective.Title }
func (i ObjectiveItem) ID() string          { return i.Objective.ID }

func (i ObjectiveItem) Line(now time.Time) string {
	o := i.Objective
	line := fmt.Sprintf("%s %s %s  %s",
		theme.ProgressBar(o.Progress, 10),
		theme.ObjectiveStatusStyle(o.Status).Render(statusLabel(string(o.Status))),
		theme.PriorityStyle(string(o.Priority)).Render(priorityLabel(string(o.Priority))),
		o.Title,
	)
	line += dueSuffix(o.DueDate, o.IsOverdue(now))
	if o.TotalTasks > 0 {
		line += lipgloss.NewStyle().Foreground(theme.ColorGray).
			Render(fmt.Sprintf("  %d/%d tasks", o.CompletedTasks, o.TotalTasks))
	}
	return line
}

// TaskItem wraps a model.Task for the list.
type TaskItem struct{ Task model.Task }

func (i TaskItem) FilterValue() string { return i.Task.Title }
func (i TaskItem) ID() string          { return i.Task.ID }

func (i TaskItem) Line(now time.Time) string {
	t := i.Task
	prefix := "○"
	if t.Status == model.TaskCompleted {
		prefix = "✓"
	}

	tags := ""
	if len(t.Tags) > 0 {
		display := t.Tags
		if len(display) > 2 {
			display = append(display[:2:2], "…")
		}
		tags = lipgloss.NewStyle().Foreground(theme.ColorMagenta).
			Render(" #" + strings.Join(display, " #"))
	}

	line := fmt.Sprintf("%s %s %s %s%s",
		prefix,
		theme.TaskStatusStyle(t.Status).Render(statusLabel(string(t.Status))),
		theme.PriorityStyle(string(t.Priority)).Render(priorityLabel(string(t.Priority))),
		t.Title,
		tags,
	)
	line += dueSuffix(t.DueDate, t.IsOverdue(now))

	if t.Status == model.TaskCompleted {
		line = theme.DimmedStyle.Render(line)
	}
	return line
}

// NoteItem wraps a model.Note for the list.
type NoteItem struct{ Note model.Note }

func (i NoteItem) FilterValue() string { return i.Note.Title }
func (i NoteItem) ID() string          { return i.Note.ID }

func (i NoteItem) Line(now time.Time) string {
	n := i.Note
	badge := "  "
	if n.HasAISummary {
		badge = lipgloss.NewStyle().Foreground(theme.ColorMagenta).Render("✦ ")
	}
	return fmt.Sprintf("%s%s  %s", badge, n.Title,
		lipgloss.NewStyle().Foreground(theme.ColorGray).Render(relativeTime(n.UpdatedAt, now)))
}

// SessionItem wraps a model.ChatSession for the list.
type SessionItem struct{ Session model.ChatSession }

func (i SessionItem) FilterValue() string { return i.Session.Title }
func (i SessionItem) ID() string          { return i.Session.ID }

func (i SessionItem) Line(now time.Time) string {
	s := i.Session
	return fmt.Sprintf("%s  %s", s.Title,
		lipgloss.NewStyle().Foreground(theme.ColorGray).
			Render(fmt.Sprintf("%d messages · %s", len(s.Messages), relativeTime(s.UpdatedAt, now))))
}

// AchievementItem wraps a model.Achievement for the list.
type AchievementItem struct{ Achievement model.Achievement }

func (i AchievementItem) FilterValue() string { return i.Achievement.Title }
func (i AchievementItem) ID() string          { return i.Achievement.ID }

func (i AchievementItem) Line(now time.Time) string {
	a := i.Achievement
	mark := lipgloss.NewStyle().Foreground(theme.ColorGray).Render("·")
	if a.Unlocked {
		mark = lipgloss.NewStyle().Foreground(theme.ColorYellow).Render("★")
	}
	line := fmt.Sprintf("%s %s  %s", mark, a.Title,
		lipgloss.NewStyle().Foreground(theme.ColorGray).Render(a.Description))
	if !a.Unlocked && a.Total > 1 {
		line += fmt.Sprintf("  (%d/%d)", a.Progress, a.Total)
	}
	return line
}

// ItemDelegate implements list.ItemDelegate for Row values.
type ItemDelegate struct {
	// Now returns the reference time for overdue and relative-time labels.
	Now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(Row)
	if !ok {
		return
	}
	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}

	line := row.Line(now)
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

func dueSuffix(dueDate string, overdue bool) string {
	due, err := model.ParseDueDate(dueDate)
	if err != nil || due.IsZero() {
		return ""
	}
	if overdue {
		return theme.OverdueStyle.Render(" OVERDUE " + due.Format("Jan 02"))
	}
	return lipgloss.NewStyle().Foreground(theme.ColorGray).Render(" due " + due.Format("Jan 02"))
}

// statusLabel turns IN_PROGRESS into "in progress".
func statusLabel(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", " ")
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p string) string {
	switch strings.ToLower(p) {
	case "high":
		return "P1"
	case "medium":
		return "P2"
	case "low":
		return "P3"
	default:
		return "P?"
	}
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	}
}
