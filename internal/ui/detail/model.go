// Package detail renders a scrollable detail panel for one objective, task
// or note together with the entities it is linked to.
package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/study-dashboard/internal/crossref"
	"github.com/nhle/study-dashboard/internal/keys"
	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Model is the detail view component.
type Model struct {
	viewport viewport.Model
	keys     *keys.KeyMap
	content  string
	shown    string
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		return m, func() tea.Msg { return BackMsg{} }
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.content == "" {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("This item no longer exists")
	}
	return m.viewport.View()
}

// Content returns the rendered content, for tests and plain output.
func (m Model) Content() string {
	return m.content
}

// ShowObjective displays o with its tasks and notes.
func (m *Model) ShowObjective(o model.Objective, links crossref.Links, now time.Time) {
	var sections []string
	sections = append(sections, titleStyle.Render(o.Title))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
		theme.ObjectiveStatusStyle(o.Status).Render(string(o.Status)), "  ",
		theme.PriorityStyle(string(o.Priority)).Render(string(o.Priority)),
	))
	sections = append(sections, "")
	sections = append(sections,
		meta("Progress:", fmt.Sprintf("%s  %d/%d tasks", theme.ProgressBar(o.Progress, 20), o.CompletedTasks, o.TotalTasks)),
		meta("Due:", dueText(o.DueDate, o.IsOverdue(now))),
		meta("Created:", timeText(o.CreatedAt)),
		meta("Updated:", timeText(o.UpdatedAt)),
	)
	sections = append(sections, m.body("Description", o.Description)...)

	if len(links.Tasks) > 0 {
		sections = append(sections, m.separator(), sectionStyle.Render(fmt.Sprintf("Tasks (%d)", len(links.Tasks))))
		for _, t := range links.Tasks {
			sections = append(sections, "  "+theme.TaskStatusStyle(t.Status).Render(statusMark(t.Status))+" "+t.Title)
		}
	}
	sections = append(sections, m.noteList(links.Notes)...)
	m.setContent("objective:"+o.ID, sections)
}

// ShowTask displays t with its objective and notes.
func (m *Model) ShowTask(t model.Task, links crossref.Links, now time.Time) {
	var sections []string
	sections = append(sections, titleStyle.Render(t.Title))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
		theme.TaskStatusStyle(t.Status).Render(string(t.Status)), "  ",
		theme.PriorityStyle(string(t.Priority)).Render(string(t.Priority)),
	))
	sections = append(sections, "")
	if links.Objective != nil {
		sections = append(sections, meta("Objective:", links.Objective.Title))
	}
	sections = append(sections, meta("Due:", dueText(t.DueDate, t.IsOverdue(now))))
	if len(t.Tags) > 0 {
		sections = append(sections, meta("Tags:", "#"+strings.Join(t.Tags, " #")))
	}
	sections = append(sections,
		meta("Created:", timeText(t.CreatedAt)),
		meta("Updated:", timeText(t.UpdatedAt)),
	)
	sections = append(sections, m.body("Description", t.Description)...)
	sections = append(sections, m.noteList(links.Notes)...)
	m.setContent("task:"+t.ID, sections)
}

// ShowNote displays n with its summary and the objective and task it
// refers to.
func (m *Model) ShowNote(n model.Note, links crossref.Links) {
	var sections []string
	sections = append(sections, titleStyle.Render(n.Title))
	sections = append(sections, "")
	if links.Objective != nil {
		sections = append(sections, meta("Objective:", links.Objective.Title))
	}
	switch {
	case links.Task != nil:
		sections = append(sections, meta("Task:", links.Task.Title))
	case n.RelatedTaskTitle != "":
		sections = append(sections, meta("Task:", n.RelatedTaskTitle))
	}
	if tags := crossref.ExtractHashtags(n.Content); len(tags) > 0 {
		sections = append(sections, meta("Tags:", "#"+strings.Join(tags, " #")))
	}
	sections = append(sections, meta("Updated:", timeText(n.UpdatedAt)))

	if n.HasAISummary {
		sections = append(sections, m.separator(), theme.SuccessStyle.Bold(true).Render("AI summary"), n.AISummary)
	}
	sections = append(sections, m.body("Content", n.Content)...)
	m.setContent("note:"+n.ID, sections)
}

// Clear drops the displayed item.
func (m *Model) Clear() {
	m.content = ""
	m.shown = ""
	m.viewport.SetContent("")
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// setContent replaces the content, keeping the scroll position when the
// same item is re-rendered after a refresh.
func (m *Model) setContent(item string, sections []string) {
	m.content = lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(m.content)
	if item != m.shown {
		m.viewport.GotoTop()
	}
	m.shown = item
}

func (m Model) separator() string {
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	return "\n" + sepStyle.Render(strings.Repeat("─", max(1, min(m.width-4, 80)))) + "\n"
}

func (m Model) body(header, text string) []string {
	if strings.TrimSpace(text) == "" {
		text = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No " + strings.ToLower(header))
	}
	return []string{m.separator(), sectionStyle.MarginBottom(1).Render(header), text}
}

func (m Model) noteList(notes []model.Note) []string {
	if len(notes) == 0 {
		return nil
	}
	lines := []string{m.separator(), sectionStyle.Render(fmt.Sprintf("Notes (%d)", len(notes)))}
	for _, n := range notes {
		line := "  • " + n.Title
		if n.HasAISummary {
			line += theme.HelpStyle.Render("  (summarized)")
		}
		lines = append(lines, line)
	}
	return lines
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	metaStyle    = lipgloss.NewStyle().Foreground(theme.ColorGray).Width(11)
	valStyle     = lipgloss.NewStyle().Foreground(theme.ColorWhite)
)

func meta(label, value string) string {
	return metaStyle.Render(label) + valStyle.Render(value)
}

func dueText(due string, overdue bool) string {
	if due == "" {
		return "-"
	}
	if d, err := model.ParseDueDate(due); err == nil {
		due = d.Format("2006-01-02")
	}
	if overdue {
		return theme.OverdueStyle.Render(due + " (overdue)")
	}
	return due
}

func timeText(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func statusMark(s model.TaskStatus) string {
	switch s {
	case model.TaskCompleted:
		return "[x]"
	case model.TaskInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}
