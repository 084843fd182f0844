// Package itemlist renders one entity collection as a navigable list.
package itemlist

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/study-dashboard/internal/theme"
)

// Model is a list view over one kind of Row.
type Model struct {
	list   list.Model
	empty  string
	width  int
	height int
}

// New creates a list titled title. empty is shown when there are no rows.
func New(title, empty string, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		empty:  empty,
		width:  width,
		height: height,
	}
}

// SetRows replaces the rows, keeping the cursor on the same ID when it
// still exists.
func (m *Model) SetRows(rows []Row) tea.Cmd {
	selected, hadSelection := m.Selected()

	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	cmd := m.list.SetItems(items)

	if hadSelection {
		for i, r := range rows {
			if r.ID() == selected.ID() {
				m.list.Select(i)
				break
			}
		}
	}
	return cmd
}

// Selected returns the row under the cursor.
func (m Model) Selected() (Row, bool) {
	row, ok := m.list.SelectedItem().(Row)
	return row, ok
}

// Len returns the number of rows.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Update handles navigation keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list or the empty-state text.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(m.empty)
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
