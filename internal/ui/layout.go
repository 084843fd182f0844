// Package ui contains the building blocks of the dashboard TUI.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/study-dashboard/internal/theme"
)

// Layout manages the terminal layout dimensions: a header line, a tab
// line, the content area, and a status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	TabsHeight      int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		TabsHeight:      1,
		StatusBarHeight: 1,
	}
}

// ContentHeight returns the height available for the main content area.
func (l Layout) ContentHeight() int {
	return max(0, l.Height-l.HeaderHeight-l.TabsHeight-l.StatusBarHeight)
}

// RenderHeader renders the top bar with a title on the left and status
// text on the right.
func (l Layout) RenderHeader(title, status string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Render(status)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, l.fill(theme.HeaderStyle, left, right), right)
}

// RenderTabs renders the section names with the active one highlighted.
func (l Layout) RenderTabs(names []string, active int) string {
	tabs := make([]string, len(names))
	for i, name := range names {
		if i == active {
			tabs[i] = theme.ActiveTabStyle.Render(name)
		} else {
			tabs[i] = theme.TabStyle.Render(name)
		}
	}
	return lipgloss.NewStyle().MaxWidth(l.Width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// RenderStatusBar renders the bottom status bar.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, l.fill(theme.StatusBarStyle, rendered))
}

// RenderWithFrame stacks header, tabs, content, and status bar. The
// content is padded to ContentHeight so the status bar stays at the bottom.
func (l Layout) RenderWithFrame(header, tabs, content, statusBar string) string {
	body := lipgloss.NewStyle().Height(l.ContentHeight()).MaxHeight(l.ContentHeight()).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, body, statusBar)
}

// fill returns a background-colored spacer covering the width left over by parts.
func (l Layout) fill(style lipgloss.Style, parts ...string) string {
	gap := l.Width
	for _, p := range parts {
		gap -= lipgloss.Width(p)
	}
	if gap <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")
}
