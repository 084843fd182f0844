// Package chat is the conversation panel of the dashboard TUI.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/theme"
)

// sendTimeout bounds a single message round trip.
const sendTimeout = 60 * time.Second

// Sessions is the slice of the chat store the panel needs.
type Sessions interface {
	Get(id string) (model.ChatSession, bool)
	SendMessage(ctx context.Context, sessionID, content string) ([]model.ChatMessage, error)
}

// CloseMsg signals the parent to close the panel.
type CloseMsg struct{}

// SentMsg is delivered when a send completes.
type SentMsg struct {
	SessionID string
	Err       error
}

// Model is the chat panel Bubble Tea model.
type Model struct {
	sessions  Sessions
	sessionID string
	input     textarea.Model
	viewport  viewport.Model
	sending   bool
	lastErr   error
	width     int
	height    int
}

// New creates a chat panel backed by sessions.
func New(sessions Sessions, width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about your notes..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.CharLimit = 2000

	m := Model{
		sessions: sessions,
		input:    ta,
		viewport: viewport.New(width, height),
	}
	m.SetSize(width, height)
	return m
}

// Open points the panel at a session and focuses the input.
func (m *Model) Open(sessionID string) tea.Cmd {
	m.sessionID = sessionID
	m.sending = false
	m.lastErr = nil
	m.input.Reset()
	m.Refresh()
	return m.input.Focus()
}

// SessionID returns the open session.
func (m Model) SessionID() string {
	return m.sessionID
}

// Sending reports whether a message is in flight.
func (m Model) Sending() bool {
	return m.sending
}

// Update handles messages for the chat panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SentMsg:
		if msg.SessionID != m.sessionID {
			return m, nil
		}
		m.sending = false
		m.lastErr = msg.Err
		m.Refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.sending {
			return m, nil
		}
		m.input.Blur()
		return m, func() tea.Msg { return CloseMsg{} }

	case "enter":
		if m.sending {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		m.sending = true
		m.lastErr = nil
		m.Refresh()
		return m, m.send(text)

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send posts text through the store. The store appends the returned
// messages, so the panel only needs to re-render afterwards.
func (m Model) send(text string) tea.Cmd {
	sessions, id := m.sessions, m.sessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		_, err := sessions.SendMessage(ctx, id, text)
		return SentMsg{SessionID: id, Err: err}
	}
}

// Refresh re-renders the conversation from the store and scrolls to the end.
func (m *Model) Refresh() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m Model) renderConversation() string {
	session, ok := m.sessions.Get(m.sessionID)
	if !ok {
		return theme.HelpStyle.Render("This chat no longer exists.")
	}
	if len(session.Messages) == 0 && !m.sending {
		return theme.HelpStyle.Render("Ask a question. The assistant can point you to related notes.")
	}

	roleStyle := lipgloss.NewStyle().Bold(true)
	userStyle := roleStyle.Foreground(theme.ColorBlue)
	assistantStyle := roleStyle.Foreground(theme.ColorGreen)
	contentStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite).Width(max(10, m.viewport.Width))

	var sections []string
	for _, msg := range session.Messages {
		label := assistantStyle.Render("Assistant:")
		if msg.Role == model.ChatRoleUser {
			label = userStyle.Render("You:")
		}
		sections = append(sections, label, contentStyle.Render(msg.Content))
		if msg.Metadata != nil && msg.Metadata.NoteTitle != "" {
			sections = append(sections, theme.HelpStyle.Render("↳ note: "+msg.Metadata.NoteTitle))
		}
		sections = append(sections, "")
	}

	if m.sending {
		sections = append(sections, theme.HelpStyle.Render("..."))
	}
	if m.lastErr != nil {
		sections = append(sections, theme.ErrorStyle.Render("Error: "+m.lastErr.Error()))
	}
	return strings.Join(sections, "\n")
}

// View renders the chat panel.
func (m Model) View() string {
	title := "Chat"
	if session, ok := m.sessions.Get(m.sessionID); ok {
		title = session.Title
	}

	separator := lipgloss.NewStyle().Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(0, min(m.viewport.Width, 80))))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(title),
		m.viewport.View(),
		separator,
		m.input.View(),
	)
	return theme.PanelStyle.Width(max(0, m.width-4)).Render(content)
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(max(10, width-8))
	m.viewport.Width = max(10, width-8)
	m.viewport.Height = max(4, height-10)
}
