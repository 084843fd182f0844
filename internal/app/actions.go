package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/study-dashboard/internal/model"
)

// actionTimeout bounds a single store operation started from the UI.
const actionTimeout = 15 * time.Second

// actionDoneMsg is sent after a store operation started from the UI ends.
type actionDoneMsg struct {
	verb string
	err  error

	// refresh names stores whose server-derived fields may have changed.
	refresh []string

	// openChat is set when the action created a chat session to open.
	openChat string
}

// actionFor maps a key press on the active section to a store operation.
// It returns nil when the key is not an action there.
func (m Model) actionFor(msg tea.KeyMsg) tea.Cmd {
	if m.active == SectionOverview {
		return nil
	}
	if m.active == SectionChat && key.Matches(msg, m.keys.NewChat) {
		return m.run("chat created", nil, func(ctx context.Context) (string, error) {
			session, err := m.set.Chat.Create(ctx, model.ChatSessionInput{})
			if err != nil {
				return "", err
			}
			return session.ID, nil
		})
	}

	row, ok := m.lists[m.active].Selected()
	if !ok {
		return nil
	}
	id := row.ID()

	switch m.active {
	case SectionTasks:
		switch {
		case key.Matches(msg, m.keys.Complete):
			return m.setTaskStatus(id, model.TaskCompleted)
		case key.Matches(msg, m.keys.Start):
			return m.setTaskStatus(id, model.TaskInProgress)
		case key.Matches(msg, m.keys.Delete):
			return m.run("task deleted", []string{"objectives", "achievements"}, func(ctx context.Context) (string, error) {
				return "", m.set.Tasks.Delete(ctx, id)
			})
		}

	case SectionObjectives:
		switch {
		case key.Matches(msg, m.keys.Complete):
			return m.setObjectiveStatus(id, model.ObjectiveCompleted)
		case key.Matches(msg, m.keys.Start):
			return m.setObjectiveStatus(id, model.ObjectiveInProgress)
		case key.Matches(msg, m.keys.Delete):
			return m.run("objective deleted", []string{"achievements"}, func(ctx context.Context) (string, error) {
				return "", m.set.Objectives.Delete(ctx, id)
			})
		}

	case SectionNotes:
		switch {
		case key.Matches(msg, m.keys.Summarize):
			return m.run("summary ready", []string{"achievements"}, func(ctx context.Context) (string, error) {
				_, err := m.set.Notes.GenerateAISummary(ctx, id)
				return "", err
			})
		case key.Matches(msg, m.keys.Delete):
			return m.run("note deleted", []string{"achievements"}, func(ctx context.Context) (string, error) {
				return "", m.set.Notes.Delete(ctx, id)
			})
		}

	case SectionChat:
		switch {
		case key.Matches(msg, m.keys.Select):
			return func() tea.Msg { return actionDoneMsg{openChat: id} }
		case key.Matches(msg, m.keys.Delete):
			return m.run("chat deleted", nil, func(ctx context.Context) (string, error) {
				return "", m.set.Chat.Delete(ctx, id)
			})
		}
	}
	return nil
}

func (m Model) setTaskStatus(id string, status model.TaskStatus) tea.Cmd {
	return m.run("task updated", []string{"objectives", "achievements"}, func(ctx context.Context) (string, error) {
		_, err := m.set.Tasks.Update(ctx, model.TaskUpdate{ID: id, Status: &status})
		return "", err
	})
}

func (m Model) setObjectiveStatus(id string, status model.ObjectiveStatus) tea.Cmd {
	return m.run("objective updated", []string{"achievements"}, func(ctx context.Context) (string, error) {
		_, err := m.set.Objectives.Update(ctx, model.ObjectiveUpdate{ID: id, Status: &status})
		return "", err
	})
}

// run wraps op in a tea.Cmd. op may return a chat session ID to open.
func (m Model) run(verb string, refresh []string, op func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		openChat, err := op(ctx)
		return actionDoneMsg{verb: verb, err: err, refresh: refresh, openChat: openChat}
	}
}
