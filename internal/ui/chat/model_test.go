package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/model"
)

type fakeSessions struct {
	session model.ChatSession
	sent    []string
	err     error
}

func (f *fakeSessions) Get(id string) (model.ChatSession, bool) {
	return f.session, id == f.session.ID
}

func (f *fakeSessions) SendMessage(ctx context.Context, sessionID, content string) ([]model.ChatMessage, error) {
	f.sent = append(f.sent, content)
	if f.err != nil {
		return nil, f.err
	}
	msgs := []model.ChatMessage{
		{Role: model.ChatRoleUser, Content: content},
		{Role: model.ChatRoleAssistant, Content: "reply"},
	}
	f.session.Messages = append(f.session.Messages, msgs...)
	return msgs, nil
}

func typeText(m Model, text string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestSendRendersReply(t *testing.T) {
	sessions := &fakeSessions{session: model.ChatSession{ID: "s1", Title: "Study plan"}}
	m := New(sessions, 80, 30)
	m.Open("s1")

	m = typeText(m, "hello")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Sending())

	msg := cmd()
	sent, ok := msg.(SentMsg)
	require.True(t, ok)
	assert.NoError(t, sent.Err)
	assert.Equal(t, []string{"hello"}, sessions.sent)

	m, _ = m.Update(msg)
	assert.False(t, m.Sending())
	assert.Contains(t, m.renderConversation(), "reply")
	assert.Contains(t, m.View(), "Study plan")
}

func TestBlankInputIsNotSent(t *testing.T) {
	sessions := &fakeSessions{session: model.ChatSession{ID: "s1"}}
	m := New(sessions, 80, 30)
	m.Open("s1")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.Sending())
}

func TestSendFailureIsShown(t *testing.T) {
	sessions := &fakeSessions{session: model.ChatSession{ID: "s1"}, err: errors.New("backend unavailable")}
	m := New(sessions, 80, 30)
	m.Open("s1")

	m = typeText(m, "hi")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(cmd())
	assert.Contains(t, m.renderConversation(), "backend unavailable")
}

func TestEscCloses(t *testing.T) {
	m := New(&fakeSessions{}, 80, 30)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
}
