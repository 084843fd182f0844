package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/model"
)

type fakeChatAPI struct {
	sessions []model.ChatSession
	reply    string
	sentAt   time.Time
}

func (f *fakeChatAPI) ListChatSessions(ctx context.Context) ([]model.ChatSession, error) {
	return f.sessions, nil
}

func (f *fakeChatAPI) CreateChatSession(ctx context.Context, in model.ChatSessionInput) (*model.ChatSession, error) {
	return &model.ChatSession{ID: "c1", Title: in.Title, Messages: []model.ChatMessage{}}, nil
}

func (f *fakeChatAPI) RenameChatSession(ctx context.Context, in model.ChatSessionInput) (*model.ChatSession, error) {
	return &model.ChatSession{ID: in.ID, Title: in.Title}, nil
}

func (f *fakeChatAPI) DeleteChatSession(ctx context.Context, id string) error { return nil }

func (f *fakeChatAPI) SendChatMessage(ctx context.Context, sessionID string, in model.SendMessageInput) (*model.SendMessageResult, error) {
	return &model.SendMessageResult{
		Messages: []model.ChatMessage{
			{ID: "m-user", Role: model.ChatRoleUser, Content: in.Content, Type: model.ChatMessageText},
			{ID: "m-bot", Role: model.ChatRoleAssistant, Content: f.reply, Type: model.ChatMessageText},
		},
		UpdatedAt: f.sentAt,
	}, nil
}

func TestChatStoreSendMessageAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	sentAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	fake := &fakeChatAPI{reply: "Try spaced repetition.", sentAt: sentAt}
	s := NewChatStore(fake)

	session, err := s.Create(ctx, model.ChatSessionInput{Title: "Study tips"})
	require.NoError(t, err)

	msgs, err := s.SendMessage(ctx, session.ID, "How do I memorize faster?")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	got, ok := s.Get(session.ID)
	require.True(t, ok)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, model.ChatRoleUser, got.Messages[0].Role)
	assert.Equal(t, model.ChatRoleAssistant, got.Messages[1].Role)
	assert.Equal(t, sentAt, got.UpdatedAt)

	last, ok := s.LastMessage(session.ID)
	require.True(t, ok)
	assert.Equal(t, "Try spaced repetition.", last.Content)
}

func TestChatStoreSendEmptyMessage(t *testing.T) {
	s := NewChatStore(&fakeChatAPI{})
	_, err := s.SendMessage(context.Background(), "c1", "   ")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestChatStoreRenameAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewChatStore(&fakeChatAPI{sessions: []model.ChatSession{{ID: "c1", Title: "Old"}}})
	require.NoError(t, s.Fetch(ctx))

	_, err := s.Rename(ctx, model.ChatSessionInput{ID: "c1", Title: "New"})
	require.NoError(t, err)
	got, _ := s.Get("c1")
	assert.Equal(t, "New", got.Title)

	require.NoError(t, s.Delete(ctx, "c1"))
	assert.Equal(t, 0, s.Len())
}
