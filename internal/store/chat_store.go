package store

import (
	"context"
	"fmt"

	"github.com/nhle/study-dashboard/internal/model"
)

// ChatAPI is the slice of the backend client the chat store needs.
type ChatAPI interface {
	ListChatSessions(ctx context.Context) ([]model.ChatSession, error)
	CreateChatSession(ctx context.Context, in model.ChatSessionInput) (*model.ChatSession, error)
	RenameChatSession(ctx context.Context, in model.ChatSessionInput) (*model.ChatSession, error)
	DeleteChatSession(ctx context.Context, id string) error
	SendChatMessage(ctx context.Context, sessionID string, in model.SendMessageInput) (*model.SendMessageResult, error)
}

// ChatStore caches the user's chat sessions and their messages.
type ChatStore struct {
	*Collection[model.ChatSession]
	api ChatAPI
}

// NewChatStore creates an empty chat store.
func NewChatStore(api ChatAPI) *ChatStore {
	return &ChatStore{Collection: NewCollection[model.ChatSession](), api: api}
}

// Fetch replaces the cached sessions with the backend's list.
func (s *ChatStore) Fetch(ctx context.Context) error {
	s.beginFetch()
	items, err := s.api.ListChatSessions(ctx)
	if err != nil {
		err = fmt.Errorf("fetching chat sessions: %w", err)
	}
	s.endFetch(items, err)
	return err
}

// Create starts a new session and appends it.
func (s *ChatStore) Create(ctx context.Context, in model.ChatSessionInput) (*model.ChatSession, error) {
	s.begin()
	if err := in.Validate(); err != nil {
		s.fail(err)
		return nil, err
	}
	session, err := s.api.CreateChatSession(ctx, in)
	if err != nil {
		err = fmt.Errorf("creating chat session: %w", err)
		s.fail(err)
		return nil, err
	}
	s.upsert(*session)
	return session, nil
}

// Rename changes a session's title and replaces the cached session.
func (s *ChatStore) Rename(ctx context.Context, in model.ChatSessionInput) (*model.ChatSession, error) {
	s.begin()
	if err := in.Validate(); err != nil {
		s.fail(err)
		return nil, err
	}
	session, err := s.api.RenameChatSession(ctx, in)
	if err != nil {
		err = fmt.Errorf("renaming chat session %s: %w", in.ID, err)
		s.fail(err)
		return nil, err
	}
	s.upsert(*session)
	return session, nil
}

// Delete deletes a session by ID.
func (s *ChatStore) Delete(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.DeleteChatSession(ctx, id); err != nil {
		err = fmt.Errorf("deleting chat session %s: %w", id, err)
		s.fail(err)
		return err
	}
	s.remove(id)
	return nil
}

// SendMessage posts content to a session and appends the returned
// messages (the user's, then the assistant's reply) in arrival order.
func (s *ChatStore) SendMessage(ctx context.Context, sessionID, content string) ([]model.ChatMessage, error) {
	s.begin()
	in := model.SendMessageInput{Content: content}
	if err := in.Validate(); err != nil {
		s.fail(err)
		return nil, err
	}
	result, err := s.api.SendChatMessage(ctx, sessionID, in)
	if err != nil {
		err = fmt.Errorf("sending message to session %s: %w", sessionID, err)
		s.fail(err)
		return nil, err
	}
	s.modify(sessionID, func(session *model.ChatSession) {
		messages := make([]model.ChatMessage, 0, len(session.Messages)+len(result.Messages))
		messages = append(messages, session.Messages...)
		messages = append(messages, result.Messages...)
		session.Messages = messages
		if !result.UpdatedAt.IsZero() {
			session.UpdatedAt = result.UpdatedAt
		}
	})
	return result.Messages, nil
}

// LastMessage returns the most recent message of a cached session.
func (s *ChatStore) LastMessage(sessionID string) (model.ChatMessage, bool) {
	session, ok := s.Get(sessionID)
	if !ok || len(session.Messages) == 0 {
		return model.ChatMessage{}, false
	}
	return session.Messages[len(session.Messages)-1], true
}
