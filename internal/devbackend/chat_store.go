package devbackend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/study-dashboard/internal/model"
)

// defaultChatTitle names sessions created without a title.
const defaultChatTitle = "New chat"

type chatSessionRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type chatMessageRow struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	Type      string    `db:"type"`
	Metadata  string    `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}

func (r chatMessageRow) toModel() (model.ChatMessage, error) {
	m := model.ChatMessage{
		ID:        r.ID,
		Role:      model.ChatRole(r.Role),
		Content:   r.Content,
		Timestamp: r.CreatedAt,
		Type:      model.ChatMessageType(r.Type),
	}
	if r.Metadata != "" {
		m.Metadata = &model.ChatMessageMetadata{}
		if err := json.Unmarshal([]byte(r.Metadata), m.Metadata); err != nil {
			return model.ChatMessage{}, fmt.Errorf("unmarshaling metadata of message %s: %w", r.ID, err)
		}
	}
	return m, nil
}

// CreateChatSession starts an empty session.
func (s *SQLiteStore) CreateChatSession(ctx context.Context, userID, title string) (*model.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultChatTitle
	}
	seq, err := nextSeq(ctx, s.db, "chat_sessions")
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, user_id, title, seq, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, title, seq, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat session: %w", err)
	}
	return s.GetChatSessionByID(ctx, userID, id)
}

// RenameChatSession changes a session's title.
func (s *SQLiteStore) RenameChatSession(ctx context.Context, userID, id, title string) (*model.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &model.ValidationError{Field: "title", Message: "must not be empty"}
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE chat_sessions SET title = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		title, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("renaming chat session %s: %w", id, err)
	}
	if err := affectedOrNotFound(result, "chat session", id); err != nil {
		return nil, err
	}
	return s.GetChatSessionByID(ctx, userID, id)
}

// DeleteChatSession removes a session and its messages.
func (s *SQLiteStore) DeleteChatSession(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM chat_sessions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting chat session %s: %w", id, err)
	}
	return affectedOrNotFound(result, "chat session", id)
}

// GetChatSessionByID retrieves a session with all of its messages.
func (s *SQLiteStore) GetChatSessionByID(ctx context.Context, userID, id string) (*model.ChatSession, error) {
	var row chatSessionRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, title, created_at, updated_at FROM chat_sessions WHERE id = ? AND user_id = ?",
		id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("chat session %s %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting chat session %s: %w", id, err)
	}

	messages, err := s.getChatMessages(ctx, "session_id = ?", id)
	if err != nil {
		return nil, err
	}
	msgs := messages[row.ID]
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return &model.ChatSession{
		ID:        row.ID,
		Title:     row.Title,
		Messages:  msgs,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// GetChatSessions lists the user's sessions in creation order, each with
// its messages.
func (s *SQLiteStore) GetChatSessions(ctx context.Context, userID string) ([]model.ChatSession, error) {
	var rows []chatSessionRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, title, created_at, updated_at FROM chat_sessions WHERE user_id = ? ORDER BY seq",
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying chat sessions: %w", err)
	}

	messages, err := s.getChatMessages(ctx,
		"session_id IN (SELECT id FROM chat_sessions WHERE user_id = ?)", userID)
	if err != nil {
		return nil, err
	}

	sessions := make([]model.ChatSession, 0, len(rows))
	for _, r := range rows {
		msgs := messages[r.ID]
		if msgs == nil {
			msgs = []model.ChatMessage{}
		}
		sessions = append(sessions, model.ChatSession{
			ID:        r.ID,
			Title:     r.Title,
			Messages:  msgs,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return sessions, nil
}

// AppendChatMessages stores msgs at the end of a session in one
// transaction and bumps the session's updatedAt.
func (s *SQLiteStore) AppendChatMessages(
	ctx context.Context,
	userID, sessionID string,
	msgs []model.ChatMessage,
) (*model.SendMessageResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		"UPDATE chat_sessions SET updated_at = ? WHERE id = ? AND user_id = ?",
		now, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("touching chat session %s: %w", sessionID, err)
	}
	if err := affectedOrNotFound(result, "chat session", sessionID); err != nil {
		return nil, err
	}

	seq, err := nextSeq(ctx, tx, "chat_messages")
	if err != nil {
		return nil, err
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, type, metadata, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing message insert: %w", err)
	}
	defer stmt.Close()

	stored := make([]model.ChatMessage, 0, len(msgs))
	for i, m := range msgs {
		m.ID = uuid.New().String()
		if m.Type == "" {
			m.Type = model.ChatMessageText
		}
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		}
		var metadata string
		if m.Metadata != nil {
			b, err := json.Marshal(m.Metadata)
			if err != nil {
				return nil, fmt.Errorf("marshaling message metadata: %w", err)
			}
			metadata = string(b)
		}
		_, err = stmt.ExecContext(ctx,
			m.ID, sessionID, m.Role, m.Content, m.Type, metadata, seq+i, m.Timestamp.UTC())
		if err != nil {
			return nil, fmt.Errorf("inserting message into %s: %w", sessionID, err)
		}
		stored = append(stored, m)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing messages: %w", err)
	}
	return &model.SendMessageResult{Messages: stored, UpdatedAt: now}, nil
}

// getChatMessages loads messages matching where, grouped by session and
// in insertion order.
func (s *SQLiteStore) getChatMessages(
	ctx context.Context,
	where string,
	args ...interface{},
) (map[string][]model.ChatMessage, error) {
	var rows []chatMessageRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, session_id, role, content, type, metadata, created_at FROM chat_messages WHERE "+
			where+" ORDER BY seq", args...)
	if err != nil {
		return nil, fmt.Errorf("querying chat messages: %w", err)
	}

	out := make(map[string][]model.ChatMessage)
	for _, r := range rows {
		m, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out[r.SessionID] = append(out[r.SessionID], m)
	}
	return out, nil
}
