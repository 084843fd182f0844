package model

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessageType tells renderers how to interpret a message's metadata.
type ChatMessageType string

const (
	ChatMessageText     ChatMessageType = "text"
	ChatMessageNote     ChatMessageType = "note"
	ChatMessageNoteList ChatMessageType = "note-list"
)

// ChatMessageMetadata carries cross-references from a message to notes.
type ChatMessageMetadata struct {
	NoteID    string   `json:"noteId,omitempty"`
	NoteTitle string   `json:"noteTitle,omitempty"`
	NoteIDs   []string `json:"noteIds,omitempty"`
}

// ChatMessage is a single entry in a chat session. Messages are append-only.
type ChatMessage struct {
	ID        string               `json:"id,omitempty"`
	Role      ChatRole             `json:"role"`
	Content   string               `json:"content"`
	Timestamp time.Time            `json:"timestamp"`
	Type      ChatMessageType      `json:"type,omitempty"`
	Metadata  *ChatMessageMetadata `json:"metadata,omitempty"`
}

// ChatSession is a conversation with the AI assistant.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// GetID implements Entity.
func (s ChatSession) GetID() string { return s.ID }

// ChatSessionInput is the payload for creating or renaming a session.
type ChatSessionInput struct {
	ID    string `json:"-"`
	Title string `json:"title"`
}

// Validate checks the input before it is sent to the backend. A blank
// title is allowed on create; the backend assigns a default.
func (in ChatSessionInput) Validate() error {
	if len(in.Title) > 200 {
		return invalidf("title", "must be at most 200 characters")
	}
	return nil
}

// SendMessageInput is the payload for posting a user message.
type SendMessageInput struct {
	Content string `json:"content"`
}

// Validate checks the input before it is sent to the backend.
func (in SendMessageInput) Validate() error {
	return requireText("content", in.Content)
}

// SendMessageResult holds the messages produced by one send: the stored
// user message first, then any assistant reply.
type SendMessageResult struct {
	Messages  []ChatMessage `json:"messages"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
