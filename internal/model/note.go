package model

import "time"

// Note is a free-form study note. The AI summary is generated on demand
// by the backend and is never written by clients.
type Note struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	HasAISummary     bool      `json:"hasAiSummary"`
	AISummary        string    `json:"aiSummary,omitempty"`
	RelatedObjective string    `json:"relatedObjective,omitempty"`
	RelatedTaskID    string    `json:"relatedTaskId,omitempty"`
	RelatedTaskTitle string    `json:"relatedTaskTitle,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// GetID implements Entity.
func (n Note) GetID() string { return n.ID }

// NoteInput is the payload for creating a note.
type NoteInput struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	RelatedObjective string `json:"relatedObjective,omitempty"`
	RelatedTaskID    string `json:"relatedTaskId,omitempty"`
	RelatedTaskTitle string `json:"relatedTaskTitle,omitempty"`
}

// Validate checks the input before it is sent to the backend.
func (in NoteInput) Validate() error {
	return requireText("title", in.Title)
}

// NoteUpdate is a partial update; nil fields are left unchanged.
type NoteUpdate struct {
	ID               string  `json:"-"`
	Title            *string `json:"title,omitempty"`
	Content          *string `json:"content,omitempty"`
	RelatedObjective *string `json:"relatedObjective,omitempty"`
	RelatedTaskID    *string `json:"relatedTaskId,omitempty"`
	RelatedTaskTitle *string `json:"relatedTaskTitle,omitempty"`
}

// Validate checks the update before it is sent to the backend.
func (u NoteUpdate) Validate() error {
	if err := requireText("id", u.ID); err != nil {
		return err
	}
	if u.Title != nil {
		return requireText("title", *u.Title)
	}
	return nil
}

// NoteSummary is the backend's answer to a summary request.
type NoteSummary struct {
	ID           string `json:"id"`
	HasAISummary bool   `json:"hasAiSummary"`
	AISummary    string `json:"aiSummary"`
}
