package devbackend

import (
	"context"
	"errors"

	"github.com/nhle/study-dashboard/internal/model"
)

var (
	// ErrNotFound is wrapped by lookups that match no row owned by the user.
	ErrNotFound = errors.New("not found")

	// ErrConflict is wrapped when a unique value is already taken.
	ErrConflict = errors.New("already exists")
)

// User is an account of the reference backend.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

// TaskFilter narrows task queries. Nil fields match everything.
type TaskFilter struct {
	GoalID *string
	Status *model.TaskStatus
}

// Store defines the persistence interface of the reference backend.
// Every entity method is scoped to the owning user.
type Store interface {
	// === Users ===

	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)

	// === Objectives ===

	CreateObjective(ctx context.Context, userID string, in model.ObjectiveInput) (*model.Objective, error)
	UpdateObjective(ctx context.Context, userID string, u model.ObjectiveUpdate) (*model.Objective, error)
	DeleteObjective(ctx context.Context, userID, id string) error
	GetObjectiveByID(ctx context.Context, userID, id string) (*model.Objective, error)
	GetObjectives(ctx context.Context, userID string) ([]model.Objective, error)

	// === Tasks ===

	CreateTask(ctx context.Context, userID string, in model.TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, userID string, u model.TaskUpdate) (*model.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
	GetTaskByID(ctx context.Context, userID, id string) (*model.Task, error)
	GetTasks(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error)

	// === Notes ===

	CreateNote(ctx context.Context, userID string, in model.NoteInput) (*model.Note, error)
	UpdateNote(ctx context.Context, userID string, u model.NoteUpdate) (*model.Note, error)
	DeleteNote(ctx context.Context, userID, id string) error
	GetNoteByID(ctx context.Context, userID, id string) (*model.Note, error)
	GetNotes(ctx context.Context, userID string) ([]model.Note, error)
	SetNoteSummary(ctx context.Context, userID, id, summary string) (*model.NoteSummary, error)

	// === Chat ===

	CreateChatSession(ctx context.Context, userID, title string) (*model.ChatSession, error)
	RenameChatSession(ctx context.Context, userID, id, title string) (*model.ChatSession, error)
	DeleteChatSession(ctx context.Context, userID, id string) error
	GetChatSessionByID(ctx context.Context, userID, id string) (*model.ChatSession, error)
	GetChatSessions(ctx context.Context, userID string) ([]model.ChatSession, error)
	AppendChatMessages(ctx context.Context, userID, sessionID string, msgs []model.ChatMessage) (*model.SendMessageResult, error)
}
