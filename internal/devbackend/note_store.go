package devbackend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/study-dashboard/internal/model"
)

type noteRow struct {
	ID               string    `db:"id"`
	Title            string    `db:"title"`
	Content          string    `db:"content"`
	HasAISummary     int       `db:"has_ai_summary"`
	AISummary        string    `db:"ai_summary"`
	RelatedObjective string    `db:"related_objective"`
	RelatedTaskID    string    `db:"related_task_id"`
	RelatedTaskTitle string    `db:"related_task_title"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

const noteColumns = "id, title, content, has_ai_summary, ai_summary, related_objective, " +
	"related_task_id, related_task_title, created_at, updated_at"

func (r noteRow) toModel() model.Note {
	return model.Note{
		ID:               r.ID,
		Title:            r.Title,
		Content:          r.Content,
		HasAISummary:     r.HasAISummary != 0,
		AISummary:        r.AISummary,
		RelatedObjective: r.RelatedObjective,
		RelatedTaskID:    r.RelatedTaskID,
		RelatedTaskTitle: r.RelatedTaskTitle,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// CreateNote inserts a new note without a summary.
func (s *SQLiteStore) CreateNote(ctx context.Context, userID string, in model.NoteInput) (*model.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	seq, err := nextSeq(ctx, s.db, "notes")
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notes (
			id, user_id, title, content,
			related_objective, related_task_id, related_task_title,
			seq, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, strings.TrimSpace(in.Title), in.Content,
		in.RelatedObjective, in.RelatedTaskID, in.RelatedTaskTitle,
		seq, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}
	return s.GetNoteByID(ctx, userID, id)
}

// UpdateNote applies the non-nil fields of u. Editing the content drops
// the existing summary, which no longer describes it.
func (s *SQLiteStore) UpdateNote(ctx context.Context, userID string, u model.NoteUpdate) (*model.Note, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	n, err := s.GetNoteByID(ctx, userID, u.ID)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		n.Title = strings.TrimSpace(*u.Title)
	}
	if u.Content != nil && *u.Content != n.Content {
		n.Content = *u.Content
		n.HasAISummary = false
		n.AISummary = ""
	}
	if u.RelatedObjective != nil {
		n.RelatedObjective = *u.RelatedObjective
	}
	if u.RelatedTaskID != nil {
		n.RelatedTaskID = *u.RelatedTaskID
	}
	if u.RelatedTaskTitle != nil {
		n.RelatedTaskTitle = *u.RelatedTaskTitle
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE notes SET
			title = ?, content = ?, has_ai_summary = ?, ai_summary = ?,
			related_objective = ?, related_task_id = ?, related_task_title = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		n.Title, n.Content, boolToInt(n.HasAISummary), n.AISummary,
		n.RelatedObjective, n.RelatedTaskID, n.RelatedTaskTitle,
		time.Now().UTC(),
		n.ID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating note %s: %w", n.ID, err)
	}
	if err := affectedOrNotFound(result, "note", n.ID); err != nil {
		return nil, err
	}
	return s.GetNoteByID(ctx, userID, n.ID)
}

// DeleteNote removes a note by ID.
func (s *SQLiteStore) DeleteNote(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM notes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	return affectedOrNotFound(result, "note", id)
}

// GetNoteByID retrieves a single note by its ID.
func (s *SQLiteStore) GetNoteByID(ctx context.Context, userID, id string) (*model.Note, error) {
	var row noteRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+noteColumns+" FROM notes WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %s %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting note %s: %w", id, err)
	}
	n := row.toModel()
	return &n, nil
}

// GetNotes lists the user's notes in creation order.
func (s *SQLiteStore) GetNotes(ctx context.Context, userID string) ([]model.Note, error) {
	var rows []noteRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+noteColumns+" FROM notes WHERE user_id = ? ORDER BY seq", userID)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	notes := make([]model.Note, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, r.toModel())
	}
	return notes, nil
}

// SetNoteSummary stores a generated summary.
func (s *SQLiteStore) SetNoteSummary(ctx context.Context, userID, id, summary string) (*model.NoteSummary, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notes SET has_ai_summary = 1, ai_summary = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		summary, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("saving summary of note %s: %w", id, err)
	}
	if err := affectedOrNotFound(result, "note", id); err != nil {
		return nil, err
	}
	return &model.NoteSummary{ID: id, HasAISummary: true, AISummary: summary}, nil
}
