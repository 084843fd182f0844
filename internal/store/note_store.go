package store

import (
	"context"
	"fmt"

	"github.com/nhle/study-dashboard/internal/model"
)

// NoteAPI is the slice of the backend client the note store needs.
type NoteAPI interface {
	ListNotes(ctx context.Context) ([]model.Note, error)
	CreateNote(ctx context.Context, in model.NoteInput) (*model.Note, error)
	UpdateNote(ctx context.Context, u model.NoteUpdate) (*model.Note, error)
	DeleteNote(ctx context.Context, id string) error
	SummarizeNote(ctx context.Context, id string) (*model.NoteSummary, error)
}

// NoteStore caches the user's notes.
type NoteStore struct {
	*Collection[model.Note]
	api NoteAPI
}

// NewNoteStore creates an empty note store.
func NewNoteStore(api NoteAPI) *NoteStore {
	return &NoteStore{Collection: NewCollection[model.Note](), api: api}
}

// Fetch replaces the cached notes with the backend's list.
func (s *NoteStore) Fetch(ctx context.Context) error {
	s.beginFetch()
	items, err := s.api.ListNotes(ctx)
	if err != nil {
		err = fmt.Errorf("fetching notes: %w", err)
	}
	s.endFetch(items, err)
	return err
}

// Create creates a note and appends the server's copy.
func (s *NoteStore) Create(ctx context.Context, in model.NoteInput) (*model.Note, error) {
	s.begin()
	if err := in.Validate(); err != nil {
		s.fail(err)
		return nil, err
	}
	note, err := s.api.CreateNote(ctx, in)
	if err != nil {
		err = fmt.Errorf("creating note: %w", err)
		s.fail(err)
		return nil, err
	}
	s.upsert(*note)
	return note, nil
}

// Update applies a partial update and replaces the cached note.
func (s *NoteStore) Update(ctx context.Context, u model.NoteUpdate) (*model.Note, error) {
	s.begin()
	if err := u.Validate(); err != nil {
		s.fail(err)
		return nil, err
	}
	note, err := s.api.UpdateNote(ctx, u)
	if err != nil {
		err = fmt.Errorf("updating note %s: %w", u.ID, err)
		s.fail(err)
		return nil, err
	}
	s.upsert(*note)
	return note, nil
}

// Delete deletes a note by ID.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.DeleteNote(ctx, id); err != nil {
		err = fmt.Errorf("deleting note %s: %w", id, err)
		s.fail(err)
		return err
	}
	s.remove(id)
	return nil
}

// GenerateAISummary asks the backend for a summary and updates only the
// summary fields of the cached note.
func (s *NoteStore) GenerateAISummary(ctx context.Context, id string) (*model.NoteSummary, error) {
	s.begin()
	summary, err := s.api.SummarizeNote(ctx, id)
	if err != nil {
		err = fmt.Errorf("summarizing note %s: %w", id, err)
		s.fail(err)
		return nil, err
	}
	s.modify(id, func(n *model.Note) {
		n.HasAISummary = summary.HasAISummary
		n.AISummary = summary.AISummary
	})
	return summary, nil
}

// WithSummary returns the cached notes that have an AI summary.
func (s *NoteStore) WithSummary() []model.Note {
	return s.filter(func(n model.Note) bool { return n.HasAISummary })
}

// ForObjective returns the cached notes related to an objective.
func (s *NoteStore) ForObjective(objectiveID string) []model.Note {
	return s.filter(func(n model.Note) bool { return n.RelatedObjective == objectiveID })
}
