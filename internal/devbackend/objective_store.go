package devbackend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/study-dashboard/internal/model"
)

type objectiveRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	DueDate     string    `db:"due_date"`
	Status      string    `db:"status"`
	Priority    string    `db:"priority"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const objectiveColumns = "id, title, description, due_date, status, priority, created_at, updated_at"

func (r objectiveRow) toModel() model.Objective {
	return model.Objective{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		DueDate:      r.DueDate,
		Status:       model.ObjectiveStatus(r.Status),
		Priority:     model.ObjectivePriority(r.Priority),
		RelatedTasks: []string{},
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// CreateObjective inserts a new objective with server defaults.
func (s *SQLiteStore) CreateObjective(
	ctx context.Context,
	userID string,
	in model.ObjectiveInput,
) (*model.Objective, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = model.ObjectiveNotStarted
	}
	if in.Priority == "" {
		in.Priority = model.ObjectivePriorityMedium
	}

	seq, err := nextSeq(ctx, s.db, "objectives")
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO objectives (
			id, user_id, title, description, due_date,
			status, priority, seq, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, strings.TrimSpace(in.Title), in.Description, in.DueDate,
		in.Status, in.Priority, seq, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating objective: %w", err)
	}
	return s.GetObjectiveByID(ctx, userID, id)
}

// UpdateObjective applies the non-nil fields of u.
func (s *SQLiteStore) UpdateObjective(
	ctx context.Context,
	userID string,
	u model.ObjectiveUpdate,
) (*model.Objective, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	o, err := s.GetObjectiveByID(ctx, userID, u.ID)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		o.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		o.Description = *u.Description
	}
	if u.DueDate != nil {
		o.DueDate = *u.DueDate
	}
	if u.Status != nil {
		o.Status = *u.Status
	}
	if u.Priority != nil {
		o.Priority = *u.Priority
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE objectives SET
			title = ?, description = ?, due_date = ?,
			status = ?, priority = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		o.Title, o.Description, o.DueDate,
		o.Status, o.Priority, time.Now().UTC(),
		o.ID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating objective %s: %w", o.ID, err)
	}
	if err := affectedOrNotFound(result, "objective", o.ID); err != nil {
		return nil, err
	}
	return s.GetObjectiveByID(ctx, userID, o.ID)
}

// DeleteObjective removes an objective. Tasks pointing at it keep their
// goalId; the reference is weak.
func (s *SQLiteStore) DeleteObjective(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM objectives WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting objective %s: %w", id, err)
	}
	return affectedOrNotFound(result, "objective", id)
}

// GetObjectiveByID retrieves one objective with its derived progress.
func (s *SQLiteStore) GetObjectiveByID(ctx context.Context, userID, id string) (*model.Objective, error) {
	var row objectiveRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+objectiveColumns+" FROM objectives WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("objective %s %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting objective %s: %w", id, err)
	}

	o := row.toModel()
	tasks, err := s.GetTasks(ctx, userID, TaskFilter{GoalID: &o.ID})
	if err != nil {
		return nil, err
	}
	deriveProgress(&o, tasks)
	return &o, nil
}

// GetObjectives lists the user's objectives in creation order.
func (s *SQLiteStore) GetObjectives(ctx context.Context, userID string) ([]model.Objective, error) {
	var rows []objectiveRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+objectiveColumns+" FROM objectives WHERE user_id = ? ORDER BY seq", userID)
	if err != nil {
		return nil, fmt.Errorf("querying objectives: %w", err)
	}

	tasks, err := s.GetTasks(ctx, userID, TaskFilter{})
	if err != nil {
		return nil, err
	}
	byGoal := make(map[string][]model.Task)
	for _, t := range tasks {
		if t.GoalID != "" {
			byGoal[t.GoalID] = append(byGoal[t.GoalID], t)
		}
	}

	objectives := make([]model.Objective, 0, len(rows))
	for _, r := range rows {
		o := r.toModel()
		deriveProgress(&o, byGoal[o.ID])
		objectives = append(objectives, o)
	}
	return objectives, nil
}

// deriveProgress fills the computed fields of o from the tasks attached
// to it, which must be in creation order.
func deriveProgress(o *model.Objective, tasks []model.Task) {
	o.TotalTasks = len(tasks)
	o.CompletedTasks = 0
	o.RelatedTasks = make([]string, 0, len(tasks))
	for _, t := range tasks {
		o.RelatedTasks = append(o.RelatedTasks, t.ID)
		if t.Status == model.TaskCompleted {
			o.CompletedTasks++
		}
	}
	o.Progress = 0
	if o.TotalTasks > 0 {
		o.Progress = int(math.Round(100 * float64(o.CompletedTasks) / float64(o.TotalTasks)))
	}
}
