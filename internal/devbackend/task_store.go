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

type taskRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	DueDate     string    `db:"due_date"`
	Status      string    `db:"status"`
	Priority    string    `db:"priority"`
	GoalID      string    `db:"goal_id"`
	Tags        string    `db:"tags"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const taskColumns = "id, title, description, due_date, status, priority, goal_id, tags, created_at, updated_at"

func (r taskRow) toModel() (model.Task, error) {
	t := model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Status:      model.TaskStatus(r.Status),
		Priority:    model.TaskPriority(r.Priority),
		GoalID:      r.GoalID,
		Tags:        []string{},
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Tags != "" {
		if err := json.Unmarshal([]byte(r.Tags), &t.Tags); err != nil {
			return model.Task{}, fmt.Errorf("unmarshaling tags of task %s: %w", r.ID, err)
		}
	}
	return t, nil
}

func marshalTags(tags []string) (string, error) {
	tags = model.NormalizeTags(tags)
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshaling tags: %w", err)
	}
	return string(b), nil
}

// CreateTask inserts a new task with server defaults.
func (s *SQLiteStore) CreateTask(ctx context.Context, userID string, in model.TaskInput) (*model.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = model.TaskTodo
	}
	if in.Priority == "" {
		in.Priority = model.TaskPriorityMedium
	}
	tags, err := marshalTags(in.Tags)
	if err != nil {
		return nil, err
	}

	seq, err := nextSeq(ctx, s.db, "tasks")
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, user_id, title, description, due_date,
			status, priority, goal_id, tags,
			seq, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, strings.TrimSpace(in.Title), in.Description, in.DueDate,
		in.Status, in.Priority, in.GoalID, tags,
		seq, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return s.GetTaskByID(ctx, userID, id)
}

// UpdateTask applies the non-nil fields of u.
func (s *SQLiteStore) UpdateTask(ctx context.Context, userID string, u model.TaskUpdate) (*model.Task, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	t, err := s.GetTaskByID(ctx, userID, u.ID)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		t.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.GoalID != nil {
		t.GoalID = *u.GoalID
	}
	if u.Tags != nil {
		t.Tags = *u.Tags
	}
	tags, err := marshalTags(t.Tags)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, due_date = ?,
			status = ?, priority = ?, goal_id = ?, tags = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.Title, t.Description, t.DueDate,
		t.Status, t.Priority, t.GoalID, tags,
		time.Now().UTC(),
		t.ID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", t.ID, err)
	}
	if err := affectedOrNotFound(result, "task", t.ID); err != nil {
		return nil, err
	}
	return s.GetTaskByID(ctx, userID, t.ID)
}

// DeleteTask removes a task by ID.
func (s *SQLiteStore) DeleteTask(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return affectedOrNotFound(result, "task", id)
}

// GetTaskByID retrieves a single task by its ID.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, userID, id string) (*model.Task, error) {
	var row taskRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	t, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTasks retrieves the user's tasks matching filter, in creation order.
func (s *SQLiteStore) GetTasks(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{userID}

	if filter.GoalID != nil {
		conditions = append(conditions, "goal_id = ?")
		args = append(args, *filter.GoalID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}

	query := "SELECT " + taskColumns + " FROM tasks WHERE " +
		strings.Join(conditions, " AND ") + " ORDER BY seq"

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
