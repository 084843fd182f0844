package model

import (
	"strings"
	"time"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

// TaskPriority is the (uppercase) priority scale used by tasks.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// Task is a unit of work, optionally attached to an objective.
type Task struct {
	// ID is the server-issued identifier.
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// DueDate is a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
	DueDate string `json:"dueDate,omitempty"`

	Status   TaskStatus   `json:"status"`
	Priority TaskPriority `json:"priority"`

	// GoalID is a weak reference to an Objective. Deleting the objective
	// does not touch its tasks.
	GoalID string `json:"goalId,omitempty"`

	// Tags behaves like a set; see NormalizeTags.
	Tags []string `json:"tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetID implements Entity.
func (t Task) GetID() string { return t.ID }

// IsOverdue reports whether the task is past due and not completed.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskCompleted && isOverdue(t.DueDate, now)
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	DueDate     string       `json:"dueDate,omitempty"`
	Status      TaskStatus   `json:"status,omitempty"`
	Priority    TaskPriority `json:"priority,omitempty"`
	GoalID      string       `json:"goalId,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
}

// Validate checks the input before it is sent to the backend.
func (in TaskInput) Validate() error {
	if err := requireText("title", in.Title); err != nil {
		return err
	}
	if err := validateDueDate(in.DueDate); err != nil {
		return err
	}
	if in.Status != "" && !validTaskStatus(in.Status) {
		return invalidf("status", "unknown task status %q", in.Status)
	}
	if in.Priority != "" && !validTaskPriority(in.Priority) {
		return invalidf("priority", "unknown task priority %q", in.Priority)
	}
	return nil
}

// TaskUpdate is a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	ID          string        `json:"-"`
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	DueDate     *string       `json:"dueDate,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	GoalID      *string       `json:"goalId,omitempty"`
	Tags        *[]string     `json:"tags,omitempty"`
}

// Validate checks the update before it is sent to the backend.
func (u TaskUpdate) Validate() error {
	if err := requireText("id", u.ID); err != nil {
		return err
	}
	if u.Title != nil {
		if err := requireText("title", *u.Title); err != nil {
			return err
		}
	}
	if u.DueDate != nil {
		if err := validateDueDate(*u.DueDate); err != nil {
			return err
		}
	}
	if u.Status != nil && !validTaskStatus(*u.Status) {
		return invalidf("status", "unknown task status %q", *u.Status)
	}
	if u.Priority != nil && !validTaskPriority(*u.Priority) {
		return invalidf("priority", "unknown task priority %q", *u.Priority)
	}
	return nil
}

// NormalizeTags trims tags, drops empties and duplicates, and keeps the
// order of first occurrence.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func validTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

func validTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}
