package model

import "time"

// ObjectiveStatus is the lifecycle state of an objective.
type ObjectiveStatus string

const (
	ObjectiveNotStarted ObjectiveStatus = "NOT_STARTED"
	ObjectiveInProgress ObjectiveStatus = "IN_PROGRESS"
	ObjectiveCompleted  ObjectiveStatus = "COMPLETED"
)

// ObjectivePriority is the (lowercase) priority scale used by objectives.
type ObjectivePriority string

const (
	ObjectivePriorityLow    ObjectivePriority = "low"
	ObjectivePriorityMedium ObjectivePriority = "medium"
	ObjectivePriorityHigh   ObjectivePriority = "high"
)

// Objective is a learning goal grouping a set of tasks.
//
// Progress, CompletedTasks, TotalTasks and RelatedTasks are computed by the
// backend. Clients display them as received and never recompute them.
type Objective struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	DueDate        string            `json:"dueDate,omitempty"`
	Status         ObjectiveStatus   `json:"status"`
	Priority       ObjectivePriority `json:"priority"`
	Progress       int               `json:"progress"`
	CompletedTasks int               `json:"completedTasks"`
	TotalTasks     int               `json:"totalTasks"`
	RelatedTasks   []string          `json:"relatedTasks"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// GetID implements Entity.
func (o Objective) GetID() string { return o.ID }

// IsOverdue reports whether the objective is past due and not completed.
func (o Objective) IsOverdue(now time.Time) bool {
	return o.Status != ObjectiveCompleted && isOverdue(o.DueDate, now)
}

// ObjectiveInput is the payload for creating an objective.
type ObjectiveInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	DueDate     string            `json:"dueDate,omitempty"`
	Status      ObjectiveStatus   `json:"status,omitempty"`
	Priority    ObjectivePriority `json:"priority,omitempty"`
}

// Validate checks the input before it is sent to the backend.
func (in ObjectiveInput) Validate() error {
	if err := requireText("title", in.Title); err != nil {
		return err
	}
	if err := validateDueDate(in.DueDate); err != nil {
		return err
	}
	if in.Status != "" && !validObjectiveStatus(in.Status) {
		return invalidf("status", "unknown objective status %q", in.Status)
	}
	if in.Priority != "" && !validObjectivePriority(in.Priority) {
		return invalidf("priority", "unknown objective priority %q", in.Priority)
	}
	return nil
}

// ObjectiveUpdate is a partial update; nil fields are left unchanged.
type ObjectiveUpdate struct {
	ID          string             `json:"-"`
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	DueDate     *string            `json:"dueDate,omitempty"`
	Status      *ObjectiveStatus   `json:"status,omitempty"`
	Priority    *ObjectivePriority `json:"priority,omitempty"`
}

// Validate checks the update before it is sent to the backend.
func (u ObjectiveUpdate) Validate() error {
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
	if u.Status != nil && !validObjectiveStatus(*u.Status) {
		return invalidf("status", "unknown objective status %q", *u.Status)
	}
	if u.Priority != nil && !validObjectivePriority(*u.Priority) {
		return invalidf("priority", "unknown objective priority %q", *u.Priority)
	}
	return nil
}

func validObjectiveStatus(s ObjectiveStatus) bool {
	switch s {
	case ObjectiveNotStarted, ObjectiveInProgress, ObjectiveCompleted:
		return true
	}
	return false
}

func validObjectivePriority(p ObjectivePriority) bool {
	switch p {
	case ObjectivePriorityLow, ObjectivePriorityMedium, ObjectivePriorityHigh:
		return true
	}
	return false
}
