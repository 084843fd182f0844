package model

import "time"

// Achievement is a read-only badge whose unlock state the backend computes.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	Progress    int        `json:"progress"`
	Total       int        `json:"total"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// GetID implements Entity.
func (a Achievement) GetID() string { return a.ID }
