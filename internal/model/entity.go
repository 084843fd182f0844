package model

import (
	"fmt"
	"strings"
	"time"
)

// Entity is anything a store can hold: a value addressable by an opaque,
// server-issued string ID.
type Entity interface {
	GetID() string
}

// dueDateLayouts are the accepted encodings for due dates. The backend
// accepts both plain calendar dates and full timestamps.
var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDueDate parses a due date in any accepted layout. An empty string
// returns the zero time and no error.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
}

// isOverdue reports whether dueDate lies strictly before the day of now.
// Unparseable and empty due dates are never overdue.
func isOverdue(dueDate string, now time.Time) bool {
	due, err := ParseDueDate(dueDate)
	if err != nil || due.IsZero() {
		return false
	}
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return due.Before(startOfDay)
}
