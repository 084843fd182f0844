package model

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports input rejected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err (or any error in its chain) is a
// ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidf(field, "must not be empty")
	}
	return nil
}

func validateDueDate(s string) error {
	if _, err := ParseDueDate(s); err != nil {
		return &ValidationError{Field: "dueDate", Message: err.Error()}
	}
	return nil
}
