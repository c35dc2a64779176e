package service

import (
	"errors"
	"fmt"
)

// ErrNotFound covers missing users and articles, and deliberately also a
// draft article requested through the public read surface: callers cannot
// tell a hidden draft from a record that never existed.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or missing input with field detail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
