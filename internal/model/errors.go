package model

import (
	"errors"
	"strings"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrRemoteUnavailable   = errors.New("remote store unavailable")
	ErrSchema              = errors.New("remote record failed schema check")
	ErrDuplicateSubmission = errors.New("expense is already being submitted")
)

// FieldError describes one problem with a user-supplied field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every field problem found in a form or draft.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) add(field, msg string) {
	e.Problems = append(e.Problems, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// Fields lists the offending field names in the order they were found.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p.Field)
	}
	return out
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+" "+p.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
