package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/ikkim/license-backend/internal/validation"
)

var (
	ErrApplicationNotFound     = errors.New("application not found")
	ErrApplicationNotDraft     = errors.New("only draft applications can be updated")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrReferenceConflict       = errors.New("reference number already in use")
	ErrFileNotFound            = errors.New("file not found")
)

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func newValidationError(field, message string) *ValidationError {
	errs := validation.Errors{}
	errs.Add(field, message)
	return &ValidationError{Errors: errs}
}
