package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, coordinates out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNotOwner is returned when an account tries to modify a store it does not own.
// The request is rejected before anything is written.
// Handlers should map this to HTTP 403.
var ErrNotOwner = errors.New("you must own a store in order to edit it")

// ErrDuplicateSlug is returned by repos when a write collides with the slug
// uniqueness constraint. The store service retries slug resolution on it and
// only surfaces it once the retry budget is spent.
var ErrDuplicateSlug = errors.New("duplicate slug")

// ErrPageOutOfRange is matched by *PageOutOfRangeError.
var ErrPageOutOfRange = errors.New("page out of range")

// ValidationError names the offending field of a rejected input.
// errors.Is(err, ErrValidation) reports true for it.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a *ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

// Is lets errors.Is match the ErrValidation sentinel.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PageOutOfRangeError reports a listing page past the end of the corpus.
// It carries the total page count so the caller can redirect to the last page.
type PageOutOfRangeError struct {
	Requested  int
	TotalPages int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: page %d requested, last page is %d", ErrPageOutOfRange, e.Requested, e.LastPage())
}

// Is lets errors.Is match the ErrPageOutOfRange sentinel.
func (e *PageOutOfRangeError) Is(target error) bool {
	return target == ErrPageOutOfRange
}

// LastPage returns the last valid page number. An empty corpus still has page 1.
func (e *PageOutOfRangeError) LastPage() int {
	if e.TotalPages < 1 {
		return 1
	}
	return e.TotalPages
}
