// Package apperr holds the error kinds shared by the marketplace services.
// Callers match them with errors.Is; packages wrap them with context.
package apperr

import "errors"

var (
	// ErrValidation marks malformed input rejected before any state change.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStateConflict marks an entity that is no longer in the state the caller expected.
	ErrStateConflict = errors.New("state conflict")
	// ErrAlreadySubmitted marks a second feedback submission for the same offer side.
	ErrAlreadySubmitted = errors.New("already submitted")
	// ErrForbidden marks an actor that is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")
)
