package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the caller does not own the resource
	ForbiddenError struct {
		Message string
	}

	// TransactionError indicates a multi-document transaction failed to
	// commit. The transaction guarantees no partial effect was persisted,
	// so the whole operation is safe to retry.
	TransactionError struct {
		Message string
	}

	// InvariantViolationError indicates an internal consistency check
	// failed unexpectedly (e.g. a parent-chain walk exceeded the owner's
	// folder count, implying pre-existing corrupted data). Logged with
	// full context and surfaced as a generic failure, never repaired
	// silently.
	InvariantViolationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string           { return e.Message }
func (e *ValidationError) Error() string         { return e.Message }
func (e *UnauthorizedError) Error() string       { return e.Message }
func (e *ForbiddenError) Error() string          { return e.Message }
func (e *TransactionError) Error() string        { return e.Message }
func (e *InvariantViolationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int           { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int         { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int       { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int          { return http.StatusForbidden }
func (e *TransactionError) StatusCode() int        { return http.StatusInternalServerError }
func (e *InvariantViolationError) StatusCode() int { return http.StatusInternalServerError }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTransaction  = errors.New("transaction failed")
	ErrInvariant    = errors.New("invariant violated")
)

// Is implementations so the typed errors match their sentinels
func (e *NotFoundError) Is(target error) bool           { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool         { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool       { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool          { return target == ErrForbidden }
func (e *TransactionError) Is(target error) bool        { return target == ErrTransaction }
func (e *InvariantViolationError) Is(target error) bool { return target == ErrInvariant }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, bookmark)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
