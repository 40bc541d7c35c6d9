package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	// Contract violations inside the service layer. Never caused by a client.
	ErrCollectionMissing = errors.New("collection is required")
	ErrNoFilter          = errors.New("filter is required")
	ErrInvalidQuery      = errors.New("invalid query")

	// ErrNoData is returned for an empty payload: a programming error at the
	// store boundary, or an update request that names no updatable field.
	ErrNoData = errors.New("no data")

	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrValidation      = errors.New("validation failed")
	ErrCreateFailed    = errors.New("create not acknowledged")
	ErrMalformedRecord = errors.New("malformed record")
	ErrRateLimited     = errors.New("too many requests")
	ErrUpstream        = errors.New("upstream failure")
)

// ConflictError represents a uniqueness violation with details about the clashing field
type ConflictError struct {
	Message    string // Human-readable error message
	Collection string // Collection the write targeted
	Field      string // Field holding the unique index, when known
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// IsContractViolation reports whether err is a programming-contract error
// raised before any I/O (missing collection, empty filter, bad query).
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrCollectionMissing) ||
		errors.Is(err, ErrNoFilter) ||
		errors.Is(err, ErrInvalidQuery)
}
