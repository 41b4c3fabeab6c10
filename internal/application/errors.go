package application

import "errors"

// Shared use-case sentinels. The HTTP layer maps these onto status
// codes; services return them wrapped with context.
var (
	// ErrNotFound also covers resources the caller may not know exist
	// (unpublished content is disguised as missing, not forbidden).
	ErrNotFound = errors.New("not found")

	ErrForbidden = errors.New("not authorized")

	ErrInvalidInput = errors.New("invalid input")
)
