package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for backend operations. Callers branch with errors.Is.
var (
	// ErrVersionConflict means the backend rejected a save because its
	// base version was stale. The local content is untouched; the operator
	// must reload or re-apply, never silently overwrite.
	ErrVersionConflict = errors.New("version conflict: draft changed on the server")

	// ErrNotFound means a referenced article or version does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the backend rejected the bearer token.
	ErrUnauthorized = errors.New("unauthorized")
)

// BackendError is a non-2xx response that does not map to a sentinel.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}
