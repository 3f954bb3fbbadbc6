package backend

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the backend reports no such entity.
var ErrNotFound = errors.New("backend: not found")

// APIError represents a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend api error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("backend api error: status=%d message=%s", e.StatusCode, e.Message)
}
