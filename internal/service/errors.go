package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the server rejects the session or credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the resource already exists.
	ErrConflict = errors.New("already exists")
)

// APIError is any other non-success response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}
