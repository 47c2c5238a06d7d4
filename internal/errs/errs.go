// Package errs defines the error taxonomy shared by all features.
// Repositories and services wrap these sentinels with %w; the HTTP layer
// maps them to status codes in one place.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrConflict     = errors.New("conflict")
)

// NotFound wraps ErrNotFound with the entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// Unauthorized wraps ErrUnauthorized with the action that was refused.
func Unauthorized(action string) error {
	return fmt.Errorf("%s: %w", action, ErrUnauthorized)
}

// Conflict wraps ErrConflict with what collided.
func Conflict(what string) error {
	return fmt.Errorf("%s: %w", what, ErrConflict)
}

// Status maps an error to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
