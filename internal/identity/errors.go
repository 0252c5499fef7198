package identity

import (
	"errors"
	"net/http"
)

// Domain errors for identity operations.
var (
	ErrNotFound     = errors.New("profile not found")
	ErrDuplicate    = errors.New("profile already exists")
	ErrForbidden    = errors.New("not allowed")
	ErrUnknownRole  = errors.New("unknown role")
	ErrUnauthorized = errors.New("authentication required")
)

// MapHTTPStatus maps identity domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrUnknownRole) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
