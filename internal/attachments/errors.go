package attachments

import (
	"errors"
	"net/http"
)

// Domain errors for attachment operations.
var (
	ErrNotFound   = errors.New("attachment not found")
	ErrDuplicate  = errors.New("attachment already exists")
	ErrForbidden  = errors.New("not allowed")
	ErrNotPending = errors.New("complaint is no longer pending")
	ErrTooLarge   = errors.New("file exceeds the upload size limit")
	ErrEmptyFile  = errors.New("file is empty")
)

// MapHTTPStatus maps attachment domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrEmptyFile):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
