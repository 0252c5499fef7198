package complaints

import (
	"errors"
	"net/http"

	"github.com/campusdesk/campusdesk/internal/classifier"
)

// Domain errors for complaint operations.
var (
	ErrNotFound       = errors.New("complaint not found")
	ErrDuplicate      = errors.New("complaint already exists")
	ErrForbidden      = errors.New("not allowed")
	ErrNotPending     = errors.New("complaint is no longer pending")
	ErrUnknownVariant = errors.New("unknown value")
)

// MapHTTPStatus maps complaint domain errors to HTTP status codes.
// Classification failures pass through to the classifier mapping so rate
// limits and upstream faults keep their distinct codes.
func MapHTTPStatus(err error) int {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return http.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownVariant):
		return http.StatusBadRequest
	case errors.Is(err, classifier.ErrRateLimited),
		errors.Is(err, classifier.ErrQuotaExceeded),
		errors.Is(err, classifier.ErrInvalidResult),
		errors.Is(err, classifier.ErrMissingCredential):
		return classifier.MapHTTPStatus(err)
	}

	return http.StatusInternalServerError
}
