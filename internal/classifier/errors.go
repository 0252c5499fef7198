package classifier

import (
	"errors"
	"net/http"
)

// Classification failure modes. Create flows treat every one of these as a
// hard stop: no complaint row is written when classification fails.
var (
	// ErrMissingCredential indicates the service credential is not
	// configured. Detected before any network call; non-retriable until an
	// operator fixes the deployment.
	ErrMissingCredential = errors.New("classification credential not configured")

	// ErrRateLimited indicates the upstream service throttled the request.
	// Retriable; surfaced to submitters as "try again shortly".
	ErrRateLimited = errors.New("classification service rate limited")

	// ErrQuotaExceeded indicates the account's usage quota is exhausted.
	// Non-retriable; requires operator action.
	ErrQuotaExceeded = errors.New("classification quota exceeded")

	// ErrInvalidResult indicates the upstream service failed or returned a
	// payload violating the contract.
	ErrInvalidResult = errors.New("classification service returned an invalid result")
)

// MapHTTPStatus maps classification failures to HTTP status codes.
// Rate limiting is the only retriable case and gets 503 so clients back off.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrQuotaExceeded), errors.Is(err, ErrInvalidResult):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
