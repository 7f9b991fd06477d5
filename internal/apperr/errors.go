package apperr

import (
	"errors"
	"net/http"
)

// Sentinel kinds. Callers wrap them: fmt.Errorf("%w: order %s", ErrNotFound, code).
var (
	ErrValidation        = errors.New("validation failed")  // 400
	ErrUnauthorized      = errors.New("unauthorized")       // 401
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrNotFound          = errors.New("not found")          // 404
	ErrInvalidState      = errors.New("invalid state")      // 409
	ErrInsufficientStock = errors.New("insufficient stock") // 409
)

// Status maps an error chain to the HTTP status it should surface as.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsClient reports whether err is one of the known client-side kinds.
func IsClient(err error) bool {
	s := Status(err)
	return s >= 400 && s < 500
}
