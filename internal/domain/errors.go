package domain

import "errors"

// Error taxonomy shared by every booking operation.
// Operation-level errors wrap exactly one of these.
var (
	// ErrConflict overlapping interval, sold-out bundle, bundle outside validity or invalid transition
	ErrConflict = errors.New("conflict")

	// ErrNotFound reservation, bundle or business absent
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized actor is neither the customer nor the owning business
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation malformed input
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable business closed for the requested date or time
	ErrUnavailable = errors.New("unavailable")
)

// Outcome labels for operation metrics
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Outcome classifies an operation result by the taxonomy error it wraps
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrConflict):
		return OutcomeConflict
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrUnavailable):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
