package domain

import "errors"

// Sentinel errors raised by usecases and repositories. Handlers map these
// onto HTTP problem details; everything else is treated as an internal
// failure.
var (
	// ErrValidation marks malformed input. Surfaced immediately, never retried.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a unique-constraint violation (duplicate email,
	// duplicate enrollment). Never masked as success.
	ErrConflict = errors.New("resource already exists")

	// ErrNotFound marks an unknown id or slug.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized marks missing or invalid credentials. The message must
	// not reveal which half of an email/password pair was wrong.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrForbidden marks an authenticated caller acting without the required
	// role or enrollment.
	ErrForbidden = errors.New("operation not allowed")
)
