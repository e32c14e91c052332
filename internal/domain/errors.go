package domain

import "errors"

var (
	// ErrUnauthorized covers both bad credentials and ownership violations:
	// a caller touching a project/thread it does not own gets this, never a
	// partial result.
	ErrUnauthorized = errors.New("unauthorized")

	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateUser = errors.New("username or email already exists")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMFARequired        = errors.New("mfa code required")
	ErrInvalidMFACode     = errors.New("invalid mfa code")
)
