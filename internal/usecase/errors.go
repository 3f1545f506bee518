package usecase

import "errors"

// Sentinels the HTTP layer maps to status codes. Wrap them with %w.
var (
	// ErrInvalidInput is a 400: validation failed or a referenced row is missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is a 404 for the addressed equipe.
	ErrNotFound = errors.New("resource not found")
	// ErrDependencyUnavailable is a 503: the data backend refused the call.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
