package backend

import "errors"

var (
	// ErrUnavailable indicates the generation backend is unreachable.
	ErrUnavailable = errors.New("generation backend unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("backend request timed out")

	// ErrUnauthorized indicates the bearer token was missing or rejected.
	ErrUnauthorized = errors.New("backend rejected credentials")

	// ErrBadResponse indicates the backend answered with a body the client
	// could not decode into a stage snapshot.
	ErrBadResponse = errors.New("malformed backend response")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("backend retry attempts exhausted")
)
