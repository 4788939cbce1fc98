package domain

import "errors"

var (
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrSessionNotFound       = errors.New("session not found")
	ErrResultNotFound        = errors.New("result not found")
	ErrCompletionUnavailable = errors.New("completion service unavailable")
	ErrSessionConflict       = errors.New("session write conflict")
)
