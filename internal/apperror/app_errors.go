package apperror

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrNotInSession    = errors.New("connection is not attached to a session")
	ErrUnknownAction   = errors.New("unknown action")
)
