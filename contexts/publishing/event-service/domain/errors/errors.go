package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrEventNotFound  = errors.New("event not found")
)
