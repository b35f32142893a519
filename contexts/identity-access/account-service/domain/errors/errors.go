package errors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user account is disabled")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrTokenRevoked       = errors.New("token is blacklisted")
	ErrRefreshRequired    = errors.New("refresh token is required")
	ErrUnauthorized       = errors.New("authentication credentials were not provided")
	ErrUserNotFound       = errors.New("user not found")
)
