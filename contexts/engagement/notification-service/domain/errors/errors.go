package errors

import "errors"

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrNotificationNotFound   = errors.New("notification not found")
	ErrSubscriptionNotFound   = errors.New("push subscription not found")
	ErrRecipientNotFound      = errors.New("recipient not found")
	ErrIdempotencyKeyConflict = errors.New("event id reused with a different payload")
)
