package errors

import "errors"

var (
	ErrAccountNotFound  = errors.New("account not linked")
	ErrQuestionNotFound = errors.New("question not found")
)
