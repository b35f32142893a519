package errors

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrQuestionNotFound = errors.New("Вопрос не найден.")
	ErrEmptyAnswer      = errors.New("answer content is required")
)
