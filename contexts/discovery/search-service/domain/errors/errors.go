package errors

import "errors"

var (
	ErrQueryRequired          = errors.New("Поисковый запрос обязателен")
	ErrInvalidScope           = errors.New("invalid search type")
	ErrEngineUnavailable      = errors.New("Сервис поиска временно недоступен")
	ErrIdempotencyKeyConflict = errors.New("idempotency key reused with a different payload")
)
