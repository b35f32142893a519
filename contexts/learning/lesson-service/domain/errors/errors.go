package errors

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidMediaType    = errors.New("media_type must be video or audio")
	ErrInvalidProgress     = errors.New("Invalid data")
	ErrNotFound            = errors.New("resource not found")
	ErrProfileNotFound     = errors.New("ustaz profile not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTopicNotFound       = errors.New("topic not found")
	ErrModuleNotFound      = errors.New("module not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrCommentNotFound     = errors.New("Comment not found")
	ErrIntroAlreadyExists  = errors.New("В модуле уже есть вводный урок")
	ErrLessonOrderConflict = errors.New("lesson order already used in module")
	ErrSlugConflict        = errors.New("slug already exists")
)
