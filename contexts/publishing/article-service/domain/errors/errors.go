package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrArticleNotFound = errors.New("article not found")
	ErrSlugConflict    = errors.New("slug already exists")
	ErrEmptyDocument   = errors.New("markdown document has no content")
)
