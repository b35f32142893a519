package entities

import "time"

type Article struct {
	ID        int64
	Title     string
	Content   string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArticleDetail is an article with the short list of other articles shown
// next to it.
type ArticleDetail struct {
	Article
	Similar []Article
}
