package ports

import (
	"context"
	"time"

	"hanafiyah/contexts/publishing/article-service/domain/entities"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

type Page struct {
	Offset int
	Limit  int
}

// ArticleFilter searches title and content.
type ArticleFilter struct {
	Search string
	Page   Page
}

// EnvelopeBuilder turns the stored row into the event written alongside it.
type EnvelopeBuilder func(entities.Article) (contractsv1.Envelope, error)

type ArticleRepository interface {
	ListArticles(ctx context.Context, filter ArticleFilter) ([]entities.Article, int, error)
	// ListOtherArticles returns up to limit articles other than excludeID, newest first.
	ListOtherArticles(ctx context.Context, excludeID int64, limit int) ([]entities.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (entities.Article, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	CreateArticleWithOutbox(ctx context.Context, article entities.Article, build EnvelopeBuilder) (entities.Article, error)
	UpdateArticleWithOutbox(ctx context.Context, article entities.Article, build EnvelopeBuilder) (entities.Article, error)
}

type RenderedMarkdown struct {
	Title string
	HTML  string
}

type MarkdownRenderer interface {
	Render(source []byte) (RenderedMarkdown, error)
}

type Slugger interface {
	Make(value string) string
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type CreateArticleInput struct {
	Title   string
	Content string
}

// UpdateArticleInput leaves nil fields untouched.
type UpdateArticleInput struct {
	Title   *string
	Content *string
}

type MarkdownFile struct {
	Name   string
	Source []byte
}

type ImportResult struct {
	Created []string
	Updated []string
	Skipped []string
}
