package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hanafiyah/contexts/publishing/article-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/article-service/domain/errors"
	"hanafiyah/contexts/publishing/article-service/domain/services"
	"hanafiyah/contexts/publishing/article-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

const (
	sourceService   = "article-service"
	maxSlugAttempts = 1000
	detailSimilar   = 3
	similarLimit    = 5
	latestLimit     = 5
)

type Service struct {
	Articles ports.ArticleRepository
	Markdown ports.MarkdownRenderer
	Slugger  ports.Slugger
	Clock    ports.Clock
	IDs      ports.IDGenerator
	Logger   *slog.Logger
}

func (s Service) List(ctx context.Context, filter ports.ArticleFilter) ([]entities.Article, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.Articles.ListArticles(ctx, filter)
}

// Get returns the article with three other articles attached.
func (s Service) Get(ctx context.Context, slug string) (entities.ArticleDetail, error) {
	article, err := s.Articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return entities.ArticleDetail{}, err
	}
	similar, err := s.Articles.ListOtherArticles(ctx, article.ID, detailSimilar)
	if err != nil {
		return entities.ArticleDetail{}, err
	}
	return entities.ArticleDetail{Article: article, Similar: similar}, nil
}

func (s Service) Similar(ctx context.Context, slug string) ([]entities.Article, error) {
	article, err := s.Articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.Articles.ListOtherArticles(ctx, article.ID, similarLimit)
}

func (s Service) Latest(ctx context.Context) ([]entities.Article, error) {
	return s.Articles.ListOtherArticles(ctx, 0, latestLimit)
}

func (s Service) Create(ctx context.Context, input ports.CreateArticleInput) (entities.Article, error) {
	now := s.Clock.Now().UTC()
	article := entities.Article{
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := services.ValidateArticle(article); err != nil {
		return entities.Article{}, err
	}
	slug, err := s.uniqueSlug(ctx, services.BaseSlug(s.Slugger.Make(article.Title)))
	if err != nil {
		return entities.Article{}, err
	}
	article.Slug = slug

	build, err := s.envelopeBuilder(ctx, contractsv1.EventArticleCreated, now)
	if err != nil {
		return entities.Article{}, err
	}
	created, err := s.Articles.CreateArticleWithOutbox(ctx, article, build)
	if err != nil {
		return entities.Article{}, err
	}
	ResolveLogger(s.Logger).Info("article created",
		"event", "article_created",
		"module", "publishing/article-service",
		"layer", "application",
		"article_id", created.ID,
		"slug", created.Slug,
	)
	return created, nil
}

// Update keeps the slug stable so published links survive title edits.
func (s Service) Update(ctx context.Context, slug string, input ports.UpdateArticleInput) (entities.Article, error) {
	article, err := s.Articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return entities.Article{}, err
	}
	if input.Title != nil {
		article.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		article.Content = *input.Content
	}
	return s.save(ctx, article)
}

// ImportMarkdown renders each file and upserts it by the slug of its title.
// Files that render to nothing are skipped.
func (s Service) ImportMarkdown(ctx context.Context, files []ports.MarkdownFile) (ports.ImportResult, error) {
	var result ports.ImportResult
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		doc, err := s.Markdown.Render(file.Source)
		if err != nil {
			return result, err
		}
		if strings.TrimSpace(doc.HTML) == "" {
			result.Skipped = append(result.Skipped, file.Name)
			continue
		}
		title := doc.Title
		if title == "" {
			title = services.TitleFromFilename(file.Name)
		}
		baseSlug := services.BaseSlug(s.Slugger.Make(title))
		existing, err := s.Articles.GetArticleBySlug(ctx, baseSlug)
		switch {
		case err == nil:
			existing.Title = title
			existing.Content = doc.HTML
			if _, err := s.save(ctx, existing); err != nil {
				return result, err
			}
			result.Updated = append(result.Updated, existing.Slug)
		case errors.Is(err, domainerrors.ErrArticleNotFound):
			created, err := s.Create(ctx, ports.CreateArticleInput{Title: title, Content: doc.HTML})
			if err != nil {
				return result, err
			}
			result.Created = append(result.Created, created.Slug)
		default:
			return result, err
		}
	}
	ResolveLogger(s.Logger).Info("markdown import finished",
		"event", "article_markdown_imported",
		"module", "publishing/article-service",
		"layer", "application",
		"created", len(result.Created),
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// AllArticlePayloads exports every article for search indexing.
func (s Service) AllArticlePayloads(ctx context.Context) ([]contractsv1.ArticlePayload, error) {
	articles, _, err := s.Articles.ListArticles(ctx, ports.ArticleFilter{})
	if err != nil {
		return nil, err
	}
	items := make([]contractsv1.ArticlePayload, 0, len(articles))
	for _, article := range articles {
		items = append(items, articlePayload(article))
	}
	return items, nil
}

func (s Service) save(ctx context.Context, article entities.Article) (entities.Article, error) {
	if err := services.ValidateArticle(article); err != nil {
		return entities.Article{}, err
	}
	now := s.Clock.Now().UTC()
	article.UpdatedAt = now
	build, err := s.envelopeBuilder(ctx, contractsv1.EventArticleUpdated, now)
	if err != nil {
		return entities.Article{}, err
	}
	return s.Articles.UpdateArticleWithOutbox(ctx, article, build)
}

func (s Service) envelopeBuilder(ctx context.Context, eventType string, now time.Time) (ports.EnvelopeBuilder, error) {
	eventID, err := s.IDs.NewID(ctx)
	if err != nil {
		return nil, err
	}
	return func(stored entities.Article) (contractsv1.Envelope, error) {
		return contractsv1.NewEnvelope(
			eventID,
			eventType,
			sourceService,
			"article_id",
			stored.Slug,
			now,
			articlePayload(stored),
		)
	}, nil
}

func (s Service) uniqueSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for counter := 1; counter <= maxSlugAttempts; counter++ {
		taken, err := s.Articles.SlugTaken(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = services.CounterSlug(base, counter)
	}
	return "", domainerrors.ErrSlugConflict
}

func articlePayload(article entities.Article) contractsv1.ArticlePayload {
	return contractsv1.ArticlePayload{
		ArticleID: article.ID,
		Title:     article.Title,
		Content:   article.Content,
		Slug:      article.Slug,
		CreatedAt: article.CreatedAt,
		UpdatedAt: article.UpdatedAt,
	}
}
