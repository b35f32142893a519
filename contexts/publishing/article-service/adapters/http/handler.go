package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"hanafiyah/contexts/publishing/article-service/application"
	"hanafiyah/contexts/publishing/article-service/domain/entities"
	"hanafiyah/contexts/publishing/article-service/ports"
	httptransport "hanafiyah/contexts/publishing/article-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// ListArticlesHandler godoc
// @Summary List articles, newest first
// @Tags articles
// @Produce json
// @Param search query string false "Title or content contains"
// @Param page query int false "Page number"
// @Success 200 {array} httptransport.ArticleListItemDTO
// @Router /api/articles [get]
func (h Handler) ListArticlesHandler(ctx context.Context, filter ports.ArticleFilter) ([]httptransport.ArticleListItemDTO, int, error) {
	articles, total, err := h.Service.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toListItems(articles), total, nil
}

// GetArticleHandler godoc
// @Summary Article by slug with related articles
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} httptransport.ArticleDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/articles/{slug} [get]
func (h Handler) GetArticleHandler(ctx context.Context, slug string) (httptransport.ArticleDTO, error) {
	detail, err := h.Service.Get(ctx, slug)
	if err != nil {
		return httptransport.ArticleDTO{}, err
	}
	return toArticleDTO(detail.Article, detail.Similar), nil
}

// SimilarArticlesHandler godoc
// @Summary Five other articles
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {array} httptransport.ArticleListItemDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/articles/{slug}/similar [get]
func (h Handler) SimilarArticlesHandler(ctx context.Context, slug string) ([]httptransport.ArticleListItemDTO, error) {
	articles, err := h.Service.Similar(ctx, slug)
	if err != nil {
		return nil, err
	}
	return toListItems(articles), nil
}

// LatestArticlesHandler godoc
// @Summary Five newest articles
// @Tags articles
// @Produce json
// @Success 200 {array} httptransport.ArticleListItemDTO
// @Router /api/articles/latest [get]
func (h Handler) LatestArticlesHandler(ctx context.Context) ([]httptransport.ArticleListItemDTO, error) {
	articles, err := h.Service.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return toListItems(articles), nil
}

// CreateArticleHandler godoc
// @Summary Publish an article
// @Tags articles-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateArticleRequest true "Article"
// @Success 201 {object} httptransport.ArticleDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/articles [post]
func (h Handler) CreateArticleHandler(ctx context.Context, req httptransport.CreateArticleRequest) (httptransport.ArticleDTO, error) {
	article, err := h.Service.Create(ctx, ports.CreateArticleInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return httptransport.ArticleDTO{}, err
	}
	return toArticleDTO(article, nil), nil
}

// UpdateArticleHandler godoc
// @Summary Edit an article
// @Tags articles-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param request body httptransport.UpdateArticleRequest true "Fields to change"
// @Success 200 {object} httptransport.ArticleDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/articles/{slug} [patch]
func (h Handler) UpdateArticleHandler(ctx context.Context, slug string, req httptransport.UpdateArticleRequest) (httptransport.ArticleDTO, error) {
	article, err := h.Service.Update(ctx, slug, ports.UpdateArticleInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return httptransport.ArticleDTO{}, err
	}
	return toArticleDTO(article, nil), nil
}

func toArticleDTO(article entities.Article, similar []entities.Article) httptransport.ArticleDTO {
	return httptransport.ArticleDTO{
		ID:              article.ID,
		Title:           article.Title,
		Content:         article.Content,
		CreatedAt:       formatTime(article.CreatedAt),
		UpdatedAt:       formatTime(article.UpdatedAt),
		Slug:            article.Slug,
		SimilarArticles: toListItems(similar),
	}
}

func toListItems(articles []entities.Article) []httptransport.ArticleListItemDTO {
	items := make([]httptransport.ArticleListItemDTO, 0, len(articles))
	for _, article := range articles {
		items = append(items, httptransport.ArticleListItemDTO{
			ID:        article.ID,
			Title:     article.Title,
			Slug:      article.Slug,
			CreatedAt: formatTime(article.CreatedAt),
		})
	}
	return items
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339)
}
