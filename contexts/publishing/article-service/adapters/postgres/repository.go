package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hanafiyah/contexts/publishing/article-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/article-service/domain/errors"
	"hanafiyah/contexts/publishing/article-service/ports"
	"hanafiyah/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Models lists the gorm rows owned by this module for migrations.
func Models() []any {
	return []any{&articleModel{}}
}

func (r *Repository) ListArticles(ctx context.Context, filter ports.ArticleFilter) ([]entities.Article, int, error) {
	query := r.db.WithContext(ctx).Model(&articleModel{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("created_at DESC, id DESC").Offset(filter.Page.Offset)
	if filter.Page.Limit > 0 {
		query = query.Limit(filter.Page.Limit)
	}
	var rows []articleModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return fromRows(rows), int(total), nil
}

func (r *Repository) ListOtherArticles(ctx context.Context, excludeID int64, limit int) ([]entities.Article, error) {
	var rows []articleModel
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *Repository) GetArticleBySlug(ctx context.Context, slug string) (entities.Article, error) {
	var row articleModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Article{}, domainerrors.ErrArticleNotFound
		}
		return entities.Article{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&articleModel{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateArticleWithOutbox(ctx context.Context, article entities.Article, build ports.EnvelopeBuilder) (entities.Article, error) {
	row := articleModelFromEntity(article)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrSlugConflict
			}
			return err
		}
		envelope, err := build(row.toEntity())
		if err != nil {
			return err
		}
		return outbox.Append(tx, envelope)
	})
	if err != nil {
		return entities.Article{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateArticleWithOutbox(ctx context.Context, article entities.Article, build ports.EnvelopeBuilder) (entities.Article, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&articleModel{}).
			Where("id = ?", article.ID).
			Updates(map[string]any{
				"title":      article.Title,
				"content":    article.Content,
				"updated_at": article.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrArticleNotFound
		}
		envelope, err := build(article)
		if err != nil {
			return err
		}
		return outbox.Append(tx, envelope)
	})
	if err != nil {
		return entities.Article{}, err
	}
	return article, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type articleModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `gorm:"column:title;size:200"`
	Content   string    `gorm:"column:content"`
	Slug      string    `gorm:"column:slug;uniqueIndex:articles_slug_key"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (articleModel) TableName() string {
	return "articles"
}

func articleModelFromEntity(article entities.Article) articleModel {
	return articleModel{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		Slug:      article.Slug,
		CreatedAt: article.CreatedAt.UTC(),
		UpdatedAt: article.UpdatedAt.UTC(),
	}
}

func (m articleModel) toEntity() entities.Article {
	return entities.Article{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func fromRows(rows []articleModel) []entities.Article {
	items := make([]entities.Article, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}
