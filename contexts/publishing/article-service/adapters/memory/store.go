package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hanafiyah/contexts/publishing/article-service/application"
	"hanafiyah/contexts/publishing/article-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/article-service/domain/errors"
	"hanafiyah/contexts/publishing/article-service/ports"
	"hanafiyah/internal/shared/outbox"
)

// Store is an in-memory adapter implementing article ports for local runtime
// and tests.
type Store struct {
	*outbox.MemoryStore

	mu       sync.RWMutex
	articles map[int64]entities.Article
	nextID   int64
	sequence uint64
	logger   *slog.Logger
}

func NewStore(seed []entities.Article, logger *slog.Logger) *Store {
	store := &Store{
		MemoryStore: outbox.NewMemoryStore(),
		articles:    make(map[int64]entities.Article, len(seed)),
		logger:      application.ResolveLogger(logger),
	}
	for _, article := range seed {
		if article.ID == 0 {
			store.nextID++
			article.ID = store.nextID
		}
		if article.ID > store.nextID {
			store.nextID = article.ID
		}
		store.articles[article.ID] = article
	}
	return store
}

func (s *Store) ListArticles(_ context.Context, filter ports.ArticleFilter) ([]entities.Article, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	items := make([]entities.Article, 0)
	for _, article := range s.newestFirst() {
		if search != "" &&
			!strings.Contains(strings.ToLower(article.Title), search) &&
			!strings.Contains(strings.ToLower(article.Content), search) {
			continue
		}
		items = append(items, article)
	}
	total := len(items)
	if filter.Page.Offset >= total {
		return []entities.Article{}, total, nil
	}
	items = items[filter.Page.Offset:]
	if filter.Page.Limit > 0 && len(items) > filter.Page.Limit {
		items = items[:filter.Page.Limit]
	}
	return items, total, nil
}

func (s *Store) ListOtherArticles(_ context.Context, excludeID int64, limit int) ([]entities.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Article, 0, limit)
	for _, article := range s.newestFirst() {
		if article.ID == excludeID {
			continue
		}
		items = append(items, article)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) GetArticleBySlug(_ context.Context, slug string) (entities.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, article := range s.articles {
		if article.Slug == slug {
			return article, nil
		}
	}
	return entities.Article{}, domainerrors.ErrArticleNotFound
}

func (s *Store) SlugTaken(ctx context.Context, slug string) (bool, error) {
	_, err := s.GetArticleBySlug(ctx, slug)
	return err == nil, nil
}

func (s *Store) CreateArticleWithOutbox(_ context.Context, article entities.Article, build ports.EnvelopeBuilder) (entities.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.articles {
		if existing.Slug == article.Slug {
			return entities.Article{}, domainerrors.ErrSlugConflict
		}
	}
	article.ID = s.nextID + 1
	envelope, err := build(article)
	if err != nil {
		return entities.Article{}, err
	}
	if err := s.Append(envelope); err != nil {
		return entities.Article{}, err
	}
	s.nextID++
	s.articles[article.ID] = article
	return article, nil
}

func (s *Store) UpdateArticleWithOutbox(_ context.Context, article entities.Article, build ports.EnvelopeBuilder) (entities.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[article.ID]; !ok {
		return entities.Article{}, domainerrors.ErrArticleNotFound
	}
	envelope, err := build(article)
	if err != nil {
		return entities.Article{}, err
	}
	if err := s.Append(envelope); err != nil {
		return entities.Article{}, err
	}
	s.articles[article.ID] = article
	return article, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("article-evt-%d", value), nil
}

func (s *Store) newestFirst() []entities.Article {
	items := make([]entities.Article, 0, len(s.articles))
	for _, article := range s.articles {
		items = append(items, article)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items
}
