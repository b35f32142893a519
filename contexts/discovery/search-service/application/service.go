package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
	domainerrors "hanafiyah/contexts/discovery/search-service/domain/errors"
	"hanafiyah/contexts/discovery/search-service/domain/services"
	"hanafiyah/contexts/discovery/search-service/ports"
)

const (
	defaultCacheTTL     = 5 * time.Minute
	autocompleteLimit   = 5
	defaultWaitAttempts = 30
	defaultWaitInterval = 2 * time.Second
)

type Service struct {
	Engine   ports.Engine
	Indexer  ports.Indexer
	Source   ports.CorpusSource
	Cache    ports.ResultCache
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// Search serves a page per kind in the query's scope. Total counts the
// results on this page, not every match in the index.
func (s Service) Search(ctx context.Context, query entities.Query) (entities.ResultPage, error) {
	query, err := services.NormalizeQuery(query)
	if err != nil {
		return entities.ResultPage{}, err
	}
	key := services.CacheKey(query)
	if s.Cache != nil {
		if page, ok := s.Cache.Get(key); ok {
			return page, nil
		}
	}
	results, err := s.Engine.Search(ctx, query)
	if err != nil {
		s.logEngineFailure("search", err)
		return entities.ResultPage{}, err
	}
	if results == nil {
		results = []entities.Result{}
	}
	page := entities.ResultPage{Results: results, Total: len(results), Page: query.Page, Size: query.Size}
	if s.Cache != nil {
		s.Cache.Set(key, page, s.cacheTTL())
	}
	return page, nil
}

// Suggestions ranks answered questions together with a couple of hits from
// every other kind.
func (s Service) Suggestions(ctx context.Context, text string, limit int) ([]entities.Suggestion, error) {
	if services.TooShort(text, services.MinSuggestionLength) {
		return []entities.Suggestion{}, nil
	}
	if limit <= 0 {
		limit = services.DefaultSuggestLimit
	}
	questions, err := s.Engine.SuggestQuestions(ctx, text, services.QuestionSuggestHits)
	if err != nil {
		s.logEngineFailure("suggestions", err)
		return nil, err
	}
	content, err := s.Engine.SuggestContent(ctx, text, services.ContentSuggestPerKind)
	if err != nil {
		s.logEngineFailure("suggestions", err)
		return nil, err
	}
	return services.MergeSuggestions(limit, questions, content), nil
}

func (s Service) Autocomplete(ctx context.Context, prefix string) ([]entities.Completion, error) {
	if services.TooShort(prefix, services.MinSuggestionLength) {
		return []entities.Completion{}, nil
	}
	completions, err := s.Engine.Autocomplete(ctx, prefix, autocompleteLimit)
	if err != nil {
		s.logEngineFailure("autocomplete", err)
		return nil, err
	}
	if completions == nil {
		completions = []entities.Completion{}
	}
	return completions, nil
}

// SimilarQuestions looks for answered questions close to a question being
// typed. Texts under ten characters are ignored.
func (s Service) SimilarQuestions(ctx context.Context, text string, limit int) ([]entities.SimilarQuestion, error) {
	if services.TooShort(text, services.MinSimilarTextLength) {
		return []entities.SimilarQuestion{}, nil
	}
	if limit <= 0 {
		limit = services.DefaultSimilarLimit
	}
	similar, err := s.Engine.SimilarQuestions(ctx, text, limit)
	if err != nil {
		s.logEngineFailure("similar_questions", err)
		return nil, err
	}
	if similar == nil {
		similar = []entities.SimilarQuestion{}
	}
	return similar, nil
}

// Rebuild (re)creates the indices and bulk loads every document from the
// source. force drops existing indices first.
func (s Service) Rebuild(ctx context.Context, force bool) (entities.RebuildReport, error) {
	logger := ResolveLogger(s.Logger)
	if err := s.Indexer.EnsureIndices(ctx, force); err != nil {
		return entities.RebuildReport{}, fmt.Errorf("ensure indices: %w", err)
	}
	corpus, err := s.Source.LoadCorpus(ctx)
	if err != nil {
		return entities.RebuildReport{}, fmt.Errorf("load corpus: %w", err)
	}
	if err := s.Indexer.BulkIndex(ctx, corpus); err != nil {
		return entities.RebuildReport{}, fmt.Errorf("bulk index: %w", err)
	}
	s.purge()
	report := corpus.Report()
	logger.Info("search indices rebuilt",
		"event", "search_indices_rebuilt",
		"module", "discovery/search-service",
		"layer", "application",
		"force", force,
		"questions", report.Questions,
		"articles", report.Articles,
		"lessons", report.Lessons,
		"events", report.Events,
	)
	return report, nil
}

// WaitForEngine pings until the engine answers, ctx ends or attempts run out.
func (s Service) WaitForEngine(ctx context.Context, attempts int, interval time.Duration) error {
	if attempts <= 0 {
		attempts = defaultWaitAttempts
	}
	if interval <= 0 {
		interval = defaultWaitInterval
	}
	logger := ResolveLogger(s.Logger)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = s.Indexer.Ping(ctx); lastErr == nil {
			return nil
		}
		logger.Warn("search engine unavailable",
			"event", "search_engine_wait",
			"module", "discovery/search-service",
			"layer", "application",
			"attempt", attempt,
			"error", lastErr.Error(),
		)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("%w: %v", domainerrors.ErrEngineUnavailable, lastErr)
}

func (s Service) cacheTTL() time.Duration {
	if s.CacheTTL <= 0 {
		return defaultCacheTTL
	}
	return s.CacheTTL
}

func (s Service) purge() {
	if s.Cache != nil {
		s.Cache.Purge()
	}
}

func (s Service) logEngineFailure(operation string, err error) {
	level := slog.LevelError
	if errors.Is(err, domainerrors.ErrEngineUnavailable) {
		level = slog.LevelWarn
	}
	ResolveLogger(s.Logger).Log(context.Background(), level, "search engine request failed",
		"event", "search_engine_request_failed",
		"module", "discovery/search-service",
		"layer", "application",
		"operation", operation,
		"error", err.Error(),
	)
}
