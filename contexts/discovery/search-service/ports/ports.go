package ports

import (
	"context"
	"time"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

// Engine answers read queries. Implementations wrap connection failures in
// domain errors.ErrEngineUnavailable.
type Engine interface {
	// Search returns the query's page window from every kind in its scope,
	// grouped by kind in scope order.
	Search(ctx context.Context, query entities.Query) ([]entities.Result, error)
	// SuggestQuestions only looks at answered questions.
	SuggestQuestions(ctx context.Context, text string, limit int) ([]entities.Suggestion, error)
	// SuggestContent returns up to perKind hits from articles, lessons and events.
	SuggestContent(ctx context.Context, text string, perKind int) ([]entities.Suggestion, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]entities.Completion, error)
	SimilarQuestions(ctx context.Context, text string, limit int) ([]entities.SimilarQuestion, error)
}

// Indexer maintains the indices behind Engine.
type Indexer interface {
	Ping(ctx context.Context) error
	// EnsureIndices creates missing indices; drop deletes them first.
	EnsureIndices(ctx context.Context, drop bool) error
	BulkIndex(ctx context.Context, corpus entities.Corpus) error
	IndexQuestion(ctx context.Context, doc entities.QuestionDocument) error
	IndexArticle(ctx context.Context, doc entities.ArticleDocument) error
	IndexLesson(ctx context.Context, doc entities.LessonDocument) error
	IndexEvent(ctx context.Context, doc entities.EventDocument) error
}

// CorpusSource reads the current state of every indexed kind.
type CorpusSource interface {
	LoadCorpus(ctx context.Context) (entities.Corpus, error)
}

// ResultCache keeps search pages for a bounded time.
type ResultCache interface {
	Get(key string) (entities.ResultPage, bool)
	Set(key string, page entities.ResultPage, ttl time.Duration)
	Purge()
}

type Clock interface {
	Now() time.Time
}

// EventDedupStore provides idempotent processing guarantees for consumed events.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
	// ReleaseEvent forgets a reservation so a failed event can be redelivered.
	ReleaseEvent(ctx context.Context, eventID string) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, contractsv1.Envelope) error,
	) error
}
