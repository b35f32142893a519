package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	application "hanafiyah/contexts/discovery/search-service/application"
	"hanafiyah/contexts/discovery/search-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

const defaultConsumerGroup = "search-index-sync-cg"

// IndexSync keeps the search indices current with content events. Each
// event id is indexed once; a failed event is released so redelivery retries it.
type IndexSync struct {
	Subscriber    ports.EventSubscriber
	Service       application.Service
	Dedup         ports.EventDedupStore
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Logger        *slog.Logger
}

func (w IndexSync) Start(ctx context.Context) error {
	group := w.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}
	for topic, handler := range w.handlers() {
		if err := w.Subscriber.Subscribe(ctx, topic, group, w.once(handler)); err != nil {
			return err
		}
	}
	return nil
}

// Handle processes one envelope synchronously; used by tests and replays.
func (w IndexSync) Handle(ctx context.Context, event contractsv1.Envelope) error {
	handler, ok := w.handlers()[event.EventType]
	if !ok {
		return nil
	}
	return w.once(handler)(ctx, event)
}

func (w IndexSync) handlers() map[string]func(context.Context, contractsv1.Envelope) error {
	return map[string]func(context.Context, contractsv1.Envelope) error{
		contractsv1.EventLessonCreated:       w.handleLesson,
		contractsv1.EventArticleCreated:      w.handleArticle,
		contractsv1.EventArticleUpdated:      w.handleArticle,
		contractsv1.EventOfflineEventCreated: w.handleOfflineEvent,
		contractsv1.EventOfflineEventUpdated: w.handleOfflineEvent,
		contractsv1.EventQuestionCreated:     w.handleQuestion,
		contractsv1.EventQuestionAnswered:    w.handleQuestion,
	}
}

func (w IndexSync) once(handler func(context.Context, contractsv1.Envelope) error) func(context.Context, contractsv1.Envelope) error {
	return func(ctx context.Context, event contractsv1.Envelope) error {
		logger := application.ResolveLogger(w.Logger)
		now := time.Now().UTC()
		if w.Clock != nil {
			now = w.Clock.Now().UTC()
		}
		alreadyProcessed, err := w.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), now.Add(w.dedupTTL()))
		if err != nil {
			logger.Error("index sync dedupe failed",
				"event", "search_index_sync_dedupe_failed",
				"module", "discovery/search-service",
				"layer", "worker",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if alreadyProcessed {
			return nil
		}
		if err := handler(ctx, event); err != nil {
			logger.Error("index sync failed",
				"event", "search_index_sync_failed",
				"module", "discovery/search-service",
				"layer", "worker",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			if releaseErr := w.Dedup.ReleaseEvent(ctx, event.EventID); releaseErr != nil {
				logger.Error("dedupe release failed",
					"event", "search_index_sync_release_failed",
					"module", "discovery/search-service",
					"layer", "worker",
					"event_id", event.EventID,
					"error", releaseErr.Error(),
				)
			}
			return err
		}
		logger.Debug("document indexed",
			"event", "search_index_sync_processed",
			"module", "discovery/search-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}
}

func (w IndexSync) handleLesson(ctx context.Context, event contractsv1.Envelope) error {
	var payload contractsv1.LessonPayload
	if err := event.Decode(&payload); err != nil {
		return fmt.Errorf("decode lesson payload: %w", err)
	}
	return w.Service.IndexLesson(ctx, payload)
}

func (w IndexSync) handleArticle(ctx context.Context, event contractsv1.Envelope) error {
	var payload contractsv1.ArticlePayload
	if err := event.Decode(&payload); err != nil {
		return fmt.Errorf("decode article payload: %w", err)
	}
	return w.Service.IndexArticle(ctx, payload)
}

func (w IndexSync) handleOfflineEvent(ctx context.Context, event contractsv1.Envelope) error {
	var payload contractsv1.OfflineEventPayload
	if err := event.Decode(&payload); err != nil {
		return fmt.Errorf("decode offline event payload: %w", err)
	}
	return w.Service.IndexEvent(ctx, payload)
}

func (w IndexSync) handleQuestion(ctx context.Context, event contractsv1.Envelope) error {
	var payload contractsv1.QuestionPayload
	if err := event.Decode(&payload); err != nil {
		return fmt.Errorf("decode question payload: %w", err)
	}
	return w.Service.IndexQuestion(ctx, payload)
}

func (w IndexSync) dedupTTL() time.Duration {
	if w.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return w.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
