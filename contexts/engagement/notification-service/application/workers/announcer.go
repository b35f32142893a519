package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	application "hanafiyah/contexts/engagement/notification-service/application"
	"hanafiyah/contexts/engagement/notification-service/domain/entities"
	"hanafiyah/contexts/engagement/notification-service/domain/services"
	"hanafiyah/contexts/engagement/notification-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

const defaultConsumerGroup = "notification-announcer-cg"

// Announcer turns domain events into user notifications. Each event id is
// processed once; a failed event is released so redelivery retries it.
type Announcer struct {
	Subscriber    ports.EventSubscriber
	Service       application.Service
	Dedup         ports.EventDedupStore
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Logger        *slog.Logger
}

func (a Announcer) Start(ctx context.Context) error {
	group := a.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}
	handlers := map[string]func(context.Context, contractsv1.Envelope) error{
		contractsv1.EventLessonCreated:       a.handleLessonCreated,
		contractsv1.EventOfflineEventCreated: a.handleOfflineEventCreated,
		contractsv1.EventQuestionCreated:     a.handleQuestionCreated,
		contractsv1.EventQuestionAnswered:    a.handleQuestionAnswered,
	}
	for topic, handler := range handlers {
		if err := a.Subscriber.Subscribe(ctx, topic, group, a.once(handler)); err != nil {
			return err
		}
	}
	return nil
}

// Handle processes one envelope synchronously; used by tests and replays.
func (a Announcer) Handle(ctx context.Context, event contractsv1.Envelope) error {
	switch event.EventType {
	case contractsv1.EventLessonCreated:
		return a.once(a.handleLessonCreated)(ctx, event)
	case contractsv1.EventOfflineEventCreated:
		return a.once(a.handleOfflineEventCreated)(ctx, event)
	case contractsv1.EventQuestionCreated:
		return a.once(a.handleQuestionCreated)(ctx, event)
	case contractsv1.EventQuestionAnswered:
		return a.once(a.handleQuestionAnswered)(ctx, event)
	default:
		return nil
	}
}

func (a Announcer) once(handler func(context.Context, contractsv1.Envelope) error) func(context.Context, contractsv1.Envelope) error {
	return func(ctx context.Context, event contractsv1.Envelope) error {
		logger := application.ResolveLogger(a.Logger)
		now := time.Now().UTC()
		if a.Clock != nil {
			now = a.Clock.Now().UTC()
		}
		alreadyProcessed, err := a.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), now.Add(a.dedupTTL()))
		if err != nil {
			logger.Error("announcer dedupe failed",
				"event", "notification_announcer_dedupe_failed",
				"module", "engagement/notification-service",
				"layer", "worker",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if alreadyProcessed {
			logger.Debug("announcer event already processed",
				"event", "notification_announcer_event_replayed",
				"module", "engagement/notification-service",
				"layer", "worker",
				"event_id", event.EventID,
				"event_type", event.EventType,
			)
			return nil
		}
		if err := handler(ctx, event); err != nil {
			logger.Error("announcer event failed",
				"event", "notification_announcer_event_failed",
				"module", "engagement/notification-service",
				"layer", "worker",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			if releaseErr := a.Dedup.ReleaseEvent(ctx, event.EventID); releaseErr != nil {
				logger.Error("dedupe release failed",
					"event", "notification_announcer_release_failed",
					"module", "engagement/notification-service",
					"layer", "worker",
					"event_id", event.EventID,
					"error", releaseErr.Error(),
				)
			}
			return err
		}
		logger.Info("announcer event processed",
			"event", "notification_announcer_event_processed",
			"module", "engagement/notification-service",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}
}

func (a Announcer) handleLessonCreated(ctx context.Context, event contractsv1.Envelope) error {
	var lesson contractsv1.LessonPayload
	if err := event.Decode(&lesson); err != nil {
		return fmt.Errorf("decode lesson payload: %w", err)
	}
	_, err := a.Service.NotifyActive(ctx, ports.CreateInput{
		Title:   "Новый урок доступен",
		Message: fmt.Sprintf("В модуле \"%s\" появился новый урок", lesson.ModuleName),
		Type:    entities.TypeNewLesson,
		Object:  &entities.ObjectRef{ContentType: "lesson", ObjectID: lesson.LessonID},
		URL:     "/lessons/" + lesson.Slug,
	})
	return err
}

func (a Announcer) handleOfflineEventCreated(ctx context.Context, event contractsv1.Envelope) error {
	var offline contractsv1.OfflineEventPayload
	if err := event.Decode(&offline); err != nil {
		return fmt.Errorf("decode offline event payload: %w", err)
	}
	_, err := a.Service.NotifyActive(ctx, ports.CreateInput{
		Title:   "Новая оффлайн встреча",
		Message: fmt.Sprintf("Новая встреча: %s - %s", offline.Title, offline.Location),
		Type:    entities.TypeNewEvent,
		Object:  &entities.ObjectRef{ContentType: "offline_event", ObjectID: offline.OfflineEventID},
		URL:     fmt.Sprintf("/events/%d", offline.OfflineEventID),
	})
	return err
}

func (a Announcer) handleQuestionCreated(ctx context.Context, event contractsv1.Envelope) error {
	var question contractsv1.QuestionPayload
	if err := event.Decode(&question); err != nil {
		return fmt.Errorf("decode question payload: %w", err)
	}
	_, err := a.Service.NotifyStaff(ctx, ports.CreateInput{
		Title:   "Новый вопрос",
		Message: "Поступил новый вопрос: " + services.Excerpt(question.CleanContent, 100),
		Type:    entities.TypeNewQuestion,
		Object:  &entities.ObjectRef{ContentType: "question", ObjectID: question.QuestionID},
		URL:     fmt.Sprintf("/questions/%d", question.QuestionID),
	})
	return err
}

func (a Announcer) handleQuestionAnswered(ctx context.Context, event contractsv1.Envelope) error {
	var question contractsv1.QuestionPayload
	if err := event.Decode(&question); err != nil {
		return fmt.Errorf("decode question payload: %w", err)
	}
	_, err := a.Service.NotifyAnswered(ctx, question)
	return err
}

func (a Announcer) dedupTTL() time.Duration {
	if a.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return a.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
