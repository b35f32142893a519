package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

// Relay moves pending outbox rows onto the bus. Each row is published to the
// topic named after its event type.
type Relay struct {
	Store      Store
	Publisher  Publisher
	Now        func() time.Time
	BatchSize  int
	MaxRetries int
	Logger     *slog.Logger
}

func (r Relay) RunOnce(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	pending, err := r.Store.ListPending(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "outbox_list_failed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	sent := 0
	for _, message := range pending {
		var envelope contractsv1.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "outbox_decode_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"outbox_id", message.ID,
				"error", err.Error(),
			)
			if markErr := r.Store.MarkFailed(ctx, message.ID, 1); markErr != nil {
				return markErr
			}
			continue
		}

		if err := r.Publisher.Publish(ctx, envelope.EventType, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "outbox_publish_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"outbox_id", message.ID,
				"event_type", envelope.EventType,
				"retry_count", message.RetryCount,
				"error", err.Error(),
			)
			if markErr := r.Store.MarkFailed(ctx, message.ID, maxRetries); markErr != nil {
				return markErr
			}
			continue
		}
		if err := r.Store.MarkPublished(ctx, message.ID, r.now()); err != nil {
			logger.Error("outbox mark published failed",
				"event", "outbox_mark_published_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"outbox_id", message.ID,
				"error", err.Error(),
			)
			return err
		}
		sent++
	}

	if sent > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "outbox_relay_completed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"sent_count", sent,
		)
	}
	return nil
}

func (r Relay) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}
