package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

// Handler consumes one envelope delivered on a topic.
type Handler func(context.Context, contractsv1.Envelope) error

// Bus is the in-process publish/subscribe bus fed by the outbox relay.
// Every subscription owns a buffered channel drained by its own goroutine,
// which stops when the subscription context is cancelled. A full buffer
// blocks Publish instead of dropping the event, and a failing handler is
// retried with a linear backoff.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]subscription
	bufferSize  int
	logger      *slog.Logger

	// MaxAttempts bounds handler calls per event, the first included.
	MaxAttempts  int
	RetryBackoff time.Duration
}

type subscription struct {
	events chan contractsv1.Envelope
	done   <-chan struct{}
}

func NewBus(bufferSize int, logger *slog.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = 128
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers:  make(map[string][]subscription),
		bufferSize:   bufferSize,
		logger:       logger,
		MaxAttempts:  3,
		RetryBackoff: 500 * time.Millisecond,
	}
}

// Publish hands event to every subscriber of topic, waiting for buffer space.
// It fails only when ctx ends first, so the caller can retry the event.
func (b *Bus) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sub.done:
		case sub.events <- event:
		}
	}

	b.logger.Debug("event published",
		"event", "bus_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"subscribers", len(subs),
	)
	return nil
}

func (b *Bus) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, contractsv1.Envelope) error,
) error {
	sub := subscription{
		events: make(chan contractsv1.Envelope, b.bufferSize),
		done:   ctx.Done(),
	}

	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], sub)
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.removeSubscriber(topic, sub.events)
				return
			case event := <-sub.events:
				b.deliver(ctx, topic, consumerGroup, handler, event)
			}
		}
	}()
	return nil
}

func (b *Bus) deliver(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, contractsv1.Envelope) error,
	event contractsv1.Envelope,
) {
	attempts := b.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		err := handler(ctx, event)
		if err == nil {
			return
		}
		if attempt >= attempts {
			b.logger.Error("consumer handler failed",
				"event", "bus_consume_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", consumerGroup,
				"event_id", event.EventID,
				"attempts", attempt,
				"error", err.Error(),
			)
			return
		}
		b.logger.Warn("consumer handler retrying",
			"event", "bus_consume_retry",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"consumer_group", consumerGroup,
			"event_id", event.EventID,
			"attempt", attempt,
			"error", err.Error(),
		)
		timer := time.NewTimer(time.Duration(attempt) * b.RetryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// SubscriberCount reports live subscriptions on topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

func (b *Bus) removeSubscriber(topic string, target chan contractsv1.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.subscribers[topic]
	if len(items) == 0 {
		return
	}
	filtered := make([]subscription, 0, len(items))
	for _, item := range items {
		if item.events != target {
			filtered = append(filtered, item)
		}
	}
	b.subscribers[topic] = filtered
}
