package outbox

import (
	"context"
	"time"

	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

// Message is an outbox row persisted inside the same DB transaction as the
// state change it announces. The relay reads pending rows and publishes them.
type Message struct {
	ID           string
	EventType    string
	PartitionKey string
	Payload      []byte
	Status       string
	RetryCount   int
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

// Store is the worker-side view of an outbox.
type Store interface {
	ListPending(ctx context.Context, limit int) ([]Message, error)
	MarkPublished(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, maxRetries int) error
}

// Publisher delivers an envelope to every subscriber of topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event contractsv1.Envelope) error
}
