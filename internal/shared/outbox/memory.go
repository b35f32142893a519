package outbox

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

// MemoryStore keeps outbox rows in process for tests and local runs.
type MemoryStore struct {
	mu       sync.RWMutex
	messages map[string]Message
	order    []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: make(map[string]Message)}
}

func (s *MemoryStore) Append(envelope contractsv1.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.messages[envelope.EventID]; exists {
		return nil
	}
	s.messages[envelope.EventID] = Message{
		ID:           envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	s.order = append(s.order, envelope.EventID)
	return nil
}

func (s *MemoryStore) ListPending(_ context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Message, 0, limit)
	for _, id := range s.order {
		message := s.messages[id]
		if message.Status != StatusPending {
			continue
		}
		items = append(items, message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *MemoryStore) MarkPublished(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	message, ok := s.messages[id]
	if !ok {
		return ErrMessageNotFound
	}
	publishedAt := at.UTC()
	message.Status = StatusPublished
	message.PublishedAt = &publishedAt
	s.messages[id] = message
	return nil
}

func (s *MemoryStore) MarkFailed(_ context.Context, id string, maxRetries int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	message, ok := s.messages[id]
	if !ok {
		return ErrMessageNotFound
	}
	message.RetryCount++
	if message.RetryCount >= maxRetries {
		message.Status = StatusFailed
	}
	s.messages[id] = message
	return nil
}

// Messages returns every row in append order.
func (s *MemoryStore) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Message, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.messages[id])
	}
	return items
}

// Envelopes decodes every row, for assertions in tests.
func (s *MemoryStore) Envelopes() []contractsv1.Envelope {
	messages := s.Messages()
	items := make([]contractsv1.Envelope, 0, len(messages))
	for _, message := range messages {
		var envelope contractsv1.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err == nil {
			items = append(items, envelope)
		}
	}
	return items
}
