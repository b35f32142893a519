package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

type recordingPublisher struct {
	topics []string
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ contractsv1.Envelope) error {
	if p.fail {
		return errors.New("bus unavailable")
	}
	p.topics = append(p.topics, topic)
	return nil
}

func appendEvent(t *testing.T, store *MemoryStore, id string, eventType string) {
	t.Helper()
	envelope, err := contractsv1.NewEnvelope(id, eventType, "test", "id", "1", time.Now(), map[string]int{"id": 1})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	if err := store.Append(envelope); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestRelayPublishesPendingToEventTypeTopic(t *testing.T) {
	store := NewMemoryStore()
	appendEvent(t, store, "evt-1", contractsv1.EventLessonCreated)
	appendEvent(t, store, "evt-2", contractsv1.EventQuestionAnswered)
	publisher := &recordingPublisher{}

	relay := Relay{Store: store, Publisher: publisher}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(publisher.topics) != 2 ||
		publisher.topics[0] != contractsv1.EventLessonCreated ||
		publisher.topics[1] != contractsv1.EventQuestionAnswered {
		t.Fatalf("unexpected topics: %v", publisher.topics)
	}
	pending, _ := store.ListPending(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows, got %d", len(pending))
	}
}

func TestRelayMarksFailedAfterMaxRetries(t *testing.T) {
	store := NewMemoryStore()
	appendEvent(t, store, "evt-1", contractsv1.EventArticleCreated)
	relay := Relay{Store: store, Publisher: &recordingPublisher{fail: true}, MaxRetries: 2}

	for i := 0; i < 2; i++ {
		if err := relay.RunOnce(context.Background()); err != nil {
			t.Fatalf("run once: %v", err)
		}
	}
	messages := store.Messages()
	if messages[0].Status != StatusFailed || messages[0].RetryCount != 2 {
		t.Fatalf("expected failed after 2 retries, got status=%s retries=%d", messages[0].Status, messages[0].RetryCount)
	}
}

func TestMemoryStoreAppendIsIdempotentPerEventID(t *testing.T) {
	store := NewMemoryStore()
	appendEvent(t, store, "evt-1", contractsv1.EventArticleCreated)
	appendEvent(t, store, "evt-1", contractsv1.EventArticleCreated)
	if got := len(store.Messages()); got != 1 {
		t.Fatalf("expected 1 message, got %d", got)
	}
}
