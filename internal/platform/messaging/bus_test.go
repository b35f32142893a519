package messaging

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	contractsv1 "hanafiyah/contracts/gen/events/v1"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBusDeliversToEverySubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus(4, nil)
	received := make(chan string, 2)
	for _, group := range []string{"notifications", "search"} {
		group := group
		if err := bus.Subscribe(ctx, contractsv1.EventLessonCreated, group, func(_ context.Context, event contractsv1.Envelope) error {
			received <- group + ":" + event.EventID
			return nil
		}); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
	}

	if err := bus.Publish(ctx, contractsv1.EventLessonCreated, contractsv1.Envelope{EventID: "evt-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case value := <-received:
			got[value] = true
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for delivery, got %v", got)
		}
	}
	if !got["notifications:evt-1"] || !got["search:evt-1"] {
		t.Fatalf("unexpected deliveries: %v", got)
	}
}

func TestBusRemovesSubscriberOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := NewBus(1, nil)
	if err := bus.Subscribe(ctx, "topic", "group", func(context.Context, contractsv1.Envelope) error { return nil }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	cancel()

	deadline := time.Now().Add(time.Second)
	for bus.SubscriberCount("topic") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber was not removed after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBusRetriesFailingHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus(4, nil)
	bus.RetryBackoff = time.Millisecond
	var calls atomic.Int32
	done := make(chan struct{})
	if err := bus.Subscribe(ctx, "topic", "group", func(context.Context, contractsv1.Envelope) error {
		if calls.Add(1) < 3 {
			return errors.New("elasticsearch unavailable")
		}
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := bus.Publish(ctx, "topic", contractsv1.Envelope{EventID: "evt-retry"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("handler never succeeded, calls=%d", calls.Load())
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestBusStopsAfterMaxAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus(4, nil)
	bus.MaxAttempts = 2
	bus.RetryBackoff = time.Millisecond
	attempts := make(chan string, 8)
	if err := bus.Subscribe(ctx, "topic", "group", func(_ context.Context, event contractsv1.Envelope) error {
		attempts <- event.EventID
		return errors.New("always failing")
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	for _, id := range []string{"evt-1", "evt-2"} {
		if err := bus.Publish(ctx, "topic", contractsv1.Envelope{EventID: id}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	var got []string
	for len(got) < 4 {
		select {
		case id := <-attempts:
			got = append(got, id)
		case <-time.After(time.Second):
			t.Fatalf("timed out, attempts so far %v", got)
		}
	}
	if got[0] != "evt-1" || got[1] != "evt-1" || got[2] != "evt-2" || got[3] != "evt-2" {
		t.Fatalf("expected two attempts per event in order, got %v", got)
	}
}

func TestBusBlocksInsteadOfDroppingWhenFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus(1, nil)
	release := make(chan struct{})
	received := make(chan string, 3)
	if err := bus.Subscribe(ctx, "topic", "group", func(_ context.Context, event contractsv1.Envelope) error {
		<-release
		received <- event.EventID
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	for _, id := range []string{"evt-1", "evt-2"} {
		if err := bus.Publish(ctx, "topic", contractsv1.Envelope{EventID: id}); err != nil {
			t.Fatalf("publish %s: %v", id, err)
		}
	}
	// The second publish only returns once the handler holds evt-1, so evt-2
	// now fills the buffer.
	shortCtx, shortCancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer shortCancel()
	if err := bus.Publish(shortCtx, "topic", contractsv1.Envelope{EventID: "evt-3"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a full buffer to block publish, got %v", err)
	}

	close(release)
	for _, want := range []string{"evt-1", "evt-2"} {
		select {
		case got := <-received:
			if got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}
