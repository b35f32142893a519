package services

import (
	"errors"
	"testing"
	"time"

	"hanafiyah/contexts/publishing/event-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/event-service/domain/errors"
)

func TestValidateEvent(t *testing.T) {
	if err := ValidateEvent(entities.OfflineEvent{Title: "Встреча", Location: "Мечеть"}); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}
	if err := ValidateEvent(entities.OfflineEvent{Title: "Встреча"}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected missing location rejected, got %v", err)
	}
}

func TestIsUpcoming(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	if (entities.OfflineEvent{EventDate: &now}).IsUpcoming(now) != true {
		t.Fatal("expected event starting now to be upcoming")
	}
	if (entities.OfflineEvent{EventDate: &past}).IsUpcoming(now) {
		t.Fatal("expected past event not upcoming")
	}
	if (entities.OfflineEvent{}).IsUpcoming(now) {
		t.Fatal("expected undated event not upcoming")
	}
}
