package application_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	eventservice "hanafiyah/contexts/publishing/event-service"
	"hanafiyah/contexts/publishing/event-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/event-service/domain/errors"
	"hanafiyah/contexts/publishing/event-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	value := now.Add(offset)
	return &value
}

func newModule() eventservice.Module {
	module := eventservice.NewInMemoryModule([]entities.OfflineEvent{
		{ID: 1, Title: "Прошедшая встреча", Location: "Казань", EventDate: at(-24 * time.Hour)},
		{ID: 2, Title: "Урок по фикху", Location: "Мечеть Марджани", EventDate: at(48 * time.Hour)},
		{ID: 3, Title: "Без даты", Location: "Онлайн"},
		{ID: 4, Title: "Лекция", Location: "Казань", Description: "О намазе", EventDate: at(24 * time.Hour)},
	}, slog.Default())
	module.Store.SetNow(func() time.Time { return now })
	return module
}

func TestListShowsOnlyUpcomingOrderedByDate(t *testing.T) {
	module := newModule()
	events, total, err := module.Service.List(context.Background(), "", ports.Page{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || events[0].ID != 4 || events[1].ID != 2 {
		t.Fatalf("unexpected events %+v total=%d", events, total)
	}
	events, _, _ = module.Service.List(context.Background(), "казань", ports.Page{Limit: 10})
	if len(events) != 1 || events[0].ID != 4 {
		t.Fatalf("expected location search to hit upcoming only, got %+v", events)
	}
}

func TestGetHidesPastEvents(t *testing.T) {
	module := newModule()
	if _, err := module.Service.Get(context.Background(), 1); !errors.Is(err, domainerrors.ErrEventNotFound) {
		t.Fatalf("expected past event hidden, got %v", err)
	}
	if _, err := module.Service.Get(context.Background(), 3); !errors.Is(err, domainerrors.ErrEventNotFound) {
		t.Fatalf("expected undated event hidden, got %v", err)
	}
	event, err := module.Service.Get(context.Background(), 2)
	if err != nil || event.Title != "Урок по фикху" {
		t.Fatalf("unexpected event %+v err=%v", event, err)
	}
}

func TestCreateAndUpdateEmitEvents(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	created, err := module.Service.Create(ctx, ports.CreateEventInput{
		Title: "Встреча", Location: "Уфа", EventDate: at(72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	location := "Уфа, мечеть Ляля-Тюльпан"
	if _, err := module.Service.Update(ctx, created.ID, ports.UpdateEventInput{Location: &location}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := module.Service.Create(ctx, ports.CreateEventInput{Title: "Без места"}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}

	envelopes := module.Store.Envelopes()
	if len(envelopes) != 2 ||
		envelopes[0].EventType != contractsv1.EventOfflineEventCreated ||
		envelopes[1].EventType != contractsv1.EventOfflineEventUpdated {
		t.Fatalf("unexpected envelopes %+v", envelopes)
	}
	var payload contractsv1.OfflineEventPayload
	if err := envelopes[1].Decode(&payload); err != nil || payload.Location != location {
		t.Fatalf("unexpected payload %+v err=%v", payload, err)
	}

	upcoming, err := module.Service.Upcoming(ctx)
	if err != nil || len(upcoming) != 3 {
		t.Fatalf("expected three upcoming, got %d err=%v", len(upcoming), err)
	}
	all, err := module.Service.AllEventPayloads(ctx)
	if err != nil || len(all) != 5 {
		t.Fatalf("expected every event exported, got %d err=%v", len(all), err)
	}
}
