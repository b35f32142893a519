package application

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"hanafiyah/contexts/publishing/event-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/event-service/domain/errors"
	"hanafiyah/contexts/publishing/event-service/domain/services"
	"hanafiyah/contexts/publishing/event-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

const (
	sourceService = "event-service"
	upcomingLimit = 5
)

type Service struct {
	Events ports.EventRepository
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Logger *slog.Logger
}

// List returns upcoming events only; the cut-off is taken per call.
func (s Service) List(ctx context.Context, search string, page ports.Page) ([]entities.OfflineEvent, int, error) {
	now := s.Clock.Now().UTC()
	return s.Events.ListEvents(ctx, ports.EventFilter{From: &now, Search: strings.TrimSpace(search), Page: page})
}

func (s Service) Upcoming(ctx context.Context) ([]entities.OfflineEvent, error) {
	items, _, err := s.List(ctx, "", ports.Page{Limit: upcomingLimit})
	return items, err
}

// Get hides events that already took place.
func (s Service) Get(ctx context.Context, eventID int64) (entities.OfflineEvent, error) {
	event, err := s.Events.GetEvent(ctx, eventID)
	if err != nil {
		return entities.OfflineEvent{}, err
	}
	if !event.IsUpcoming(s.Clock.Now().UTC()) {
		return entities.OfflineEvent{}, domainerrors.ErrEventNotFound
	}
	return event, nil
}

func (s Service) Create(ctx context.Context, input ports.CreateEventInput) (entities.OfflineEvent, error) {
	now := s.Clock.Now().UTC()
	event := entities.OfflineEvent{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		EventDate:   utc(input.EventDate),
		Location:    strings.TrimSpace(input.Location),
		CreatedAt:   now,
	}
	if err := services.ValidateEvent(event); err != nil {
		return entities.OfflineEvent{}, err
	}
	build, err := s.envelopeBuilder(ctx, contractsv1.EventOfflineEventCreated, now)
	if err != nil {
		return entities.OfflineEvent{}, err
	}
	created, err := s.Events.CreateEventWithOutbox(ctx, event, build)
	if err != nil {
		return entities.OfflineEvent{}, err
	}
	ResolveLogger(s.Logger).Info("offline event created",
		"event", "offline_event_created",
		"module", "publishing/event-service",
		"layer", "application",
		"event_id", created.ID,
	)
	return created, nil
}

// Update edits any event, past ones included.
func (s Service) Update(ctx context.Context, eventID int64, input ports.UpdateEventInput) (entities.OfflineEvent, error) {
	event, err := s.Events.GetEvent(ctx, eventID)
	if err != nil {
		return entities.OfflineEvent{}, err
	}
	if input.Title != nil {
		event.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = strings.TrimSpace(*input.Location)
	}
	switch {
	case input.ClearDate:
		event.EventDate = nil
	case input.EventDate != nil:
		event.EventDate = utc(input.EventDate)
	}
	if err := services.ValidateEvent(event); err != nil {
		return entities.OfflineEvent{}, err
	}
	build, err := s.envelopeBuilder(ctx, contractsv1.EventOfflineEventUpdated, s.Clock.Now().UTC())
	if err != nil {
		return entities.OfflineEvent{}, err
	}
	return s.Events.UpdateEventWithOutbox(ctx, event, build)
}

// AllEventPayloads exports every event, past ones included, for search indexing.
func (s Service) AllEventPayloads(ctx context.Context) ([]contractsv1.OfflineEventPayload, error) {
	events, _, err := s.Events.ListEvents(ctx, ports.EventFilter{})
	if err != nil {
		return nil, err
	}
	items := make([]contractsv1.OfflineEventPayload, 0, len(events))
	for _, event := range events {
		items = append(items, eventPayload(event))
	}
	return items, nil
}

// UpcomingPayloads exports the next events in contract form for the bot.
func (s Service) UpcomingPayloads(ctx context.Context) ([]contractsv1.OfflineEventPayload, error) {
	events, err := s.Upcoming(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]contractsv1.OfflineEventPayload, 0, len(events))
	for _, event := range events {
		items = append(items, eventPayload(event))
	}
	return items, nil
}

func (s Service) envelopeBuilder(ctx context.Context, eventType string, now time.Time) (ports.EnvelopeBuilder, error) {
	eventID, err := s.IDs.NewID(ctx)
	if err != nil {
		return nil, err
	}
	return func(stored entities.OfflineEvent) (contractsv1.Envelope, error) {
		return contractsv1.NewEnvelope(
			eventID,
			eventType,
			sourceService,
			"offline_event_id",
			strconv.FormatInt(stored.ID, 10),
			now,
			eventPayload(stored),
		)
	}, nil
}

func eventPayload(event entities.OfflineEvent) contractsv1.OfflineEventPayload {
	return contractsv1.OfflineEventPayload{
		OfflineEventID: event.ID,
		Title:          event.Title,
		Description:    event.Description,
		EventDate:      event.EventDate,
		Location:       event.Location,
		CreatedAt:      event.CreatedAt,
	}
}

func utc(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	converted := value.UTC()
	return &converted
}
