package ports

import (
	"context"
	"time"

	"hanafiyah/contexts/publishing/event-service/domain/entities"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

type Page struct {
	Offset int
	Limit  int
}

// EventFilter restricts to events dated at or after From when set. Search
// matches title, description and location.
type EventFilter struct {
	From   *time.Time
	Search string
	Page   Page
}

type EnvelopeBuilder func(entities.OfflineEvent) (contractsv1.Envelope, error)

type EventRepository interface {
	// ListEvents orders by event date, earliest first.
	ListEvents(ctx context.Context, filter EventFilter) ([]entities.OfflineEvent, int, error)
	GetEvent(ctx context.Context, eventID int64) (entities.OfflineEvent, error)
	CreateEventWithOutbox(ctx context.Context, event entities.OfflineEvent, build EnvelopeBuilder) (entities.OfflineEvent, error)
	UpdateEventWithOutbox(ctx context.Context, event entities.OfflineEvent, build EnvelopeBuilder) (entities.OfflineEvent, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type CreateEventInput struct {
	Title       string
	Description string
	EventDate   *time.Time
	Location    string
}

// UpdateEventInput leaves nil fields untouched. ClearDate removes the date.
type UpdateEventInput struct {
	Title       *string
	Description *string
	EventDate   *time.Time
	ClearDate   bool
	Location    *string
}
