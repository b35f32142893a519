package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"hanafiyah/contexts/publishing/event-service/application"
	"hanafiyah/contexts/publishing/event-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/event-service/domain/errors"
	"hanafiyah/contexts/publishing/event-service/ports"
	httptransport "hanafiyah/contexts/publishing/event-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// ListEventsHandler godoc
// @Summary Upcoming offline events ordered by date
// @Tags events
// @Produce json
// @Param search query string false "Title, description or location contains"
// @Param page query int false "Page number"
// @Success 200 {array} httptransport.OfflineEventDTO
// @Router /api/events [get]
func (h Handler) ListEventsHandler(ctx context.Context, search string, page ports.Page) ([]httptransport.OfflineEventDTO, int, error) {
	events, total, err := h.Service.List(ctx, search, page)
	if err != nil {
		return nil, 0, err
	}
	return toEventDTOs(events), total, nil
}

// UpcomingEventsHandler godoc
// @Summary Next five offline events
// @Tags events
// @Produce json
// @Success 200 {array} httptransport.OfflineEventDTO
// @Router /api/events/upcoming [get]
func (h Handler) UpcomingEventsHandler(ctx context.Context) ([]httptransport.OfflineEventDTO, error) {
	events, err := h.Service.Upcoming(ctx)
	if err != nil {
		return nil, err
	}
	return toEventDTOs(events), nil
}

// GetEventHandler godoc
// @Summary Upcoming offline event by id
// @Tags events
// @Produce json
// @Param id path int true "Event id"
// @Success 200 {object} httptransport.OfflineEventDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/events/{id} [get]
func (h Handler) GetEventHandler(ctx context.Context, eventID int64) (httptransport.OfflineEventDTO, error) {
	event, err := h.Service.Get(ctx, eventID)
	if err != nil {
		return httptransport.OfflineEventDTO{}, err
	}
	return toEventDTO(event), nil
}

// CreateEventHandler godoc
// @Summary Announce an offline event
// @Tags events-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.EventRequest true "Event"
// @Success 201 {object} httptransport.OfflineEventDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/events [post]
func (h Handler) CreateEventHandler(ctx context.Context, req httptransport.EventRequest) (httptransport.OfflineEventDTO, error) {
	date, _, err := parseDate(req.EventDate)
	if err != nil {
		return httptransport.OfflineEventDTO{}, err
	}
	event, err := h.Service.Create(ctx, ports.CreateEventInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		EventDate:   date,
		Location:    deref(req.Location),
	})
	if err != nil {
		return httptransport.OfflineEventDTO{}, err
	}
	return toEventDTO(event), nil
}

// UpdateEventHandler godoc
// @Summary Edit an offline event
// @Tags events-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event id"
// @Param request body httptransport.EventRequest true "Fields to change"
// @Success 200 {object} httptransport.OfflineEventDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/events/{id} [patch]
func (h Handler) UpdateEventHandler(ctx context.Context, eventID int64, req httptransport.EventRequest) (httptransport.OfflineEventDTO, error) {
	date, clear, err := parseDate(req.EventDate)
	if err != nil {
		return httptransport.OfflineEventDTO{}, err
	}
	event, err := h.Service.Update(ctx, eventID, ports.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   date,
		ClearDate:   clear,
		Location:    req.Location,
	})
	if err != nil {
		return httptransport.OfflineEventDTO{}, err
	}
	return toEventDTO(event), nil
}

// parseDate reports clear=true for an explicit empty value.
func parseDate(value *string) (*time.Time, bool, error) {
	if value == nil {
		return nil, false, nil
	}
	raw := strings.TrimSpace(*value)
	if raw == "" {
		return nil, true, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false, domainerrors.ErrInvalidRequest
	}
	return &parsed, false, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func toEventDTOs(events []entities.OfflineEvent) []httptransport.OfflineEventDTO {
	items := make([]httptransport.OfflineEventDTO, 0, len(events))
	for _, event := range events {
		items = append(items, toEventDTO(event))
	}
	return items
}

func toEventDTO(event entities.OfflineEvent) httptransport.OfflineEventDTO {
	out := httptransport.OfflineEventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		CreatedAt:   event.CreatedAt.UTC().Format(time.RFC3339),
	}
	if event.EventDate != nil {
		date := event.EventDate.UTC().Format(time.RFC3339)
		out.EventDate = &date
	}
	return out
}
