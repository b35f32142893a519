package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hanafiyah/contexts/publishing/event-service/application"
	"hanafiyah/contexts/publishing/event-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/event-service/domain/errors"
	"hanafiyah/contexts/publishing/event-service/ports"
	"hanafiyah/internal/shared/outbox"
)

// Store is an in-memory adapter implementing event ports. Now can be pinned
// by tests through SetNow.
type Store struct {
	*outbox.MemoryStore

	mu       sync.RWMutex
	events   map[int64]entities.OfflineEvent
	nextID   int64
	sequence uint64
	now      func() time.Time
	logger   *slog.Logger
}

func NewStore(seed []entities.OfflineEvent, logger *slog.Logger) *Store {
	store := &Store{
		MemoryStore: outbox.NewMemoryStore(),
		events:      make(map[int64]entities.OfflineEvent, len(seed)),
		now:         time.Now,
		logger:      application.ResolveLogger(logger),
	}
	for _, event := range seed {
		if event.ID == 0 {
			store.nextID++
			event.ID = store.nextID
		}
		if event.ID > store.nextID {
			store.nextID = event.ID
		}
		store.events[event.ID] = event
	}
	return store
}

func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) ListEvents(_ context.Context, filter ports.EventFilter) ([]entities.OfflineEvent, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	items := make([]entities.OfflineEvent, 0)
	for _, event := range s.events {
		if filter.From != nil && !event.IsUpcoming(*filter.From) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(event.Title), search) &&
			!strings.Contains(strings.ToLower(event.Description), search) &&
			!strings.Contains(strings.ToLower(event.Location), search) {
			continue
		}
		items = append(items, event)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].EventDate, items[j].EventDate
		switch {
		case a == nil && b == nil:
			return items[i].ID < items[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		default:
			return items[i].ID < items[j].ID
		}
	})
	total := len(items)
	if filter.Page.Offset >= total {
		return []entities.OfflineEvent{}, total, nil
	}
	items = items[filter.Page.Offset:]
	if filter.Page.Limit > 0 && len(items) > filter.Page.Limit {
		items = items[:filter.Page.Limit]
	}
	return items, total, nil
}

func (s *Store) GetEvent(_ context.Context, eventID int64) (entities.OfflineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[eventID]
	if !ok {
		return entities.OfflineEvent{}, domainerrors.ErrEventNotFound
	}
	return event, nil
}

func (s *Store) CreateEventWithOutbox(_ context.Context, event entities.OfflineEvent, build ports.EnvelopeBuilder) (entities.OfflineEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.nextID + 1
	envelope, err := build(event)
	if err != nil {
		return entities.OfflineEvent{}, err
	}
	if err := s.Append(envelope); err != nil {
		return entities.OfflineEvent{}, err
	}
	s.nextID++
	s.events[event.ID] = event
	return event, nil
}

func (s *Store) UpdateEventWithOutbox(_ context.Context, event entities.OfflineEvent, build ports.EnvelopeBuilder) (entities.OfflineEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; !ok {
		return entities.OfflineEvent{}, domainerrors.ErrEventNotFound
	}
	envelope, err := build(event)
	if err != nil {
		return entities.OfflineEvent{}, err
	}
	if err := s.Append(envelope); err != nil {
		return entities.OfflineEvent{}, err
	}
	s.events[event.ID] = event
	return event, nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("event-evt-%d", value), nil
}
