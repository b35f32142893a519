package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"hanafiyah/contexts/engagement/notification-service/application"
	"hanafiyah/contexts/engagement/notification-service/domain/entities"
	domainerrors "hanafiyah/contexts/engagement/notification-service/domain/errors"
	"hanafiyah/contexts/engagement/notification-service/ports"
)

// SentMessage is a Telegram message captured by the in-memory sender.
type SentMessage struct {
	Chat ports.Chat
	Text string
	Rows [][]ports.Button
}

type dedupEntry struct {
	payloadHash string
	expiresAt   time.Time
}

// Store is an in-memory adapter implementing notification ports, including
// a recipient directory and a recording Telegram sender, for local runtime
// and tests.
type Store struct {
	mu             sync.RWMutex
	notifications  map[int64]entities.Notification
	settings       map[int64]entities.Settings
	subscriptions  map[int64]entities.PushSubscription
	recipients     map[int64]entities.Recipient
	dedup          map[string]dedupEntry
	sent           []SentMessage
	sendErr        error
	writeErr       error
	nextID         int64
	subscriptionID int64
	logger         *slog.Logger
}

func NewStore(recipients []entities.Recipient, logger *slog.Logger) *Store {
	store := &Store{
		notifications: make(map[int64]entities.Notification),
		settings:      make(map[int64]entities.Settings),
		subscriptions: make(map[int64]entities.PushSubscription),
		recipients:    make(map[int64]entities.Recipient, len(recipients)),
		dedup:         make(map[string]dedupEntry),
		logger:        application.ResolveLogger(logger),
	}
	for _, recipient := range recipients {
		store.recipients[recipient.UserID] = recipient
	}
	return store
}

func (s *Store) ListNotifications(_ context.Context, userID int64) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Notification, 0)
	for _, notification := range s.notifications {
		if notification.UserID == userID {
			items = append(items, notification)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (s *Store) GetNotification(_ context.Context, userID int64, notificationID int64) (entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notification, ok := s.notifications[notificationID]
	if !ok || notification.UserID != userID {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	return notification, nil
}

func (s *Store) CreateNotification(_ context.Context, notification entities.Notification) (entities.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return entities.Notification{}, s.writeErr
	}
	s.nextID++
	notification.ID = s.nextID
	s.notifications[notification.ID] = notification
	return notification, nil
}

func (s *Store) MarkRead(_ context.Context, userID int64, notificationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.notifications[notificationID]
	if !ok || notification.UserID != userID {
		return domainerrors.ErrNotificationNotFound
	}
	notification.IsRead = true
	s.notifications[notificationID] = notification
	return nil
}

func (s *Store) MarkAllRead(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, notification := range s.notifications {
		if notification.UserID != userID || notification.IsRead {
			continue
		}
		notification.IsRead = true
		s.notifications[id] = notification
		count++
	}
	return count, nil
}

func (s *Store) MarkSentToTelegram(_ context.Context, notificationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.notifications[notificationID]
	if !ok {
		return domainerrors.ErrNotificationNotFound
	}
	notification.SentToTelegram = true
	s.notifications[notificationID] = notification
	return nil
}

func (s *Store) GetOrCreateSettings(_ context.Context, defaults entities.Settings) (entities.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.settings[defaults.UserID]; ok {
		return cloneSettings(existing), nil
	}
	s.settings[defaults.UserID] = cloneSettings(defaults)
	return cloneSettings(defaults), nil
}

func (s *Store) SaveSettings(_ context.Context, settings entities.Settings) (entities.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.UserID] = cloneSettings(settings)
	return cloneSettings(settings), nil
}

func (s *Store) ListSubscriptions(_ context.Context, userID int64) ([]entities.PushSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.PushSubscription, 0)
	for _, subscription := range s.subscriptions {
		if subscription.UserID == userID {
			items = append(items, subscription)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) CreateSubscription(_ context.Context, subscription entities.PushSubscription) (entities.PushSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptionID++
	subscription.ID = s.subscriptionID
	s.subscriptions[subscription.ID] = subscription
	return subscription, nil
}

func (s *Store) DeleteSubscription(_ context.Context, userID int64, subscriptionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subscription, ok := s.subscriptions[subscriptionID]
	if !ok || subscription.UserID != userID {
		return domainerrors.ErrSubscriptionNotFound
	}
	delete(s.subscriptions, subscriptionID)
	return nil
}

func (s *Store) GetRecipient(_ context.Context, userID int64) (entities.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recipient, ok := s.recipients[userID]
	if !ok {
		return entities.Recipient{}, domainerrors.ErrRecipientNotFound
	}
	return recipient, nil
}

func (s *Store) ListActiveRecipients(_ context.Context) ([]entities.Recipient, error) {
	return s.recipientsWhere(func(entities.Recipient) bool { return true }), nil
}

func (s *Store) ListStaffRecipients(_ context.Context) ([]entities.Recipient, error) {
	return s.recipientsWhere(func(recipient entities.Recipient) bool { return recipient.IsStaff }), nil
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := s.dedup[eventID]; ok && existing.expiresAt.After(now) {
		if existing.payloadHash != payloadHash {
			return false, domainerrors.ErrIdempotencyKeyConflict
		}
		return true, nil
	}
	s.dedup[eventID] = dedupEntry{payloadHash: payloadHash, expiresAt: expiresAt}
	return false, nil
}

func (s *Store) ReleaseEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dedup, eventID)
	return nil
}

// Send records the message instead of calling Telegram.
func (s *Store) Send(_ context.Context, chat ports.Chat, text string, rows [][]ports.Button) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, SentMessage{Chat: chat, Text: text, Rows: rows})
	return nil
}

// FailWrites makes every later CreateNotification return err; nil restores it.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// FailSends makes every later Send return err; nil restores delivery.
func (s *Store) FailSends(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = err
}

func (s *Store) Sent() []SentMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SentMessage(nil), s.sent...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) recipientsWhere(match func(entities.Recipient) bool) []entities.Recipient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Recipient, 0, len(s.recipients))
	for _, recipient := range s.recipients {
		if match(recipient) {
			items = append(items, recipient)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UserID < items[j].UserID })
	return items
}

func cloneSettings(settings entities.Settings) entities.Settings {
	types := make(map[string]bool, len(settings.Types))
	for name, enabled := range settings.Types {
		types[name] = enabled
	}
	settings.Types = types
	return settings
}
