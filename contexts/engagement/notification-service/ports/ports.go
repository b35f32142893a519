package ports

import (
	"context"
	"encoding/json"
	"time"

	"hanafiyah/contexts/engagement/notification-service/domain/entities"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

type NotificationRepository interface {
	// ListNotifications returns a user's notifications newest first.
	ListNotifications(ctx context.Context, userID int64) ([]entities.Notification, error)
	GetNotification(ctx context.Context, userID int64, notificationID int64) (entities.Notification, error)
	CreateNotification(ctx context.Context, notification entities.Notification) (entities.Notification, error)
	MarkRead(ctx context.Context, userID int64, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int, error)
	MarkSentToTelegram(ctx context.Context, notificationID int64) error
}

type SettingsRepository interface {
	// GetOrCreateSettings returns stored settings, persisting defaults on first use.
	GetOrCreateSettings(ctx context.Context, defaults entities.Settings) (entities.Settings, error)
	SaveSettings(ctx context.Context, settings entities.Settings) (entities.Settings, error)
}

type SubscriptionRepository interface {
	ListSubscriptions(ctx context.Context, userID int64) ([]entities.PushSubscription, error)
	CreateSubscription(ctx context.Context, subscription entities.PushSubscription) (entities.PushSubscription, error)
	DeleteSubscription(ctx context.Context, userID int64, subscriptionID int64) error
}

// RecipientDirectory resolves accounts owned by the identity context.
type RecipientDirectory interface {
	GetRecipient(ctx context.Context, userID int64) (entities.Recipient, error)
	ListActiveRecipients(ctx context.Context) ([]entities.Recipient, error)
	ListStaffRecipients(ctx context.Context) ([]entities.Recipient, error)
}

// Chat addresses a Telegram recipient by chat id or by @username.
type Chat struct {
	ID       int64
	Username string
}

type Button struct {
	Text string
	URL  string
	Data string
}

type TelegramSender interface {
	Send(ctx context.Context, chat Chat, text string, rows [][]Button) error
}

// EventDedupStore provides idempotent processing guarantees for consumed events.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
	// ReleaseEvent forgets a reservation so a failed event can be redelivered.
	ReleaseEvent(ctx context.Context, eventID string) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, contractsv1.Envelope) error,
	) error
}

type Clock interface {
	Now() time.Time
}

type CreateInput struct {
	UserID  int64
	Title   string
	Message string
	Type    entities.NotificationType
	Object  *entities.ObjectRef
	URL     string
}

type UpdateSettingsInput struct {
	PushEnabled  *bool
	EmailEnabled *bool
	Types        map[string]bool
}

type CreateSubscriptionInput struct {
	SubscriptionInfo json.RawMessage
	Browser          string
	Device           string
}
