package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"hanafiyah/contexts/engagement/notification-service/domain/entities"
	domainerrors "hanafiyah/contexts/engagement/notification-service/domain/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Models lists the gorm rows owned by this module for migrations.
func Models() []any {
	return []any{&notificationModel{}, &settingsModel{}, &pushSubscriptionModel{}, &eventDedupModel{}}
}

func (r *Repository) ListNotifications(ctx context.Context, userID int64) ([]entities.Notification, error) {
	var rows []notificationModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetNotification(ctx context.Context, userID int64, notificationID int64) (entities.Notification, error) {
	var row notificationModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&row).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Notification{}, domainerrors.ErrNotificationNotFound
		}
		return entities.Notification{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateNotification(ctx context.Context, notification entities.Notification) (entities.Notification, error) {
	row := notificationModelFromEntity(notification)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Notification{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) MarkRead(ctx context.Context, userID int64, notificationID int64) error {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotificationNotFound
	}
	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return int(result.RowsAffected), result.Error
}

func (r *Repository) MarkSentToTelegram(ctx context.Context, notificationID int64) error {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ?", notificationID).
		Update("sent_to_telegram", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotificationNotFound
	}
	return nil
}

func (r *Repository) GetOrCreateSettings(ctx context.Context, defaults entities.Settings) (entities.Settings, error) {
	row := settingsModelFromEntity(defaults)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&row).
		Error; err != nil {
		return entities.Settings{}, err
	}
	var stored settingsModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", defaults.UserID).First(&stored).Error; err != nil {
		return entities.Settings{}, err
	}
	return stored.toEntity(), nil
}

func (r *Repository) SaveSettings(ctx context.Context, settings entities.Settings) (entities.Settings, error) {
	row := settingsModelFromEntity(settings)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"push_enabled", "email_enabled", "notification_types"}),
		}).
		Create(&row).
		Error; err != nil {
		return entities.Settings{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSubscriptions(ctx context.Context, userID int64) ([]entities.PushSubscription, error) {
	var rows []pushSubscriptionModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.PushSubscription, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateSubscription(ctx context.Context, subscription entities.PushSubscription) (entities.PushSubscription, error) {
	row := pushSubscriptionModel{
		UserID:           subscription.UserID,
		SubscriptionInfo: subscription.SubscriptionInfo,
		Browser:          subscription.Browser,
		Device:           subscription.Device,
		CreatedAt:        subscription.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.PushSubscription{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) DeleteSubscription(ctx context.Context, userID int64, subscriptionID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", subscriptionID, userID).
		Delete(&pushSubscriptionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSubscriptionNotFound
	}
	return nil
}

func (r *Repository) ReserveEvent(
	ctx context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	row := eventDedupModel{
		EventID:     eventID,
		PayloadHash: payloadHash,
		ExpiresAt:   expiresAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return false, createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return false, nil
	}

	var existing eventDedupModel
	if err := r.db.WithContext(ctx).
		Select("payload_hash").
		Where("event_id = ?", eventID).
		First(&existing).
		Error; err != nil {
		return false, err
	}
	if existing.PayloadHash != payloadHash {
		return false, domainerrors.ErrIdempotencyKeyConflict
	}
	return true, nil
}

func (r *Repository) ReleaseEvent(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&eventDedupModel{}).
		Error
}

type notificationModel struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int64     `gorm:"column:user_id;index"`
	Title          string    `gorm:"column:title;size:255"`
	Message        string    `gorm:"column:message"`
	URL            string    `gorm:"column:url;size:255"`
	Type           string    `gorm:"column:notification_type;size:20"`
	ContentType    *string   `gorm:"column:content_type;size:50"`
	ObjectID       *int64    `gorm:"column:object_id"`
	IsRead         bool      `gorm:"column:is_read"`
	SentToBrowser  bool      `gorm:"column:sent_to_browser"`
	SentToTelegram bool      `gorm:"column:sent_to_telegram"`
	CreatedAt      time.Time `gorm:"column:created_at;index"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(notification entities.Notification) notificationModel {
	row := notificationModel{
		UserID:         notification.UserID,
		Title:          notification.Title,
		Message:        notification.Message,
		URL:            notification.URL,
		Type:           string(notification.Type),
		IsRead:         notification.IsRead,
		SentToBrowser:  notification.SentToBrowser,
		SentToTelegram: notification.SentToTelegram,
		CreatedAt:      notification.CreatedAt.UTC(),
	}
	if notification.Object != nil {
		contentType := notification.Object.ContentType
		objectID := notification.Object.ObjectID
		row.ContentType = &contentType
		row.ObjectID = &objectID
	}
	return row
}

func (m notificationModel) toEntity() entities.Notification {
	notification := entities.Notification{
		ID:             m.ID,
		UserID:         m.UserID,
		Title:          m.Title,
		Message:        m.Message,
		URL:            m.URL,
		Type:           entities.NotificationType(m.Type),
		IsRead:         m.IsRead,
		SentToBrowser:  m.SentToBrowser,
		SentToTelegram: m.SentToTelegram,
		CreatedAt:      m.CreatedAt.UTC(),
	}
	if m.ContentType != nil && m.ObjectID != nil {
		notification.Object = &entities.ObjectRef{ContentType: *m.ContentType, ObjectID: *m.ObjectID}
	}
	return notification
}

type settingsModel struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       int64           `gorm:"column:user_id;uniqueIndex"`
	PushEnabled  bool            `gorm:"column:push_enabled"`
	EmailEnabled bool            `gorm:"column:email_enabled"`
	Types        map[string]bool `gorm:"column:notification_types;type:jsonb;serializer:json"`
}

func (settingsModel) TableName() string {
	return "notification_settings"
}

func settingsModelFromEntity(settings entities.Settings) settingsModel {
	return settingsModel{
		UserID:       settings.UserID,
		PushEnabled:  settings.PushEnabled,
		EmailEnabled: settings.EmailEnabled,
		Types:        settings.Types,
	}
}

func (m settingsModel) toEntity() entities.Settings {
	types := m.Types
	if len(types) == 0 {
		types = entities.DefaultTypes()
	}
	return entities.Settings{
		UserID:       m.UserID,
		PushEnabled:  m.PushEnabled,
		EmailEnabled: m.EmailEnabled,
		Types:        types,
	}
}

type pushSubscriptionModel struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID           int64           `gorm:"column:user_id;index"`
	SubscriptionInfo json.RawMessage `gorm:"column:subscription_info;type:jsonb;serializer:json"`
	Browser          string          `gorm:"column:browser;size:100"`
	Device           string          `gorm:"column:device;size:100"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
}

func (pushSubscriptionModel) TableName() string {
	return "push_subscriptions"
}

func (m pushSubscriptionModel) toEntity() entities.PushSubscription {
	return entities.PushSubscription{
		ID:               m.ID,
		UserID:           m.UserID,
		SubscriptionInfo: m.SubscriptionInfo,
		Browser:          m.Browser,
		Device:           m.Device,
		CreatedAt:        m.CreatedAt.UTC(),
	}
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (eventDedupModel) TableName() string {
	return "notification_event_dedup"
}
