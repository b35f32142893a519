package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hanafiyah/contexts/publishing/event-service/domain/entities"
	domainerrors "hanafiyah/contexts/publishing/event-service/domain/errors"
	"hanafiyah/contexts/publishing/event-service/ports"
	"hanafiyah/internal/shared/outbox"

	"gorm.io/gorm"
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
	return []any{&offlineEventModel{}}
}

func (r *Repository) ListEvents(ctx context.Context, filter ports.EventFilter) ([]entities.OfflineEvent, int, error) {
	query := r.db.WithContext(ctx).Model(&offlineEventModel{})
	if filter.From != nil {
		query = query.Where("event_date >= ?", filter.From.UTC())
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR location ILIKE ?", pattern, pattern, pattern)
	}
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("event_date ASC NULLS LAST, id ASC").Offset(filter.Page.Offset)
	if filter.Page.Limit > 0 {
		query = query.Limit(filter.Page.Limit)
	}
	var rows []offlineEventModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	items := make([]entities.OfflineEvent, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, int(total), nil
}

func (r *Repository) GetEvent(ctx context.Context, eventID int64) (entities.OfflineEvent, error) {
	var row offlineEventModel
	if err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.OfflineEvent{}, domainerrors.ErrEventNotFound
		}
		return entities.OfflineEvent{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateEventWithOutbox(ctx context.Context, event entities.OfflineEvent, build ports.EnvelopeBuilder) (entities.OfflineEvent, error) {
	row := offlineEventModelFromEntity(event)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		envelope, err := build(row.toEntity())
		if err != nil {
			return err
		}
		return outbox.Append(tx, envelope)
	})
	if err != nil {
		return entities.OfflineEvent{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateEventWithOutbox(ctx context.Context, event entities.OfflineEvent, build ports.EnvelopeBuilder) (entities.OfflineEvent, error) {
	row := offlineEventModelFromEntity(event)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&offlineEventModel{}).
			Where("id = ?", event.ID).
			Updates(map[string]any{
				"title":       row.Title,
				"description": row.Description,
				"event_date":  row.EventDate,
				"location":    row.Location,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrEventNotFound
		}
		envelope, err := build(event)
		if err != nil {
			return err
		}
		return outbox.Append(tx, envelope)
	})
	if err != nil {
		return entities.OfflineEvent{}, err
	}
	return event, nil
}

type offlineEventModel struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string     `gorm:"column:title;size:200"`
	Description string     `gorm:"column:description"`
	EventDate   *time.Time `gorm:"column:event_date;index"`
	Location    string     `gorm:"column:location;size:255"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (offlineEventModel) TableName() string {
	return "offline_events"
}

func offlineEventModelFromEntity(event entities.OfflineEvent) offlineEventModel {
	return offlineEventModel{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		EventDate:   event.EventDate,
		Location:    event.Location,
		CreatedAt:   event.CreatedAt.UTC(),
	}
}

func (m offlineEventModel) toEntity() entities.OfflineEvent {
	event := entities.OfflineEvent{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		CreatedAt:   m.CreatedAt.UTC(),
	}
	if m.EventDate != nil {
		date := m.EventDate.UTC()
		event.EventDate = &date
	}
	return event
}
