package postgresadapter

import (
	"context"
	"log/slog"
	"time"

	domainerrors "hanafiyah/contexts/discovery/search-service/domain/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DedupStore remembers which content events were already indexed.
type DedupStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewDedupStore(db *gorm.DB, logger *slog.Logger) *DedupStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DedupStore{db: db, logger: logger}
}

func Models() []any {
	return []any{&eventDedupModel{}}
}

func (s *DedupStore) ReserveEvent(
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
	createResult := s.db.WithContext(ctx).
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
	if err := s.db.WithContext(ctx).
		Select("payload_hash", "expires_at").
		Where("event_id = ?", eventID).
		First(&existing).
		Error; err != nil {
		return false, err
	}
	if existing.ExpiresAt.Before(time.Now().UTC()) {
		return false, s.db.WithContext(ctx).
			Model(&eventDedupModel{}).
			Where("event_id = ?", eventID).
			Updates(map[string]any{
				"payload_hash": payloadHash,
				"expires_at":   expiresAt.UTC(),
				"processed_at": time.Now().UTC(),
			}).
			Error
	}
	if existing.PayloadHash != payloadHash {
		return false, domainerrors.ErrIdempotencyKeyConflict
	}
	return true, nil
}

func (s *DedupStore) ReleaseEvent(ctx context.Context, eventID string) error {
	return s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&eventDedupModel{}).
		Error
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (eventDedupModel) TableName() string {
	return "search_event_dedup"
}
