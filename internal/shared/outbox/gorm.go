package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	contractsv1 "hanafiyah/contracts/gen/events/v1"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("outbox message not found")

// Model is the gorm row shared by every context's repository.
type Model struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type;index"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	RetryCount   int        `gorm:"column:retry_count"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (Model) TableName() string {
	return "outbox_messages"
}

func (m Model) toMessage() Message {
	return Message{
		ID:           m.ID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		Status:       m.Status,
		RetryCount:   m.RetryCount,
		CreatedAt:    m.CreatedAt.UTC(),
		PublishedAt:  m.PublishedAt,
	}
}

// Append writes envelope as a pending row using tx, which must be the
// transaction that persists the related state change.
func Append(tx *gorm.DB, envelope contractsv1.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := Model{
		ID:           envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	return tx.Create(&row).Error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListPending(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []Model
	if err := s.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (s *GormStore) MarkPublished(ctx context.Context, id string, at time.Time) error {
	publishedAt := at.UTC()
	result := s.db.WithContext(ctx).
		Model(&Model{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       StatusPublished,
			"published_at": &publishedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (s *GormStore) MarkFailed(ctx context.Context, id string, maxRetries int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Model
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}
		status := StatusPending
		if row.RetryCount+1 >= maxRetries {
			status = StatusFailed
		}
		return tx.Model(&Model{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"retry_count": row.RetryCount + 1,
				"status":      status,
			}).
			Error
	})
}
