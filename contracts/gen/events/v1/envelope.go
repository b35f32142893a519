package v1

import (
	"encoding/json"
	"errors"
	"time"
)

// Envelope is the canonical, versioned event envelope shared by contexts.
// This package is contract-only and must stay backward compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// NewEnvelope marshals payload into a schema v1 envelope.
func NewEnvelope(
	eventID string,
	eventType string,
	sourceService string,
	partitionKeyPath string,
	partitionKey string,
	occurredAt time.Time,
	payload any,
) (Envelope, error) {
	if eventID == "" || eventType == "" {
		return Envelope{}, errors.New("event id and type are required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		SchemaVersion:    1,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     partitionKey,
		Data:             data,
	}, nil
}

// Decode unmarshals the envelope data into target.
func (e Envelope) Decode(target any) error {
	if len(e.Data) == 0 {
		return errors.New("event data is empty")
	}
	return json.Unmarshal(e.Data, target)
}
