package entities

import "time"

type OfflineEvent struct {
	ID          int64
	Title       string
	Description string
	EventDate   *time.Time
	Location    string
	CreatedAt   time.Time
}

// IsUpcoming reports whether the event is dated at or after now. Undated
// events are never upcoming.
func (e OfflineEvent) IsUpcoming(now time.Time) bool {
	return e.EventDate != nil && !e.EventDate.Before(now)
}
