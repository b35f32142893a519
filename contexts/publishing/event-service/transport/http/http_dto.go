package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OfflineEventDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	EventDate   *string `json:"event_date"`
	Location    string  `json:"location"`
	CreatedAt   string  `json:"created_at"`
}

// EventRequest is used for create and partial update. event_date is RFC 3339;
// an explicit empty string clears it on update.
type EventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"event_date"`
	Location    *string `json:"location"`
}
