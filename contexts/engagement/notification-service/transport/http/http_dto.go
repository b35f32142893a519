package http

import "encoding/json"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type NotificationDTO struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	NotificationType string `json:"notification_type"`
	IsRead           bool   `json:"is_read"`
	CreatedAt        string `json:"created_at"`
	URL              string `json:"url"`
}

type SettingsDTO struct {
	PushEnabled       bool            `json:"push_enabled"`
	EmailEnabled      bool            `json:"email_enabled"`
	NotificationTypes map[string]bool `json:"notification_types"`
}

type UpdateSettingsRequest struct {
	PushEnabled       *bool           `json:"push_enabled"`
	EmailEnabled      *bool           `json:"email_enabled"`
	NotificationTypes map[string]bool `json:"notification_types"`
}

type PushSubscriptionDTO struct {
	ID               int64           `json:"id"`
	SubscriptionInfo json.RawMessage `json:"subscription_info" swaggertype:"object"`
	Browser          string          `json:"browser"`
	Device           string          `json:"device"`
	CreatedAt        string          `json:"created_at"`
}

type CreatePushSubscriptionRequest struct {
	SubscriptionInfo json.RawMessage `json:"subscription_info" swaggertype:"object"`
	Browser          string          `json:"browser"`
	Device           string          `json:"device"`
}
