package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"hanafiyah/contexts/engagement/notification-service/application"
	"hanafiyah/contexts/engagement/notification-service/domain/entities"
	"hanafiyah/contexts/engagement/notification-service/ports"
	httptransport "hanafiyah/contexts/engagement/notification-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// ListNotificationsHandler godoc
// @Summary Current user's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} httptransport.NotificationDTO
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/notifications [get]
func (h Handler) ListNotificationsHandler(ctx context.Context, userID int64) ([]httptransport.NotificationDTO, error) {
	notifications, err := h.Service.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.NotificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, toNotificationDTO(notification))
	}
	return items, nil
}

// GetNotificationHandler godoc
// @Summary One notification of the current user
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} httptransport.NotificationDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/notifications/{id} [get]
func (h Handler) GetNotificationHandler(ctx context.Context, userID int64, notificationID int64) (httptransport.NotificationDTO, error) {
	notification, err := h.Service.Get(ctx, userID, notificationID)
	if err != nil {
		return httptransport.NotificationDTO{}, err
	}
	return toNotificationDTO(notification), nil
}

// MarkAsReadHandler godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} httptransport.StatusResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/notifications/{id}/mark_as_read [post]
func (h Handler) MarkAsReadHandler(ctx context.Context, userID int64, notificationID int64) (httptransport.StatusResponse, error) {
	if err := h.Service.MarkAsRead(ctx, userID, notificationID); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

// MarkAllAsReadHandler godoc
// @Summary Mark every notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.StatusResponse
// @Router /api/notifications/mark_all_as_read [post]
func (h Handler) MarkAllAsReadHandler(ctx context.Context, userID int64) (httptransport.StatusResponse, error) {
	if err := h.Service.MarkAllAsRead(ctx, userID); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

// GetSettingsHandler godoc
// @Summary Notification settings, created with defaults on first read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.SettingsDTO
// @Router /api/notifications/settings [get]
func (h Handler) GetSettingsHandler(ctx context.Context, userID int64) (httptransport.SettingsDTO, error) {
	settings, err := h.Service.GetSettings(ctx, userID)
	if err != nil {
		return httptransport.SettingsDTO{}, err
	}
	return toSettingsDTO(settings), nil
}

// UpdateSettingsHandler godoc
// @Summary Partially update notification settings
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.UpdateSettingsRequest true "Settings"
// @Success 200 {object} httptransport.SettingsDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/notifications/settings [put]
func (h Handler) UpdateSettingsHandler(ctx context.Context, userID int64, req httptransport.UpdateSettingsRequest) (httptransport.SettingsDTO, error) {
	settings, err := h.Service.UpdateSettings(ctx, userID, ports.UpdateSettingsInput{
		PushEnabled:  req.PushEnabled,
		EmailEnabled: req.EmailEnabled,
		Types:        req.NotificationTypes,
	})
	if err != nil {
		return httptransport.SettingsDTO{}, err
	}
	return toSettingsDTO(settings), nil
}

// ListPushSubscriptionsHandler godoc
// @Summary Current user's browser push subscriptions
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} httptransport.PushSubscriptionDTO
// @Router /api/notifications/push-subscriptions [get]
func (h Handler) ListPushSubscriptionsHandler(ctx context.Context, userID int64) ([]httptransport.PushSubscriptionDTO, error) {
	subscriptions, err := h.Service.ListPushSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.PushSubscriptionDTO, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		items = append(items, toSubscriptionDTO(subscription))
	}
	return items, nil
}

// CreatePushSubscriptionHandler godoc
// @Summary Register a browser push subscription
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreatePushSubscriptionRequest true "Subscription"
// @Success 201 {object} httptransport.PushSubscriptionDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/notifications/push-subscriptions [post]
func (h Handler) CreatePushSubscriptionHandler(ctx context.Context, userID int64, req httptransport.CreatePushSubscriptionRequest) (httptransport.PushSubscriptionDTO, error) {
	subscription, err := h.Service.CreatePushSubscription(ctx, userID, ports.CreateSubscriptionInput{
		SubscriptionInfo: req.SubscriptionInfo,
		Browser:          req.Browser,
		Device:           req.Device,
	})
	if err != nil {
		return httptransport.PushSubscriptionDTO{}, err
	}
	return toSubscriptionDTO(subscription), nil
}

// DeletePushSubscriptionHandler godoc
// @Summary Remove a browser push subscription
// @Tags notifications
// @Security BearerAuth
// @Param id path int true "Subscription ID"
// @Success 204
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/notifications/push-subscriptions/{id} [delete]
func (h Handler) DeletePushSubscriptionHandler(ctx context.Context, userID int64, subscriptionID int64) error {
	return h.Service.DeletePushSubscription(ctx, userID, subscriptionID)
}

func toNotificationDTO(notification entities.Notification) httptransport.NotificationDTO {
	return httptransport.NotificationDTO{
		ID:               notification.ID,
		Title:            notification.Title,
		Message:          notification.Message,
		NotificationType: string(notification.Type),
		IsRead:           notification.IsRead,
		CreatedAt:        notification.CreatedAt.UTC().Format(time.RFC3339),
		URL:              notification.URL,
	}
}

func toSettingsDTO(settings entities.Settings) httptransport.SettingsDTO {
	return httptransport.SettingsDTO{
		PushEnabled:       settings.PushEnabled,
		EmailEnabled:      settings.EmailEnabled,
		NotificationTypes: settings.Types,
	}
}

func toSubscriptionDTO(subscription entities.PushSubscription) httptransport.PushSubscriptionDTO {
	return httptransport.PushSubscriptionDTO{
		ID:               subscription.ID,
		SubscriptionInfo: subscription.SubscriptionInfo,
		Browser:          subscription.Browser,
		Device:           subscription.Device,
		CreatedAt:        subscription.CreatedAt.UTC().Format(time.RFC3339),
	}
}
