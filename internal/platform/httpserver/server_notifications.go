package httpserver

import (
	"errors"
	"net/http"

	notificationerrors "hanafiyah/contexts/engagement/notification-service/domain/errors"
	notificationhttp "hanafiyah/contexts/engagement/notification-service/transport/http"
)

func (s *Server) registerNotificationRoutes() {
	s.mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	s.mux.HandleFunc("POST /api/notifications/mark_all_as_read", s.handleMarkAllAsRead)
	s.mux.HandleFunc("GET /api/notifications/settings", s.handleGetNotificationSettings)
	s.mux.HandleFunc("PUT /api/notifications/settings", s.handleUpdateNotificationSettings)
	s.mux.HandleFunc("GET /api/notifications/push-subscriptions", s.handleListPushSubscriptions)
	s.mux.HandleFunc("POST /api/notifications/push-subscriptions", s.handleCreatePushSubscription)
	s.mux.HandleFunc("DELETE /api/notifications/push-subscriptions/{id}", s.handleDeletePushSubscription)
	s.mux.HandleFunc("GET /api/notifications/{id}", s.handleGetNotification)
	s.mux.HandleFunc("POST /api/notifications/{id}/mark_as_read", s.handleMarkAsRead)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.ListNotificationsHandler(r.Context(), principal.UserID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetNotification(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	notificationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.GetNotificationHandler(r.Context(), principal.UserID, notificationID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkAsRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	notificationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.MarkAsReadHandler(r.Context(), principal.UserID, notificationID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.MarkAllAsReadHandler(r.Context(), principal.UserID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetNotificationSettings(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.GetSettingsHandler(r.Context(), principal.UserID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req notificationhttp.UpdateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.notifications.Handler.UpdateSettingsHandler(r.Context(), principal.UserID, req)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPushSubscriptions(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.ListPushSubscriptionsHandler(r.Context(), principal.UserID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatePushSubscription(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req notificationhttp.CreatePushSubscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.notifications.Handler.CreatePushSubscriptionHandler(r.Context(), principal.UserID, req)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDeletePushSubscription(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	subscriptionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.notifications.Handler.DeletePushSubscriptionHandler(r.Context(), principal.UserID, subscriptionID); err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeNotificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notificationerrors.ErrInvalidRequest):
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, notificationerrors.ErrNotificationNotFound),
		errors.Is(err, notificationerrors.ErrSubscriptionNotFound),
		errors.Is(err, notificationerrors.ErrRecipientNotFound):
		writeNotificationError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeNotificationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeNotificationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, notificationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
