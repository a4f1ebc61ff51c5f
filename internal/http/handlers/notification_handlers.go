package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lfmartins/stock-manager/internal/http/middleware"
	repo "github.com/lfmartins/stock-manager/internal/repo"
)

// GetNotificationsHandler godoc
// @Summary List the user's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /api/notifications [get]
func GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	notifications, err := notificationRepo.GetAllByUser(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch notifications")
		respondError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	respondList(w, http.StatusOK, notifications, len(notifications))
}

// UnreadCountHandler godoc
// @Summary Count the user's unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /api/notifications/unread-count [get]
func UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if count, ok := cache.UnreadCount(user.ID); ok {
		respondData(w, http.StatusOK, UnreadCountResult{UnreadCount: count})
		return
	}

	count, err := notificationRepo.UnreadCount(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch unread notifications count")
		respondError(w, http.StatusInternalServerError, "Failed to fetch unread notifications count")
		return
	}
	cache.SetUnreadCount(user.ID, count)
	respondData(w, http.StatusOK, UnreadCountResult{UnreadCount: count})
}

// MarkNotificationReadHandler godoc
// @Summary Mark one of the user's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /api/notifications/{id}/read [patch]
func MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if _, err := notificationRepo.GetByIDAndUser(id, user.ID); err != nil {
		if errors.Is(err, repo.ErrNotificationNotFound) {
			respondError(w, http.StatusNotFound, "Notification not found or you do not have permission to update it")
			return
		}
		log.Error().Err(err).Int("notification_id", id).Msg("failed to fetch notification")
		respondError(w, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}

	if err := notificationRepo.MarkRead(id); err != nil {
		log.Error().Err(err).Int("notification_id", id).Msg("failed to mark notification as read")
		respondError(w, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}
	cache.InvalidateUnreadCount(user.ID)
	respondMessage(w, http.StatusOK, "Notification marked as read")
}

// MarkAllNotificationsReadHandler godoc
// @Summary Mark all of the user's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /api/notifications/read-all [patch]
func MarkAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := notificationRepo.MarkAllRead(user.ID); err != nil {
		log.Error().Err(err).Msg("failed to mark all notifications as read")
		respondError(w, http.StatusInternalServerError, "Failed to mark all notifications as read")
		return
	}
	cache.InvalidateUnreadCount(user.ID)
	respondMessage(w, http.StatusOK, "All notifications marked as read")
}

// DeleteNotificationHandler godoc
// @Summary Delete one of the user's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /api/notifications/{id} [delete]
func DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if _, err := notificationRepo.GetByIDAndUser(id, user.ID); err != nil {
		if errors.Is(err, repo.ErrNotificationNotFound) {
			respondError(w, http.StatusNotFound, "Notification not found or you do not have permission to delete it")
			return
		}
		log.Error().Err(err).Int("notification_id", id).Msg("failed to fetch notification")
		respondError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}

	if err := notificationRepo.Delete(id); err != nil {
		log.Error().Err(err).Int("notification_id", id).Msg("failed to delete notification")
		respondError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	cache.InvalidateUnreadCount(user.ID)
	respondMessage(w, http.StatusOK, "Notification deleted successfully")
}

// HealthHandler reports process liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// WelcomeHandler answers the root route.
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "Welcome to Stock Management API")
}
