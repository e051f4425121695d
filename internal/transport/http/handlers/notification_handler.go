package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dkovacev/ripple/internal/service"
	"github.com/dkovacev/ripple/internal/transport/http/middleware"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	log                 zerolog.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, log: log}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	notifications, err := h.notificationService.ListRecent(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("list notifications failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	count, err := h.notificationService.CountUnread(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("unread count failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), id, userID); err != nil {
		h.log.Error().Err(err).Msg("mark notification read failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
