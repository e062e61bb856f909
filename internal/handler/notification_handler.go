package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"geneailogy/tree-service/internal/models"
	"geneailogy/tree-service/internal/service"
)

// NotificationHandler serves notification persistence and the ingest endpoint
// that feeds the live hub
type NotificationHandler struct {
	notificationService *service.NotificationService
	hub                 *Hub
}

func NewNotificationHandler(notificationService *service.NotificationService, hub *Hub) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		hub:                 hub,
	}
}

// Publish handles POST /api/notifications: persists the notification and fans
// the raw event out to the recipient's live sessions
func (h *NotificationHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var input service.PublishNotificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	notification, event, err := h.notificationService.Publish(r.Context(), input)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	h.hub.Broadcast(notification.UserID, []models.NotificationEvent{event})

	writeJSON(w, http.StatusCreated, notification)
}

// List handles GET /api/notifications?viewer_id=...&limit=...
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	if viewer == "" {
		writeError(w, http.StatusBadRequest, "viewer_id is required")
		return
	}

	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	notifications, err := h.notificationService.List(r.Context(), viewer, limit)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkAsRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	viewer := viewerID(r)
	if viewer == "" {
		writeError(w, http.StatusBadRequest, "viewer_id is required")
		return
	}

	if err := h.notificationService.MarkAsRead(r.Context(), chi.URLParam(r, "id"), viewer); err != nil {
		mapServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
