package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// notificationListLimit caps the inbox listing.
const notificationListLimit = 50

// Notifications groups the notification inbox handlers.
type Notifications struct {
	notify *store.NotificationStore
}

// NewNotifications creates a new Notifications handler group.
func NewNotifications(notify *store.NotificationStore) *Notifications {
	return &Notifications{notify: notify}
}

// List serves the user's notifications, broadcasts included.
func (h *Notifications) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	items, err := h.notify.ListForUser(r.Context(), user.ID, notificationListLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []models.Notification{}
	}

	unread, err := h.notify.UnreadCount(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"notifications": items,
		"unread":        unread,
	})
}

// UnreadCount serves just the unread counter for badge polling.
func (h *Notifications) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	unread, err := h.notify.UnreadCount(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread": unread})
}

// MarkRead marks one notification read.
func (h *Notifications) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.notify.MarkRead(r.Context(), user.ID, id); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "marked read"})
}

// MarkAllRead marks every visible notification read.
func (h *Notifications) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	if err := h.notify.MarkAllRead(r.Context(), user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "all marked read"})
}

// Delete removes one of the user's own notifications.
func (h *Notifications) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.notify.Delete(r.Context(), user.ID, id); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}
