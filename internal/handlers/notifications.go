package handlers

import (
	"net/http"

	"github.com/AnshRaj112/safespace-backend/internal/middleware"
)

// ListNotifications returns the caller's newest notifications.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := h.Notifications.List(r.Context(), middleware.AccountFrom(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"notifications": list})
}

// MarkNotificationRead flags one of the caller's notifications as read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Notifications.MarkRead(r.Context(), middleware.AccountFrom(r.Context()).ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"message": "Notification marked as read"})
}

// DeleteNotification removes one of the caller's notifications.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Notifications.Delete(r.Context(), middleware.AccountFrom(r.Context()).ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"message": "Notification deleted"})
}
