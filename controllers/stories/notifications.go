package stories

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// GetNotifications lists the viewer's notifications, newest first.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	viewer := h.identity.Identify(r)
	if !viewer.Connected() {
		http.Error(w, "Unauthorized: wallet not connected", http.StatusUnauthorized)
		return
	}

	notifications, err := h.ledger.Notifications(r.Context(), viewer.Address)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// MarkNotificationAsRead marks one of the viewer's notifications read.
func (h *Handler) MarkNotificationAsRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	viewer := h.identity.Identify(r)
	if !viewer.Connected() {
		http.Error(w, "Unauthorized: wallet not connected", http.StatusUnauthorized)
		return
	}

	idStr := r.URL.Query().Get("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.ledger.MarkNotificationRead(r.Context(), viewer.Address, uint(id)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
