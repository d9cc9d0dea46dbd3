package stories

import (
	"encoding/json"
	"net/http"
)

// ToggleLike flips the viewer's like on a story. Unknown ids and anonymous
// viewers are treated as no-ops, matching the feed's optimistic UI.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	viewer := h.identity.Identify(r)

	id, ok := storyID(r)
	if !ok {
		http.Error(w, "Invalid story ID", http.StatusBadRequest)
		return
	}

	if err := h.ledger.ToggleLike(r.Context(), viewer, id); err != nil {
		writeError(w, err)
		return
	}

	s, err := h.ledger.GetStory(r.Context(), id)
	if err != nil {
		// The toggle was a silent no-op on an unknown id; report the same.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}
