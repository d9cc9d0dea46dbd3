package stories

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type createCommentRequest struct {
	Text string `json:"text"`
}

// CreateComment appends a comment to a story. Comments are immutable once
// written; there is no update or delete.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	viewer := h.identity.Identify(r)

	storyIDStr := r.URL.Query().Get("story_id")
	storyID, err := strconv.ParseUint(storyIDStr, 10, 32)
	if err != nil {
		http.Error(w, "Invalid story ID", http.StatusBadRequest)
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	comment, err := h.ledger.AddComment(r.Context(), viewer, uint(storyID), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

// GetComments lists a story's comments oldest-first.
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	storyIDStr := r.URL.Query().Get("story_id")
	storyID, err := strconv.ParseUint(storyIDStr, 10, 32)
	if err != nil {
		http.Error(w, "Invalid story ID", http.StatusBadRequest)
		return
	}

	comments, err := h.ledger.ListComments(r.Context(), uint(storyID))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comments)
}
