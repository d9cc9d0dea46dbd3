package stories

import (
	"encoding/json"
	"net/http"
	"strconv"

	"namestory-backend/models/story"
	"namestory-backend/pkg/logger"
	"namestory-backend/services"
)

// Handler serves the story feed. The ledger, projection and identity
// provider are injected at construction.
type Handler struct {
	ledger   *services.StoryLedger
	feed     *services.Feed
	identity services.IdentityProvider
	log      *logger.Logger
}

func NewHandler(ledger *services.StoryLedger, feed *services.Feed, identity services.IdentityProvider, log *logger.Logger) *Handler {
	return &Handler{ledger: ledger, feed: feed, identity: identity, log: log}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case services.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case services.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case services.IsCollaborator(err):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func storyID(r *http.Request) (uint, bool) {
	idStr := r.URL.Query().Get("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

type createStoryRequest struct {
	Username string `json:"username"`
	Platform string `json:"platform"`
	Story    string `json:"story"`
}

// CreateStory publishes a new story for the connected wallet.
func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	viewer := h.identity.Identify(r)
	if !viewer.Connected() {
		http.Error(w, "Unauthorized: wallet not connected", http.StatusUnauthorized)
		return
	}

	var req createStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	created, err := h.ledger.CreateStory(r.Context(), services.CreateStoryInput{
		Username: req.Username,
		Platform: req.Platform,
		Basename: viewer.Basename,
		Address:  viewer.Address,
		Body:     req.Story,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// ListStories returns the feed. Query parameters: sort=latest|trending,
// platform (exact, "All" passes everything), q (username/basename search),
// author=me, others=true.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	viewer := h.identity.Identify(r)
	q := r.URL.Query()

	var (
		view []story.Story
		err  error
	)
	switch {
	case q.Get("author") == "me":
		if !viewer.Connected() {
			http.Error(w, "Unauthorized: wallet not connected", http.StatusUnauthorized)
			return
		}
		view, err = h.feed.ByAuthor(r.Context(), viewer.Address)
	case q.Get("others") == "true":
		view, err = h.feed.Others(r.Context(), viewer.Address)
	case q.Get("sort") == "trending":
		view, err = h.feed.Trending(r.Context())
	default:
		view, err = h.feed.Chronological(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	view = services.FilterByPlatform(view, q.Get("platform"))
	view = services.Search(view, q.Get("q"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"stories": view})
}

// ViewStory returns a single story with its comments.
func (h *Handler) ViewStory(w http.ResponseWriter, r *http.Request) {
	id, ok := storyID(r)
	if !ok {
		http.Error(w, "Invalid story ID", http.StatusBadRequest)
		return
	}

	s, err := h.ledger.GetStory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

type valueRequest struct {
	Amount float64 `json:"amount"`
}

// ValueStory adds a valuation to the story price.
func (h *Handler) ValueStory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	viewer := h.identity.Identify(r)
	if !viewer.Connected() {
		http.Error(w, "Unauthorized: wallet not connected", http.StatusUnauthorized)
		return
	}

	id, ok := storyID(r)
	if !ok {
		http.Error(w, "Invalid story ID", http.StatusBadRequest)
		return
	}

	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	updated, err := h.ledger.ValueStory(r.Context(), viewer, id, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// ShareStory bumps the share counter.
func (h *Handler) ShareStory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	id, ok := storyID(r)
	if !ok {
		http.Error(w, "Invalid story ID", http.StatusBadRequest)
		return
	}

	updated, err := h.ledger.IncrementShare(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
