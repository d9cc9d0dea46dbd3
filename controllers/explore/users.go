package explore

import (
	"encoding/json"
	"net/http"
	"strings"

	"namestory-backend/pkg/logger"
	"namestory-backend/services"
)

// Handler serves the explore directory: aggregated user rows plus the
// viewer's follow toggles.
type Handler struct {
	feed     *services.Feed
	wallet   *services.Wallet
	identity services.IdentityProvider
	log      *logger.Logger
}

func NewHandler(feed *services.Feed, wallet *services.Wallet, identity services.IdentityProvider, log *logger.Logger) *Handler {
	return &Handler{feed: feed, wallet: wallet, identity: identity, log: log}
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

type userRow struct {
	services.UserProfile
	IsFollowing bool `json:"isFollowing"`
}

// ListUsers returns directory rows filtered by platform and search query,
// annotated with the viewer's follow state.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	viewer := h.identity.Identify(r)
	q := r.URL.Query()

	profiles, err := h.feed.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	following := map[string]bool{}
	if viewer.Connected() {
		follows, err := h.wallet.Follows(r.Context(), viewer.Address)
		if err == nil {
			for _, name := range follows {
				following[name] = true
			}
		}
	}

	platform := q.Get("platform")
	query := strings.ToLower(strings.TrimSpace(q.Get("q")))

	out := make([]userRow, 0, len(profiles))
	for _, p := range profiles {
		if platform != "" && platform != services.PlatformAll && p.Platform != platform {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Username), query) &&
			!strings.Contains(strings.ToLower(p.Basename), query) {
			continue
		}
		out = append(out, userRow{UserProfile: p, IsFollowing: following[p.Username]})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"users": out})
}

// ToggleFollow flips the follow state for a username.
func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	viewer := h.identity.Identify(r)
	username := r.URL.Query().Get("username")

	followed, err := h.wallet.ToggleFollow(r.Context(), viewer, username)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"username":    username,
		"isFollowing": followed,
	})
}
