package pairs

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"namestory-backend/config"
	"namestory-backend/pkg/logger"
	"namestory-backend/services"
)

// Handler serves paired-asset creation and the trading terminal endpoints.
type Handler struct {
	pairing  *services.Pairing
	identity services.IdentityProvider
	cfg      *config.Config
	log      *logger.Logger
}

func NewHandler(pairing *services.Pairing, identity services.IdentityProvider, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{pairing: pairing, identity: identity, cfg: cfg, log: log}
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

func pairID(r *http.Request) (uint, bool) {
	idStr := r.URL.Query().Get("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

type createPairRequest struct {
	Username1 string `json:"username1"`
	Platform1 string `json:"platform1"`
	Username2 string `json:"username2"`
	Platform2 string `json:"platform2"`
}

// CreatePair mints a composite asset from two usernames.
func (h *Handler) CreatePair(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	viewer := h.identity.Identify(r)
	if !viewer.Connected() {
		http.Error(w, "Unauthorized: wallet not connected", http.StatusUnauthorized)
		return
	}

	var req createPairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	created, err := h.pairing.CreatePair(r.Context(), services.CreatePairInput{
		Username1: req.Username1,
		Platform1: req.Platform1,
		Username2: req.Username2,
		Platform2: req.Platform2,
		Creator:   viewer.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"pair": created})
}

// ViewPair returns a pair with its trade log and derived stats.
func (h *Handler) ViewPair(w http.ResponseWriter, r *http.Request) {
	id, ok := pairID(r)
	if !ok {
		http.Error(w, "Invalid pair ID", http.StatusBadRequest)
		return
	}

	asset, err := h.pairing.GetPair(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := h.pairing.PairStats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"pair":  asset,
		"stats": stats,
	})
}

// ListPairs returns every paired asset, newest first.
func (h *Handler) ListPairs(w http.ResponseWriter, r *http.Request) {
	pairsList, err := h.pairing.ListPairs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"pairs": pairsList})
}

type tradeRequest struct {
	Type   string  `json:"type"`
	Price  float64 `json:"price"`
	TxHash string  `json:"txHash"`
}

// Trade executes an order at the submitted price. Every order fills
// immediately; the submitted price becomes the pair's current price.
func (h *Handler) Trade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	viewer := h.identity.Identify(r)
	if !viewer.Connected() {
		http.Error(w, "Unauthorized: wallet not connected", http.StatusUnauthorized)
		return
	}

	id, ok := pairID(r)
	if !ok {
		http.Error(w, "Invalid pair ID", http.StatusBadRequest)
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	trade, err := h.pairing.ExecuteTrade(r.Context(), id, req.Type, req.Price, viewer.Address, req.TxHash)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(trade)
}

// tickerInterval falls back to the default polling cadence of the trading
// terminal when the config carries none.
func (h *Handler) tickerInterval() time.Duration {
	if h.cfg.TickerInterval > 0 {
		return h.cfg.TickerInterval
	}
	return 10 * time.Second
}
