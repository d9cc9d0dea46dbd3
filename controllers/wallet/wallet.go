package wallet

import (
	"encoding/json"
	"net/http"

	"namestory-backend/config"
	"namestory-backend/pkg/logger"
	"namestory-backend/services"
)

// Handler serves the earnings balance and withdrawals for the connected
// wallet.
type Handler struct {
	wallet   *services.Wallet
	identity services.IdentityProvider
	cfg      *config.Config
	log      *logger.Logger
}

func NewHandler(wallet *services.Wallet, identity services.IdentityProvider, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{wallet: wallet, identity: identity, cfg: cfg, log: log}
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

// Balance returns the account with its accumulated USDC earnings and
// whether the withdrawal threshold has been reached.
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	viewer := h.identity.Identify(r)
	if !viewer.Connected() {
		http.Error(w, "Unauthorized: wallet not connected", http.StatusUnauthorized)
		return
	}

	account, err := h.wallet.Account(r.Context(), viewer.Address)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"account":     account,
		"threshold":   h.cfg.WithdrawalThreshold,
		"canWithdraw": account.Balance >= h.cfg.WithdrawalThreshold,
	})
}

// Withdraw pays out the full balance when it meets the threshold.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	viewer := h.identity.Identify(r)
	if !viewer.Connected() {
		http.Error(w, "Unauthorized: wallet not connected", http.StatusUnauthorized)
		return
	}

	account, err := h.wallet.Withdraw(r.Context(), viewer.Address)
	if err != nil {
		writeError(w, err)
		return
	}

	h.log.Info("withdrawal complete", "address", viewer.Address)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"account": account})
}
