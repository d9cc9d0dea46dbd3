package authentication

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/sessions"

	"namestory-backend/config"
	"namestory-backend/pkg/logger"
	"namestory-backend/services"
)

const sessionName = "wallet-session"

// Claims is the wallet session token payload.
type Claims struct {
	Address     string `json:"address"`
	DisplayName string `json:"displayName"`
	Basename    string `json:"basename"`
	jwt.StandardClaims
}

// Handler owns the wallet connect/disconnect flow. All dependencies are
// injected; there is no package-level state.
type Handler struct {
	cfg      *config.Config
	wallet   *services.Wallet
	sessions *sessions.CookieStore
	log      *logger.Logger
	jwtKey   []byte
}

func NewHandler(cfg *config.Config, wallet *services.Wallet, log *logger.Logger) *Handler {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 8,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Handler{
		cfg:      cfg,
		wallet:   wallet,
		sessions: store,
		log:      log,
		jwtKey:   []byte(cfg.JWTSecret),
	}
}

type connectRequest struct {
	Address     string `json:"address"`
	DisplayName string `json:"displayName"`
	Basename    string `json:"basename"`
}

// Connect registers the wallet and issues the session token.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	address, err := ChecksumAddress(req.Address)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.wallet.Connect(r.Context(), address, req.DisplayName, req.Basename)
	if err != nil {
		http.Error(w, "Failed to register wallet", http.StatusInternalServerError)
		return
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		Address:     address,
		DisplayName: req.DisplayName,
		Basename:    req.Basename,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtKey)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	session, _ := h.sessions.Get(r, sessionName)
	session.Values["address"] = address
	if err := session.Save(r, w); err != nil {
		h.log.Warn("session save failed", "error", err)
	}

	h.log.Info("wallet connected", "address", address)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":   tokenString,
		"account": account,
	})
}

// Disconnect ends the session.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessions.Get(r, sessionName)
	session.Options.MaxAge = -1
	delete(session.Values, "address")
	if err := session.Save(r, w); err != nil {
		h.log.Warn("session clear failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Disconnected successfully"})
}

// Profile returns the account behind the token, including balance and
// follows.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, err := h.ValidateToken(r)
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}

	account, err := h.wallet.Account(r.Context(), claims.Address)
	if err != nil {
		http.Error(w, "Wallet not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

// ValidateToken parses and verifies the bearer token on the request.
func (h *Handler) ValidateToken(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, jwt.NewValidationError("authorization header required", jwt.ValidationErrorMalformed)
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return h.jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("invalid token", jwt.ValidationErrorSignatureInvalid)
	}
	return claims, nil
}

// tokenIdentity adapts the token flow to the core's IdentityProvider. A
// missing or bad token simply means "not connected"; handlers that require a
// wallet reject the zero identity themselves.
type tokenIdentity struct {
	h *Handler
}

func (t tokenIdentity) Identify(r *http.Request) services.Identity {
	claims, err := t.h.ValidateToken(r)
	if err != nil {
		return services.Identity{}
	}
	return services.Identity{
		Address:     claims.Address,
		DisplayName: claims.DisplayName,
		Basename:    claims.Basename,
	}
}

// IdentityProvider exposes the wallet-session adapter.
func (h *Handler) IdentityProvider() services.IdentityProvider {
	return tokenIdentity{h: h}
}
