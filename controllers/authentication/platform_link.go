package authentication

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"namestory-backend/models/users"
)

// oauthConfigFor builds the OAuth settings for a platform from the
// environment, e.g. TWITTER_CLIENT_ID / TWITTER_CLIENT_SECRET /
// TWITTER_AUTH_URL / TWITTER_TOKEN_URL / TWITTER_PROFILE_URL /
// TWITTER_REDIRECT_URL.
func oauthConfigFor(platform string) (*oauth2.Config, string, error) {
	prefix := strings.ToUpper(platform) + "_"
	clientID := os.Getenv(prefix + "CLIENT_ID")
	clientSecret := os.Getenv(prefix + "CLIENT_SECRET")
	authURL := os.Getenv(prefix + "AUTH_URL")
	tokenURL := os.Getenv(prefix + "TOKEN_URL")
	profileURL := os.Getenv(prefix + "PROFILE_URL")
	redirectURL := os.Getenv(prefix + "REDIRECT_URL")

	if clientID == "" || clientSecret == "" || authURL == "" || tokenURL == "" {
		return nil, "", fmt.Errorf("OAuth is not configured for platform %q", platform)
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       strings.Fields(os.Getenv(prefix + "SCOPES")),
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
	return cfg, profileURL, nil
}

// PlatformLogin starts the OAuth flow that verifies the viewer really owns a
// username on an external platform.
func (h *Handler) PlatformLogin(w http.ResponseWriter, r *http.Request) {
	claims, err := h.ValidateToken(r)
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}

	platform := r.URL.Query().Get("platform")
	oauthCfg, _, err := oauthConfigFor(platform)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := uuid.NewString()
	session, _ := h.sessions.Get(r, sessionName)
	session.Values["oauth_state"] = state
	session.Values["oauth_platform"] = platform
	session.Values["oauth_address"] = claims.Address
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Failed to persist OAuth state", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, oauthCfg.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// PlatformCallback finishes the flow and records the verified handle.
func (h *Handler) PlatformCallback(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessions.Get(r, sessionName)
	state, _ := session.Values["oauth_state"].(string)
	platform, _ := session.Values["oauth_platform"].(string)
	address, _ := session.Values["oauth_address"].(string)

	if state == "" || r.FormValue("state") != state {
		h.log.Warn("invalid oauth state", "platform", platform)
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	oauthCfg, profileURL, err := oauthConfigFor(platform)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := oauthCfg.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.log.Warn("oauth exchange failed", "platform", platform, "error", err)
		http.Error(w, "Failed to exchange code", http.StatusBadGateway)
		return
	}

	handle := ""
	if profileURL != "" {
		handle, err = fetchHandle(oauthCfg, token, profileURL, r)
		if err != nil {
			h.log.Warn("profile fetch failed", "platform", platform, "error", err)
		}
	}

	link := users.PlatformLink{
		Platform:    platform,
		Handle:      handle,
		AccessToken: token.AccessToken,
	}
	if err := h.wallet.LinkPlatform(r.Context(), address, link); err != nil {
		http.Error(w, "Failed to save platform link", http.StatusInternalServerError)
		return
	}

	h.log.Info("platform linked", "platform", platform, "address", address, "handle", handle)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"platform": platform,
		"handle":   handle,
	})
}

func fetchHandle(cfg *oauth2.Config, token *oauth2.Token, profileURL string, r *http.Request) (string, error) {
	client := cfg.Client(r.Context(), token)
	resp, err := client.Get(profileURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var profile map[string]interface{}
	if err := json.Unmarshal(content, &profile); err != nil {
		return "", err
	}
	for _, key := range []string{"username", "screen_name", "handle", "name", "email"} {
		if v, ok := profile[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no handle field in profile response")
}
