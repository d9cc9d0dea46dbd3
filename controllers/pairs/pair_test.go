package pairs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namestory-backend/config"
	"namestory-backend/models/pair"
	"namestory-backend/pkg/logger"
	"namestory-backend/services"
)

func newTestHandler() *Handler {
	cfg := &config.Config{FloorPrice: config.DefaultFloorPrice}
	log := logger.NewNop()
	pairing := services.NewPairing(services.NewMemoryPairStore(), cfg, log)
	identity := services.StaticIdentity{Current: services.Identity{Address: "0xA1", DisplayName: "Satoshi"}}
	return NewHandler(pairing, identity, cfg, log)
}

func createTestPair(t *testing.T, h *Handler) uint {
	t.Helper()
	body := `{"username1":"alice","platform1":"Base","username2":"bob","platform2":"Farcaster"}`
	req := httptest.NewRequest(http.MethodPost, "/pairs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreatePair(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Pair pair.PairedAsset `json:"pair"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Pair.ID
}

func TestCreatePair_Endpoint(t *testing.T) {
	h := newTestHandler()
	id := createTestPair(t, h)

	req := httptest.NewRequest(http.MethodGet, "/pairs/view?id=1", nil)
	rec := httptest.NewRecorder()
	h.ViewPair(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Pair  pair.PairedAsset `json:"pair"`
		Stats services.Stats   `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, id, resp.Pair.ID)
	assert.Equal(t, "alice×bob", resp.Pair.PairedName)
	assert.Equal(t, config.DefaultFloorPrice, resp.Stats.CurrentPrice)
	assert.Zero(t, resp.Stats.TradeCount)
}

func TestCreatePair_SelfPair(t *testing.T) {
	h := newTestHandler()

	body := `{"username1":"alice","username2":"alice"}`
	req := httptest.NewRequest(http.MethodPost, "/pairs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreatePair(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrade_Endpoint(t *testing.T) {
	h := newTestHandler()
	createTestPair(t, h)

	req := httptest.NewRequest(http.MethodPost, "/pairs/trade?id=1", strings.NewReader(`{"type":"buy","price":1.5,"txHash":"0xabc"}`))
	rec := httptest.NewRecorder()
	h.Trade(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var trade pair.Trade
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&trade))
	assert.Equal(t, pair.TradeTypeBuy, trade.Type)
	assert.Equal(t, "0xA1", trade.FromAddress)

	// Current price follows the last trade.
	req = httptest.NewRequest(http.MethodGet, "/pairs/view?id=1", nil)
	rec = httptest.NewRecorder()
	h.ViewPair(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Pair pair.PairedAsset `json:"pair"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1.5, resp.Pair.CurrentPrice)
}

func TestTrade_BelowFloor(t *testing.T) {
	h := newTestHandler()
	createTestPair(t, h)

	req := httptest.NewRequest(http.MethodPost, "/pairs/trade?id=1", strings.NewReader(`{"type":"buy","price":0.5}`))
	rec := httptest.NewRecorder()
	h.Trade(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrade_UnknownPair(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/pairs/trade?id=42", strings.NewReader(`{"type":"buy","price":1.0}`))
	rec := httptest.NewRecorder()
	h.Trade(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
