package stories

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namestory-backend/config"
	"namestory-backend/models/story"
	"namestory-backend/pkg/logger"
	"namestory-backend/services"
)

func newTestHandler(viewer services.Identity) *Handler {
	cfg := &config.Config{
		FloorPrice:       config.DefaultFloorPrice,
		MinimumValuation: config.DefaultMinimumValuation,
	}
	log := logger.NewNop()
	store := services.NewMemoryStoryStore()
	ledger := services.NewStoryLedger(store, cfg, log)
	feed := services.NewFeed(store)
	return NewHandler(ledger, feed, services.StaticIdentity{Current: viewer}, log)
}

func connectedViewer() services.Identity {
	return services.Identity{
		Address:     "0xA1",
		DisplayName: "SatoshiDreamer",
		Basename:    "satoshi.base.eth",
	}
}

func TestCreateStory(t *testing.T) {
	h := newTestHandler(connectedViewer())

	body := `{"username":"SatoshiDreamer","platform":"Twitter","story":"Named after the dream."}`
	req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateStory(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created story.Story
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "SatoshiDreamer", created.Username)
	assert.Equal(t, config.DefaultFloorPrice, created.Price)
	assert.Equal(t, "0xA1", created.Address)
}

func TestCreateStory_Unauthorized(t *testing.T) {
	h := newTestHandler(services.Identity{})

	req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(`{"username":"x","story":"y"}`))
	rec := httptest.NewRecorder()
	h.CreateStory(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateStory_Invalid(t *testing.T) {
	h := newTestHandler(connectedViewer())

	req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(`{"username":"","story":"y"}`))
	rec := httptest.NewRecorder()
	h.CreateStory(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListStories_Filters(t *testing.T) {
	h := newTestHandler(connectedViewer())

	for _, payload := range []string{
		`{"username":"SatoshiDreamer","platform":"Twitter","story":"one"}`,
		`{"username":"LunaMoonrise","platform":"Instagram","story":"two"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		h.CreateStory(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	list := func(query string) []story.Story {
		req := httptest.NewRequest(http.MethodGet, "/stories"+query, nil)
		rec := httptest.NewRecorder()
		h.ListStories(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Stories []story.Story `json:"stories"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		return resp.Stories
	}

	all := list("")
	require.Len(t, all, 2)
	assert.Equal(t, "LunaMoonrise", all[0].Username)

	byPlatform := list("?platform=Twitter")
	require.Len(t, byPlatform, 1)
	assert.Equal(t, "SatoshiDreamer", byPlatform[0].Username)

	assert.Len(t, list("?platform=All"), 2)

	byQuery := list("?q=luna")
	require.Len(t, byQuery, 1)
	assert.Equal(t, "LunaMoonrise", byQuery[0].Username)
}

func TestValueStory_Endpoint(t *testing.T) {
	h := newTestHandler(connectedViewer())

	req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(`{"username":"Zen","story":"calm"}`))
	rec := httptest.NewRecorder()
	h.CreateStory(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created story.Story
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	req = httptest.NewRequest(http.MethodPost, "/stories/value?id=1", strings.NewReader(`{"amount":0.7}`))
	rec = httptest.NewRecorder()
	h.ValueStory(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated story.Story
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.InDelta(t, 1.4, updated.Price, 1e-9)

	// Below the minimum valuation.
	req = httptest.NewRequest(http.MethodPost, "/stories/value?id=1", strings.NewReader(`{"amount":0.5}`))
	rec = httptest.NewRecorder()
	h.ValueStory(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleLike_UnknownID(t *testing.T) {
	h := newTestHandler(connectedViewer())

	req := httptest.NewRequest(http.MethodPost, "/stories/like?id=99", nil)
	rec := httptest.NewRecorder()
	h.ToggleLike(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestComments_Endpoint(t *testing.T) {
	h := newTestHandler(connectedViewer())

	req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(`{"username":"Zen","story":"calm"}`))
	rec := httptest.NewRecorder()
	h.CreateStory(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/comments?story_id=1", strings.NewReader(`{"text":"nice"}`))
	rec = httptest.NewRecorder()
	h.CreateComment(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/comments?story_id=1", nil)
	rec = httptest.NewRecorder()
	h.GetComments(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var comments []story.Comment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "nice", comments[0].Text)
}
