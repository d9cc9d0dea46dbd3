package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namestory-backend/models/story"
	"namestory-backend/pkg/logger"
)

func seedFeed(t *testing.T) *Feed {
	t.Helper()
	cfg := testConfig()
	store := NewMemoryStoryStore()
	ledger := NewStoryLedger(store, cfg, logger.NewNop())

	ctx := context.Background()
	fixtures := []struct {
		username, platform, address string
		valuations                  []float64
	}{
		{"SatoshiDreamer", "Twitter", "0x01", []float64{1.8}},
		{"LunaMoonrise", "Instagram", "0x02", []float64{2.0, 2.55}},
		{"PhoenixEth", "Base", "0x03", []float64{7.3}},
		{"ZenBuilder", "Base", "0x04", nil},
	}
	for _, f := range fixtures {
		created, err := ledger.CreateStory(ctx, CreateStoryInput{
			Username: f.username,
			Platform: f.platform,
			Address:  f.address,
			Body:     "The story behind " + f.username,
		})
		require.NoError(t, err)
		for _, v := range f.valuations {
			_, err := ledger.ValueStory(ctx, Identity{Address: "0xfan"}, created.ID, v)
			require.NoError(t, err)
		}
	}
	return NewFeed(store)
}

func TestFeed_Chronological(t *testing.T) {
	feed := seedFeed(t)

	view, err := feed.Chronological(context.Background())
	require.NoError(t, err)
	require.Len(t, view, 4)

	// Newest first.
	assert.Equal(t, "ZenBuilder", view[0].Username)
	assert.Equal(t, "SatoshiDreamer", view[3].Username)
}

func TestFeed_Trending(t *testing.T) {
	feed := seedFeed(t)

	view, err := feed.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, view, 4)

	assert.Equal(t, "PhoenixEth", view[0].Username)
	assert.Equal(t, "LunaMoonrise", view[1].Username)
	assert.Equal(t, "SatoshiDreamer", view[2].Username)
	assert.Equal(t, "ZenBuilder", view[3].Username)

	for i := 1; i < len(view); i++ {
		assert.GreaterOrEqual(t, view[i-1].Price, view[i].Price)
	}
}

func TestFeed_Trending_TieBreak(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStoryStore()

	older := story.Story{Username: "OldTimer", Platform: "Base", Body: "first", Price: 3.0,
		CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)}
	newer := story.Story{Username: "Newcomer", Platform: "Base", Body: "second", Price: 3.0,
		CreatedAt: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)}
	cheap := story.Story{Username: "Floor", Platform: "Base", Body: "third", Price: 0.7,
		CreatedAt: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)}
	for _, s := range []story.Story{older, newer, cheap} {
		_, err := store.CreateStory(ctx, s)
		require.NoError(t, err)
	}

	view, err := NewFeed(store).Trending(ctx)
	require.NoError(t, err)
	require.Len(t, view, 3)

	// Equal prices: the newer story wins the tie.
	assert.Equal(t, "Newcomer", view[0].Username)
	assert.Equal(t, "OldTimer", view[1].Username)
	assert.Equal(t, "Floor", view[2].Username)
}

func TestFilterByPlatform(t *testing.T) {
	feed := seedFeed(t)
	view, err := feed.Chronological(context.Background())
	require.NoError(t, err)

	base := FilterByPlatform(view, "Base")
	require.Len(t, base, 2)
	for _, s := range base {
		assert.Equal(t, "Base", s.Platform)
	}

	assert.Len(t, FilterByPlatform(view, PlatformAll), 4)
	assert.Len(t, FilterByPlatform(view, ""), 4)
	assert.Empty(t, FilterByPlatform(view, "Zora"))
}

func TestSearch(t *testing.T) {
	feed := seedFeed(t)
	view, err := feed.Chronological(context.Background())
	require.NoError(t, err)

	hits := Search(view, "luna")
	require.Len(t, hits, 1)
	assert.Equal(t, "LunaMoonrise", hits[0].Username)

	assert.Len(t, Search(view, "  SATOSHI "), 1)
	assert.Len(t, Search(view, ""), 4)
	assert.Empty(t, Search(view, "nobody"))
}

func TestFeed_OwnAndOthers(t *testing.T) {
	feed := seedFeed(t)
	ctx := context.Background()

	own, err := feed.ByAuthor(ctx, "0x03")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "PhoenixEth", own[0].Username)

	others, err := feed.Others(ctx, "0x03")
	require.NoError(t, err)
	assert.Len(t, others, 3)
	for _, s := range others {
		assert.NotEqual(t, "0x03", s.Address)
	}
}

func TestFeed_Users(t *testing.T) {
	feed := seedFeed(t)

	profiles, err := feed.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 4)

	assert.Equal(t, "PhoenixEth", profiles[0].Username)
	assert.Equal(t, 1, profiles[0].Stories)
	assert.InDelta(t, 8.0, profiles[0].TotalValue, 1e-9)

	for i := 1; i < len(profiles); i++ {
		assert.GreaterOrEqual(t, profiles[i-1].TotalValue, profiles[i].TotalValue)
	}
}
