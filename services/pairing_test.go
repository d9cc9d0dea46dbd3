package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namestory-backend/models/pair"
	"namestory-backend/pkg/logger"
)

func TestPairing_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	pairing := NewPairing(NewMemoryPairStore(), cfg, logger.NewNop())

	var pairID uint

	t.Run("CreatePair", func(t *testing.T) {
		created, err := pairing.CreatePair(ctx, CreatePairInput{
			Username1: "alice",
			Platform1: "Base",
			Username2: "bob",
			Platform2: "Farcaster",
			Creator:   "0xA1",
		})
		require.NoError(t, err)
		pairID = created.ID

		assert.Equal(t, "alice×bob", created.PairedName)
		assert.Equal(t, cfg.FloorPrice, created.CurrentPrice)
		assert.Empty(t, created.Trades)
	})

	t.Run("CreatePair_Rejected", func(t *testing.T) {
		_, err := pairing.CreatePair(ctx, CreatePairInput{Username1: "alice", Username2: ""})
		assert.True(t, IsValidation(err))

		_, err = pairing.CreatePair(ctx, CreatePairInput{Username1: "alice", Username2: "alice"})
		assert.True(t, IsValidation(err))

		_, err = pairing.CreatePair(ctx, CreatePairInput{Username1: "alice", Platform1: "MySpace", Username2: "bob"})
		assert.True(t, IsValidation(err))
	})

	t.Run("HighLow_NoTrades", func(t *testing.T) {
		high, low, err := pairing.HighLow(ctx, pairID)
		require.NoError(t, err)
		assert.Equal(t, cfg.FloorPrice, high)
		assert.Equal(t, cfg.FloorPrice, low)
	})

	t.Run("ExecuteTrade_SetsCurrentPrice", func(t *testing.T) {
		trade, err := pairing.ExecuteTrade(ctx, pairID, pair.TradeTypeBuy, 1.5, "0xB2", "0xhash1")
		require.NoError(t, err)
		assert.Equal(t, 1.5, trade.Price)

		asset, err := pairing.GetPair(ctx, pairID)
		require.NoError(t, err)
		assert.Equal(t, 1.5, asset.CurrentPrice)
		require.Len(t, asset.Trades, 1)
	})

	t.Run("ExecuteTrade_SellBelowLast", func(t *testing.T) {
		// A sell at a lower price pulls the current price down with it.
		_, err := pairing.ExecuteTrade(ctx, pairID, pair.TradeTypeSell, 0.9, "0xC3", "0xhash2")
		require.NoError(t, err)

		asset, err := pairing.GetPair(ctx, pairID)
		require.NoError(t, err)
		assert.Equal(t, 0.9, asset.CurrentPrice)
	})

	t.Run("ExecuteTrade_Rejected", func(t *testing.T) {
		_, err := pairing.ExecuteTrade(ctx, pairID, "short", 1.0, "0xB2", "")
		assert.True(t, IsValidation(err))

		_, err = pairing.ExecuteTrade(ctx, pairID, pair.TradeTypeBuy, 0.5, "0xB2", "")
		assert.True(t, IsValidation(err))

		asset, err := pairing.GetPair(ctx, pairID)
		require.NoError(t, err)
		assert.Equal(t, 0.9, asset.CurrentPrice)
		assert.Len(t, asset.Trades, 2)
	})

	t.Run("HighLow", func(t *testing.T) {
		high, low, err := pairing.HighLow(ctx, pairID)
		require.NoError(t, err)
		assert.Equal(t, 1.5, high)
		assert.Equal(t, 0.9, low)
	})

	t.Run("PairStats", func(t *testing.T) {
		stats, err := pairing.PairStats(ctx, pairID)
		require.NoError(t, err)

		assert.Equal(t, pairID, stats.PairID)
		assert.Equal(t, "alice×bob", stats.PairedName)
		assert.Equal(t, 0.9, stats.CurrentPrice)
		assert.InDelta(t, 0.2, stats.Change, 1e-9)
		assert.InDelta(t, 0.2/0.7*100, stats.ChangePercent, 1e-9)
		assert.Equal(t, 1.5, stats.High)
		assert.Equal(t, 0.9, stats.Low)
		assert.Equal(t, 2, stats.TradeCount)
	})

	t.Run("DuplicatePairsAllowed", func(t *testing.T) {
		dup, err := pairing.CreatePair(ctx, CreatePairInput{
			Username1: "alice",
			Username2: "bob",
			Creator:   "0xD4",
		})
		require.NoError(t, err)
		assert.NotEqual(t, pairID, dup.ID)
		assert.Equal(t, "alice×bob", dup.PairedName)
	})
}

func TestPairStats_ZeroFloor(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.FloorPrice = 0
	pairing := NewPairing(NewMemoryPairStore(), cfg, logger.NewNop())

	created, err := pairing.CreatePair(ctx, CreatePairInput{Username1: "alice", Username2: "bob"})
	require.NoError(t, err)

	_, err = pairing.ExecuteTrade(ctx, created.ID, pair.TradeTypeBuy, 1.5, "0xB2", "")
	require.NoError(t, err)

	stats, err := pairing.PairStats(ctx, created.ID)
	require.NoError(t, err)

	// A zero floor must not produce an infinite percentage.
	assert.False(t, math.IsInf(stats.ChangePercent, 0))
	assert.Zero(t, stats.ChangePercent)
	assert.Equal(t, 1.5, stats.Change)
}

func TestPairing_NotFound(t *testing.T) {
	ctx := context.Background()
	pairing := NewPairing(NewMemoryPairStore(), testConfig(), logger.NewNop())

	_, err := pairing.GetPair(ctx, 7)
	assert.True(t, IsNotFound(err))

	_, err = pairing.ExecuteTrade(ctx, 7, pair.TradeTypeBuy, 1.0, "0x", "")
	assert.True(t, IsNotFound(err))

	_, _, err = pairing.HighLow(ctx, 7)
	assert.True(t, IsNotFound(err))
}
