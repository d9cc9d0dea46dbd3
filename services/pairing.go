package services

import (
	"context"
	"math"
	"strings"

	"namestory-backend/config"
	"namestory-backend/models/pair"
	"namestory-backend/pkg/logger"
)

// Pairing combines two usernames into a composite tradeable asset and runs
// the last-trade-price model: there is no order book and no matching, every
// submitted order executes immediately at its own price and that price
// becomes the asset's current price.
type Pairing struct {
	store PairStore
	cfg   *config.Config
	log   *logger.Logger
}

func NewPairing(store PairStore, cfg *config.Config, log *logger.Logger) *Pairing {
	return &Pairing{store: store, cfg: cfg, log: log}
}

type CreatePairInput struct {
	Username1 string
	Platform1 string
	Username2 string
	Platform2 string
	Creator   string
}

// CreatePair builds the composite asset seeded at the floor price. Duplicate
// pairs over the same two usernames are allowed.
func (p *Pairing) CreatePair(ctx context.Context, in CreatePairInput) (pair.PairedAsset, error) {
	u1 := strings.TrimSpace(in.Username1)
	u2 := strings.TrimSpace(in.Username2)
	if u1 == "" || u2 == "" {
		return pair.PairedAsset{}, NewValidationError("both usernames are required")
	}
	if u1 == u2 {
		return pair.PairedAsset{}, NewValidationError("cannot pair a username with itself")
	}
	for _, platform := range []string{in.Platform1, in.Platform2} {
		if platform != "" && !ValidPlatform(platform) {
			return pair.PairedAsset{}, NewValidationError("unknown platform %q", platform)
		}
	}

	asset := pair.PairedAsset{
		PairedName:     u1 + "×" + u2,
		Username1:      u1,
		Platform1:      in.Platform1,
		Username2:      u2,
		Platform2:      in.Platform2,
		CreatorAddress: in.Creator,
		CurrentPrice:   p.cfg.FloorPrice,
		Trades:         []pair.Trade{},
	}

	created, err := p.store.CreatePair(ctx, asset)
	if err != nil {
		return pair.PairedAsset{}, err
	}
	p.log.Info("pair created", "pair_id", created.ID, "paired_name", created.PairedName)
	return created, nil
}

func (p *Pairing) GetPair(ctx context.Context, id uint) (pair.PairedAsset, error) {
	return p.store.GetPair(ctx, id)
}

func (p *Pairing) ListPairs(ctx context.Context) ([]pair.PairedAsset, error) {
	return p.store.ListPairs(ctx)
}

// ExecuteTrade records a price point. The order always fills at the
// requested price; there is no counterparty, balance check or inventory.
func (p *Pairing) ExecuteTrade(ctx context.Context, pairID uint, tradeType string, price float64, from, txHash string) (pair.Trade, error) {
	if tradeType != pair.TradeTypeBuy && tradeType != pair.TradeTypeSell {
		return pair.Trade{}, NewValidationError("trade type must be buy or sell")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return pair.Trade{}, NewValidationError("price must be a finite number")
	}
	if price < p.cfg.FloorPrice {
		return pair.Trade{}, NewValidationError("price must be at least %.2f USDC", p.cfg.FloorPrice)
	}

	t := pair.Trade{
		Type:        tradeType,
		Price:       price,
		FromAddress: from,
		TxHash:      txHash,
	}
	created, err := p.store.AppendTrade(ctx, pairID, t)
	if err != nil {
		return pair.Trade{}, err
	}
	p.log.Info("trade executed", "pair_id", pairID, "type", tradeType, "price", price)
	return created, nil
}

// HighLow scans the trade log. With no trades both sides sit at the current
// price.
func (p *Pairing) HighLow(ctx context.Context, pairID uint) (high, low float64, err error) {
	asset, err := p.store.GetPair(ctx, pairID)
	if err != nil {
		return 0, 0, err
	}
	if len(asset.Trades) == 0 {
		return asset.CurrentPrice, asset.CurrentPrice, nil
	}
	high, low = asset.Trades[0].Price, asset.Trades[0].Price
	for _, t := range asset.Trades[1:] {
		if t.Price > high {
			high = t.Price
		}
		if t.Price < low {
			low = t.Price
		}
	}
	return high, low, nil
}

// Stats is the ticker payload shown in the trading terminal.
type Stats struct {
	PairID        uint    `json:"pairId"`
	PairedName    string  `json:"pairedName"`
	CurrentPrice  float64 `json:"currentPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	TradeCount    int     `json:"tradeCount"`
}

// PairStats derives the price-change numbers relative to the floor price.
func (p *Pairing) PairStats(ctx context.Context, pairID uint) (Stats, error) {
	asset, err := p.store.GetPair(ctx, pairID)
	if err != nil {
		return Stats{}, err
	}
	high, low, err := p.HighLow(ctx, pairID)
	if err != nil {
		return Stats{}, err
	}
	change := asset.CurrentPrice - p.cfg.FloorPrice
	changePercent := 0.0
	if p.cfg.FloorPrice > 0 {
		changePercent = change / p.cfg.FloorPrice * 100
	}
	return Stats{
		PairID:        asset.ID,
		PairedName:    asset.PairedName,
		CurrentPrice:  asset.CurrentPrice,
		Change:        change,
		ChangePercent: changePercent,
		High:          high,
		Low:           low,
		TradeCount:    len(asset.Trades),
	}, nil
}
