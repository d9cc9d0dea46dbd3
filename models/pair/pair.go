package pair

import (
	"time"
)

// Trade types. There is no matching engine behind these labels: every order
// executes immediately at the submitted price and becomes the new last price.
const (
	TradeTypeBuy  = "buy"
	TradeTypeSell = "sell"
)

// PairedAsset is a composite tradeable identifier formed from two usernames,
// e.g. "fortycrypto×jessepollak". Once created it accepts trades indefinitely.
type PairedAsset struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PairedName     string    `gorm:"index;not null" json:"pairedName"`
	Username1      string    `gorm:"not null" json:"username1"`
	Platform1      string    `json:"platform1"`
	Username2      string    `gorm:"not null" json:"username2"`
	Platform2      string    `json:"platform2"`
	CreatorAddress string    `gorm:"index;not null" json:"creatorAddress"`
	CurrentPrice   float64   `gorm:"not null" json:"currentPrice"`
	Trades         []Trade   `gorm:"foreignKey:PairID" json:"trades"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Trade is a recorded price point, appended to the pair's ordered log.
type Trade struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PairID      uint      `gorm:"index;not null" json:"-"`
	Type        string    `gorm:"type:varchar(8);not null" json:"type"`
	Price       float64   `gorm:"not null" json:"price"`
	FromAddress string    `gorm:"not null" json:"from"`
	TxHash      string    `json:"txHash,omitempty"` // settlement reference, if any
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
