package users

import (
	"time"
)

// WalletAccount is the session-facing identity: a connected wallet address
// plus the display fields shown next to stories, and the USDC earnings
// balance accrued from valuations of the owner's stories.
type WalletAccount struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	Address     string         `gorm:"uniqueIndex;not null" json:"address"`
	DisplayName string         `json:"displayName"`
	Basename    string         `json:"basename"`
	Balance     float64        `gorm:"default:0" json:"balance"`
	Follows     []Follow       `gorm:"foreignKey:WalletID" json:"follows"`
	Links       []PlatformLink `gorm:"foreignKey:WalletID" json:"links"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"-"`
}

// Follow marks that a wallet follows a username in the explore directory.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	WalletID  uint      `gorm:"index;not null" json:"-"`
	Username  string    `gorm:"not null" json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlatformLink records an OAuth-verified external account (Twitter, Google,
// ...) attached to a wallet.
type PlatformLink struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	WalletID    uint      `gorm:"index;not null" json:"-"`
	Platform    string    `gorm:"not null" json:"platform"`
	Handle      string    `json:"handle"`
	AccessToken string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
