package story

import (
	"time"
)

// Story is a published philosophy narrative tied to a username. Price starts
// at the configured floor and only ever grows through valuations.
type Story struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"index;not null" json:"username"`
	Platform  string    `gorm:"not null" json:"platform"`
	Basename  string    `json:"basename"`
	Address   string    `gorm:"index;not null" json:"address"` // author wallet
	Body      string    `gorm:"type:text;not null" json:"story"`
	Price     float64   `gorm:"not null" json:"price"`
	Likes     int       `gorm:"default:0" json:"likes"`
	Liked     bool      `gorm:"default:false" json:"liked"` // viewer-local like flag
	Shares    int       `gorm:"default:0" json:"shares"`
	Comments  []Comment `gorm:"foreignKey:StoryID" json:"comments"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Comment is append-only; no edit or delete once written.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoryID   uint      `gorm:"index;not null" json:"-"`
	Author    string    `gorm:"not null" json:"author"`
	Basename  string    `json:"basename"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Notification tells an author something happened to one of their stories.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Address   string    `gorm:"index;not null" json:"address"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
