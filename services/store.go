package services

import (
	"context"

	"namestory-backend/models/pair"
	"namestory-backend/models/story"
	"namestory-backend/models/users"
)

// StoryStore is the persistence boundary for stories and their append-only
// comment threads. ListStories returns newest-first. Implementations must
// replace records wholesale on update so readers never observe a partially
// written story.
type StoryStore interface {
	CreateStory(ctx context.Context, s story.Story) (story.Story, error)
	GetStory(ctx context.Context, id uint) (story.Story, error)
	UpdateStory(ctx context.Context, s story.Story) (story.Story, error)
	ListStories(ctx context.Context) ([]story.Story, error)

	AppendComment(ctx context.Context, storyID uint, c story.Comment) (story.Comment, error)
	ListComments(ctx context.Context, storyID uint) ([]story.Comment, error)

	CreateNotification(ctx context.Context, n story.Notification) (story.Notification, error)
	ListNotifications(ctx context.Context, address string) ([]story.Notification, error)
	MarkNotificationRead(ctx context.Context, address string, id uint) error
}

// PairStore owns paired assets and their trade logs. AppendTrade must append
// the trade and move the pair's current price to the trade price in one
// atomic step.
type PairStore interface {
	CreatePair(ctx context.Context, p pair.PairedAsset) (pair.PairedAsset, error)
	GetPair(ctx context.Context, id uint) (pair.PairedAsset, error)
	ListPairs(ctx context.Context) ([]pair.PairedAsset, error)

	AppendTrade(ctx context.Context, pairID uint, t pair.Trade) (pair.Trade, error)
	ListTrades(ctx context.Context, pairID uint) ([]pair.Trade, error)
}

// WalletStore keeps connected wallet accounts, their earnings balances,
// follow toggles and linked platform accounts.
type WalletStore interface {
	UpsertWallet(ctx context.Context, w users.WalletAccount) (users.WalletAccount, error)
	GetWallet(ctx context.Context, address string) (users.WalletAccount, error)
	CreditWallet(ctx context.Context, address string, amount float64) (users.WalletAccount, error)
	DebitWallet(ctx context.Context, address string, amount float64) (users.WalletAccount, error)
	ToggleFollow(ctx context.Context, address, username string) (bool, error)
	ListFollows(ctx context.Context, address string) ([]string, error)
	AddPlatformLink(ctx context.Context, address string, link users.PlatformLink) error
}
