package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"namestory-backend/models/pair"
	"namestory-backend/models/story"
	"namestory-backend/models/users"
)

// GormStoryStore persists stories in Postgres.
type GormStoryStore struct {
	db *gorm.DB
}

func NewGormStoryStore(db *gorm.DB) *GormStoryStore {
	return &GormStoryStore{db: db}
}

func (g *GormStoryStore) CreateStory(ctx context.Context, s story.Story) (story.Story, error) {
	if err := g.db.WithContext(ctx).Create(&s).Error; err != nil {
		return story.Story{}, NewCollaboratorError("create story", err)
	}
	if s.Comments == nil {
		s.Comments = []story.Comment{}
	}
	return s, nil
}

func (g *GormStoryStore) GetStory(ctx context.Context, id uint) (story.Story, error) {
	var s story.Story
	err := g.db.WithContext(ctx).Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("comments.created_at ASC")
	}).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return story.Story{}, NewNotFoundError("story", id)
	}
	if err != nil {
		return story.Story{}, NewCollaboratorError("get story", err)
	}
	return s, nil
}

func (g *GormStoryStore) UpdateStory(ctx context.Context, s story.Story) (story.Story, error) {
	res := g.db.WithContext(ctx).Model(&story.Story{}).Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"price":  s.Price,
			"likes":  s.Likes,
			"liked":  s.Liked,
			"shares": s.Shares,
		})
	if res.Error != nil {
		return story.Story{}, NewCollaboratorError("update story", res.Error)
	}
	if res.RowsAffected == 0 {
		return story.Story{}, NewNotFoundError("story", s.ID)
	}
	return s, nil
}

func (g *GormStoryStore) ListStories(ctx context.Context) ([]story.Story, error) {
	var out []story.Story
	err := g.db.WithContext(ctx).Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("comments.created_at ASC")
	}).Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, NewCollaboratorError("list stories", err)
	}
	return out, nil
}

func (g *GormStoryStore) AppendComment(ctx context.Context, storyID uint, c story.Comment) (story.Comment, error) {
	var s story.Story
	if err := g.db.WithContext(ctx).First(&s, storyID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return story.Comment{}, NewNotFoundError("story", storyID)
	} else if err != nil {
		return story.Comment{}, NewCollaboratorError("get story", err)
	}
	c.StoryID = storyID
	if err := g.db.WithContext(ctx).Create(&c).Error; err != nil {
		return story.Comment{}, NewCollaboratorError("append comment", err)
	}
	return c, nil
}

func (g *GormStoryStore) ListComments(ctx context.Context, storyID uint) ([]story.Comment, error) {
	var out []story.Comment
	err := g.db.WithContext(ctx).Where("story_id = ?", storyID).
		Order("created_at ASC").Find(&out).Error
	if err != nil {
		return nil, NewCollaboratorError("list comments", err)
	}
	return out, nil
}

func (g *GormStoryStore) CreateNotification(ctx context.Context, n story.Notification) (story.Notification, error) {
	if err := g.db.WithContext(ctx).Create(&n).Error; err != nil {
		return story.Notification{}, NewCollaboratorError("create notification", err)
	}
	return n, nil
}

func (g *GormStoryStore) ListNotifications(ctx context.Context, address string) ([]story.Notification, error) {
	var out []story.Notification
	err := g.db.WithContext(ctx).Where("address = ?", address).
		Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, NewCollaboratorError("list notifications", err)
	}
	return out, nil
}

func (g *GormStoryStore) MarkNotificationRead(ctx context.Context, address string, id uint) error {
	res := g.db.WithContext(ctx).Model(&story.Notification{}).
		Where("id = ? AND address = ?", id, address).Update("is_read", true)
	if res.Error != nil {
		return NewCollaboratorError("mark notification read", res.Error)
	}
	if res.RowsAffected == 0 {
		return NewNotFoundError("notification", id)
	}
	return nil
}

// GormPairStore persists paired assets and trades in Postgres.
type GormPairStore struct {
	db *gorm.DB
}

func NewGormPairStore(db *gorm.DB) *GormPairStore {
	return &GormPairStore{db: db}
}

func (g *GormPairStore) CreatePair(ctx context.Context, p pair.PairedAsset) (pair.PairedAsset, error) {
	if err := g.db.WithContext(ctx).Create(&p).Error; err != nil {
		return pair.PairedAsset{}, NewCollaboratorError("create pair", err)
	}
	if p.Trades == nil {
		p.Trades = []pair.Trade{}
	}
	return p, nil
}

func (g *GormPairStore) GetPair(ctx context.Context, id uint) (pair.PairedAsset, error) {
	var p pair.PairedAsset
	err := g.db.WithContext(ctx).Preload("Trades", func(db *gorm.DB) *gorm.DB {
		return db.Order("trades.created_at ASC")
	}).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pair.PairedAsset{}, NewNotFoundError("pair", id)
	}
	if err != nil {
		return pair.PairedAsset{}, NewCollaboratorError("get pair", err)
	}
	return p, nil
}

func (g *GormPairStore) ListPairs(ctx context.Context) ([]pair.PairedAsset, error) {
	var out []pair.PairedAsset
	err := g.db.WithContext(ctx).Preload("Trades").Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, NewCollaboratorError("list pairs", err)
	}
	return out, nil
}

// AppendTrade writes the trade and the new last price in one transaction, so
// a failure never leaves a trade without its price move.
func (g *GormPairStore) AppendTrade(ctx context.Context, pairID uint, t pair.Trade) (pair.Trade, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p pair.PairedAsset
		if err := tx.First(&p, pairID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("pair", pairID)
		} else if err != nil {
			return err
		}
		t.PairID = pairID
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		return tx.Model(&pair.PairedAsset{}).Where("id = ?", pairID).
			Update("current_price", t.Price).Error
	})
	if err != nil {
		if IsNotFound(err) {
			return pair.Trade{}, err
		}
		return pair.Trade{}, NewCollaboratorError("append trade", err)
	}
	return t, nil
}

func (g *GormPairStore) ListTrades(ctx context.Context, pairID uint) ([]pair.Trade, error) {
	var out []pair.Trade
	err := g.db.WithContext(ctx).Where("pair_id = ?", pairID).
		Order("created_at ASC").Find(&out).Error
	if err != nil {
		return nil, NewCollaboratorError("list trades", err)
	}
	return out, nil
}

// GormWalletStore persists wallet accounts in Postgres.
type GormWalletStore struct {
	db *gorm.DB
}

func NewGormWalletStore(db *gorm.DB) *GormWalletStore {
	return &GormWalletStore{db: db}
}

func (g *GormWalletStore) UpsertWallet(ctx context.Context, in users.WalletAccount) (users.WalletAccount, error) {
	var w users.WalletAccount
	err := g.db.WithContext(ctx).Where("address = ?", in.Address).First(&w).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := g.db.WithContext(ctx).Create(&in).Error; err != nil {
			return users.WalletAccount{}, NewCollaboratorError("create wallet", err)
		}
		return in, nil
	case err != nil:
		return users.WalletAccount{}, NewCollaboratorError("get wallet", err)
	}

	if in.DisplayName != "" {
		w.DisplayName = in.DisplayName
	}
	if in.Basename != "" {
		w.Basename = in.Basename
	}
	if err := g.db.WithContext(ctx).Save(&w).Error; err != nil {
		return users.WalletAccount{}, NewCollaboratorError("update wallet", err)
	}
	return w, nil
}

func (g *GormWalletStore) GetWallet(ctx context.Context, address string) (users.WalletAccount, error) {
	var w users.WalletAccount
	err := g.db.WithContext(ctx).Preload("Follows").Preload("Links").
		Where("address = ?", address).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return users.WalletAccount{}, NewNotFoundKeyError("wallet", address)
	}
	if err != nil {
		return users.WalletAccount{}, NewCollaboratorError("get wallet", err)
	}
	return w, nil
}

func (g *GormWalletStore) CreditWallet(ctx context.Context, address string, amount float64) (users.WalletAccount, error) {
	var w users.WalletAccount
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("address = ?", address).First(&w).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w = users.WalletAccount{Address: address, Balance: amount}
			return tx.Create(&w).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&w).Update("balance", gorm.Expr("balance + ?", amount)).Error
	})
	if err != nil {
		return users.WalletAccount{}, NewCollaboratorError("credit wallet", err)
	}
	return g.GetWallet(ctx, address)
}

func (g *GormWalletStore) DebitWallet(ctx context.Context, address string, amount float64) (users.WalletAccount, error) {
	var w users.WalletAccount
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("address = ?", address).First(&w).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundKeyError("wallet", address)
		}
		if err != nil {
			return err
		}
		if w.Balance < amount {
			return NewValidationError("insufficient balance: %.2f < %.2f", w.Balance, amount)
		}
		w.Balance -= amount
		return tx.Model(&users.WalletAccount{}).Where("address = ?", address).
			Update("balance", w.Balance).Error
	})
	if err != nil {
		if IsNotFound(err) || IsValidation(err) {
			return users.WalletAccount{}, err
		}
		return users.WalletAccount{}, NewCollaboratorError("debit wallet", err)
	}
	return w, nil
}

func (g *GormWalletStore) ToggleFollow(ctx context.Context, address, username string) (bool, error) {
	w, err := g.UpsertWallet(ctx, users.WalletAccount{Address: address})
	if err != nil {
		return false, err
	}
	var existing users.Follow
	err = g.db.WithContext(ctx).Where("wallet_id = ? AND username = ?", w.ID, username).
		First(&existing).Error
	if err == nil {
		if err := g.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, NewCollaboratorError("unfollow", err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, NewCollaboratorError("get follow", err)
	}
	follow := users.Follow{WalletID: w.ID, Username: username}
	if err := g.db.WithContext(ctx).Create(&follow).Error; err != nil {
		return false, NewCollaboratorError("follow", err)
	}
	return true, nil
}

func (g *GormWalletStore) ListFollows(ctx context.Context, address string) ([]string, error) {
	w, err := g.GetWallet(ctx, address)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(w.Follows))
	for _, f := range w.Follows {
		out = append(out, f.Username)
	}
	return out, nil
}

func (g *GormWalletStore) AddPlatformLink(ctx context.Context, address string, link users.PlatformLink) error {
	w, err := g.UpsertWallet(ctx, users.WalletAccount{Address: address})
	if err != nil {
		return err
	}
	link.WalletID = w.ID
	if err := g.db.WithContext(ctx).Create(&link).Error; err != nil {
		return NewCollaboratorError("add platform link", err)
	}
	return nil
}
