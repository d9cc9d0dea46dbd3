package services

import (
	"context"
	"sync"
	"time"

	"namestory-backend/models/pair"
	"namestory-backend/models/story"
	"namestory-backend/models/users"
)

// MemoryStoryStore keeps stories in a newest-first slice. Every mutation
// builds a fresh slice and fresh records (copy-on-write), so snapshots handed
// to readers are never touched again.
type MemoryStoryStore struct {
	mu            sync.RWMutex
	stories       []story.Story
	notifications []story.Notification
	nextStoryID   uint
	nextCommentID uint
	nextNotifID   uint
}

func NewMemoryStoryStore() *MemoryStoryStore {
	return &MemoryStoryStore{}
}

func cloneStory(s story.Story) story.Story {
	out := s
	out.Comments = make([]story.Comment, len(s.Comments))
	copy(out.Comments, s.Comments)
	return out
}

func (m *MemoryStoryStore) CreateStory(ctx context.Context, s story.Story) (story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextStoryID++
	s.ID = m.nextStoryID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.Comments == nil {
		s.Comments = []story.Comment{}
	}

	next := make([]story.Story, 0, len(m.stories)+1)
	next = append(next, s)
	next = append(next, m.stories...)
	m.stories = next
	return cloneStory(s), nil
}

func (m *MemoryStoryStore) GetStory(ctx context.Context, id uint) (story.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.stories {
		if s.ID == id {
			return cloneStory(s), nil
		}
	}
	return story.Story{}, NewNotFoundError("story", id)
}

func (m *MemoryStoryStore) UpdateStory(ctx context.Context, s story.Story) (story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]story.Story, len(m.stories))
	found := false
	for i, cur := range m.stories {
		if cur.ID == s.ID {
			next[i] = cloneStory(s)
			found = true
		} else {
			next[i] = cur
		}
	}
	if !found {
		return story.Story{}, NewNotFoundError("story", s.ID)
	}
	m.stories = next
	return cloneStory(s), nil
}

func (m *MemoryStoryStore) ListStories(ctx context.Context) ([]story.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]story.Story, len(m.stories))
	for i, s := range m.stories {
		out[i] = cloneStory(s)
	}
	return out, nil
}

func (m *MemoryStoryStore) AppendComment(ctx context.Context, storyID uint, c story.Comment) (story.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, cur := range m.stories {
		if cur.ID != storyID {
			continue
		}
		m.nextCommentID++
		c.ID = m.nextCommentID
		c.StoryID = storyID
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}

		updated := cloneStory(cur)
		updated.Comments = append(updated.Comments, c)

		next := make([]story.Story, len(m.stories))
		copy(next, m.stories)
		next[i] = updated
		m.stories = next
		return c, nil
	}
	return story.Comment{}, NewNotFoundError("story", storyID)
}

func (m *MemoryStoryStore) ListComments(ctx context.Context, storyID uint) ([]story.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.stories {
		if s.ID == storyID {
			out := make([]story.Comment, len(s.Comments))
			copy(out, s.Comments)
			return out, nil
		}
	}
	return nil, NewNotFoundError("story", storyID)
}

func (m *MemoryStoryStore) CreateNotification(ctx context.Context, n story.Notification) (story.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextNotifID++
	n.ID = m.nextNotifID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	m.notifications = append(append([]story.Notification{}, m.notifications...), n)
	return n, nil
}

func (m *MemoryStoryStore) ListNotifications(ctx context.Context, address string) ([]story.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []story.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].Address == address {
			out = append(out, m.notifications[i])
		}
	}
	return out, nil
}

func (m *MemoryStoryStore) MarkNotificationRead(ctx context.Context, address string, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]story.Notification, len(m.notifications))
	copy(next, m.notifications)
	for i, n := range next {
		if n.ID == id && n.Address == address {
			next[i].IsRead = true
			m.notifications = next
			return nil
		}
	}
	return NewNotFoundError("notification", id)
}

// MemoryPairStore keeps paired assets and their trade logs in memory with the
// same copy-on-write discipline.
type MemoryPairStore struct {
	mu          sync.RWMutex
	pairs       []pair.PairedAsset
	nextPairID  uint
	nextTradeID uint
}

func NewMemoryPairStore() *MemoryPairStore {
	return &MemoryPairStore{}
}

func clonePair(p pair.PairedAsset) pair.PairedAsset {
	out := p
	out.Trades = make([]pair.Trade, len(p.Trades))
	copy(out.Trades, p.Trades)
	return out
}

func (m *MemoryPairStore) CreatePair(ctx context.Context, p pair.PairedAsset) (pair.PairedAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextPairID++
	p.ID = m.nextPairID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Trades == nil {
		p.Trades = []pair.Trade{}
	}
	m.pairs = append(append([]pair.PairedAsset{}, m.pairs...), p)
	return clonePair(p), nil
}

func (m *MemoryPairStore) GetPair(ctx context.Context, id uint) (pair.PairedAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.pairs {
		if p.ID == id {
			return clonePair(p), nil
		}
	}
	return pair.PairedAsset{}, NewNotFoundError("pair", id)
}

func (m *MemoryPairStore) ListPairs(ctx context.Context) ([]pair.PairedAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]pair.PairedAsset, len(m.pairs))
	for i, p := range m.pairs {
		out[i] = clonePair(p)
	}
	return out, nil
}

func (m *MemoryPairStore) AppendTrade(ctx context.Context, pairID uint, t pair.Trade) (pair.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, cur := range m.pairs {
		if cur.ID != pairID {
			continue
		}
		m.nextTradeID++
		t.ID = m.nextTradeID
		t.PairID = pairID
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now().UTC()
		}

		updated := clonePair(cur)
		updated.Trades = append(updated.Trades, t)
		updated.CurrentPrice = t.Price

		next := make([]pair.PairedAsset, len(m.pairs))
		copy(next, m.pairs)
		next[i] = updated
		m.pairs = next
		return t, nil
	}
	return pair.Trade{}, NewNotFoundError("pair", pairID)
}

func (m *MemoryPairStore) ListTrades(ctx context.Context, pairID uint) ([]pair.Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.pairs {
		if p.ID == pairID {
			out := make([]pair.Trade, len(p.Trades))
			copy(out, p.Trades)
			return out, nil
		}
	}
	return nil, NewNotFoundError("pair", pairID)
}

// MemoryWalletStore keeps wallet accounts keyed by address.
type MemoryWalletStore struct {
	mu       sync.RWMutex
	wallets  map[string]users.WalletAccount
	nextID   uint
	nextSub  uint // follow / link ids
}

func NewMemoryWalletStore() *MemoryWalletStore {
	return &MemoryWalletStore{wallets: make(map[string]users.WalletAccount)}
}

func cloneWallet(w users.WalletAccount) users.WalletAccount {
	out := w
	out.Follows = make([]users.Follow, len(w.Follows))
	copy(out.Follows, w.Follows)
	out.Links = make([]users.PlatformLink, len(w.Links))
	copy(out.Links, w.Links)
	return out
}

func (m *MemoryWalletStore) getOrCreate(address string) users.WalletAccount {
	w, ok := m.wallets[address]
	if !ok {
		m.nextID++
		w = users.WalletAccount{
			ID:        m.nextID,
			Address:   address,
			CreatedAt: time.Now().UTC(),
		}
	}
	return w
}

func (m *MemoryWalletStore) UpsertWallet(ctx context.Context, in users.WalletAccount) (users.WalletAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.getOrCreate(in.Address)
	if in.DisplayName != "" {
		w.DisplayName = in.DisplayName
	}
	if in.Basename != "" {
		w.Basename = in.Basename
	}
	w.UpdatedAt = time.Now().UTC()
	m.wallets[w.Address] = w
	return cloneWallet(w), nil
}

func (m *MemoryWalletStore) GetWallet(ctx context.Context, address string) (users.WalletAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w, ok := m.wallets[address]
	if !ok {
		return users.WalletAccount{}, NewNotFoundKeyError("wallet", address)
	}
	return cloneWallet(w), nil
}

func (m *MemoryWalletStore) CreditWallet(ctx context.Context, address string, amount float64) (users.WalletAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.getOrCreate(address)
	w.Balance += amount
	w.UpdatedAt = time.Now().UTC()
	m.wallets[w.Address] = w
	return cloneWallet(w), nil
}

func (m *MemoryWalletStore) DebitWallet(ctx context.Context, address string, amount float64) (users.WalletAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wallets[address]
	if !ok {
		return users.WalletAccount{}, NewNotFoundKeyError("wallet", address)
	}
	if w.Balance < amount {
		return users.WalletAccount{}, NewValidationError("insufficient balance: %.2f < %.2f", w.Balance, amount)
	}
	w.Balance -= amount
	w.UpdatedAt = time.Now().UTC()
	m.wallets[w.Address] = w
	return cloneWallet(w), nil
}

func (m *MemoryWalletStore) ToggleFollow(ctx context.Context, address, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.getOrCreate(address)
	for i, f := range w.Follows {
		if f.Username == username {
			w.Follows = append(append([]users.Follow{}, w.Follows[:i]...), w.Follows[i+1:]...)
			m.wallets[w.Address] = w
			return false, nil
		}
	}
	m.nextSub++
	w.Follows = append(append([]users.Follow{}, w.Follows...), users.Follow{
		ID:        m.nextSub,
		WalletID:  w.ID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	})
	m.wallets[w.Address] = w
	return true, nil
}

func (m *MemoryWalletStore) ListFollows(ctx context.Context, address string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w, ok := m.wallets[address]
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(w.Follows))
	for _, f := range w.Follows {
		out = append(out, f.Username)
	}
	return out, nil
}

func (m *MemoryWalletStore) AddPlatformLink(ctx context.Context, address string, link users.PlatformLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.getOrCreate(address)
	m.nextSub++
	link.ID = m.nextSub
	link.WalletID = w.ID
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	w.Links = append(append([]users.PlatformLink{}, w.Links...), link)
	m.wallets[w.Address] = w
	return nil
}
