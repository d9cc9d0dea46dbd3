package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"namestory-backend/config"
	"namestory-backend/models/story"
	"namestory-backend/pkg/logger"
)

// StoryLedger owns the story collection. Every mutation passes through here;
// all validation happens before the store is touched, so a rejected call
// never changes anything.
type StoryLedger struct {
	store  StoryStore
	cfg    *config.Config
	log    *logger.Logger
	wallet *Wallet
}

func NewStoryLedger(store StoryStore, cfg *config.Config, log *logger.Logger) *StoryLedger {
	return &StoryLedger{store: store, cfg: cfg, log: log}
}

// WithWallet wires the earnings sink: successful valuations credit the story
// author's balance.
func (l *StoryLedger) WithWallet(w *Wallet) *StoryLedger {
	l.wallet = w
	return l
}

// CreateStoryInput carries the author-supplied fields. Everything else
// (price, counters, timestamps) is assigned here.
type CreateStoryInput struct {
	Username string
	Platform string
	Basename string
	Address  string
	Body     string
}

func (l *StoryLedger) CreateStory(ctx context.Context, in CreateStoryInput) (story.Story, error) {
	username := strings.TrimSpace(in.Username)
	body := strings.TrimSpace(in.Body)
	if username == "" {
		return story.Story{}, NewValidationError("username is required")
	}
	if body == "" {
		return story.Story{}, NewValidationError("story text is required")
	}
	if in.Platform != "" && !ValidPlatform(in.Platform) {
		return story.Story{}, NewValidationError("unknown platform %q", in.Platform)
	}

	s := story.Story{
		Username: username,
		Platform: in.Platform,
		Basename: in.Basename,
		Address:  in.Address,
		Body:     body,
		Price:    l.cfg.FloorPrice,
		Comments: []story.Comment{},
	}

	created, err := l.store.CreateStory(ctx, s)
	if err != nil {
		return story.Story{}, err
	}
	l.log.Info("story created", "story_id", created.ID, "username", created.Username)
	return created, nil
}

// ToggleLike flips the viewer-local like flag. Unknown ids and disconnected
// viewers are silent no-ops; two toggles always restore the original state.
func (l *StoryLedger) ToggleLike(ctx context.Context, viewer Identity, storyID uint) error {
	if !viewer.Connected() {
		return nil
	}
	s, err := l.store.GetStory(ctx, storyID)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}

	if s.Liked {
		s.Liked = false
		s.Likes--
	} else {
		s.Liked = true
		s.Likes++
	}
	_, err = l.store.UpdateStory(ctx, s)
	return err
}

func (l *StoryLedger) AddComment(ctx context.Context, viewer Identity, storyID uint, text string) (story.Comment, error) {
	if !viewer.Connected() {
		return story.Comment{}, NewValidationError("wallet not connected")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return story.Comment{}, NewValidationError("comment text is required")
	}

	c := story.Comment{
		Author:   viewer.DisplayName,
		Basename: viewer.Basename,
		Text:     text,
	}
	created, err := l.store.AppendComment(ctx, storyID, c)
	if err != nil {
		return story.Comment{}, err
	}

	l.notifyAuthor(ctx, storyID, viewer.Address, fmt.Sprintf("%s commented on your story", viewer.DisplayName))
	return created, nil
}

// ValueStory adds a valuation to the story price and credits the author's
// earnings. Price never drops and never goes below the floor.
func (l *StoryLedger) ValueStory(ctx context.Context, viewer Identity, storyID uint, amount float64) (story.Story, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return story.Story{}, NewValidationError("valuation must be a positive amount")
	}
	if amount < l.cfg.MinimumValuation {
		return story.Story{}, NewValidationError("valuation must be at least %.2f USDC", l.cfg.MinimumValuation)
	}

	s, err := l.store.GetStory(ctx, storyID)
	if err != nil {
		return story.Story{}, err
	}

	s.Price += amount
	updated, err := l.store.UpdateStory(ctx, s)
	if err != nil {
		return story.Story{}, err
	}

	if l.wallet != nil && updated.Address != "" {
		if _, err := l.wallet.Credit(ctx, updated.Address, amount); err != nil {
			l.log.Warn("earnings credit failed", "story_id", storyID, "error", err)
		}
	}

	l.notifyAuthor(ctx, storyID, viewer.Address, fmt.Sprintf("Your story was valued +%.2f USDC", amount))
	return updated, nil
}

func (l *StoryLedger) IncrementShare(ctx context.Context, storyID uint) (story.Story, error) {
	s, err := l.store.GetStory(ctx, storyID)
	if err != nil {
		return story.Story{}, err
	}
	s.Shares++
	return l.store.UpdateStory(ctx, s)
}

func (l *StoryLedger) GetStory(ctx context.Context, storyID uint) (story.Story, error) {
	return l.store.GetStory(ctx, storyID)
}

func (l *StoryLedger) ListComments(ctx context.Context, storyID uint) ([]story.Comment, error) {
	return l.store.ListComments(ctx, storyID)
}

func (l *StoryLedger) Notifications(ctx context.Context, address string) ([]story.Notification, error) {
	return l.store.ListNotifications(ctx, address)
}

func (l *StoryLedger) MarkNotificationRead(ctx context.Context, address string, id uint) error {
	return l.store.MarkNotificationRead(ctx, address, id)
}

// notifyAuthor is best-effort: the triggering mutation already committed.
// Authors acting on their own story are not notified.
func (l *StoryLedger) notifyAuthor(ctx context.Context, storyID uint, actor, message string) {
	s, err := l.store.GetStory(ctx, storyID)
	if err != nil || s.Address == "" || s.Address == actor {
		return
	}
	if _, err := l.store.CreateNotification(ctx, story.Notification{
		Address: s.Address,
		Message: message,
	}); err != nil {
		l.log.Warn("notification failed", "story_id", storyID, "error", err)
	}
}
