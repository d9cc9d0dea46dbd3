package services

import (
	"context"
	"sort"
	"strings"

	"namestory-backend/models/story"
)

// PlatformAll is the filter sentinel that matches every platform.
const PlatformAll = "All"

// Platforms a username can come from, as shown in the composer.
var Platforms = []string{"Base", "Farcaster", "Zora", "Twitter", "Instagram", "TikTok", "Facebook", "Other"}

// ValidPlatform reports whether the name is one of the selectable platforms.
func ValidPlatform(name string) bool {
	for _, p := range Platforms {
		if p == name {
			return true
		}
	}
	return false
}

// Feed derives read-only views over the ledger. Views are recomputed on each
// query; the dataset is small and nothing is cached.
type Feed struct {
	store StoryStore
}

func NewFeed(store StoryStore) *Feed {
	return &Feed{store: store}
}

// Chronological returns stories newest-first.
func (f *Feed) Chronological(ctx context.Context) ([]story.Story, error) {
	return f.store.ListStories(ctx)
}

// Trending orders by price descending; ties break toward the newer story.
func (f *Feed) Trending(ctx context.Context) ([]story.Story, error) {
	stories, err := f.store.ListStories(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(stories, func(i, j int) bool {
		if stories[i].Price != stories[j].Price {
			return stories[i].Price > stories[j].Price
		}
		return stories[i].CreatedAt.After(stories[j].CreatedAt)
	})
	return stories, nil
}

// FilterByPlatform keeps stories whose platform matches exactly. The "All"
// sentinel (or an empty filter) passes everything through.
func FilterByPlatform(view []story.Story, platform string) []story.Story {
	if platform == "" || platform == PlatformAll {
		return view
	}
	out := make([]story.Story, 0, len(view))
	for _, s := range view {
		if s.Platform == platform {
			out = append(out, s)
		}
	}
	return out
}

// Search keeps stories whose username or basename contains the query,
// case-insensitively. An empty query matches everything.
func Search(view []story.Story, query string) []story.Story {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return view
	}
	out := make([]story.Story, 0, len(view))
	for _, s := range view {
		if strings.Contains(strings.ToLower(s.Username), query) ||
			strings.Contains(strings.ToLower(s.Basename), query) {
			out = append(out, s)
		}
	}
	return out
}

// ByAuthor returns the viewer's own published usernames (for pairing).
func (f *Feed) ByAuthor(ctx context.Context, address string) ([]story.Story, error) {
	stories, err := f.store.ListStories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]story.Story, 0, len(stories))
	for _, s := range stories {
		if s.Address == address {
			out = append(out, s)
		}
	}
	return out, nil
}

// Others returns everyone else's stories (the explore side of pairing).
func (f *Feed) Others(ctx context.Context, address string) ([]story.Story, error) {
	stories, err := f.store.ListStories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]story.Story, 0, len(stories))
	for _, s := range stories {
		if s.Address != address {
			out = append(out, s)
		}
	}
	return out, nil
}

// UserProfile is an aggregate row in the explore directory.
type UserProfile struct {
	Username   string  `json:"username"`
	Basename   string  `json:"basename"`
	Platform   string  `json:"platform"`
	Stories    int     `json:"stories"`
	TotalValue float64 `json:"totalValue"`
}

// Users aggregates the ledger into one row per username, ordered by total
// accumulated value descending.
func (f *Feed) Users(ctx context.Context) ([]UserProfile, error) {
	stories, err := f.store.ListStories(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*UserProfile)
	order := []string{}
	for _, s := range stories {
		p, ok := byName[s.Username]
		if !ok {
			p = &UserProfile{Username: s.Username, Basename: s.Basename, Platform: s.Platform}
			byName[s.Username] = p
			order = append(order, s.Username)
		}
		p.Stories++
		p.TotalValue += s.Price
	}

	out := make([]UserProfile, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalValue > out[j].TotalValue
	})
	return out, nil
}
