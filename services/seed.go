package services

import (
	"context"
	"time"

	"namestory-backend/models/story"
)

// SeedStories loads the demo feed the product ships with. Intended for fresh
// local environments; it does not check for existing data.
func SeedStories(ctx context.Context, store StoryStore) error {
	seeds := []story.Story{
		{
			Username: "SatoshiDreamer",
			Platform: "Base",
			Basename: "satoshi.base.eth",
			Address:  "0x7a8B000000000000000000000000000000003dEf",
			Body: "I chose SatoshiDreamer because Satoshi Nakamoto showed us that one person's vision can reshape the world. " +
				"This name reminds me every day that dreams, no matter how audacious, are worth pursuing.",
			Price:     2.50,
			Likes:     47,
			Shares:    12,
			CreatedAt: time.Date(2026, 2, 8, 14, 30, 0, 0, time.UTC),
			Comments: []story.Comment{
				{Author: "CryptoSage", Basename: "sage.base.eth", Text: "Beautiful philosophy! The dreamer spirit lives on.", CreatedAt: time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)},
			},
		},
		{
			Username: "LunaMoonrise",
			Platform: "Twitter",
			Basename: "luna.base.eth",
			Address:  "0x2b3C000000000000000000000000000000008fAb",
			Body: "Luna means moon in many languages. My grandmother always told me the moon watches over those who dare to wander at night. " +
				"Every sunrise after a long night is a reminder that light always returns.",
			Price:     5.25,
			Likes:     89,
			Shares:    23,
			CreatedAt: time.Date(2026, 2, 7, 9, 15, 0, 0, time.UTC),
			Comments: []story.Comment{
				{Author: "StarGazer", Basename: "star.base.eth", Text: "Your grandmother sounds incredibly wise.", CreatedAt: time.Date(2026, 2, 9, 8, 15, 0, 0, time.UTC)},
				{Author: "NightOwl", Basename: "owl.base.eth", Text: "The moon metaphor is perfect. Love this!", CreatedAt: time.Date(2026, 2, 9, 12, 30, 0, 0, time.UTC)},
			},
		},
		{
			Username: "PhoenixEth",
			Platform: "Base",
			Basename: "phoenix.base.eth",
			Address:  "0x4d5E000000000000000000000000000000001aBc",
			Body: "The Phoenix rises from its own ashes. I chose this name after losing everything in the 2022 bear market and rebuilding from scratch. " +
				"My name is my promise: no matter how many times I fall, I will rise again.",
			Price:     8.00,
			Likes:     134,
			Shares:    45,
			CreatedAt: time.Date(2026, 2, 6, 18, 45, 0, 0, time.UTC),
			Comments: []story.Comment{
				{Author: "DiamondHands", Basename: "diamond.base.eth", Text: "This resonates deeply. We are all phoenixes.", CreatedAt: time.Date(2026, 2, 10, 16, 45, 0, 0, time.UTC)},
			},
		},
		{
			Username: "ZenBuilder",
			Platform: "Instagram",
			Basename: "zen.base.eth",
			Address:  "0x6f7A000000000000000000000000000000004bCd",
			Body: "Zen is the art of seeing into the nature of one's own being. As a developer, I build with intention and mindfulness. " +
				"Every line of code, every smart contract, every dApp is a meditation.",
			Price:     3.75,
			Likes:     62,
			Shares:    8,
			CreatedAt: time.Date(2026, 2, 5, 11, 20, 0, 0, time.UTC),
		},
	}

	// Oldest first so the newest-first feed order matches creation order.
	for i := len(seeds) - 1; i >= 0; i-- {
		s := seeds[i]
		comments := s.Comments
		s.Comments = nil

		created, err := store.CreateStory(ctx, s)
		if err != nil {
			return err
		}
		for _, c := range comments {
			if _, err := store.AppendComment(ctx, created.ID, c); err != nil {
				return err
			}
		}
	}
	return nil
}
