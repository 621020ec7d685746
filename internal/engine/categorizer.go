package engine

import (
	"strings"

	"chartgo/internal/domain"
)

// Digital keywords are checked before social ones, so "youtube" always lands
// in brand_say_digital.
var categoryRules = []struct {
	category domain.Category
	keywords []string
}{
	{
		category: domain.CategoryBrandSayDigital,
		keywords: []string{
			"digital video", "digital display", "display banners", "skippable",
			"online video", "search", "programmatic", "trade desk", "the trade desk",
			"dv360", "google ads", "youtube", "display",
		},
	},
	{
		category: domain.CategoryBrandSaySocial,
		keywords: []string{
			"paid social", "social", "meta", "facebook", "instagram", "tiktok",
			"pinterest", "twitter", "linkedin", "snapchat", "in-feed", "video pins",
			"static pins", "idea ads",
		},
	},
	{
		category: domain.CategoryOtherSaySocial,
		keywords: []string{
			"influencer", "ugc", "user generated", "creator", "partnership", "sponsored",
		},
	},
}

// Categorize assigns a category from the channel and platform text.
func Categorize(channel, platform string) domain.Category {
	combined := strings.ToLower(channel + " " + platform)

	for _, rule := range categoryRules {
		if containsAny(combined, rule.keywords...) {
			return rule.category
		}
	}

	return domain.CategoryUncategorized
}
