package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferCategory_TableDriven(t *testing.T) {
	cases := []struct {
		name string
		want Category
	}{
		{"x_get_profile", CategoryScraping},
		{"x_scrape_followers", CategoryScraping},
		{"x_post_tweet", CategoryPosting},
		{"x_reply_to_tweet", CategoryPosting},
		{"x_like_tweet", CategoryEngagement},
		{"x_follow_user", CategoryEngagement},
		{"x_analytics_engagement", CategoryAnalytics},
		{"x_account_update_profile", CategoryAccount},
		{"x_search_tweets", CategorySearch},
		{"x_dm_send", CategoryMessaging},
		{"x_totally_unknown_thing", CategoryOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferCategory(tc.name))
		})
	}
}

func TestInferPlatforms_AlwaysIncludesTwitter(t *testing.T) {
	platforms := InferPlatforms("do a thing", "")
	assert.Contains(t, platforms, "twitter")
	assert.Len(t, platforms, 1)
}

func TestInferPlatforms_SecondaryByKeyword(t *testing.T) {
	platforms := InferPlatforms("search recent tweets, optionally across bluesky and mastodon", "")
	assert.Contains(t, platforms, "twitter")
	assert.Contains(t, platforms, "bluesky")
	assert.Contains(t, platforms, "mastodon")
	assert.NotContains(t, platforms, "threads")
}
