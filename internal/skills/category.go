package skills

import "strings"

// Category buckets a skill by the kind of social-platform action it
// performs, per SPEC_FULL.md §12's expansion of spec.md §4.4's two worked
// examples (scraping, posting) into a fuller set so "other" doesn't become
// the majority bucket for a realistic tool catalog.
type Category string

const (
	CategoryScraping   Category = "scraping"
	CategoryPosting    Category = "posting"
	CategoryEngagement Category = "engagement"
	CategoryAnalytics  Category = "analytics"
	CategoryAccount    Category = "account"
	CategorySearch     Category = "search"
	CategoryMessaging  Category = "messaging"
	CategoryOther      Category = "other"
)

// categoryRule pairs a category with the name prefixes that select it. The
// first rule whose prefix matches wins (spec.md §4.4: "the first matching
// category wins").
type categoryRule struct {
	category Category
	prefixes []string
}

var categoryRules = []categoryRule{
	{CategoryScraping, []string{"x_get_", "x_scrape_", "x_fetch_", "x_read_"}},
	{CategoryPosting, []string{"x_post_", "x_reply", "x_retweet", "x_quote_", "x_publish_"}},
	{CategoryEngagement, []string{"x_like", "x_favorite", "x_follow", "x_unfollow", "x_retweet_", "x_unlike", "x_block", "x_mute"}},
	{CategoryAnalytics, []string{"x_analytics_", "x_stats_", "x_metrics_", "x_report_"}},
	{CategoryAccount, []string{"x_account_", "x_profile_", "x_settings_", "x_update_profile"}},
	{CategorySearch, []string{"x_search_", "x_find_", "x_query_"}},
	{CategoryMessaging, []string{"x_dm_", "x_message_", "x_send_message"}},
}

// InferCategory classifies a tool name by its leading prefix, falling
// through to CategoryOther when no rule matches.
func InferCategory(toolName string) Category {
	name := strings.ToLower(toolName)
	for _, rule := range categoryRules {
		for _, prefix := range rule.prefixes {
			if strings.HasPrefix(name, prefix) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// platformKeywords maps a secondary platform to the keyword that, found in
// a tool's description or input schema, advertises support for it. The
// primary platform (twitter) is always advertised (spec.md §4.4).
var platformKeywords = map[string]string{
	"bluesky":  "bluesky",
	"mastodon": "mastodon",
	"threads":  "threads",
}

// InferPlatforms always includes "twitter", plus any secondary platform
// whose keyword appears in description or schemaText (case-insensitive).
func InferPlatforms(description, schemaText string) []string {
	platforms := []string{"twitter"}
	haystack := strings.ToLower(description + " " + schemaText)
	for _, name := range []string{"bluesky", "mastodon", "threads"} {
		if strings.Contains(haystack, platformKeywords[name]) {
			platforms = append(platforms, name)
		}
	}
	return platforms
}
