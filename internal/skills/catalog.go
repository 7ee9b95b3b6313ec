package skills

import (
	"encoding/json"
	"strings"
)

// ToolDescriptor is a raw tool definition, the unit the base catalog and any
// dynamic plugin source contribute before conversion to a Skill.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// ToolCatalogLoader supplies additional tool descriptors at registry
// construction time — the dynamic plugin contribution of spec.md §4.4. The
// Go runtime has no dynamic import step, so loading is eager at
// NewRegistry() rather than lazy (SPEC_FULL.md §13 decision 4).
type ToolCatalogLoader interface {
	LoadTools() ([]ToolDescriptor, error)
}

// LoaderFunc adapts a plain function to ToolCatalogLoader.
type LoaderFunc func() ([]ToolDescriptor, error)

func (f LoaderFunc) LoadTools() ([]ToolDescriptor, error) { return f() }

// NoopLoader contributes nothing, for runtimes without a plugin source.
var NoopLoader = LoaderFunc(func() ([]ToolDescriptor, error) { return nil, nil })

// baseCatalog is the static set of tool descriptors always present,
// covering every category InferCategory recognizes so the registry never
// ships with an empty bucket.
func baseCatalog() []ToolDescriptor {
	return []ToolDescriptor{
		{Name: "x_get_profile", Description: "Fetch a user's public profile",
			InputSchema: schema("username", "string", "The handle to look up")},
		{Name: "x_get_timeline", Description: "Fetch a user's recent timeline",
			InputSchema: schema("username", "string", "The handle whose timeline to fetch")},
		{Name: "x_scrape_followers", Description: "Scrape the follower list of an account",
			InputSchema: schema("username", "string", "The handle whose followers to scrape")},
		{Name: "x_post_tweet", Description: "Post a new tweet",
			InputSchema: schema("text", "string", "The tweet body")},
		{Name: "x_reply_to_tweet", Description: "Reply to an existing tweet",
			InputSchema: schema("tweet_id", "string", "The tweet to reply to")},
		{Name: "x_retweet", Description: "Retweet an existing tweet",
			InputSchema: schema("tweet_id", "string", "The tweet to retweet")},
		{Name: "x_like_tweet", Description: "Like a tweet",
			InputSchema: schema("tweet_id", "string", "The tweet to like")},
		{Name: "x_follow_user", Description: "Follow a user",
			InputSchema: schema("username", "string", "The handle to follow")},
		{Name: "x_analytics_engagement", Description: "Compute engagement analytics for a tweet",
			InputSchema: schema("tweet_id", "string", "The tweet to analyze")},
		{Name: "x_account_update_profile", Description: "Update the authenticated account's profile fields",
			InputSchema: schema("bio", "string", "New bio text")},
		{Name: "x_search_tweets", Description: "Search recent tweets by query, optionally across bluesky and mastodon",
			InputSchema: schema("query", "string", "The search query")},
		{Name: "x_dm_send", Description: "Send a direct message to a user",
			InputSchema: schema("username", "string", "The recipient handle")},
		{Name: "x_compare_profiles", Description: "Compare two previously fetched profiles and summarize the differences",
			InputSchema: schema("profileA", "object", "The first account's profile data")},
	}
}

func schema(field, typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			field: map[string]interface{}{"type": typ, "description": description},
		},
		"required": []string{field},
	}
}

// schemaText flattens an input schema to lowercase text for platform
// keyword scanning (InferPlatforms looks for e.g. "bluesky" in it).
func schemaText(schema map[string]interface{}) string {
	if schema == nil {
		return ""
	}
	b, err := json.Marshal(schema)
	if err != nil {
		return ""
	}
	return strings.ToLower(string(b))
}

// displayName title-cases the tokens of a tool name after stripping a
// leading "x_" prefix, per spec.md §4.4.
func displayName(toolName string) string {
	trimmed := strings.TrimPrefix(toolName, "x_")
	tokens := strings.Split(trimmed, "_")
	for i, tok := range tokens {
		if tok == "" {
			continue
		}
		tokens[i] = strings.ToUpper(tok[:1]) + tok[1:]
	}
	return strings.Join(tokens, " ")
}

// toSkill converts a raw tool descriptor into the A2A skill shape, per
// spec.md §4.4: namespaced id, title-cased display name, tags combining
// name tokens + inferred category + inferred platforms.
func toSkill(t ToolDescriptor) Skill {
	category := InferCategory(t.Name)
	platforms := InferPlatforms(t.Description, schemaText(t.InputSchema))

	tags := strings.Split(strings.TrimPrefix(t.Name, "x_"), "_")
	tags = append(tags, string(category))
	tags = append(tags, platforms...)

	return Skill{
		ID:          "xactions." + t.Name,
		Name:        displayName(t.Name),
		Description: t.Description,
		Category:    category,
		Platforms:   platforms,
		Tags:        dedupeTags(tags),
		InputSchema: t.InputSchema,
		OutputSchema: map[string]interface{}{
			"type": "object",
		},
	}
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
