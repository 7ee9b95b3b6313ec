// Package orchestrate implements the Orchestrator (C10 of SPEC_FULL.md):
// pattern-based task decomposition, $stepN reference resolution,
// planning-only parallel/sequential classification, trust-ranked agent
// selection and remote delegation, and the sequential execution loop that
// ties them together. Grounded on the teacher's pkg/adk/executor package
// for the event-driven progress-callback shape and on
// hashicorp/go-multierror (present in the teacher's own go.mod) for
// aggregating per-step failures into the run's overall error.
package orchestrate

import (
	"regexp"
	"strings"
)

// StepSpec is one decomposed unit of work, per spec.md §4.8. Deps holds
// the 1-based indices (matching $stepN references) of steps that must
// complete before this one starts.
type StepSpec struct {
	Skill  string                 `json:"skill"`
	Params map[string]interface{} `json:"params"`
	Label  string                 `json:"label"`
	Deps   []int                  `json:"deps,omitempty"`
}

type patternRule struct {
	name  string
	re    *regexp.Regexp
	build func(groups []string) []StepSpec
}

// patternRules is the ordered list spec.md §4.8 names: "match the task
// description against an ordered list of patterns". The first match
// wins. Patterns are anchored and case-insensitive.
var patternRules = []patternRule{
	{
		name: "post-then-reply",
		re:   regexp.MustCompile(`(?i)^post\s+(?:a\s+)?tweet\s+(?:saying\s+)?"([^"]+)"\s*,?\s*then\s+reply(?:\s+to\s+it)?\s+(?:with\s+)?"([^"]+)"$`),
		build: func(g []string) []StepSpec {
			return []StepSpec{
				{Skill: "x_post_tweet", Params: map[string]interface{}{"text": g[1]}, Label: "post tweet"},
				{Skill: "x_reply_to_tweet", Params: map[string]interface{}{"tweetId": "$step1.id", "text": g[2]}, Label: "reply to the posted tweet", Deps: []int{1}},
			}
		},
	},
	{
		name: "post-tweet",
		re:   regexp.MustCompile(`(?i)^post\s+(?:a\s+)?tweet\s+(?:saying\s+)?"([^"]+)"$`),
		build: func(g []string) []StepSpec {
			return []StepSpec{{Skill: "x_post_tweet", Params: map[string]interface{}{"text": g[1]}, Label: "post tweet"}}
		},
	},
	{
		name: "scrape-followers",
		re:   regexp.MustCompile(`(?i)^scrape\s+followers\s+(?:of|for)\s+@?([A-Za-z0-9_]+)$`),
		build: func(g []string) []StepSpec {
			return []StepSpec{{Skill: "x_scrape_followers", Params: map[string]interface{}{"username": g[1]}, Label: "scrape followers"}}
		},
	},
	{
		name: "search-then-analyze",
		re:   regexp.MustCompile(`(?i)^search\s+(?:for\s+)?"([^"]+)"\s*,?\s*then\s+analy[sz]e\s+engagement$`),
		build: func(g []string) []StepSpec {
			return []StepSpec{
				{Skill: "x_search_tweets", Params: map[string]interface{}{"query": g[1]}, Label: "search tweets"},
				{Skill: "x_analytics_engagement", Params: map[string]interface{}{"tweetIds": "$step1.ids"}, Label: "analyze search results' engagement", Deps: []int{1}},
			}
		},
	},
	{
		name: "compare-accounts",
		re:   regexp.MustCompile(`(?i)^compare\s+@?([A-Za-z0-9_]+)\s+and\s+@?([A-Za-z0-9_]+)$`),
		build: func(g []string) []StepSpec {
			return []StepSpec{
				{Skill: "x_get_profile", Params: map[string]interface{}{"username": g[1]}, Label: "fetch first account's profile"},
				{Skill: "x_get_profile", Params: map[string]interface{}{"username": g[2]}, Label: "fetch second account's profile"},
				{Skill: "x_compare_profiles", Params: map[string]interface{}{"profileA": "$step1", "profileB": "$step2"}, Label: "compare the two profiles", Deps: []int{1, 2}},
			}
		},
	},
	{
		name: "follow-then-dm",
		re:   regexp.MustCompile(`(?i)^follow\s+@?([A-Za-z0-9_]+)\s*,?\s*then\s+(?:send\s+)?(?:a\s+)?dm\s+(?:saying\s+)?"([^"]+)"$`),
		build: func(g []string) []StepSpec {
			return []StepSpec{
				{Skill: "x_follow_user", Params: map[string]interface{}{"username": g[1]}, Label: "follow user"},
				{Skill: "x_dm_send", Params: map[string]interface{}{"username": g[1], "text": g[2]}, Label: "send direct message", Deps: []int{1}},
			}
		},
	},
}

// Decompose matches description against patternRules and returns the
// matched step descriptors. When nothing matches, the whole description
// is kept as a single natural-language step (empty Skill) dispatched to
// the bridge's NLP path, per spec.md §4.8.
func Decompose(description string) []StepSpec {
	trimmed := strings.TrimSpace(description)
	for _, rule := range patternRules {
		if m := rule.re.FindStringSubmatch(trimmed); m != nil {
			return rule.build(m)
		}
	}
	return []StepSpec{{Skill: "", Params: map[string]interface{}{"text": trimmed}, Label: trimmed}}
}
