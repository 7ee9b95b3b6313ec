package orchestrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompose_PostTweet(t *testing.T) {
	steps := Decompose(`post tweet saying "hello world"`)
	require.Len(t, steps, 1)
	assert.Equal(t, "x_post_tweet", steps[0].Skill)
	assert.Equal(t, "hello world", steps[0].Params["text"])
}

func TestDecompose_PostThenReply(t *testing.T) {
	steps := Decompose(`post tweet saying "launch day" then reply with "thanks everyone"`)
	require.Len(t, steps, 2)
	assert.Equal(t, "x_post_tweet", steps[0].Skill)
	assert.Equal(t, "x_reply_to_tweet", steps[1].Skill)
	assert.Equal(t, []int{1}, steps[1].Deps)
	assert.Equal(t, "$step1.id", steps[1].Params["tweetId"])
}

func TestDecompose_ScrapeFollowers(t *testing.T) {
	steps := Decompose("scrape followers of @acme")
	require.Len(t, steps, 1)
	assert.Equal(t, "x_scrape_followers", steps[0].Skill)
	assert.Equal(t, "acme", steps[0].Params["username"])
}

func TestDecompose_SearchThenAnalyze(t *testing.T) {
	steps := Decompose(`search for "launch" then analyze engagement`)
	require.Len(t, steps, 2)
	assert.Equal(t, "x_search_tweets", steps[0].Skill)
	assert.Equal(t, "x_analytics_engagement", steps[1].Skill)
	assert.Equal(t, []int{1}, steps[1].Deps)
}

func TestDecompose_CompareAccounts(t *testing.T) {
	steps := Decompose("compare @alice and @bob")
	require.Len(t, steps, 3)
	assert.Equal(t, "x_get_profile", steps[0].Skill)
	assert.Equal(t, "alice", steps[0].Params["username"])
	assert.Empty(t, steps[0].Deps)
	assert.Equal(t, "x_get_profile", steps[1].Skill)
	assert.Equal(t, "bob", steps[1].Params["username"])
	assert.Empty(t, steps[1].Deps)
	assert.Equal(t, "x_compare_profiles", steps[2].Skill)
	assert.Equal(t, []int{1, 2}, steps[2].Deps)
	assert.Equal(t, "$step1", steps[2].Params["profileA"])
	assert.Equal(t, "$step2", steps[2].Params["profileB"])
}

func TestDecompose_NoMatchFallsBackToNaturalLanguage(t *testing.T) {
	steps := Decompose("do something nobody has a pattern for")
	require.Len(t, steps, 1)
	assert.Equal(t, "", steps[0].Skill)
	assert.Equal(t, "do something nobody has a pattern for", steps[0].Params["text"])
}
