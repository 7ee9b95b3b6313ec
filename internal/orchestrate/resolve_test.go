package orchestrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveParams_WholeStepReference(t *testing.T) {
	results := []interface{}{map[string]interface{}{"id": "tweet-1"}}
	out := ResolveParams(map[string]interface{}{"ref": "$step1"}, results)
	assert.Equal(t, results[0], out["ref"])
}

func TestResolveParams_DottedPath(t *testing.T) {
	results := []interface{}{map[string]interface{}{"id": "tweet-1", "nested": map[string]interface{}{"handle": "acme"}}}
	out := ResolveParams(map[string]interface{}{
		"tweetId": "$step1.id",
		"handle":  "$step1.nested.handle",
	}, results)
	assert.Equal(t, "tweet-1", out["tweetId"])
	assert.Equal(t, "acme", out["handle"])
}

func TestResolveParams_OutOfRangePassesThrough(t *testing.T) {
	out := ResolveParams(map[string]interface{}{"ref": "$step5"}, nil)
	assert.Equal(t, "$step5", out["ref"])
}

func TestResolveParams_MissingPathPassesThrough(t *testing.T) {
	results := []interface{}{map[string]interface{}{"id": "tweet-1"}}
	out := ResolveParams(map[string]interface{}{"ref": "$step1.nope"}, results)
	assert.Equal(t, "$step1.nope", out["ref"])
}

func TestResolveParams_NonReferenceValuesUnaffected(t *testing.T) {
	out := ResolveParams(map[string]interface{}{"text": "hello", "count": 3}, nil)
	assert.Equal(t, "hello", out["text"])
	assert.Equal(t, 3, out["count"])
}
