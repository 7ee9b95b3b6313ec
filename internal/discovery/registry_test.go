package discovery

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xactions/a2a-runtime/internal/card"
)

type stubFetcher struct {
	cards map[string]card.Card
}

func (f stubFetcher) FetchRemote(ctx context.Context, url string) (card.Card, bool) {
	c, ok := f.cards[url]
	return c, ok
}

func sampleCard(name string, skillIDs ...string) card.Card {
	var summaries []card.SkillSummary
	for _, id := range skillIDs {
		summaries = append(summaries, card.SkillSummary{ID: id, Name: id, Tags: []string{"tag-" + id}})
	}
	return card.Card{Name: name, URL: "https://" + name, Version: "1.0.0", Skills: summaries,
		Provider: card.Provider{Organization: "acme-" + name}}
}

func newTestRegistry(t *testing.T, fetcher CardFetcher) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.json")
	r, err := NewRegistry(logr.Discard(), path, fetcher, nil)
	require.NoError(t, err)
	return r
}

func TestRegistry_Register_Success(t *testing.T) {
	fetcher := stubFetcher{cards: map[string]card.Card{"https://agent-a": sampleCard("agent-a", "skill.x")}}
	r := newTestRegistry(t, fetcher)

	e, err := r.Register(t.Context(), "https://agent-a")
	require.NoError(t, err)
	assert.True(t, e.Healthy)
	assert.Equal(t, "agent-a", e.Card.Name)

	got, ok := r.Get("https://agent-a")
	require.True(t, ok)
	assert.Equal(t, e, got)
}

func TestRegistry_Register_FetchFailureRefuses(t *testing.T) {
	r := newTestRegistry(t, stubFetcher{cards: map[string]card.Card{}})
	_, err := r.Register(t.Context(), "https://unreachable")
	assert.Error(t, err)

	_, ok := r.Get("https://unreachable")
	assert.False(t, ok)
}

func TestRegistry_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	fetcher := stubFetcher{cards: map[string]card.Card{"https://agent-a": sampleCard("agent-a", "skill.x")}}

	r1, err := NewRegistry(logr.Discard(), path, fetcher, nil)
	require.NoError(t, err)
	_, err = r1.Register(t.Context(), "https://agent-a")
	require.NoError(t, err)

	r2, err := NewRegistry(logr.Discard(), path, fetcher, nil)
	require.NoError(t, err)
	e, ok := r2.Get("https://agent-a")
	require.True(t, ok)
	assert.Equal(t, "agent-a", e.Card.Name)
}

func TestRegistry_Unregister(t *testing.T) {
	fetcher := stubFetcher{cards: map[string]card.Card{"https://agent-a": sampleCard("agent-a")}}
	r := newTestRegistry(t, fetcher)
	_, err := r.Register(t.Context(), "https://agent-a")
	require.NoError(t, err)

	require.NoError(t, r.Unregister("https://agent-a"))
	_, ok := r.Get("https://agent-a")
	assert.False(t, ok)
}

func TestRegistry_Unregister_Unknown(t *testing.T) {
	r := newTestRegistry(t, stubFetcher{})
	err := r.Unregister("https://nope")
	assert.Error(t, err)
}

func TestRegistry_List_Filters(t *testing.T) {
	fetcher := stubFetcher{cards: map[string]card.Card{
		"https://a": sampleCard("agent-a", "skill.one"),
		"https://b": sampleCard("agent-b", "skill.two"),
	}}
	r := newTestRegistry(t, fetcher)
	_, err := r.Register(t.Context(), "https://a")
	require.NoError(t, err)
	_, err = r.Register(t.Context(), "https://b")
	require.NoError(t, err)

	bySkill := r.List(Filters{SkillID: "skill.one"})
	require.Len(t, bySkill, 1)
	assert.Equal(t, "https://a", bySkill[0].URL)

	byTag := r.List(Filters{Tag: "tag-skill.two"})
	require.Len(t, byTag, 1)
	assert.Equal(t, "https://b", byTag[0].URL)

	byProvider := r.List(Filters{ProviderSubstring: "acme-agent-a"})
	require.Len(t, byProvider, 1)

	all := r.List(Filters{})
	assert.Len(t, all, 2)
}

func TestRegistry_List_HealthyOnly(t *testing.T) {
	fetcher := stubFetcher{cards: map[string]card.Card{"https://a": sampleCard("agent-a")}}
	r := newTestRegistry(t, fetcher)
	_, err := r.Register(t.Context(), "https://a")
	require.NoError(t, err)

	r.Refresh(t.Context(), "https://a")
	assert.True(t, r.List(Filters{HealthyOnly: true})[0].Healthy)

	fetcher.cards = map[string]card.Card{}
	r.fetcher = fetcher
	r.Refresh(t.Context(), "https://a")

	assert.Empty(t, r.List(Filters{HealthyOnly: true}))
	all := r.List(Filters{})
	require.Len(t, all, 1)
	assert.False(t, all[0].Healthy)
}

func TestRegistry_Refresh_DoesNotRemoveOnFailure(t *testing.T) {
	fetcher := stubFetcher{cards: map[string]card.Card{"https://a": sampleCard("agent-a")}}
	r := newTestRegistry(t, fetcher)
	_, err := r.Register(t.Context(), "https://a")
	require.NoError(t, err)

	fetcher.cards = map[string]card.Card{}
	r.fetcher = fetcher
	r.Refresh(t.Context(), "")

	e, ok := r.Get("https://a")
	require.True(t, ok)
	assert.False(t, e.Healthy)
}

func TestRegistry_Health_UpdatesEntry(t *testing.T) {
	fetcher := stubFetcher{cards: map[string]card.Card{"https://a": sampleCard("agent-a")}}
	r := newTestRegistry(t, fetcher)
	_, err := r.Register(t.Context(), "https://a")
	require.NoError(t, err)

	healthy := r.Health(t.Context(), "https://a")
	assert.False(t, healthy)

	e, ok := r.Get("https://a")
	require.True(t, ok)
	assert.False(t, e.Healthy)
}

func TestRegistry_StartAutoRefresh_StopsCleanly(t *testing.T) {
	r := newTestRegistry(t, stubFetcher{})
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	r.StartAutoRefresh(ctx)
	<-ctx.Done()
}
