package skills

import (
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_BaseCatalogOnly(t *testing.T) {
	r := NewRegistry(logr.Discard(), nil)
	all := r.GetAllSkills()
	assert.NotEmpty(t, all)

	s, ok := r.GetSkillByID("xactions.x_get_profile")
	require.True(t, ok)
	assert.Equal(t, "Get Profile", s.Name)
	assert.Equal(t, CategoryScraping, s.Category)
	assert.Contains(t, s.Platforms, "twitter")
}

func TestRegistry_DynamicLoaderContributes(t *testing.T) {
	loader := LoaderFunc(func() ([]ToolDescriptor, error) {
		return []ToolDescriptor{{Name: "x_custom_plugin_tool", Description: "a plugin tool"}}, nil
	})
	r := NewRegistry(logr.Discard(), loader)

	_, ok := r.GetSkillByID("xactions.x_custom_plugin_tool")
	assert.True(t, ok)
}

func TestRegistry_LoaderErrorFallsBackToBase(t *testing.T) {
	loader := LoaderFunc(func() ([]ToolDescriptor, error) {
		return nil, errors.New("plugin source unreachable")
	})
	r := NewRegistry(logr.Discard(), loader)
	assert.NotEmpty(t, r.GetAllSkills())
}

func TestRegistry_GetSkillCategories(t *testing.T) {
	r := NewRegistry(logr.Discard(), nil)
	byCategory := r.GetSkillCategories()
	assert.NotEmpty(t, byCategory[CategoryScraping])
	assert.NotEmpty(t, byCategory[CategoryPosting])
}

func TestRegistry_SearchSkills_EmptyYieldsAll(t *testing.T) {
	r := NewRegistry(logr.Discard(), nil)
	assert.ElementsMatch(t, r.GetAllSkills(), r.SearchSkills("", nil))
}

func TestRegistry_SearchSkills_ByQuery(t *testing.T) {
	r := NewRegistry(logr.Discard(), nil)
	results := r.SearchSkills("profile", nil)
	require.NotEmpty(t, results)
	for _, s := range results {
		assert.True(t, matchesQuery(s, "profile"))
	}
}

func TestRegistry_SearchSkills_ByTag(t *testing.T) {
	r := NewRegistry(logr.Discard(), nil)
	results := r.SearchSkills("", []string{"engagement"})
	require.NotEmpty(t, results)
	for _, s := range results {
		assert.Contains(t, s.Tags, "engagement")
	}
}

func TestRegistry_RefreshSkills_Rebuilds(t *testing.T) {
	calls := 0
	loader := LoaderFunc(func() ([]ToolDescriptor, error) {
		calls++
		if calls == 1 {
			return nil, nil
		}
		return []ToolDescriptor{{Name: "x_added_later", Description: "added on refresh"}}, nil
	})
	r := NewRegistry(logr.Discard(), loader)
	_, ok := r.GetSkillByID("xactions.x_added_later")
	assert.False(t, ok)

	r.RefreshSkills()
	_, ok = r.GetSkillByID("xactions.x_added_later")
	assert.True(t, ok)
}

func TestRegistry_DuplicateIDFirstSourceWins(t *testing.T) {
	loader := LoaderFunc(func() ([]ToolDescriptor, error) {
		return []ToolDescriptor{{Name: "x_get_profile", Description: "plugin override"}}, nil
	})
	r := NewRegistry(logr.Discard(), loader)
	s, ok := r.GetSkillByID("xactions.x_get_profile")
	require.True(t, ok)
	assert.NotEqual(t, "plugin override", s.Description)
}
