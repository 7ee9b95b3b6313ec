package skills

import (
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"
)

// Registry is the canonical skill catalog. It is safe for concurrent use;
// refreshSkills() rebuilds it from sources while readers see either the old
// or the new snapshot atomically, never a partial one.
type Registry struct {
	log    logr.Logger
	loader ToolCatalogLoader

	mu     sync.RWMutex
	byID   map[string]Skill
	all    []Skill
}

// NewRegistry builds a Registry eagerly from the static base catalog plus
// whatever the loader contributes (SPEC_FULL.md §13 decision 4: eager, not
// lazy). A load error from the dynamic source is logged and otherwise
// ignored — the base catalog alone is still a usable registry.
func NewRegistry(log logr.Logger, loader ToolCatalogLoader) *Registry {
	if loader == nil {
		loader = NoopLoader
	}
	r := &Registry{log: log, loader: loader}
	r.RefreshSkills()
	return r
}

// RefreshSkills rebuilds the catalog from the base set and the loader.
func (r *Registry) RefreshSkills() {
	descriptors := baseCatalog()
	dynamic, err := r.loader.LoadTools()
	if err != nil {
		r.log.V(0).Info("skill plugin source failed to load, continuing with base catalog", "error", err.Error())
	} else {
		descriptors = append(descriptors, dynamic...)
	}

	byID := make(map[string]Skill, len(descriptors))
	all := make([]Skill, 0, len(descriptors))
	for _, d := range descriptors {
		s := toSkill(d)
		if _, exists := byID[s.ID]; exists {
			continue // first source wins on id collision
		}
		byID[s.ID] = s
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	r.mu.Lock()
	r.byID = byID
	r.all = all
	r.mu.Unlock()
}

// GetAllSkills returns every skill in the catalog, ordered by id.
func (r *Registry) GetAllSkills() []Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Skill, len(r.all))
	copy(out, r.all)
	return out
}

// GetSkillByID returns a skill by its namespaced id, and whether it exists.
func (r *Registry) GetSkillByID(id string) (Skill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	return s, ok
}

// GetSkillCategories groups the catalog by inferred category.
func (r *Registry) GetSkillCategories() map[Category][]Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Category][]Skill)
	for _, s := range r.all {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}

// SearchSkills matches query case-insensitively as a substring of id, name,
// or description, OR-matched against tags; an empty query and empty tags
// returns the whole catalog (spec.md §4.4).
func (r *Registry) SearchSkills(query string, tags []string) []Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	wantTags := make(map[string]bool, len(tags))
	for _, t := range tags {
		wantTags[strings.ToLower(strings.TrimSpace(t))] = true
	}

	if q == "" && len(wantTags) == 0 {
		out := make([]Skill, len(r.all))
		copy(out, r.all)
		return out
	}

	var out []Skill
	for _, s := range r.all {
		if (q != "" && matchesQuery(s, q)) || (len(wantTags) > 0 && matchesAnyTag(s, wantTags)) {
			out = append(out, s)
		}
	}
	return out
}

func matchesQuery(s Skill, q string) bool {
	return strings.Contains(strings.ToLower(s.ID), q) ||
		strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.Description), q)
}

func matchesAnyTag(s Skill, want map[string]bool) bool {
	for _, t := range s.Tags {
		if want[strings.ToLower(t)] {
			return true
		}
	}
	return false
}
