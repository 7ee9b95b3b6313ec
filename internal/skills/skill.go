// Package skills implements the Skill Registry (C2 of SPEC_FULL.md): a
// canonical catalog built from a static base and a dynamic plugin source,
// with category/platform inference and text/tag search. Grounded on the
// teacher's pkg/adk/tools/skills.go (YAML-frontmatter skill loading with an
// in-memory cache protected by a RWMutex), generalized from file-backed
// single-skill lookup into a fully in-memory multi-source catalog.
package skills

// Skill is the A2A-facing shape of a tool, per spec.md §3's Skill data
// model entry.
type Skill struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Category     Category               `json:"category"`
	Platforms    []string               `json:"platforms"`
	Tags         []string               `json:"tags"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
}
