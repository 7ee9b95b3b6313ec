// Package card implements the Agent Card service (C3 of SPEC_FULL.md):
// composing the runtime's public identity document, validating it, serving
// it with a short cache TTL, and fetching/diffing remote cards. Grounded on
// the teacher's use of hashicorp/golang-lru/v2 for bounded request-scoped
// caches (internal/delivery/channels/lark/gateway.go's dedupCache), adapted
// here to a single-entry TTL cache per card rather than a dedup set.
package card

import (
	"github.com/xactions/a2a-runtime/internal/apperr"
	"github.com/xactions/a2a-runtime/internal/skills"
)

// Capabilities are the optional protocol features the agent advertises
// (spec.md §3).
type Capabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

// Authentication lists accepted auth schemes and, optionally, a URL where
// credentials can be issued.
type Authentication struct {
	Schemes         []string `json:"schemes"`
	CredentialsURL  string   `json:"credentialsUrl,omitempty"`
}

// Provider identifies who operates the agent. SPEC_FULL.md §12 names this
// as a supplement: spec.md §3 says only "provider metadata".
type Provider struct {
	Organization string `json:"organization"`
	URL          string `json:"url"`
}

// SkillSummary is the agent-card projection of a skills.Skill — only the
// fields external callers need to route a request, not the full registry
// shape.
type SkillSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Card is the runtime's public identity document, served at
// /.well-known/agent.json (spec.md §3, §4.5).
type Card struct {
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	URL                 string         `json:"url"`
	Version             string         `json:"version"`
	Capabilities        Capabilities   `json:"capabilities"`
	Skills              []SkillSummary `json:"skills"`
	Authentication      Authentication `json:"authentication"`
	DefaultInputModes   []string       `json:"defaultInputModes"`
	DefaultOutputModes  []string       `json:"defaultOutputModes"`
	Provider            Provider       `json:"provider"`
}

// Minimal is the `?format=minimal` projection of a Card (spec.md §4.5).
type Minimal struct {
	Name         string       `json:"name"`
	URL          string       `json:"url"`
	Version      string       `json:"version"`
	SkillCount   int          `json:"skillCount"`
	SkillIDs     []string     `json:"skillIds"`
	Capabilities Capabilities `json:"capabilities"`
	Provider     Provider     `json:"provider"`
}

// Options configures card composition from runtime config.
type Options struct {
	Name               string
	Description        string
	BaseURL            string
	Version             string
	Capabilities        Capabilities
	AuthSchemes         []string
	CredentialsURL      string
	DefaultInputModes   []string
	DefaultOutputModes  []string
	Provider            Provider
	// CategoryFilter restricts the skill list to one category when
	// non-empty, per spec.md §4.5's "optional category filter".
	CategoryFilter skills.Category
}

// Compose builds a Card from Options and the current skill catalog.
func Compose(opts Options, catalog []skills.Skill) Card {
	var summaries []SkillSummary
	for _, s := range catalog {
		if opts.CategoryFilter != "" && s.Category != opts.CategoryFilter {
			continue
		}
		summaries = append(summaries, SkillSummary{
			ID: s.ID, Name: s.Name, Description: s.Description, Tags: s.Tags,
		})
	}

	inputModes := opts.DefaultInputModes
	if len(inputModes) == 0 {
		inputModes = []string{"text/plain", "application/json"}
	}
	outputModes := opts.DefaultOutputModes
	if len(outputModes) == 0 {
		outputModes = []string{"text/plain", "application/json"}
	}

	return Card{
		Name:               opts.Name,
		Description:        opts.Description,
		URL:                opts.BaseURL,
		Version:            opts.Version,
		Capabilities:       opts.Capabilities,
		Skills:             summaries,
		Authentication:     Authentication{Schemes: opts.AuthSchemes, CredentialsURL: opts.CredentialsURL},
		DefaultInputModes:  inputModes,
		DefaultOutputModes: outputModes,
		Provider:           opts.Provider,
	}
}

// Validate enforces spec.md §3's Agent Card invariants: name/url/version
// non-empty, every skill has a non-empty id and name, authentication's
// schemes is a (possibly empty) list.
func Validate(c Card) error {
	if c.Name == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "agent card name must not be empty", nil)
	}
	if c.URL == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "agent card url must not be empty", nil)
	}
	if c.Version == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "agent card version must not be empty", nil)
	}
	if c.Authentication.Schemes == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "agent card authentication.schemes must be a list", nil)
	}
	for _, s := range c.Skills {
		if s.ID == "" || s.Name == "" {
			return apperr.New(apperr.ErrCodeInvalidInput, "every agent card skill needs a non-empty id and name", nil)
		}
	}
	return nil
}

// ToMinimal projects a full Card into its minimal form.
func ToMinimal(c Card) Minimal {
	ids := make([]string, len(c.Skills))
	for i, s := range c.Skills {
		ids[i] = s.ID
	}
	return Minimal{
		Name: c.Name, URL: c.URL, Version: c.Version,
		SkillCount: len(c.Skills), SkillIDs: ids,
		Capabilities: c.Capabilities, Provider: c.Provider,
	}
}

// FieldDiff is a single changed field reported by Diff.
type FieldDiff struct {
	Field string      `json:"field"`
	From  interface{} `json:"from"`
	To    interface{} `json:"to"`
}

// Diff is the result of comparing two cards, per spec.md §4.5.
type Diff struct {
	Added   []string    `json:"added"`
	Removed []string    `json:"removed"`
	Changed []FieldDiff `json:"changed"`
}

// DiffCards compares two cards' skill sets and top-level scalar fields.
func DiffCards(a, b Card) Diff {
	aIDs := make(map[string]bool, len(a.Skills))
	for _, s := range a.Skills {
		aIDs[s.ID] = true
	}
	bIDs := make(map[string]bool, len(b.Skills))
	for _, s := range b.Skills {
		bIDs[s.ID] = true
	}

	var d Diff
	for id := range bIDs {
		if !aIDs[id] {
			d.Added = append(d.Added, id)
		}
	}
	for id := range aIDs {
		if !bIDs[id] {
			d.Removed = append(d.Removed, id)
		}
	}

	if a.Name != b.Name {
		d.Changed = append(d.Changed, FieldDiff{Field: "name", From: a.Name, To: b.Name})
	}
	if a.Description != b.Description {
		d.Changed = append(d.Changed, FieldDiff{Field: "description", From: a.Description, To: b.Description})
	}
	if a.Version != b.Version {
		d.Changed = append(d.Changed, FieldDiff{Field: "version", From: a.Version, To: b.Version})
	}
	if a.URL != b.URL {
		d.Changed = append(d.Changed, FieldDiff{Field: "url", From: a.URL, To: b.URL})
	}
	return d
}
