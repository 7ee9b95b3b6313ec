package discovery

import (
	"fmt"
	"sort"
	"strings"
)

// AgentMatch is one scored hit from FindAgentsForTask.
type AgentMatch struct {
	AgentURL       string   `json:"agentUrl"`
	AgentName      string   `json:"agentName"`
	MatchingSkills []string `json:"matchingSkills"`
	Score          int      `json:"score"`
}

// ComplementMatch is one scored hit from FindComplementaryAgents.
type ComplementMatch struct {
	AgentURL   string   `json:"agentUrl"`
	AgentName  string   `json:"agentName"`
	Complement []string `json:"complement"`
}

// tokenize splits text on whitespace and drops tokens shorter than 3
// chars, per spec.md §4.7.
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 3 {
			out = append(out, f)
		}
	}
	return out
}

// FindAgentsForTask scores every healthy registered agent's skills against
// text's tokens and returns matches sorted by descending score.
func (r *Registry) FindAgentsForTask(text string) []AgentMatch {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []AgentMatch
	for _, e := range r.entries {
		if !e.Healthy {
			continue
		}
		var matchingSkills []string
		score := 0
		for _, s := range e.Card.Skills {
			haystack := strings.ToLower(fmt.Sprintf("%s %s %s %s", s.ID, s.Name, s.Description, strings.Join(s.Tags, " ")))
			hits := 0
			for _, tok := range tokens {
				if strings.Contains(haystack, tok) {
					hits++
				}
			}
			if hits > 0 {
				matchingSkills = append(matchingSkills, s.ID)
				score += hits
			}
		}
		if score > 0 {
			matches = append(matches, AgentMatch{
				AgentURL: e.URL, AgentName: e.Card.Name,
				MatchingSkills: matchingSkills, Score: score,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].AgentURL < matches[j].AgentURL
	})
	return matches
}

// FindAgentForSkill returns every healthy agent advertising the exact
// skill id.
func (r *Registry) FindAgentForSkill(skillID string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, e := range r.entries {
		if !e.Healthy {
			continue
		}
		if hasSkillID(e.Card, skillID) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// FindComplementaryAgents returns healthy agents whose skill set minus
// mySkillIDs is non-empty, sorted by the size of that complement
// descending.
func (r *Registry) FindComplementaryAgents(mySkillIDs []string) []ComplementMatch {
	mine := make(map[string]bool, len(mySkillIDs))
	for _, id := range mySkillIDs {
		mine[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ComplementMatch
	for _, e := range r.entries {
		if !e.Healthy {
			continue
		}
		var complement []string
		for _, s := range e.Card.Skills {
			if !mine[s.ID] {
				complement = append(complement, s.ID)
			}
		}
		if len(complement) > 0 {
			out = append(out, ComplementMatch{AgentURL: e.URL, AgentName: e.Card.Name, Complement: complement})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Complement) != len(out[j].Complement) {
			return len(out[i].Complement) > len(out[j].Complement)
		}
		return out[i].AgentURL < out[j].AgentURL
	})
	return out
}
