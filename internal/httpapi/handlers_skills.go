package httpapi

import (
	"net/http"

	"github.com/xactions/a2a-runtime/internal/skills"
)

// handleListSkills serves GET /a2a/skills, honoring q, category, and limit
// per spec.md §4.9.
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	category := skills.Category(q.Get("category"))

	var matched []skills.Skill
	if query != "" {
		matched = s.skills.SearchSkills(query, nil)
	} else {
		matched = s.skills.GetAllSkills()
	}
	if category != "" {
		filtered := matched[:0:0]
		for _, sk := range matched {
			if sk.Category == category {
				filtered = append(filtered, sk)
			}
		}
		matched = filtered
	}

	if limit := parsePositiveInt(q.Get("limit")); limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"skills": matched,
		"total":  len(matched),
	})
}

// handleRefreshSkills serves POST /a2a/skills/refresh, per spec.md §4.9:
// "{ok, skills}".
func (s *Server) handleRefreshSkills(w http.ResponseWriter, r *http.Request) {
	s.skills.RefreshSkills()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"skills": s.skills.GetAllSkills(),
	})
}

func parsePositiveInt(raw string) int {
	n := 0
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return 0
		}
		n = n*10 + int(ch-'0')
	}
	return n
}
