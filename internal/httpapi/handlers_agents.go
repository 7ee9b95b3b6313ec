package httpapi

import (
	"net/http"

	"github.com/xactions/a2a-runtime/internal/discovery"
)

// handleListAgents serves GET /a2a/agents: every registered remote agent
// plus the total count, per spec.md §4.9.
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := discovery.Filters{
		SkillID:           q.Get("skillId"),
		Tag:               q.Get("tag"),
		HealthyOnly:       q.Get("healthy") == "true",
		ProviderSubstring: q.Get("provider"),
	}
	entries := s.discovery.List(filters)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agents": entries,
		"total":  len(entries),
	})
}

type discoverRequest struct {
	URLs []string `json:"urls"`
}

type discoverResult struct {
	URL    string `json:"url"`
	Status string `json:"status"`
	Agent  string `json:"agent,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleDiscoverAgents serves POST /a2a/agents/discover: registers each
// URL in the request body, per spec.md §4.9: "{results:
// [{url, status, agent|error}]}".
func (s *Server) handleDiscoverAgents(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, nil, err)
		return
	}

	results := make([]discoverResult, 0, len(req.URLs))
	for _, url := range req.URLs {
		entry, err := s.discovery.Register(r.Context(), url)
		if err != nil {
			results = append(results, discoverResult{URL: url, Status: "error", Error: err.Error()})
			continue
		}
		results = append(results, discoverResult{URL: url, Status: "registered", Agent: entry.Card.Name})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
