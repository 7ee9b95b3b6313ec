package httpapi

import (
	"net/http"
	"time"

	"github.com/xactions/a2a-runtime/internal/card"
)

// handleAgentCard serves GET /.well-known/agent.json, honoring
// ?format=minimal per spec.md §4.5.
func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	c, err := s.cardSvc.Get()
	if err != nil {
		writeAppError(w, nil, err)
		return
	}

	w.Header().Set("Cache-Control", card.CacheControlHeader())
	if r.URL.Query().Get("format") == "minimal" {
		writeJSON(w, http.StatusOK, card.ToMinimal(c))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// healthResponse is the shape spec.md §4.9 names: "{status, agent,
// version, uptime, tasks:{...}, skills: N}".
type healthResponse struct {
	Status  string     `json:"status"`
	Agent   string     `json:"agent"`
	Version string     `json:"version"`
	Uptime  string     `json:"uptime"`
	Tasks   tasksStats `json:"tasks"`
	Skills  int        `json:"skills"`
}

type tasksStats struct {
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	c, err := s.cardSvc.Get()
	agentName := "xactions-a2a"
	if err == nil {
		agentName = c.Name
	}

	stats := s.store.Stats()
	counts := make(map[string]int, len(stats.Counts))
	for state, n := range stats.Counts {
		counts[string(state)] = n
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Agent:   agentName,
		Version: s.cfg.Version,
		Uptime:  time.Since(s.cfg.StartedAt).String(),
		Tasks:   tasksStats{Total: stats.Total, Counts: counts},
		Skills:  len(s.skills.GetAllSkills()),
	})
}
