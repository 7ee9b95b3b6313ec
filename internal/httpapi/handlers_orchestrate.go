package httpapi

import (
	"net/http"

	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/apperr"
)

type orchestrateRequest struct {
	ContextID   string `json:"contextId"`
	Description string `json:"description"`
}

// handleOrchestrate serves POST /a2a/orchestrate, per spec.md §4.9:
// "{success, results, artifacts, errors}".
func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	var req orchestrateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, nil, err)
		return
	}
	if req.Description == "" {
		writeAppError(w, nil, apperr.New(apperr.ErrCodeInvalidParams, "description is required", nil))
		return
	}

	contextID := req.ContextID
	if contextID == "" {
		contextID = a2atypes.NewContextID()
	}

	result := s.orch.Run(r.Context(), contextID, req.Description, nil)
	writeJSON(w, http.StatusOK, result)
}

// handleOrchestratePlan serves POST /a2a/orchestrate/plan, per spec.md
// §4.9: a dry-run decomposition, "{steps, parallel, sequential,
// totalSteps}".
func (s *Server) handleOrchestratePlan(w http.ResponseWriter, r *http.Request) {
	var req orchestrateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, nil, err)
		return
	}
	if req.Description == "" {
		writeAppError(w, nil, apperr.New(apperr.ErrCodeInvalidParams, "description is required", nil))
		return
	}

	steps, plan := s.orch.Plan(req.Description)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"steps":      steps,
		"parallel":   plan.Parallel,
		"sequential": plan.Sequential,
		"totalSteps": len(steps),
	})
}
