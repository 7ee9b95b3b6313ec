package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/apperr"
	"github.com/xactions/a2a-runtime/internal/rpcerr"
)

// rpcInternalError is the fixed code rpcerr reserves for the rate limiter
// and any other cross-cutting failure that doesn't carry its own
// apperr.AppError.
const rpcInternalError = rpcerr.Internal

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRPCResult writes a successful JSON-RPC envelope.
func writeRPCResult(w http.ResponseWriter, id interface{}, result interface{}) {
	writeJSON(w, http.StatusOK, a2atypes.Success(id, result))
}

// writeRPCError writes a failing JSON-RPC envelope with an explicit HTTP
// status (per-route status codes are not part of the JSON-RPC spec, but
// spec.md §4.9 still expects a meaningful HTTP status alongside the
// envelope for non-RPC-aware callers, e.g. a rate-limited 429).
func writeRPCError(w http.ResponseWriter, httpStatus int, id interface{}, code int, message string) {
	writeJSON(w, httpStatus, a2atypes.Failure(id, code, message, nil))
}

// writeAppError maps an apperr.AppError (or any error) onto the fixed
// JSON-RPC error code set via rpcerr, per SPEC_FULL.md §6.
func writeAppError(w http.ResponseWriter, id interface{}, err error) {
	code := rpcerr.CodeForErr(err)
	message := err.Error()
	if ae, ok := err.(*apperr.AppError); ok {
		message = ae.Message
	}
	status := httpStatusFor(code)
	writeRPCError(w, status, id, code, message)
}

// httpStatusFor picks a representative HTTP status for a JSON-RPC error
// code, used only for non-RPC-aware clients inspecting the status line.
func httpStatusFor(code int) int {
	switch code {
	case rpcerr.AuthRequired:
		return http.StatusUnauthorized
	case rpcerr.AuthForbidden:
		return http.StatusForbidden
	case rpcerr.TaskNotFound, rpcerr.SkillNotFound:
		return http.StatusNotFound
	case rpcerr.InvalidRequest, rpcerr.InvalidParams, rpcerr.TaskInvalidState, rpcerr.Parse:
		return http.StatusBadRequest
	case rpcerr.MethodNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes r.Body into v, returning an apperr.ErrCodeParseFailed
// on malformed JSON.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.New(apperr.ErrCodeParseFailed, "failed to decode request body", err)
	}
	return nil
}
