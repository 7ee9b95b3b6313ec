// Package rpcerr maps the apperr taxonomy onto the fixed JSON-RPC error
// code set of SPEC_FULL.md §6.
package rpcerr

import "github.com/xactions/a2a-runtime/internal/apperr"

// Fixed JSON-RPC error codes.
const (
	Parse          = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	Internal       = -32603
	TaskNotFound   = -32001
	TaskInvalidState = -32002
	SkillNotFound  = -32003
	AuthRequired   = -32010
	AuthForbidden  = -32011
)

var codeForClass = map[apperr.Class]int{
	apperr.ClassProtocol:   InvalidRequest,
	apperr.ClassTaskState:  TaskInvalidState,
	apperr.ClassSkill:      SkillNotFound,
	apperr.ClassDelegation: Internal,
	apperr.ClassRateLimit:  Internal,
	apperr.ClassTransport:  Internal,
	apperr.ClassInternal:   Internal,
}

// codeForSpecificError handles the AppError codes that need a more precise
// JSON-RPC mapping than their class's default (e.g. auth splits into
// auth-required vs auth-forbidden; task-state splits into not-found vs
// invalid-state; protocol splits by sub-kind).
var codeForSpecificError = map[string]int{
	apperr.ErrCodeAuthRequired:     AuthRequired,
	apperr.ErrCodeAuthExpired:      AuthRequired,
	apperr.ErrCodeAuthInvalidToken: AuthRequired,
	apperr.ErrCodeAuthMalformed:    AuthRequired,
	apperr.ErrCodeAuthRevoked:      AuthRequired,
	apperr.ErrCodeAuthForbidden:    AuthForbidden,
	apperr.ErrCodeParseFailed:      Parse,
	apperr.ErrCodeInvalidRequest:   InvalidRequest,
	apperr.ErrCodeMethodNotFound:   MethodNotFound,
	apperr.ErrCodeInvalidParams:    InvalidParams,
	apperr.ErrCodeTaskNotFound:     TaskNotFound,
	apperr.ErrCodeTaskInvalidState: TaskInvalidState,
	apperr.ErrCodeSkillNotFound:    SkillNotFound,
}

// CodeFor returns the JSON-RPC error code for an AppError code, falling back
// to its taxonomy class, and finally to -32603 (internal) for anything
// unrecognized.
func CodeFor(code string) int {
	if rpc, ok := codeForSpecificError[code]; ok {
		return rpc
	}
	class := apperr.ClassOf(code)
	if rpc, ok := codeForClass[class]; ok {
		return rpc
	}
	return Internal
}

// CodeForErr is CodeFor applied to an error value.
func CodeForErr(err error) int {
	if ae, ok := err.(*apperr.AppError); ok {
		return CodeFor(ae.Code)
	}
	return Internal
}

// Message returns the canonical short message for a fixed code, used when no
// more specific message is available.
func Message(code int) string {
	switch code {
	case Parse:
		return "parse error"
	case InvalidRequest:
		return "invalid request"
	case MethodNotFound:
		return "method not found"
	case InvalidParams:
		return "invalid params"
	case Internal:
		return "internal error"
	case TaskNotFound:
		return "task not found"
	case TaskInvalidState:
		return "task invalid state"
	case SkillNotFound:
		return "skill not found"
	case AuthRequired:
		return "authentication required"
	case AuthForbidden:
		return "insufficient permissions"
	default:
		return "unknown error"
	}
}
