// Package apperr defines the runtime's error taxonomy: a stable code plus an
// optional cause, the way every other error in the system should be raised.
package apperr

import "fmt"

// AppError represents an application-level error with a stable code and an
// optional wrapped cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError.
func New(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Class is the error taxonomy of SPEC_FULL.md §7. Every AppError code below
// belongs to exactly one class; internal/rpcerr maps classes to JSON-RPC
// error codes.
type Class string

const (
	ClassAuth       Class = "auth"
	ClassProtocol   Class = "protocol"
	ClassTaskState  Class = "task-state"
	ClassSkill      Class = "skill"
	ClassDelegation Class = "delegation"
	ClassRateLimit  Class = "rate-limit"
	ClassTransport  Class = "transport"
	ClassInternal   Class = "internal"
)

// Error codes, grouped by taxonomy class.
const (
	// auth
	ErrCodeAuthRequired     = "AUTH_REQUIRED"
	ErrCodeAuthForbidden    = "AUTH_FORBIDDEN"
	ErrCodeAuthExpired      = "AUTH_EXPIRED"
	ErrCodeAuthRevoked      = "AUTH_REVOKED"
	ErrCodeAuthMalformed    = "AUTH_MALFORMED"
	ErrCodeAuthInvalidToken = "AUTH_INVALID_TOKEN"

	// protocol
	ErrCodeParseFailed      = "PARSE_FAILED"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeMethodNotFound   = "METHOD_NOT_FOUND"
	ErrCodeInvalidParams    = "INVALID_PARAMS"

	// task-state
	ErrCodeTaskNotFound     = "TASK_NOT_FOUND"
	ErrCodeTaskInvalidState = "TASK_INVALID_STATE"

	// skill
	ErrCodeSkillNotFound  = "SKILL_NOT_FOUND"
	ErrCodeBridgeRefused  = "BRIDGE_REFUSED"

	// delegation
	ErrCodeDelegationUnreachable = "DELEGATION_UNREACHABLE"
	ErrCodeDelegationBadStatus   = "DELEGATION_BAD_STATUS"
	ErrCodeDelegationTimeout     = "DELEGATION_POLL_TIMEOUT"
	ErrCodeNoAgentFound          = "NO_AGENT_FOUND"

	// rate-limit
	ErrCodeRateLimited = "RATE_LIMITED"

	// transport
	ErrCodeTransport = "TRANSPORT_FAILED"

	// internal (also covers the teacher's generic categories, kept for
	// components adapted from the teacher repo)
	ErrCodeInternal       = "INTERNAL"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeFileOperation  = "FILE_OPERATION_FAILED"
	ErrCodeConversion     = "CONVERSION_FAILED"
	ErrCodeAgentConfig    = "AGENT_CONFIG_INVALID"
	ErrCodeArtifactTooLarge = "ARTIFACT_TOO_LARGE"
)

// classOf maps a code to its taxonomy class; used by internal/rpcerr.
var classOf = map[string]Class{
	ErrCodeAuthRequired:     ClassAuth,
	ErrCodeAuthForbidden:    ClassAuth,
	ErrCodeAuthExpired:      ClassAuth,
	ErrCodeAuthRevoked:      ClassAuth,
	ErrCodeAuthMalformed:    ClassAuth,
	ErrCodeAuthInvalidToken: ClassAuth,

	ErrCodeParseFailed:    ClassProtocol,
	ErrCodeInvalidRequest: ClassProtocol,
	ErrCodeMethodNotFound: ClassProtocol,
	ErrCodeInvalidParams:  ClassProtocol,

	ErrCodeTaskNotFound:     ClassTaskState,
	ErrCodeTaskInvalidState: ClassTaskState,

	ErrCodeSkillNotFound: ClassSkill,
	ErrCodeBridgeRefused: ClassSkill,

	ErrCodeDelegationUnreachable: ClassDelegation,
	ErrCodeDelegationBadStatus:   ClassDelegation,
	ErrCodeDelegationTimeout:     ClassDelegation,
	ErrCodeNoAgentFound:          ClassDelegation,

	ErrCodeRateLimited: ClassRateLimit,
	ErrCodeTransport:   ClassTransport,
}

// ClassOf returns the taxonomy class for a code, defaulting to "internal"
// for anything unregistered (including ad-hoc codes from adapted teacher
// components).
func ClassOf(code string) Class {
	if c, ok := classOf[code]; ok {
		return c
	}
	return ClassInternal
}

// ClassOfErr inspects err for an *AppError and returns its class, or
// ClassInternal if err isn't one.
func ClassOfErr(err error) Class {
	if ae, ok := err.(*AppError); ok {
		return ClassOf(ae.Code)
	}
	return ClassInternal
}
