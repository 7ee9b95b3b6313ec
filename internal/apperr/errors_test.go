package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeSkillNotFound, "skill failed", nil)

	assert.NotNil(t, err)
	assert.Equal(t, ErrCodeSkillNotFound, err.Code)
	assert.Equal(t, "skill failed", err.Message)
	assert.Nil(t, err.Cause)
}

func TestNew_WithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := New(ErrCodeSkillNotFound, "skill failed", cause)

	assert.NotNil(t, err)
	assert.Equal(t, ErrCodeSkillNotFound, err.Code)
	assert.Equal(t, cause, err.Cause)
}

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeSkillNotFound, "skill failed", nil)
	errorString := err.Error()

	assert.Contains(t, errorString, ErrCodeSkillNotFound)
	assert.Contains(t, errorString, "skill failed")
}

func TestAppError_Error_WithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := New(ErrCodeSkillNotFound, "skill failed", cause)
	errorString := err.Error()

	assert.Contains(t, errorString, ErrCodeSkillNotFound)
	assert.Contains(t, errorString, "underlying error")
}

func TestErrorCodesUnique(t *testing.T) {
	codes := []string{
		ErrCodeAuthRequired, ErrCodeAuthForbidden, ErrCodeAuthExpired,
		ErrCodeAuthRevoked, ErrCodeAuthMalformed, ErrCodeAuthInvalidToken,
		ErrCodeParseFailed, ErrCodeInvalidRequest, ErrCodeMethodNotFound,
		ErrCodeInvalidParams, ErrCodeTaskNotFound, ErrCodeTaskInvalidState,
		ErrCodeSkillNotFound, ErrCodeBridgeRefused,
		ErrCodeDelegationUnreachable, ErrCodeDelegationBadStatus,
		ErrCodeDelegationTimeout, ErrCodeNoAgentFound, ErrCodeRateLimited,
		ErrCodeTransport, ErrCodeInternal,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code)
		assert.False(t, seen[code], "duplicate error code: %s", code)
		seen[code] = true
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := New(ErrCodeSkillNotFound, "skill failed", cause)

	unwrapped := errors.Unwrap(err)
	assert.Equal(t, cause, unwrapped)
}

func TestAppError_Is(t *testing.T) {
	cause := errors.New("specific error")
	err := New(ErrCodeSkillNotFound, "skill failed", cause)

	assert.True(t, errors.Is(err, cause))
}

func TestAppError_NilCause(t *testing.T) {
	err := New(ErrCodeSkillNotFound, "skill failed", nil)
	errorString := err.Error()

	assert.NotEmpty(t, errorString)
	assert.NotContains(t, errorString, "<nil>")
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		code string
		want Class
	}{
		{ErrCodeAuthRequired, ClassAuth},
		{ErrCodeInvalidParams, ClassProtocol},
		{ErrCodeTaskNotFound, ClassTaskState},
		{ErrCodeSkillNotFound, ClassSkill},
		{ErrCodeDelegationTimeout, ClassDelegation},
		{ErrCodeRateLimited, ClassRateLimit},
		{ErrCodeTransport, ClassTransport},
		{"SOMETHING_UNKNOWN", ClassInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassOf(tt.code), tt.code)
	}
}

func TestClassOfErr(t *testing.T) {
	err := New(ErrCodeTaskNotFound, "no such task", nil)
	assert.Equal(t, ClassTaskState, ClassOfErr(err))
	assert.Equal(t, ClassInternal, ClassOfErr(errors.New("plain")))
}
