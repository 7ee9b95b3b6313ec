package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToken_DeterministicAndVerifiable(t *testing.T) {
	secret := []byte("push-secret-32-bytes-long-value")
	tok := Token(secret, "task_abc")
	assert.True(t, VerifyToken(secret, "task_abc", tok))
}

func TestVerifyToken_RejectsWrongTaskID(t *testing.T) {
	secret := []byte("push-secret-32-bytes-long-value")
	tok := Token(secret, "task_abc")
	assert.False(t, VerifyToken(secret, "task_xyz", tok))
}

func TestVerifyToken_RejectsWrongSecret(t *testing.T) {
	tok := Token([]byte("secret-one"), "task_abc")
	assert.False(t, VerifyToken([]byte("secret-two"), "task_abc", tok))
}

func TestSignBody_DeterministicPerSecret(t *testing.T) {
	secret := []byte("push-secret-32-bytes-long-value")
	sig1 := SignBody(secret, []byte(`{"a":1}`))
	sig2 := SignBody(secret, []byte(`{"a":1}`))
	assert.Equal(t, sig1, sig2)

	sig3 := SignBody(secret, []byte(`{"a":2}`))
	assert.NotEqual(t, sig1, sig3)
}
