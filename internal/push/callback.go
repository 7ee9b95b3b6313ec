// Package push implements Push Notifications (C8 of SPEC_FULL.md): HMAC
// callback-url token generation/verification, outbound webhook delivery
// with a signed body and bounded retry, and a subscription manager that
// fans a task's events out to every registered callback URL. Grounded on
// the teacher's apperr-wrapped outbound-call conventions and, for the
// secret-persistence shape, auth.LoadOrCreateSecret (SPEC_FULL.md §12's
// "push secret default-empty" supplement — this runtime never signs with
// an empty key).
package push

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Token computes HMAC-SHA256(secret, taskID), hex-encoded, for a push
// callback URL's query parameter (spec.md §4.3).
func Token(secret []byte, taskID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(taskID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyToken recomputes the expected token and compares in constant time,
// per spec.md §4.3: "accepted only when a constant-time comparison
// matches the recomputed token".
func VerifyToken(secret []byte, taskID, candidate string) bool {
	expected := Token(secret, taskID)
	return hmac.Equal([]byte(expected), []byte(candidate))
}

// SignBody computes the hex HMAC-SHA256 digest of raw bytes for the
// X-XActions-Signature header (spec.md §4.3).
func SignBody(secret []byte, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
