package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/xactions/a2a-runtime/internal/apperr"
)

// KeyPrefix marks a string as an xactions API key, the way the teacher's
// repo-wide convention tags generated tokens for quick recognition in logs.
const KeyPrefix = "xa_"

// Permission is one of the small closed set spec.md §3 names.
type Permission string

const (
	PermRead     Permission = "read"
	PermWrite    Permission = "write"
	PermAdmin    Permission = "admin"
	PermScrape   Permission = "scrape"
	PermPost     Permission = "post"
	PermFollow   Permission = "follow"
	PermAnalytics Permission = "analytics"
	PermWorkflow Permission = "workflow"
)

// APIKeyRecord is the persisted shape of an issued API key. The plaintext
// key is never stored — only its SHA-256 hash (spec.md §3).
type APIKeyRecord struct {
	Hash        string       `json:"hash"`
	Label       string       `json:"label"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	Revoked     bool         `json:"revoked"`
}

// APIKeyStore issues, validates, and revokes API keys in memory, keyed by
// hash. Safe for concurrent use.
type APIKeyStore struct {
	mu      sync.RWMutex
	records map[string]*APIKeyRecord
	now     func() time.Time
}

// NewAPIKeyStore constructs an empty store.
func NewAPIKeyStore() *APIKeyStore {
	return &APIKeyStore{
		records: make(map[string]*APIKeyRecord),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func hashKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Issue generates a 32-byte random key prefixed with KeyPrefix, stores only
// its hash with label/permissions/timestamps, and returns the plaintext
// once — it is never retrievable again (spec.md §4.6).
func (s *APIKeyStore) Issue(label string, perms []Permission, ttl time.Duration) (plaintext string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", apperr.New(apperr.ErrCodeInternal, "failed to generate api key", err)
	}
	plaintext = KeyPrefix + hex.EncodeToString(raw)

	now := s.now()
	rec := &APIKeyRecord{
		Hash:        hashKey(plaintext),
		Label:       label,
		Permissions: perms,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
		Revoked:     false,
	}

	s.mu.Lock()
	s.records[rec.Hash] = rec
	s.mu.Unlock()

	return plaintext, nil
}

// Validate succeeds when the key has KeyPrefix, a record with the matching
// hash exists, it is not revoked, and its expiry is in the future.
func (s *APIKeyStore) Validate(plaintext string) (*APIKeyRecord, error) {
	if len(plaintext) <= len(KeyPrefix) || plaintext[:len(KeyPrefix)] != KeyPrefix {
		return nil, apperr.New(apperr.ErrCodeAuthMalformed, "api key missing expected prefix", nil)
	}

	hash := hashKey(plaintext)
	s.mu.RLock()
	rec, ok := s.records[hash]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.New(apperr.ErrCodeAuthInvalidToken, "unknown api key", nil)
	}
	if rec.Revoked {
		return nil, apperr.New(apperr.ErrCodeAuthRevoked, "api key has been revoked", nil)
	}
	if s.now().After(rec.ExpiresAt) {
		return nil, apperr.New(apperr.ErrCodeAuthExpired, "api key has expired", nil)
	}

	clone := *rec
	return &clone, nil
}

// Revoke flips a key's revoked flag by its hash. It accepts the plaintext
// key, not the hash, to mirror how a caller holds the key.
func (s *APIKeyStore) Revoke(plaintext string) error {
	hash := hashKey(plaintext)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[hash]
	if !ok {
		return apperr.New(apperr.ErrCodeAuthInvalidToken, "unknown api key", nil)
	}
	rec.Revoked = true
	return nil
}
