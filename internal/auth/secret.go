// Package auth implements Authentication (C4 of SPEC_FULL.md): API-key
// issue/validate/revoke, JWT issue/verify/refresh, permission checks, and
// outbound credential application. Grounded on the teacher's
// pkg/adk/auth.TokenService for the file-persisted-secret pattern
// (read-if-present, generate-and-persist-0600 otherwise) and its
// RWMutex-guarded in-memory cache of a sensitive value.
package auth

import (
	"crypto/rand"
	"os"
	"path/filepath"

	"github.com/xactions/a2a-runtime/internal/apperr"
)

// LoadOrCreateSecret reads a secret from path, or generates sizeBytes of
// crypto/rand and persists it with 0600 permissions if the file doesn't
// exist yet. It never signs with an empty secret (SPEC_FULL.md §12, §13
// decision 1).
func LoadOrCreateSecret(path string, sizeBytes int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		return data, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, apperr.New(apperr.ErrCodeFileOperation, "failed to read secret file: "+path, err)
	}

	secret := make([]byte, sizeBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, apperr.New(apperr.ErrCodeInternal, "failed to generate secret", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, apperr.New(apperr.ErrCodeFileOperation, "failed to create secret directory: "+dir, err)
		}
	}
	if err := os.WriteFile(path, secret, 0600); err != nil {
		return nil, apperr.New(apperr.ErrCodeFileOperation, "failed to persist secret file: "+path, err)
	}
	return secret, nil
}
