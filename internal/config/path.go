package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~" to the user's home directory, the way
// the teacher's config loader resolves its own on-disk paths. Paths
// without a leading "~" are returned unchanged.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
