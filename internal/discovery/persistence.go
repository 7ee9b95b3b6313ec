// Package discovery implements Discovery (C9 of SPEC_FULL.md): a
// disk-persisted remote-agent registry, periodic health refresh, a
// text-based skill matcher, and a trust scorer over per-agent interaction
// history. Grounded on the teacher's internal/app/agent/kernel.StateFile
// atomic-write pattern (write to "<path>.tmp", then os.Rename onto the
// target) for crash-safe JSON persistence, generalized from markdown
// artifacts to JSON-encoded registry/trust snapshots.
package discovery

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/xactions/a2a-runtime/internal/apperr"
)

// writeJSONAtomic serializes v as indented JSON and writes it to path via
// a temp-file-then-rename, so a crash mid-write never leaves a truncated
// file in place.
func writeJSONAtomic(path string, v interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return apperr.New(apperr.ErrCodeFileOperation, "failed to create directory: "+dir, err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperr.New(apperr.ErrCodeFileOperation, "failed to marshal for persistence", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return apperr.New(apperr.ErrCodeFileOperation, "failed to write temp file: "+tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return apperr.New(apperr.ErrCodeFileOperation, "failed to rename temp file onto: "+path, err)
	}
	return nil
}

// readJSON loads path into v. A missing file is not an error — callers
// treat it as "start empty".
func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperr.New(apperr.ErrCodeFileOperation, "failed to read file: "+path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperr.New(apperr.ErrCodeFileOperation, "failed to unmarshal file: "+path, err)
	}
	return nil
}
