// Package manifest reads the plugin descriptor file at the project root.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beekeeper-studio/vite-plugin/internal/devlog"
)

// FileName is the descriptor file expected at the project root.
const FileName = "manifest.json"

// Manifest is the subset of the descriptor this tool reads.
type Manifest struct {
	ID string `json:"id"`
}

// Resolve reads root/manifest.json and returns its id field. The error makes
// the failure visible to callers that care; most go through ID instead.
func Resolve(root string) (string, error) {
	path := filepath.Join(root, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return m.ID, nil
}

// ID returns the manifest identity, or "" when the descriptor is missing,
// unreadable, or malformed. It never fails: identity-dependent features
// simply degrade to "no identity". The file is read fresh on every call so
// descriptor edits take effect without a server restart.
func ID(root string) string {
	id, err := Resolve(root)
	if err != nil {
		devlog.Warnf("Could not resolve manifest id: %v", err)
		return ""
	}
	return id
}
