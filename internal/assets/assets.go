// Package assets ships the auxiliary runtime files delivered next to each
// entrypoint's output: the error page the injected fallback redirects to and
// the event-forwarding script the host runtime loads.
package assets

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/beekeeper-studio/vite-plugin/internal/devlog"
)

//go:embed files
var runtimeFiles embed.FS

// Names of the provisioned files, relative to each output directory.
var provisioned = []string{"eventForwarder.js", "error.html"}

// OutputDirs returns the distinct output directories for the given output
// paths, resolved against root, preserving first-seen order.
func OutputDirs(root string, outputs []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, out := range outputs {
		dir := filepath.Dir(filepath.Join(root, out))
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Provision copies the auxiliary runtime files into each directory, creating
// directories as needed. Every failure is downgraded to a warning: a broken
// error page must never stop the dev server from starting, and each file is
// skipped individually when its source cannot be read.
func Provision(dirs []string) {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			devlog.Warnf("Could not create asset directory %s: %v", dir, err)
			continue
		}

		for _, name := range provisioned {
			data, err := runtimeFiles.ReadFile("files/" + name)
			if err != nil {
				devlog.Warnf("Runtime asset %s is unavailable, skipping: %v", name, err)
				continue
			}
			dest := filepath.Join(dir, name)
			if err := os.WriteFile(dest, data, 0644); err != nil {
				devlog.Warnf("Could not provision %s: %v", dest, err)
				continue
			}
			devlog.Debugf("Provisioned %s", dest)
		}
	}
}
