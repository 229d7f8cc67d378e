package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}
}

func TestID_ValidManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{"id": "abc123", "name": "Test Plugin"}`)

	if got := ID(dir); got != "abc123" {
		t.Errorf("Expected id 'abc123', got '%s'", got)
	}
}

func TestID_MissingFile(t *testing.T) {
	if got := ID(t.TempDir()); got != "" {
		t.Errorf("Expected empty id for missing manifest, got '%s'", got)
	}
}

func TestID_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{not json`)

	if got := ID(dir); got != "" {
		t.Errorf("Expected empty id for malformed manifest, got '%s'", got)
	}
}

func TestID_MissingIDField(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{"name": "anonymous"}`)

	if got := ID(dir); got != "" {
		t.Errorf("Expected empty id when field is absent, got '%s'", got)
	}
}

func TestID_ReadFresh(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{"id": "first"}`)

	if got := ID(dir); got != "first" {
		t.Fatalf("Expected id 'first', got '%s'", got)
	}

	// Descriptor edits take effect without restart
	writeManifest(t, dir, `{"id": "second"}`)
	if got := ID(dir); got != "second" {
		t.Errorf("Expected id 'second' after edit, got '%s'", got)
	}
}

func TestResolve_ErrorSurface(t *testing.T) {
	if _, err := Resolve(t.TempDir()); err == nil {
		t.Error("Expected Resolve to report a missing descriptor")
	}
}
