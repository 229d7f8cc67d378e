package plugin

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beekeeper-studio/vite-plugin/config"
)

// fakeHost implements HostServer for tests and replays events on demand.
type fakeHost struct {
	watched     []string
	changeFns   []func(string)
	middlewares []func(http.Handler) http.Handler
	listenFns   []func(int)
	watchErr    error
}

func (f *fakeHost) Watch(path string) error {
	if f.watchErr != nil {
		return f.watchErr
	}
	f.watched = append(f.watched, path)
	return nil
}

func (f *fakeHost) OnFileChange(fn func(string)) { f.changeFns = append(f.changeFns, fn) }

func (f *fakeHost) Use(mw func(http.Handler) http.Handler) {
	f.middlewares = append(f.middlewares, mw)
}

func (f *fakeHost) OnListening(fn func(int)) { f.listenFns = append(f.listenFns, fn) }

func (f *fakeHost) emitChange(path string) {
	for _, fn := range f.changeFns {
		fn(path)
	}
}

func (f *fakeHost) emitListening(port int) {
	for _, fn := range f.listenFns {
		fn(port)
	}
}

func (f *fakeHost) handler() http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("passed through"))
	})
	for i := len(f.middlewares) - 1; i >= 0; i-- {
		h = f.middlewares[i](h)
	}
	return h
}

func newServePlugin(t *testing.T, root string, entries ...config.Entrypoint) *Plugin {
	t.Helper()
	p := New(Options{Entrypoints: entries})
	p.ConfigResolved(ResolvedConfig{
		Root:    root,
		Command: CommandServe,
		Server:  ServerConfig{Port: 5173},
	})
	return p
}

func writeSource(t *testing.T, root, name string) {
	t.Helper()
	html := `<head></head><img src="/logo.png">`
	if err := os.WriteFile(filepath.Join(root, name), []byte(html), 0644); err != nil {
		t.Fatalf("Failed to write source %s: %v", name, err)
	}
}

func TestNew_DefaultEntrypoints(t *testing.T) {
	p := New(Options{})
	entries := p.Entrypoints()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 default entrypoint, got %d", len(entries))
	}
	if entries[0].Input != "index.html" || entries[0].Output != "dist/index.html" {
		t.Errorf("Unexpected default entrypoint: %v", entries[0])
	}
}

func TestConfigureServer_BuildModeInstallsNothing(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "index.html")

	p := New(Options{})
	p.ConfigResolved(ResolvedConfig{Root: root, Command: CommandBuild})

	host := &fakeHost{}
	if err := p.ConfigureServer(host); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(host.middlewares) != 0 || len(host.watched) != 0 || len(host.listenFns) != 0 {
		t.Error("Expected build mode to register nothing on the server")
	}
	if _, err := os.Stat(filepath.Join(root, "dist")); !os.IsNotExist(err) {
		t.Error("Expected build mode to write no dev output")
	}
}

func TestConfigureServer_WritesWithFallbackThenRebinds(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "index.html")

	p := newServePlugin(t, root, config.Entrypoint{Input: "index.html", Output: "dist/index.html"})
	host := &fakeHost{}
	if err := p.ConfigureServer(host); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out := filepath.Join(root, "dist", "index.html")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Expected initial write, got %v", err)
	}
	if !strings.Contains(string(data), "http://localhost:5173/@vite/client") {
		t.Error("Expected initial write to use the fallback port")
	}

	// The listening notification carries the actually bound port
	host.emitListening(4321)
	data, _ = os.ReadFile(out)
	if !strings.Contains(string(data), "http://localhost:4321/@vite/client") {
		t.Error("Expected rewrite with the captured port after listening")
	}

	// A second notification must not change the captured port
	host.emitListening(9999)
	data, _ = os.ReadFile(out)
	if strings.Contains(string(data), "9999") {
		t.Error("Expected port capture to be one-time")
	}
}

func TestConfigureServer_ProvisionsAssets(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "index.html")

	p := newServePlugin(t, root, config.Entrypoint{Input: "index.html", Output: "dist/index.html"})
	if err := p.ConfigureServer(&fakeHost{}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, name := range []string{"error.html", "eventForwarder.js"} {
		if _, err := os.Stat(filepath.Join(root, "dist", name)); err != nil {
			t.Errorf("Expected %s to be provisioned: %v", name, err)
		}
	}
}

func TestWatcher_RewritesOnMatchingChange(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "index.html")

	p := newServePlugin(t, root, config.Entrypoint{Input: "index.html", Output: "dist/index.html"})
	host := &fakeHost{}
	if err := p.ConfigureServer(host); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	srcAbs, _ := filepath.Abs(filepath.Join(root, "index.html"))
	if len(host.watched) != 1 || host.watched[0] != srcAbs {
		t.Fatalf("Expected source to be watched, got %v", host.watched)
	}

	out := filepath.Join(root, "dist", "index.html")
	if err := os.Remove(out); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	host.emitChange(srcAbs)
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Expected change notification to rewrite the entrypoint: %v", err)
	}
}

func TestWatcher_IgnoresUnrelatedChange(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "index.html")

	p := newServePlugin(t, root, config.Entrypoint{Input: "index.html", Output: "dist/index.html"})
	host := &fakeHost{}
	if err := p.ConfigureServer(host); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	out := filepath.Join(root, "dist", "index.html")
	if err := os.Remove(out); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	host.emitChange(filepath.Join(root, "unrelated.html"))
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("Expected unrelated change to trigger no writes")
	}
}

func TestWatcher_DuplicateInputsTriggerIndependently(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "index.html")

	p := newServePlugin(t, root,
		config.Entrypoint{Input: "index.html", Output: "dist/index.html"},
		config.Entrypoint{Input: "index.html", Output: "alt/index.html"},
	)
	host := &fakeHost{}
	if err := p.ConfigureServer(host); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, out := range []string{"dist/index.html", "alt/index.html"} {
		if err := os.Remove(filepath.Join(root, out)); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	srcAbs, _ := filepath.Abs(filepath.Join(root, "index.html"))
	host.emitChange(srcAbs)

	for _, out := range []string{"dist/index.html", "alt/index.html"} {
		if _, err := os.Stat(filepath.Join(root, out)); err != nil {
			t.Errorf("Expected %s to be rewritten: %v", out, err)
		}
	}
}

func TestConfigureServer_MiddlewareInstalled(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "index.html")
	manifestJSON := `{"id": "abc123"}`
	if err := os.WriteFile(filepath.Join(root, "manifest.json"), []byte(manifestJSON), 0644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	p := newServePlugin(t, root, config.Entrypoint{Input: "index.html", Output: "dist/index.html"})
	host := &fakeHost{}
	if err := p.ConfigureServer(host); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	handler := host.handler()

	req := httptest.NewRequest("GET", "/__bks_vite_plugin__info", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "abc123") {
		t.Errorf("Expected info endpoint through installed middleware, got %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/data", nil)
	req.Header.Set("Origin", "plugin://other")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected origin guard through installed middleware, got %d", rec.Code)
	}
}

func TestConfigureServer_WatchFailureIsNonFatal(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "index.html")

	p := newServePlugin(t, root, config.Entrypoint{Input: "index.html", Output: "dist/index.html"})
	host := &fakeHost{watchErr: errors.New("inotify limit reached")}
	if err := p.ConfigureServer(host); err != nil {
		t.Fatalf("Expected watch failure to be a warning, got %v", err)
	}
}

func TestConfigureServer_MissingSourceIsNonFatal(t *testing.T) {
	root := t.TempDir()

	p := newServePlugin(t, root, config.Entrypoint{Input: "missing.html", Output: "dist/missing.html"})
	if err := p.ConfigureServer(&fakeHost{}); err != nil {
		t.Fatalf("Expected missing source to be non-fatal, got %v", err)
	}
}
