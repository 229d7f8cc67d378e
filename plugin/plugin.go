// Package plugin implements the dev-time plugin: it rewrites HTML
// entrypoints to load live-reloading assets from the dev server, keeps them
// in sync as sources change, and guards the server against foreign plugin
// origins.
package plugin

import (
	"net/http"
	"path/filepath"

	"github.com/beekeeper-studio/vite-plugin/adapters/nethttp"
	"github.com/beekeeper-studio/vite-plugin/config"
	"github.com/beekeeper-studio/vite-plugin/internal/assets"
	"github.com/beekeeper-studio/vite-plugin/internal/devlog"
	"github.com/beekeeper-studio/vite-plugin/internal/devport"
	"github.com/beekeeper-studio/vite-plugin/internal/manifest"
	"github.com/beekeeper-studio/vite-plugin/internal/transform"
)

// Commands the resolved config can report. Dev-time behavior only activates
// for CommandServe; a build run accepts configuration but installs nothing.
const (
	CommandServe = "serve"
	CommandBuild = "build"
)

// ServerConfig is the server section of the resolved configuration.
type ServerConfig struct {
	// Port is the configured dev port, used as a fallback until the server
	// reports the port it actually bound.
	Port int
}

// ResolvedConfig is the host-resolved build configuration the plugin reads.
type ResolvedConfig struct {
	// Root is the absolute project root path.
	Root string
	// Command distinguishes dev serving from production builds.
	Command string
	Server  ServerConfig
}

// HostServer is the capability surface the plugin needs from a dev server.
type HostServer interface {
	// Watch registers an absolute path with the server's change notifier.
	Watch(path string) error
	// OnFileChange registers a callback invoked with the changed path.
	OnFileChange(fn func(path string))
	// Use appends a middleware to the server's request chain.
	Use(mw func(http.Handler) http.Handler)
	// OnListening registers a one-time callback carrying the bound port.
	OnListening(fn func(port int))
}

// Options configures a Plugin.
type Options struct {
	// Entrypoints lists the (input, output) HTML pairs to process, relative
	// to the project root. Defaults to index.html -> dist/index.html.
	Entrypoints []config.Entrypoint
}

// Plugin prepares HTML entrypoints for the embedded plugin runtime during
// development.
type Plugin struct {
	entrypoints []config.Entrypoint
	cfg         ResolvedConfig
	port        *devport.State
}

// New creates a Plugin with the given options.
func New(opts Options) *Plugin {
	entries := opts.Entrypoints
	if len(entries) == 0 {
		entries = config.DefaultEntrypoints()
	}
	return &Plugin{
		entrypoints: entries,
		port:        devport.NewState(devport.DefaultFallback),
	}
}

// Name identifies the plugin to the host.
func (p *Plugin) Name() string {
	return "bks-vite-plugin"
}

// Entrypoints returns the configured entrypoint list.
func (p *Plugin) Entrypoints() []config.Entrypoint {
	return p.entrypoints
}

// ManifestID resolves the plugin identity from the project's descriptor
// file. Read fresh on every call; "" when unknown.
func (p *Plugin) ManifestID() string {
	return manifest.ID(p.cfg.Root)
}

// Port returns the dev port currently in effect.
func (p *Plugin) Port() int {
	return p.port.Current()
}

// ConfigResolved stores the host-resolved configuration. Must be called
// before ConfigureServer.
func (p *Plugin) ConfigResolved(cfg ResolvedConfig) {
	p.cfg = cfg
	p.port = devport.NewState(cfg.Server.Port)
}

// ConfigureServer wires the plugin into a dev server: provisions the
// auxiliary runtime files, installs the info and origin-guard middleware,
// writes all entrypoints against the fallback port, rewrites them once the
// server reports its bound port, and re-runs single entrypoints as their
// sources change. Outside of serve mode this is a no-op.
func (p *Plugin) ConfigureServer(srv HostServer) error {
	if p.cfg.Command != CommandServe {
		devlog.Debugf("Not a dev server run, skipping plugin setup")
		return nil
	}

	outputs := make([]string, len(p.entrypoints))
	for i, entry := range p.entrypoints {
		outputs[i] = entry.Output
	}
	assets.Provision(assets.OutputDirs(p.cfg.Root, outputs))

	srv.Use(nethttp.Middleware(p.ManifestID))

	// First pass with the fallback port; corrected once the server is up.
	p.writeAll()

	srv.OnListening(func(port int) {
		if p.port.Capture(port) {
			devlog.Logf(devlog.Cyan, "🔌 Dev server listening on port %d, rewriting entrypoints", port)
			p.writeAll()
		}
	})

	return p.bindWatcher(srv)
}

// bindWatcher registers every entrypoint source with the server's change
// notifier. Each change notification matching a registered absolute path
// triggers exactly one rewrite of that entrypoint; entrypoints sharing a
// source re-trigger independently, and there is no debouncing.
func (p *Plugin) bindWatcher(srv HostServer) error {
	type binding struct {
		abs   string
		entry config.Entrypoint
	}

	bindings := make([]binding, 0, len(p.entrypoints))
	for _, entry := range p.entrypoints {
		abs, err := filepath.Abs(filepath.Join(p.cfg.Root, entry.Input))
		if err != nil {
			devlog.Warnf("Could not resolve %s: %v", entry.Input, err)
			continue
		}
		if err := srv.Watch(abs); err != nil {
			devlog.Warnf("Could not watch %s: %v", entry.Input, err)
			continue
		}
		bindings = append(bindings, binding{abs: abs, entry: entry})
	}

	srv.OnFileChange(func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		for _, b := range bindings {
			if b.abs == abs {
				devlog.Logf(devlog.Cyan, "📝 %s changed, rewriting", b.entry.Input)
				p.write(b.entry)
			}
		}
	})

	return nil
}

func (p *Plugin) writeAll() {
	for _, entry := range p.entrypoints {
		p.write(entry)
	}
}

func (p *Plugin) write(entry config.Entrypoint) {
	if err := transform.WriteEntrypoint(p.cfg.Root, entry, p.port.Current(), p.ManifestID()); err != nil {
		devlog.Warnf("Could not write entrypoint %s: %v", entry.Input, err)
	}
}
