// Package devserver provides the built-in development server the CLI runs:
// an HTTP server rooted at the plugin project that serves source files,
// carries the plugin middleware chain, watches registered files for changes,
// and announces the port it actually bound.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/beekeeper-studio/vite-plugin/internal/devlog"
)

// Server hosts a plugin project during development. It satisfies the
// plugin's HostServer interface.
type Server struct {
	root string
	port int

	echo *echo.Echo

	mu        sync.Mutex
	watched   map[string]bool
	changeFns []func(string)
	listenFns []func(int)

	listenOnce sync.Once
	watcher    *fsWatcher
}

// New creates a dev server rooted at the given project directory. port is
// the requested listen port; 0 lets the OS pick one.
func New(root string, port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	return &Server{
		root:    root,
		port:    port,
		echo:    e,
		watched: make(map[string]bool),
	}
}

// Use appends a net/http middleware to the request chain. Middleware runs
// ahead of static file serving, in registration order.
func (s *Server) Use(mw func(http.Handler) http.Handler) {
	s.echo.Use(echo.WrapMiddleware(mw))
}

// Watch registers an absolute file path for change notifications.
func (s *Server) Watch(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher == nil {
		w, err := newFSWatcher(s.dispatchChange)
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		s.watcher = w
	}

	if err := s.watcher.watchFile(path); err != nil {
		return err
	}
	s.watched[path] = true
	return nil
}

// OnFileChange registers a callback invoked with the absolute path of each
// changed watched file.
func (s *Server) OnFileChange(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changeFns = append(s.changeFns, fn)
}

// OnListening registers a callback invoked once, with the bound port, when
// the server starts accepting connections.
func (s *Server) OnListening(fn func(int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenFns = append(s.listenFns, fn)
}

func (s *Server) dispatchChange(path string) {
	s.mu.Lock()
	if !s.watched[path] {
		s.mu.Unlock()
		return
	}
	fns := append([]func(string){}, s.changeFns...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
}

// Start binds the listener, announces the bound port, and serves until ctx
// is cancelled.
func (s *Server) Start(ctx context.Context) error {
	// The dev client route must exist before the catch-all static handler so
	// injected module scripts load instead of falling through to a 404.
	registerDevClient(s.echo)

	// Serve project files so rewritten asset URLs resolve against this origin.
	s.echo.Static("/", s.root)

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to bind dev server port: %w", err)
	}

	bound := ln.Addr().(*net.TCPAddr).Port
	s.announceListening(bound)
	devlog.Logf(devlog.Green, "🚀 Dev server ready on http://localhost:%d", bound)

	s.echo.Listener = ln

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start("")
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.Close(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) announceListening(port int) {
	s.listenOnce.Do(func() {
		s.mu.Lock()
		fns := append([]func(int){}, s.listenFns...)
		s.mu.Unlock()
		for _, fn := range fns {
			fn(port)
		}
	})
}

// Close stops the HTTP server and releases the file watcher.
func (s *Server) Close(ctx context.Context) {
	if s.watcher != nil {
		s.watcher.close()
	}
	if err := s.echo.Shutdown(ctx); err != nil {
		devlog.Warnf("Force closing dev server: %v", err)
		s.echo.Close()
	}
}
