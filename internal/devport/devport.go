// Package devport holds the dev server's bound port. The value starts at a
// configured fallback and is captured exactly once from the server's
// listening notification; after that it never changes for the life of the
// server.
package devport

import "sync"

// DefaultFallback is the conventional Vite dev port, used until the server
// reports the port it actually bound.
const DefaultFallback = 5173

// State is the single shared port value: one writer (the listening callback),
// many readers (rewrites and middleware).
type State struct {
	mu       sync.RWMutex
	port     int
	captured bool
}

// NewState returns a State serving the given fallback port. A non-positive
// fallback uses DefaultFallback.
func NewState(fallback int) *State {
	if fallback <= 0 {
		fallback = DefaultFallback
	}
	return &State{port: fallback}
}

// Current returns the captured port, or the fallback while the server has not
// yet reported listening.
func (s *State) Current() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.port
}

// Capture records the actually bound port. The first capture wins; later
// calls are ignored. Reports whether this call captured the value.
func (s *State) Capture(port int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.captured || port <= 0 {
		return false
	}
	s.port = port
	s.captured = true
	return true
}

// Captured reports whether the real port has been recorded yet.
func (s *State) Captured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.captured
}
