package nethttp

import (
	"net/http"

	"github.com/beekeeper-studio/vite-plugin/base"
)

// Middleware creates a net/http middleware using the shared plugin logic.
// Compatible with standard library mux, gorilla mux, and any connect-style
// middleware chain. manifestID is called per request so descriptor edits take
// effect immediately.
func Middleware(manifestID func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == base.InfoPath {
				w.Header().Set("Content-Type", base.InfoContentType)
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.WriteHeader(http.StatusOK)
				w.Write(base.InfoResponse(manifestID()))
				return
			}

			if base.CheckOrigin(r.Header.Get("Origin"), manifestID()) == base.Block {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
