package chi

import (
	"net/http"

	"github.com/beekeeper-studio/vite-plugin/adapters/nethttp"
)

// Middleware creates a chi-compatible middleware using the shared plugin
// logic. chi middleware is plain net/http middleware, so this delegates to
// the nethttp adapter; it exists so chi users mount the adapter named for
// their router, matching the other adapters.
func Middleware(manifestID func() string) func(http.Handler) http.Handler {
	return nethttp.Middleware(manifestID)
}
