package devserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// devClientPath is the module URL the transformer injects into every
// entrypoint. The built-in server has to answer it itself: a 404 here fires
// the injected onerror fallback and every page redirects to error.html.
const devClientPath = "/@vite/client"

// devClientJS is a minimal live-reload client: it pings its own URL and
// reloads the page when the server comes back after an outage.
const devClientJS = `// bks-vite dev client
const pingInterval = 1000;
let serverDown = false;

async function ping() {
  try {
    await fetch(import.meta.url, { method: "HEAD" });
    if (serverDown) {
      window.location.reload();
    }
    serverDown = false;
  } catch {
    serverDown = true;
  }
}

setInterval(ping, pingInterval);
console.log("[bks-vite] dev client connected");
`

func registerDevClient(e *echo.Echo) {
	handler := func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/javascript; charset=utf-8", []byte(devClientJS))
	}
	e.GET(devClientPath, handler)
	e.HEAD(devClientPath, handler)
}
