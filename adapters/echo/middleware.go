package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beekeeper-studio/vite-plugin/base"
)

// Middleware creates an Echo middleware using the shared plugin logic.
func Middleware(manifestID func() string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.Path == base.InfoPath {
				c.Response().Header().Set("Access-Control-Allow-Origin", "*")
				return c.Blob(http.StatusOK, base.InfoContentType, base.InfoResponse(manifestID()))
			}

			if base.CheckOrigin(c.Request().Header.Get("Origin"), manifestID()) == base.Block {
				return c.NoContent(http.StatusForbidden)
			}

			return next(c)
		}
	}
}
