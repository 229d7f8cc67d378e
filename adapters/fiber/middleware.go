package fiber

import (
	"github.com/gofiber/fiber/v2"

	"github.com/beekeeper-studio/vite-plugin/base"
)

// Middleware creates a Fiber middleware using the shared plugin logic.
func Middleware(manifestID func() string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == base.InfoPath {
			c.Set("Access-Control-Allow-Origin", "*")
			c.Set(fiber.HeaderContentType, base.InfoContentType)
			return c.Status(fiber.StatusOK).Send(base.InfoResponse(manifestID()))
		}

		if base.CheckOrigin(c.Get("Origin"), manifestID()) == base.Block {
			// Status only, empty body
			return c.Status(fiber.StatusForbidden).Send(nil)
		}

		return c.Next()
	}
}
