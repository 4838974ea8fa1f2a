package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Degraded wraps a handler with the uniform failure boundary. When the
// handler returns an error the client receives the endpoint's fixed
// fallback payload with a 200 status; callers detect degraded operation
// by inspecting the body, never the transport status.
func Degraded(fallback func(err error) any, h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := h(c)
		if err == nil {
			return nil
		}
		slog.Warn("serving degraded response",
			"path", c.Path(),
			"error", err,
		)
		return c.Status(fiber.StatusOK).JSON(fallback(err))
	}
}
