package http

import "github.com/gofiber/fiber/v2"

// CachingMiddleware sets Cache-Control headers on GET responses based on
// endpoint. Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		var ttl string
		switch c.Path() {
		case "/v1/health", "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case "/":
			ttl = "no-cache" // Mission flag must stay live

		case "/ocean-data":
			ttl = "no-store" // Resampled on every request
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
