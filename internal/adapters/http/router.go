package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/oceanhelm/internal/pkg/metrics"
)

// Per-request timeout for endpoints that call the oracle. Free-tier
// models can take tens of seconds on a cold request.
const oracleTimeout = 60 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Console status + health
	app.Get("/", StatusHandler(deps))
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// Bridge console endpoints. Oracle-backed handlers run behind the
	// degraded boundary so the map client always gets a usable payload.
	app.Post("/chat", timeout.NewWithContext(Degraded(chatFallback, ChatHandler(deps)), oracleTimeout))
	app.Post("/sentinel", timeout.NewWithContext(Degraded(sentinelFallback, SentinelHandler(deps)), oracleTimeout))
	app.Post("/plan-route", timeout.NewWithContext(Degraded(planRouteFallback, PlanRouteHandler(deps)), oracleTimeout))
	app.Post("/explain-decision", timeout.NewWithContext(Degraded(explainFallback, ExplainDecisionHandler(deps)), oracleTimeout))
	app.Post("/analyze", timeout.NewWithContext(Degraded(analyzeFallback, AnalyzeHandler(deps)), oracleTimeout))
	app.Get("/ocean-data", OceanDataHandler(deps))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// WebSocket relay for helm events
	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
