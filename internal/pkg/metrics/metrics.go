package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oceanhelm",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "oceanhelm",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "oceanhelm",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Oracle metrics
	OracleRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oceanhelm",
		Subsystem: "oracle",
		Name:      "requests_total",
		Help:      "Total completion requests sent to the oracle",
	}, []string{"model", "op"})

	OracleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oceanhelm",
		Subsystem: "oracle",
		Name:      "failures_total",
		Help:      "Total completion requests that errored or timed out",
	}, []string{"model", "op"})

	OracleLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "oceanhelm",
		Subsystem: "oracle",
		Name:      "request_duration_seconds",
		Help:      "Oracle completion latency in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
	}, []string{"model"})

	// Intent extraction metrics
	IntentsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oceanhelm",
		Subsystem: "chat",
		Name:      "intents_total",
		Help:      "Chat turns by extracted intent kind",
	}, []string{"kind"})

	CommandParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "oceanhelm",
		Subsystem: "chat",
		Name:      "command_parse_failures_total",
		Help:      "Bracketed command tokens that failed both parse strategies",
	})

	// Collaborator metrics
	GeocodeLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oceanhelm",
		Subsystem: "geocode",
		Name:      "lookups_total",
		Help:      "Geocoding lookups by outcome (resolved, miss, error)",
	}, []string{"outcome"})

	MarineFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "oceanhelm",
		Subsystem: "marine",
		Name:      "fallback_readings_total",
		Help:      "Marine weather requests served the fixed fallback reading",
	})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oceanhelm",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oceanhelm",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "oceanhelm",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
