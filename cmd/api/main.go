package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/oceanhelm/internal/adapters/http"
	natsadapter "github.com/samirrijal/oceanhelm/internal/adapters/nats"
	"github.com/samirrijal/oceanhelm/internal/adapters/nominatim"
	"github.com/samirrijal/oceanhelm/internal/adapters/openmeteo"
	"github.com/samirrijal/oceanhelm/internal/adapters/openrouter"
	"github.com/samirrijal/oceanhelm/internal/adapters/valkey"
	"github.com/samirrijal/oceanhelm/internal/core/ports"
	"github.com/samirrijal/oceanhelm/internal/core/state"
	"github.com/samirrijal/oceanhelm/internal/core/usecases"
	"github.com/samirrijal/oceanhelm/internal/pkg/config"
	"github.com/samirrijal/oceanhelm/internal/pkg/logging"
	"github.com/samirrijal/oceanhelm/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("oceanhelm-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache. The console runs without it, just slower on geocode and
	// marine lookups.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS event publisher. Optional; handlers work without a broker.
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		events = pub
		defer pub.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Upstream adapters
	oracle := openrouter.New(cfg.Oracle.BaseURL, cfg.Oracle.APIKey, cfg.Oracle.Referer, cfg.Oracle.Title)
	geocoder := nominatim.New(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second, cacheSvc)
	marine := openmeteo.New(cfg.Marine.BaseURL,
		time.Duration(cfg.Marine.TimeoutMS)*time.Millisecond, cacheSvc)

	// Shared console state
	camera := state.NewCameraStore()
	mission := state.NewMissionStore()

	// Use cases
	chatSvc := usecases.NewChatService(oracle, geocoder, camera, mission, events, cfg.Oracle.ChatModel)
	routeSvc := usecases.NewRouteService(oracle, mission, events,
		cfg.Oracle.ChatModel, cfg.Oracle.AnalystModel, cfg.Vessel.SpeedKnots)
	sentinelSvc := usecases.NewSentinelService(oracle, cfg.Oracle.ChatModel)
	sitrepSvc := usecases.NewSitrepService(oracle, cfg.Oracle.AnalystModel)
	oceanSvc := usecases.NewOceanDataService(marine)

	deps := &http.Dependencies{
		Chat:      chatSvc,
		Routes:    routeSvc,
		Sentinel:  sentinelSvc,
		Sitrep:    sitrepSvc,
		OceanData: oceanSvc,
		Camera:    camera,
		Mission:   mission,
		NATS:      natsConn,
		Cache:     cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "OceanHelm API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
