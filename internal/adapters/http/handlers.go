package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
)

// StatusHandler reports liveness and whether a mission is underway.
func StatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":         "OceanHelm Systems Online",
			"mission_active": deps.Mission.Active(),
		})
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

func chatFallback(error) any {
	return domain.ChatResult{Reply: "Uplink unstable. AI offline.", Command: nil}
}

// ChatHandler runs one bridge-chat turn through the oracle and intent
// extraction pipeline.
func ChatHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Message) == "" {
			return errBadRequest(c, "message is required")
		}

		result, err := deps.Chat.Handle(c.Context(), req.Message)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

type sentinelRequest struct {
	Context string `json:"context"`
}

func sentinelFallback(error) any {
	return fiber.Map{"alert": "Sentinel Analysis Unavailable."}
}

// SentinelHandler evaluates float telemetry against anomaly thresholds.
func SentinelHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req sentinelRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		alert, err := deps.Sentinel.Check(c.Context(), req.Context)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"alert": alert})
	}
}

type planRouteRequest struct {
	StartLat float64 `json:"start_lat"`
	StartLng float64 `json:"start_lng"`
	EndLat   float64 `json:"end_lat"`
	EndLng   float64 `json:"end_lng"`
}

func planRouteFallback(error) any {
	return fiber.Map{
		"basic_info": fiber.Map{
			"risk_level":         "CAUTION",
			"primary_route_name": "Error",
		},
		"captain_summary": "Route calculation failed.",
	}
}

// PlanRouteHandler generates a route analysis report and installs the
// resulting mission as shared chat context.
func PlanRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req planRouteRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		report, err := deps.Routes.Plan(c.Context(),
			domain.GeoPoint{Lat: req.StartLat, Lng: req.StartLng},
			domain.GeoPoint{Lat: req.EndLat, Lng: req.EndLng},
		)
		if err != nil {
			return err
		}
		return c.JSON(report)
	}
}

type explainDecisionRequest struct {
	ChosenRoute     map[string]any   `json:"chosen_route"`
	AlternateRoutes []map[string]any `json:"alternate_routes"`
	VesselSpeed     float64          `json:"vessel_speed"`
}

func explainFallback(error) any {
	return fiber.Map{
		"explain_route_decision": fiber.Map{
			"chosen_route_reason": "Analysis unavailable.",
			"rejected_routes":     []any{},
			"trade_off_summary":   "Manual review required.",
		},
	}
}

// ExplainDecisionHandler justifies a chosen route against its alternates.
func ExplainDecisionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req explainDecisionRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.ChosenRoute == nil {
			return errBadRequest(c, "chosen_route is required")
		}

		verdict, err := deps.Routes.ExplainDecision(c.Context(),
			req.ChosenRoute, req.AlternateRoutes, req.VesselSpeed)
		if err != nil {
			return err
		}
		return c.JSON(verdict)
	}
}

// OceanDataHandler serves the float overlay dataset. Synthesis never
// fails, so no degraded wrapper is needed.
func OceanDataHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.OceanData.Snapshot(c.Context()))
	}
}

func analyzeFallback(err error) any {
	return fiber.Map{
		"status": "error",
		"error":  err.Error(),
		"sitrep": "AI Intelligence Offline. Manual Assessment Required.",
	}
}

// AnalyzeHandler produces a storm situation report.
func AnalyzeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var storm domain.StormPayload
		if err := c.BodyParser(&storm); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		report, err := deps.Sitrep.Analyze(c.Context(), storm)
		if err != nil {
			return err
		}
		return c.JSON(report)
	}
}
