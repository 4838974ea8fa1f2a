package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
	"github.com/samirrijal/oceanhelm/internal/core/ports"
	"github.com/samirrijal/oceanhelm/internal/core/state"
	"github.com/samirrijal/oceanhelm/internal/pkg/geospatial"
	"github.com/samirrijal/oceanhelm/internal/pkg/metrics"
)

// Placeholder endpoint names installed when the analyst model did not
// identify the locations.
const (
	defaultOriginName      = "Origin Point"
	defaultDestinationName = "Destination Point"
)

// Greedy: the whole span from the first { to the last }, so prose
// around the report is discarded and nested objects survive.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// RouteService plans routes through the analyst model and explains
// routing decisions through the chat model. A successful plan replaces
// the shared mission.
type RouteService struct {
	oracle       ports.CompletionClient
	mission      *state.MissionStore
	events       ports.EventPublisher // may be nil
	chatModel    string
	analystModel string
	speedKnots   float64
}

// NewRouteService creates a RouteService.
func NewRouteService(oracle ports.CompletionClient, mission *state.MissionStore,
	events ports.EventPublisher, chatModel, analystModel string, speedKnots float64) *RouteService {
	return &RouteService{
		oracle:       oracle,
		mission:      mission,
		events:       events,
		chatModel:    chatModel,
		analystModel: analystModel,
		speedKnots:   speedKnots,
	}
}

// Plan requests a structured route analysis for the given endpoints.
// The oracle's transit-time figure is always recomputed from distance
// and cruise speed; models are unreliable at arithmetic. On any failure
// the error propagates and the mission is left untouched.
func (s *RouteService) Plan(ctx context.Context, start, end domain.GeoPoint) (domain.RouteReport, error) {
	prompt := buildRoutePrompt(start, end, s.speedKnots)

	metrics.OracleRequests.WithLabelValues(s.analystModel, "plan_route").Inc()
	raw, err := s.oracle.Complete(ctx, s.analystModel, prompt, "Generate Report.", 0.1)
	if err != nil {
		metrics.OracleFailures.WithLabelValues(s.analystModel, "plan_route").Inc()
		return nil, fmt.Errorf("route oracle: %w", err)
	}

	body := jsonObjectPattern.FindString(raw)
	if body == "" {
		return nil, fmt.Errorf("no JSON object in route reply")
	}

	var report domain.RouteReport
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("parse route report: %w", err)
	}

	basic, _ := report["basic_info"].(map[string]any)
	if basic == nil {
		basic = map[string]any{}
		report["basic_info"] = basic
	}

	dist, _ := basic["distance_nm"].(float64)
	if dist <= 0 {
		dist = geospatial.DistanceNM(start.Lat, start.Lng, end.Lat, end.Lng)
		basic["distance_nm"] = dist
	}
	basic["estimated_time_days"] = estimateDays(dist, s.speedKnots)
	basic["speed_knots"] = s.speedKnots

	mission := domain.Mission{
		Active:      true,
		Origin:      domain.Waypoint{GeoPoint: start, Name: endpointName(basic, "origin", defaultOriginName)},
		Destination: domain.Waypoint{GeoPoint: end, Name: endpointName(basic, "destination", defaultDestinationName)},
	}
	if summary, ok := report["captain_summary"].(string); ok {
		mission.Summary = summary
	}
	s.mission.Replace(mission)
	s.publishMission(ctx, &mission)

	return report, nil
}

// ExplainDecision asks the chat model to justify the chosen route over
// its alternatives and returns the parsed verdict verbatim.
func (s *RouteService) ExplainDecision(ctx context.Context, chosen map[string]any,
	alternates []map[string]any, vesselSpeed float64) (map[string]any, error) {
	if vesselSpeed <= 0 {
		vesselSpeed = s.speedKnots
	}
	prompt, err := buildComparisonPrompt(chosen, alternates, vesselSpeed)
	if err != nil {
		return nil, err
	}

	metrics.OracleRequests.WithLabelValues(s.chatModel, "explain_decision").Inc()
	raw, err := s.oracle.Complete(ctx, s.chatModel, prompt, "Explain decision.", 0.2)
	if err != nil {
		metrics.OracleFailures.WithLabelValues(s.chatModel, "explain_decision").Inc()
		return nil, fmt.Errorf("comparison oracle: %w", err)
	}

	body := jsonObjectPattern.FindString(raw)
	if body == "" {
		return nil, fmt.Errorf("no JSON object in comparison reply")
	}

	var verdict map[string]any
	if err := json.Unmarshal([]byte(body), &verdict); err != nil {
		return nil, fmt.Errorf("parse comparison verdict: %w", err)
	}
	return verdict, nil
}

// estimateDays converts distance and cruise speed into transit days,
// rounded to one decimal.
func estimateDays(distanceNM, speedKnots float64) float64 {
	return math.Round(distanceNM/speedKnots/24*10) / 10
}

// endpointName digs basic_info.<key>.name out of the report, falling
// back to a fixed placeholder.
func endpointName(basic map[string]any, key, fallback string) string {
	if ep, ok := basic[key].(map[string]any); ok {
		if name, ok := ep["name"].(string); ok && name != "" {
			return name
		}
	}
	return fallback
}

func (s *RouteService) publishMission(ctx context.Context, m *domain.Mission) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishMissionUpdate(ctx, m); err != nil {
		slog.Warn("mission publish failed", "error", err)
	}
}

// buildRoutePrompt renders the analyst instructions, pinning the output
// schema so the reply is machine-extractable.
func buildRoutePrompt(start, end domain.GeoPoint, speedKnots float64) string {
	return fmt.Sprintf(`You are an advanced Naval Route Planning and Decision Support AI.

INPUT DATA:
Start: %v, %v
End: %v, %v
Speed: %v knots

TASK: Analyze route and return COMPLETE JSON report.

OUTPUT JSON STRUCTURE:
{
  "basic_info": {
    "origin": { "name": "Name", "coordinates": "%v, %v" },
    "destination": { "name": "Name", "coordinates": "%v, %v" },
    "primary_route_name": "Route Name",
    "distance_nm": 0,
    "estimated_time_days": 0,
    "speed_knots": %v,
    "risk_level": "SAFE | CAUTION | DANGER"
  },
  "risk_breakdown": [ { "type": "Weather", "severity": "LOW", "description": "..." } ],
  "weather_summary": { "avg_wave_height_m": "0-0", "avg_wind_speed_knots": "0-0", "weather_notes": "..." },
  "good_to_have": { "fuel_estimation": { "estimated_fuel_tons": 0 } },
  "alternate_routes": [ { "route_name": "Alt 1", "rejection_reason": "Too slow" } ],
  "captain_summary": "..."
}`,
		start.Lat, start.Lng, end.Lat, end.Lng, speedKnots,
		start.Lat, start.Lng, end.Lat, end.Lng, speedKnots)
}

// buildComparisonPrompt renders the route-justification instructions.
func buildComparisonPrompt(chosen map[string]any, alternates []map[string]any, vesselSpeed float64) (string, error) {
	chosenJSON, err := json.Marshal(chosen)
	if err != nil {
		return "", fmt.Errorf("marshal chosen route: %w", err)
	}
	altJSON, err := json.Marshal(alternates)
	if err != nil {
		return "", fmt.Errorf("marshal alternate routes: %w", err)
	}

	return fmt.Sprintf(`You are a Senior Maritime Navigation Officer.

TASK: Compare chosen route vs alternatives.

INPUT DATA:
1. CHOSEN: %s
2. REJECTED: %s
3. VESSEL SPEED: %v knots

OUTPUT JSON:
{
  "explain_route_decision": {
    "chosen_route_reason": "Primary advantage...",
    "rejected_routes": [ { "route_name": "Name", "rejection_reason": "Reason" } ],
    "trade_off_summary": "What was sacrificed? (e.g. Cost vs Safety)"
  }
}`, chosenJSON, altJSON, vesselSpeed), nil
}
