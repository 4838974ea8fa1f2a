package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/oceanhelm/internal/adapters/http"
	"github.com/samirrijal/oceanhelm/internal/core/domain"
	"github.com/samirrijal/oceanhelm/internal/core/state"
	"github.com/samirrijal/oceanhelm/internal/core/usecases"
)

// ---- Mock ports ----

type mockOracle struct {
	completeFn func(ctx context.Context, model, system, user string, temperature float32) (string, error)
}

func (m *mockOracle) Complete(ctx context.Context, model, system, user string, temperature float32) (string, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, model, system, user, temperature)
	}
	return "Aye, Captain.", nil
}

type mockGeocoder struct {
	lookupFn func(ctx context.Context, name string) *domain.GeoPoint
}

func (m *mockGeocoder) Lookup(ctx context.Context, name string) *domain.GeoPoint {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, name)
	}
	return nil
}

type mockMarine struct{}

func (m *mockMarine) Fetch(ctx context.Context, lat, lng float64) domain.MarineReading {
	return domain.MarineReading{WaveHeight: 0.5, WindWave: 0.2}
}

// ---- Test helpers ----

func oracleReplying(reply string) *mockOracle {
	return &mockOracle{
		completeFn: func(context.Context, string, string, string, float32) (string, error) {
			return reply, nil
		},
	}
}

func oracleFailing() *mockOracle {
	return &mockOracle{
		completeFn: func(context.Context, string, string, string, float32) (string, error) {
			return "", errors.New("upstream 503")
		},
	}
}

func makeDeps(oracle *mockOracle, geocoder *mockGeocoder) *handler.Dependencies {
	camera := state.NewCameraStore()
	mission := state.NewMissionStore()
	return &handler.Dependencies{
		Chat:      usecases.NewChatService(oracle, geocoder, camera, mission, nil, "chat-model"),
		Routes:    usecases.NewRouteService(oracle, mission, nil, "chat-model", "analyst-model", 20.0),
		Sentinel:  usecases.NewSentinelService(oracle, "chat-model"),
		Sitrep:    usecases.NewSitrepService(oracle, "analyst-model"),
		OceanData: usecases.NewOceanDataService(&mockMarine{}),
		Camera:    camera,
		Mission:   mission,
	}
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (map[string]any, int) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("parse body %q: %v", raw, err)
	}
	return parsed, resp.StatusCode
}

// ---- Status ----

func TestStatus_ReportsMissionFlag(t *testing.T) {
	deps := makeDeps(&mockOracle{}, &mockGeocoder{})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "OceanHelm Systems Online" {
		t.Errorf("unexpected status %v", body["status"])
	}
	if body["mission_active"] != false {
		t.Error("expected mission_active false before a plan")
	}

	deps.Mission.Replace(domain.Mission{Active: true, Summary: "test"})
	resp, err = app.Test(httptest.NewRequest("GET", "/", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["mission_active"] != true {
		t.Error("expected mission_active true after replace")
	}
}

// ---- Chat ----

func TestChat_LookupProducesCommand(t *testing.T) {
	geo := &mockGeocoder{
		lookupFn: func(_ context.Context, name string) *domain.GeoPoint {
			if name != "Paris" {
				t.Errorf("geocoder got %q", name)
			}
			return &domain.GeoPoint{Lat: 48.85, Lng: 2.35}
		},
	}
	deps := makeDeps(oracleReplying("[LOOKUP: Paris]"), geo)
	app := setupApp(deps)

	body, code := postJSON(t, app, "/chat", `{"message":"take me to paris"}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(body["reply"].(string), "Paris") {
		t.Errorf("reply should name the target, got %v", body["reply"])
	}
	cmd, ok := body["command"].(map[string]any)
	if !ok {
		t.Fatalf("expected command object, got %v", body["command"])
	}
	if cmd["type"] != "fly_to" {
		t.Errorf("command type = %v", cmd["type"])
	}
	if cmd["lat"] != 48.85 || cmd["lng"] != 2.35 {
		t.Errorf("command coords = %v,%v", cmd["lat"], cmd["lng"])
	}
}

func TestChat_DegradedOnOracleFailure(t *testing.T) {
	deps := makeDeps(oracleFailing(), &mockGeocoder{})
	app := setupApp(deps)

	body, code := postJSON(t, app, "/chat", `{"message":"hello"}`)
	if code != 200 {
		t.Fatalf("degraded responses keep 200, got %d", code)
	}
	if body["reply"] != "Uplink unstable. AI offline." {
		t.Errorf("unexpected degraded reply %v", body["reply"])
	}
	if body["command"] != nil {
		t.Errorf("degraded reply must carry no command, got %v", body["command"])
	}
}

func TestChat_BadBody(t *testing.T) {
	app := setupApp(makeDeps(&mockOracle{}, &mockGeocoder{}))

	_, code := postJSON(t, app, "/chat", `{not json`)
	if code != 400 {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	app := setupApp(makeDeps(&mockOracle{}, &mockGeocoder{}))

	_, code := postJSON(t, app, "/chat", `{"message":"  "}`)
	if code != 400 {
		t.Fatalf("expected 400, got %d", code)
	}
}

// ---- Sentinel ----

func TestSentinel_Verdict(t *testing.T) {
	app := setupApp(makeDeps(oracleReplying("NO ANOMALIES DETECTED"), &mockGeocoder{}))

	body, code := postJSON(t, app, "/sentinel", `{"context":"TEMP=21.3 PSU=35.1"}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["alert"] != "NO ANOMALIES DETECTED" {
		t.Errorf("alert = %v", body["alert"])
	}
}

func TestSentinel_Degraded(t *testing.T) {
	app := setupApp(makeDeps(oracleFailing(), &mockGeocoder{}))

	body, code := postJSON(t, app, "/sentinel", `{"context":"TEMP=21.3"}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["alert"] != "Sentinel Analysis Unavailable." {
		t.Errorf("degraded alert = %v", body["alert"])
	}
}

// ---- Route planning ----

const planReply = "Course plotted. ```json\n" + `{
  "basic_info": {
    "primary_route_name": "North Atlantic Arc",
    "origin": { "name": "New York", "coordinates": "40.7, -74.0" },
    "destination": { "name": "London", "coordinates": "51.5, -0.1" },
    "distance_nm": 3000,
    "estimated_time_days": 99,
    "risk_level": "SAFE"
  },
  "captain_summary": "Clear passage expected."
}` + "\n```"

func TestPlanRoute_InstallsMission(t *testing.T) {
	deps := makeDeps(oracleReplying(planReply), &mockGeocoder{})
	app := setupApp(deps)

	body, code := postJSON(t, app, "/plan-route",
		`{"start_lat":40.7,"start_lng":-74.0,"end_lat":51.5,"end_lng":-0.1}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	basic, ok := body["basic_info"].(map[string]any)
	if !ok {
		t.Fatalf("missing basic_info in %v", body)
	}
	// 3000 nm at 20 knots, not the model's arithmetic
	if basic["estimated_time_days"] != 6.3 {
		t.Errorf("estimated_time_days = %v", basic["estimated_time_days"])
	}
	if !deps.Mission.Active() {
		t.Error("successful plan should activate the mission")
	}
	m := deps.Mission.Snapshot()
	if m.Origin.Name != "New York" || m.Destination.Name != "London" {
		t.Errorf("mission endpoints = %q -> %q", m.Origin.Name, m.Destination.Name)
	}
}

func TestPlanRoute_Degraded(t *testing.T) {
	deps := makeDeps(oracleFailing(), &mockGeocoder{})
	app := setupApp(deps)

	body, code := postJSON(t, app, "/plan-route",
		`{"start_lat":0,"start_lng":0,"end_lat":1,"end_lng":1}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	basic, ok := body["basic_info"].(map[string]any)
	if !ok {
		t.Fatalf("missing basic_info in %v", body)
	}
	if basic["risk_level"] != "CAUTION" || basic["primary_route_name"] != "Error" {
		t.Errorf("degraded basic_info = %v", basic)
	}
	if body["captain_summary"] != "Route calculation failed." {
		t.Errorf("degraded summary = %v", body["captain_summary"])
	}
	if deps.Mission.Active() {
		t.Error("failed plan must not activate the mission")
	}
}

// ---- Explain decision ----

func TestExplainDecision_Degraded(t *testing.T) {
	app := setupApp(makeDeps(oracleFailing(), &mockGeocoder{}))

	body, code := postJSON(t, app, "/explain-decision",
		`{"chosen_route":{"name":"A"},"alternate_routes":[],"vessel_speed":18}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	verdict, ok := body["explain_route_decision"].(map[string]any)
	if !ok {
		t.Fatalf("missing explain_route_decision in %v", body)
	}
	if verdict["trade_off_summary"] != "Manual review required." {
		t.Errorf("degraded verdict = %v", verdict)
	}
}

func TestExplainDecision_RequiresChosenRoute(t *testing.T) {
	app := setupApp(makeDeps(&mockOracle{}, &mockGeocoder{}))

	_, code := postJSON(t, app, "/explain-decision", `{"alternate_routes":[]}`)
	if code != 400 {
		t.Fatalf("expected 400, got %d", code)
	}
}

// ---- Ocean data ----

func TestOceanData_RecordCount(t *testing.T) {
	app := setupApp(makeDeps(&mockOracle{}, &mockGeocoder{}))

	req := httptest.NewRequest("GET", "/ocean-data", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var records []domain.FloatReading
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 205 {
		t.Fatalf("expected 205 records, got %d", len(records))
	}
}

// ---- Storm analysis ----

func TestAnalyze_Sitrep(t *testing.T) {
	app := setupApp(makeDeps(oracleReplying("# SITREP\nSevere threat."), &mockGeocoder{}))

	body, code := postJSON(t, app, "/analyze",
		`{"name":"Typhoon Mawar","wind":120,"lat":14.2,"lng":133.8,"category":"4","lifecycle":"intensifying","affected_ships":3}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "analysis_complete" {
		t.Errorf("status = %v", body["status"])
	}
	meta, ok := body["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("missing metadata in %v", body)
	}
	if meta["storm_name"] != "Typhoon Mawar" {
		t.Errorf("storm_name = %v", meta["storm_name"])
	}
}

func TestAnalyze_Degraded(t *testing.T) {
	app := setupApp(makeDeps(oracleFailing(), &mockGeocoder{}))

	body, code := postJSON(t, app, "/analyze", `{"name":"Typhoon Mawar","wind":120}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "error" {
		t.Errorf("status = %v", body["status"])
	}
	if body["sitrep"] != "AI Intelligence Offline. Manual Assessment Required." {
		t.Errorf("degraded sitrep = %v", body["sitrep"])
	}
}
