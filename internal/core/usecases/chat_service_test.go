package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
	"github.com/samirrijal/oceanhelm/internal/core/state"
	"github.com/samirrijal/oceanhelm/internal/core/usecases"
)

const testChatModel = "test/chat-model"

func newChatService(oracle *mockOracle, geo *mockGeocoder) (*usecases.ChatService, *state.CameraStore, *state.MissionStore) {
	camera := state.NewCameraStore()
	mission := state.NewMissionStore()
	svc := usecases.NewChatService(oracle, geo, camera, mission, nil, testChatModel)
	return svc, camera, mission
}

func oracleReplying(reply string) *mockOracle {
	return &mockOracle{
		completeFn: func(ctx context.Context, model, system, user string, temperature float32) (string, error) {
			return reply, nil
		},
	}
}

func TestChat_LookupResolved(t *testing.T) {
	geo := &mockGeocoder{
		lookupFn: func(ctx context.Context, name string) *domain.GeoPoint {
			if name != "Paris" {
				t.Errorf("expected lookup for Paris, got %q", name)
			}
			return &domain.GeoPoint{Lat: 48.8566, Lng: 2.3522}
		},
	}
	svc, camera, _ := newChatService(oracleReplying("[LOOKUP: Paris]"), geo)

	res, err := svc.Handle(context.Background(), "Zoom to Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Command == nil {
		t.Fatal("expected a fly_to command")
	}
	if res.Command.Type != "fly_to" || res.Command.Lat != 48.8566 || res.Command.Lng != 2.3522 || res.Command.Zoom != 0.6 {
		t.Errorf("unexpected command: %+v", res.Command)
	}
	if !strings.Contains(res.Reply, "Paris") {
		t.Errorf("reply should name the place, got %q", res.Reply)
	}

	cam := camera.Snapshot()
	if cam.Lat != 48.8566 || cam.Lng != 2.3522 || cam.Zoom != 0.6 {
		t.Errorf("camera not updated: %+v", cam)
	}
}

func TestChat_LookupMiss(t *testing.T) {
	geo := &mockGeocoder{} // always nil
	svc, camera, _ := newChatService(oracleReplying("[LOOKUP: Nowhereville]"), geo)
	before := camera.Snapshot()

	res, err := svc.Handle(context.Background(), "Go to Nowhereville")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Command != nil {
		t.Errorf("expected no command, got %+v", res.Command)
	}
	if !strings.Contains(res.Reply, "could not locate") || !strings.Contains(res.Reply, "Nowhereville") {
		t.Errorf("unexpected miss reply: %q", res.Reply)
	}
	if camera.Snapshot() != before {
		t.Error("camera must be unchanged on a failed lookup")
	}
}

func TestChat_LookupTrimsName(t *testing.T) {
	geo := &mockGeocoder{
		lookupFn: func(ctx context.Context, name string) *domain.GeoPoint {
			if name != "Cape Town" {
				t.Errorf("expected trimmed name, got %q", name)
			}
			return &domain.GeoPoint{Lat: -33.9, Lng: 18.4}
		},
	}
	svc, _, _ := newChatService(oracleReplying("Sure. [LOOKUP:   Cape Town  ] heading there."), geo)

	if _, err := svc.Handle(context.Background(), "take me to cape town"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geo.calls != 1 {
		t.Errorf("expected exactly one lookup, got %d", geo.calls)
	}
}

func TestChat_CommandStrictJSON(t *testing.T) {
	reply := `Heading to the destination now. [COMMAND: {"lat": 10, "lng": 20, "zoom": 1.0}]`
	svc, camera, _ := newChatService(oracleReplying(reply), &mockGeocoder{})

	res, err := svc.Handle(context.Background(), "show me the destination")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cam := camera.Snapshot()
	if cam.Lat != 10 || cam.Lng != 20 || cam.Zoom != 1.0 {
		t.Errorf("expected camera {10 20 1}, got %+v", cam)
	}
	if res.Command == nil || res.Command.Lat != 10 || res.Command.Lng != 20 || res.Command.Zoom != 1.0 {
		t.Errorf("unexpected command: %+v", res.Command)
	}
	if strings.Contains(res.Reply, "COMMAND") || strings.Contains(res.Reply, "[") {
		t.Errorf("bracketed token should be stripped from reply, got %q", res.Reply)
	}
	if res.Reply != "Heading to the destination now." {
		t.Errorf("unexpected clean reply: %q", res.Reply)
	}
}

func TestChat_CommandPythonLiteral(t *testing.T) {
	reply := `On it. [COMMAND: {'lat': -33.8, 'lng': 151.2, 'zoom': 0.8}]`
	svc, camera, _ := newChatService(oracleReplying(reply), &mockGeocoder{})

	res, err := svc.Handle(context.Background(), "fly to sydney harbour")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Command == nil {
		t.Fatal("expected command from permissive parse")
	}
	cam := camera.Snapshot()
	if cam.Lat != -33.8 || cam.Lng != 151.2 || cam.Zoom != 0.8 {
		t.Errorf("unexpected camera: %+v", cam)
	}
}

func TestChat_CommandPartialMerge(t *testing.T) {
	svc, camera, _ := newChatService(oracleReplying(`Adjusting. [COMMAND: {"zoom": 1.5}]`), &mockGeocoder{})
	camera.Set(domain.CameraState{Lat: 40.7, Lng: -74.0, Zoom: 0.6})

	res, err := svc.Handle(context.Background(), "pull back a bit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cam := camera.Snapshot()
	if cam.Lat != 40.7 || cam.Lng != -74.0 {
		t.Errorf("absent fields must keep camera values, got %+v", cam)
	}
	if cam.Zoom != 1.5 {
		t.Errorf("expected zoom 1.5, got %v", cam.Zoom)
	}
	if res.Command == nil || res.Command.Lat != 40.7 || res.Command.Zoom != 1.5 {
		t.Errorf("command should carry the merged viewport: %+v", res.Command)
	}
}

func TestChat_CommandUnparseable(t *testing.T) {
	reply := `See COMMAND: log for details, captain.`
	svc, camera, _ := newChatService(oracleReplying(reply), &mockGeocoder{})
	before := camera.Snapshot()

	res, err := svc.Handle(context.Background(), "status report")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Command != nil {
		t.Errorf("expected no command, got %+v", res.Command)
	}
	if res.Reply != reply {
		t.Errorf("raw reply must pass through unmodified, got %q", res.Reply)
	}
	if camera.Snapshot() != before {
		t.Error("camera must be unchanged")
	}
}

func TestChat_CommandGarbledBody(t *testing.T) {
	reply := `[COMMAND: {lat: !!, lng}] heading out.`
	svc, camera, _ := newChatService(oracleReplying(reply), &mockGeocoder{})
	before := camera.Snapshot()

	res, err := svc.Handle(context.Background(), "zoom in please") // zoom phrase must NOT fire
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Command != nil {
		t.Errorf("expected no command for garbled body, got %+v", res.Command)
	}
	if res.Reply != reply {
		t.Errorf("expected raw reply, got %q", res.Reply)
	}
	if camera.Snapshot() != before {
		t.Error("a garbled command must not touch the camera, even via zoom rules")
	}
}

func TestChat_ZoomIn(t *testing.T) {
	svc, camera, _ := newChatService(oracleReplying("Adjusting view."), &mockGeocoder{})
	camera.Set(domain.CameraState{Lat: 5, Lng: 6, Zoom: 1.0})

	res, err := svc.Handle(context.Background(), "please ZOOM IN a little")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reply != "Zooming in, Captain." {
		t.Errorf("unexpected reply: %q", res.Reply)
	}
	if res.Command == nil {
		t.Fatal("expected immediate fly_to command")
	}
	if res.Command.Lat != 5 || res.Command.Lng != 6 {
		t.Errorf("zoom must keep lat/lng, got %+v", res.Command)
	}
	if got := res.Command.Zoom; got != 0.6 {
		t.Errorf("expected zoom 1.0*0.6=0.6, got %v", got)
	}
}

func TestChat_ZoomOut(t *testing.T) {
	svc, camera, _ := newChatService(oracleReplying("Adjusting view."), &mockGeocoder{})
	camera.Set(domain.CameraState{Zoom: 1.0})

	res, err := svc.Handle(context.Background(), "zoom out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reply != "Pulling back to high orbit." {
		t.Errorf("unexpected reply: %q", res.Reply)
	}
	if got := res.Command.Zoom; got != 1.4 {
		t.Errorf("expected zoom 1.4, got %v", got)
	}
}

func TestChat_ZoomClampProperty(t *testing.T) {
	svc, camera, _ := newChatService(oracleReplying("ok"), &mockGeocoder{})

	for i := 0; i < 25; i++ {
		res, err := svc.Handle(context.Background(), "zoom in")
		if err != nil {
			t.Fatal(err)
		}
		if z := res.Command.Zoom; z < domain.MinZoom || z > domain.MaxZoom {
			t.Fatalf("zoom %v left bounds", z)
		}
	}
	if z := camera.Snapshot().Zoom; z != domain.MinZoom {
		t.Errorf("expected zoom floor %v, got %v", domain.MinZoom, z)
	}

	for i := 0; i < 25; i++ {
		if _, err := svc.Handle(context.Background(), "zoom out"); err != nil {
			t.Fatal(err)
		}
	}
	if z := camera.Snapshot().Zoom; z != domain.MaxZoom {
		t.Errorf("expected zoom ceiling %v, got %v", domain.MaxZoom, z)
	}
}

func TestChat_DirectivePreferredOverZoomPhrase(t *testing.T) {
	// The user said "zoom in" but the reply carries a lookup directive;
	// the directive wins and the relative-zoom rule never runs.
	geo := &mockGeocoder{
		lookupFn: func(ctx context.Context, name string) *domain.GeoPoint {
			return &domain.GeoPoint{Lat: 1, Lng: 2}
		},
	}
	svc, camera, _ := newChatService(oracleReplying("[LOOKUP: Suez Canal]"), geo)

	res, err := svc.Handle(context.Background(), "zoom in on the suez canal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Command == nil || res.Command.Zoom != 0.6 {
		t.Errorf("expected lookup fly_to at zoom 0.6, got %+v", res.Command)
	}
	if res.Reply == "Zooming in, Captain." {
		t.Error("zoom phrase must not win over a directive")
	}
	if camera.Snapshot().Lat != 1 {
		t.Errorf("camera should follow the lookup, got %+v", camera.Snapshot())
	}
}

func TestChat_PlainReplyIdempotent(t *testing.T) {
	svc, camera, mission := newChatService(oracleReplying("All systems nominal."), &mockGeocoder{})
	camBefore := camera.Snapshot()
	misBefore := mission.Snapshot()

	for i := 0; i < 3; i++ {
		res, err := svc.Handle(context.Background(), "how are we doing?")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Reply != "All systems nominal." || res.Command != nil {
			t.Errorf("expected verbatim plain reply, got %+v", res)
		}
	}

	if camera.Snapshot() != camBefore {
		t.Error("plain replies must not mutate the camera")
	}
	if mission.Snapshot() != misBefore {
		t.Error("plain replies must not mutate the mission")
	}
}

func TestChat_OracleFailurePropagates(t *testing.T) {
	oracle := &mockOracle{
		completeFn: func(ctx context.Context, model, system, user string, temperature float32) (string, error) {
			return "", errors.New("upstream 502")
		},
	}
	svc, camera, _ := newChatService(oracle, &mockGeocoder{})
	before := camera.Snapshot()

	if _, err := svc.Handle(context.Background(), "hello"); err == nil {
		t.Fatal("expected error when the oracle is unreachable")
	}
	if camera.Snapshot() != before {
		t.Error("oracle failure must leave the camera untouched")
	}
}

func TestChat_PromptIdleWithoutMission(t *testing.T) {
	oracle := oracleReplying("hello")
	svc, _, _ := newChatService(oracle, &mockGeocoder{})

	if _, err := svc.Handle(context.Background(), "hi"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(oracle.lastSystem, "IDLE") {
		t.Errorf("idle prompt should carry the no-route marker:\n%s", oracle.lastSystem)
	}
	if oracle.lastModel != testChatModel {
		t.Errorf("expected chat model, got %q", oracle.lastModel)
	}
}

func TestChat_PromptCarriesActiveMission(t *testing.T) {
	oracle := oracleReplying("hello")
	svc, _, mission := newChatService(oracle, &mockGeocoder{})

	mission.Replace(domain.Mission{
		Active:      true,
		Origin:      domain.Waypoint{GeoPoint: domain.GeoPoint{Lat: 1.29, Lng: 103.85}, Name: "Singapore"},
		Destination: domain.Waypoint{GeoPoint: domain.GeoPoint{Lat: 51.9, Lng: 4.48}, Name: "Rotterdam"},
		Summary:     "Via the Suez Canal, moderate risk.",
	})

	if _, err := svc.Handle(context.Background(), "where are we going?"); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Singapore", "Rotterdam", "1.29", "103.85", "51.9", "4.48", "Via the Suez Canal"} {
		if !strings.Contains(oracle.lastSystem, want) {
			t.Errorf("prompt missing %q:\n%s", want, oracle.lastSystem)
		}
	}
}
