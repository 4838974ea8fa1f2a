package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
	"github.com/samirrijal/oceanhelm/internal/pkg/metrics"
)

// Zoom applied when flying to a geocoded place, and the multipliers for
// relative zoom phrases.
const (
	lookupZoom    = 0.6
	zoomInFactor  = 0.6
	zoomOutFactor = 1.4
)

// intentMatcher inspects the raw oracle reply and the lowered user
// input, and either commits a chat result or declines. Matchers are
// evaluated in fixed priority order; the first commit wins.
type intentMatcher func(ctx context.Context, raw, lowered string) (*domain.ChatResult, bool)

var (
	// Non-greedy up to the first closing bracket, so a directive inside
	// a longer sentence doesn't swallow the rest of it.
	lookupToken = regexp.MustCompile(`\[LOOKUP:\s*([^\]]+)\]`)

	// The JSON body may span multiple lines.
	commandToken = regexp.MustCompile(`(?s)\[COMMAND:\s*(\{.*?\})\]`)
)

// matchLookup handles [LOOKUP: <place>] directives: resolve the place
// through the geocoder and fly the camera there. The oracle hallucinates
// coordinates; the geocoder does not.
func (s *ChatService) matchLookup(ctx context.Context, raw, _ string) (*domain.ChatResult, bool) {
	m := lookupToken.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	place := strings.TrimSpace(m[1])
	metrics.IntentsExtracted.WithLabelValues("lookup").Inc()
	slog.Info("lookup directive", "place", place)

	pt := s.geocoder.Lookup(ctx, place)
	if pt == nil {
		return &domain.ChatResult{
			Reply: fmt.Sprintf("I could not locate '%s' on the navigation charts.", place),
		}, true
	}

	cmd := domain.FlyTo(pt.Lat, pt.Lng, lookupZoom)
	s.camera.Set(domain.CameraState{Lat: cmd.Lat, Lng: cmd.Lng, Zoom: cmd.Zoom})
	s.publishFlyTo(ctx, cmd)

	return &domain.ChatResult{
		Reply:   fmt.Sprintf("Coordinates locked for %s. Engaging engines.", place),
		Command: cmd,
	}, true
}

// matchCommand handles [COMMAND: {...}] directives emitted when the
// oracle references a point from the active route. Once the COMMAND
// marker appears the turn is consumed here even if the token cannot be
// parsed; a garbled directive degrades to a plain reply, never to the
// zoom rules.
func (s *ChatService) matchCommand(ctx context.Context, raw, _ string) (*domain.ChatResult, bool) {
	if !strings.Contains(raw, "COMMAND:") {
		return nil, false
	}

	m := commandToken.FindStringSubmatch(raw)
	if m == nil {
		return &domain.ChatResult{Reply: raw}, true
	}

	patch, err := parseCommandObject(m[1])
	if err != nil {
		slog.Warn("command parse failed", "token", m[1], "error", err)
		metrics.CommandParseFailures.Inc()
		return &domain.ChatResult{Reply: raw}, true
	}
	metrics.IntentsExtracted.WithLabelValues("command").Inc()

	// Fields absent from the directive keep their current camera value;
	// the emitted command carries the merged viewport.
	cam := s.camera.Update(func(c *domain.CameraState) {
		if patch.Lat != nil {
			c.Lat = *patch.Lat
		}
		if patch.Lng != nil {
			c.Lng = *patch.Lng
		}
		if patch.Zoom != nil {
			c.Zoom = *patch.Zoom
		}
	})
	cmd := domain.FlyTo(cam.Lat, cam.Lng, cam.Zoom)

	clean := strings.TrimSpace(strings.Replace(raw, m[0], "", 1))
	s.publishFlyTo(ctx, cmd)

	return &domain.ChatResult{Reply: clean, Command: cmd}, true
}

// matchZoom handles relative "zoom in"/"zoom out" phrases in the user's
// own message. Only reached when the reply carried no directive.
func (s *ChatService) matchZoom(ctx context.Context, _, lowered string) (*domain.ChatResult, bool) {
	var factor float64
	var reply, kind string
	switch {
	case strings.Contains(lowered, "zoom in"):
		factor, reply, kind = zoomInFactor, "Zooming in, Captain.", "zoom_in"
	case strings.Contains(lowered, "zoom out"):
		factor, reply, kind = zoomOutFactor, "Pulling back to high orbit.", "zoom_out"
	default:
		return nil, false
	}
	metrics.IntentsExtracted.WithLabelValues(kind).Inc()

	cam := s.camera.Update(func(c *domain.CameraState) { c.Zoom *= factor })
	cmd := domain.FlyTo(cam.Lat, cam.Lng, cam.Zoom)
	s.publishFlyTo(ctx, cmd)

	return &domain.ChatResult{Reply: reply, Command: cmd}, true
}
