package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
	"github.com/samirrijal/oceanhelm/internal/core/ports"
	"github.com/samirrijal/oceanhelm/internal/core/state"
	"github.com/samirrijal/oceanhelm/internal/pkg/metrics"
)

// ChatService runs one chat turn: it builds the mission-aware prompt,
// asks the oracle, and extracts a navigation intent from the reply.
type ChatService struct {
	oracle   ports.CompletionClient
	geocoder ports.Geocoder
	camera   *state.CameraStore
	mission  *state.MissionStore
	events   ports.EventPublisher // may be nil
	model    string
}

// NewChatService creates a ChatService. events may be nil when no
// broker is configured.
func NewChatService(oracle ports.CompletionClient, geocoder ports.Geocoder,
	camera *state.CameraStore, mission *state.MissionStore,
	events ports.EventPublisher, model string) *ChatService {
	return &ChatService{
		oracle:   oracle,
		geocoder: geocoder,
		camera:   camera,
		mission:  mission,
		events:   events,
		model:    model,
	}
}

// Handle processes an inbound chat message and returns the reply plus
// an optional globe command. An error means the oracle itself was
// unreachable; the transport layer converts that into the fixed
// degraded reply.
func (s *ChatService) Handle(ctx context.Context, message string) (*domain.ChatResult, error) {
	system := buildChatPrompt(s.mission.Snapshot())

	metrics.OracleRequests.WithLabelValues(s.model, "chat").Inc()
	raw, err := s.oracle.Complete(ctx, s.model, system, message, 0.1)
	if err != nil {
		metrics.OracleFailures.WithLabelValues(s.model, "chat").Inc()
		return nil, fmt.Errorf("chat oracle: %w", err)
	}

	lowered := strings.ToLower(message)

	// Fixed priority order; the first matcher to commit wins and the
	// rest are never evaluated.
	for _, match := range []intentMatcher{s.matchLookup, s.matchCommand, s.matchZoom} {
		if res, ok := match(ctx, raw, lowered); ok {
			return res, nil
		}
	}

	metrics.IntentsExtracted.WithLabelValues("reply").Inc()
	return &domain.ChatResult{Reply: raw}, nil
}

// publishFlyTo broadcasts an emitted command; relay delivery is best
// effort and never affects the chat turn.
func (s *ChatService) publishFlyTo(ctx context.Context, cmd *domain.Command) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishFlyTo(ctx, cmd); err != nil {
		slog.Warn("fly_to publish failed", "error", err)
	}
}
