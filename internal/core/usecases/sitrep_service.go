package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
	"github.com/samirrijal/oceanhelm/internal/core/ports"
	"github.com/samirrijal/oceanhelm/internal/pkg/metrics"
)

// SitrepService generates military-style situation reports for tracked
// storms.
type SitrepService struct {
	oracle ports.CompletionClient
	model  string
	now    func() time.Time
}

// NewSitrepService creates a SitrepService using the analyst model.
func NewSitrepService(oracle ports.CompletionClient, model string) *SitrepService {
	return &SitrepService{oracle: oracle, model: model, now: time.Now}
}

// Analyze produces a SITREP for the given storm.
func (s *SitrepService) Analyze(ctx context.Context, storm domain.StormPayload) (*domain.SitrepReport, error) {
	prompt := buildSitrepPrompt(storm)

	metrics.OracleRequests.WithLabelValues(s.model, "sitrep").Inc()
	raw, err := s.oracle.Complete(ctx, s.model, prompt, "Generate SITREP.", 0.2)
	if err != nil {
		metrics.OracleFailures.WithLabelValues(s.model, "sitrep").Inc()
		return nil, fmt.Errorf("sitrep oracle: %w", err)
	}

	return &domain.SitrepReport{
		Status: "analysis_complete",
		Sitrep: stripCodeFence(raw),
		Metadata: domain.SitrepMetadata{
			StormName:           storm.Name,
			AnalysisTimestamp:   s.now().Format(time.RFC3339),
			ThreatLevel:         "AI_ASSESSED",
			RecommendedResponse: "See AI Report Details",
		},
	}, nil
}

// buildSitrepPrompt renders the analyst instructions with the storm's
// raw telemetry.
func buildSitrepPrompt(storm domain.StormPayload) string {
	return fmt.Sprintf(`You are a Senior Naval Intelligence Officer. Write a TACTICAL SITREP.

DATA:
- Storm: %s (Category: %s)
- Wind: %d knots (%s)
- Position: %.2f°N, %.2f°W
- Vessels Risk: %d commercial units

INSTRUCTIONS:
- Write a professional, military-style Situation Report.
- Analyze the specific combination of wind vs. ship count.
- If wind is low but ship count is high, warn about "Traffic Congestion" and "Collision Risk".
- If wind is high, warn about "Hull Stress" and "Capsize Risk".
- Format strictly in Markdown.`,
		storm.Name, storm.Category, storm.Wind, storm.Lifecycle,
		storm.Lat, storm.Lng, storm.AffectedShips)
}

// stripCodeFence unwraps the report when the model insists on wrapping
// it in a code block.
func stripCodeFence(text string) string {
	if idx := strings.Index(text, "```markdown"); idx >= 0 {
		rest := text[idx+len("```markdown"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}
