package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/oceanhelm/internal/core/ports"
	"github.com/samirrijal/oceanhelm/internal/pkg/metrics"
)

const sentinelPrompt = `You are Sentinel AI. Analyze Ocean Data (Temp, Salinity, Oxygen).
THRESHOLDS:
- Temp > 29°C: CYCLONE RISK.
- Oxygen < 60: DEAD ZONE.
- Salinity < 31 or > 38: DENSITY ANOMALY.

Return a short verdict: NORMAL, WARNING, or CRITICAL, with 1 sentence explanation.`

// SentinelService screens float readings for hazards and returns a
// free-text verdict.
type SentinelService struct {
	oracle ports.CompletionClient
	model  string
}

// NewSentinelService creates a SentinelService.
func NewSentinelService(oracle ports.CompletionClient, model string) *SentinelService {
	return &SentinelService{oracle: oracle, model: model}
}

// Check returns the oracle's verdict for a data snippet.
func (s *SentinelService) Check(ctx context.Context, dataContext string) (string, error) {
	metrics.OracleRequests.WithLabelValues(s.model, "sentinel").Inc()
	verdict, err := s.oracle.Complete(ctx, s.model, sentinelPrompt, "DATA: "+dataContext, 0.1)
	if err != nil {
		metrics.OracleFailures.WithLabelValues(s.model, "sentinel").Inc()
		return "", fmt.Errorf("sentinel oracle: %w", err)
	}
	return verdict, nil
}
