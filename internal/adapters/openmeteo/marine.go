// Package openmeteo implements ports.MarineWeather against the
// Open-Meteo marine API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
	"github.com/samirrijal/oceanhelm/internal/core/ports"
	"github.com/samirrijal/oceanhelm/internal/pkg/metrics"
)

const cacheTTLSeconds = 600 // 10 min; sea state moves slowly

// fallback is returned whenever the provider times out or replies with
// something unusable. Callers must never see an error from this adapter.
var fallback = domain.MarineReading{WaveHeight: 0.5, WindWave: 0.2}

// Service fetches current sea-state readings.
type Service struct {
	baseURL string
	client  *http.Client
	cache   ports.CacheService
}

// New creates a marine weather client. The timeout is deliberately
// short; a stale wave height is better than a stalled request. cache
// may be nil.
func New(baseURL string, timeout time.Duration, cache ports.CacheService) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cache:   cache,
	}
}

type currentConditions struct {
	Current *struct {
		WaveHeight     float64 `json:"wave_height"`
		WindWaveHeight float64 `json:"wind_wave_height"`
	} `json:"current"`
}

// Fetch returns the current wave and wind-wave heights at a point, or
// the fixed fallback reading if the provider is unavailable.
func (s *Service) Fetch(ctx context.Context, lat, lng float64) domain.MarineReading {
	cacheKey := fmt.Sprintf("marine:%.1f:%.1f", lat, lng)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var r domain.MarineReading
			if err := json.Unmarshal(data, &r); err == nil {
				metrics.CacheHits.WithLabelValues("marine").Inc()
				return r
			}
		} else {
			metrics.CacheMisses.WithLabelValues("marine").Inc()
		}
	}

	reading, err := s.current(ctx, lat, lng)
	if err != nil {
		slog.Warn("marine weather fetch failed", "lat", lat, "lng", lng, "error", err)
		metrics.MarineFallbacks.Inc()
		return fallback
	}

	if s.cache != nil {
		if data, err := json.Marshal(reading); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, cacheTTLSeconds)
		}
	}
	return reading
}

func (s *Service) current(ctx context.Context, lat, lng float64) (domain.MarineReading, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("current", "wave_height,wind_wave_height,swell_wave_height")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/marine?"+q.Encode(), nil)
	if err != nil {
		return domain.MarineReading{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.MarineReading{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.MarineReading{}, fmt.Errorf("open-meteo status %d", resp.StatusCode)
	}

	var body currentConditions
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.MarineReading{}, fmt.Errorf("decode response: %w", err)
	}
	if body.Current == nil {
		return domain.MarineReading{}, fmt.Errorf("response missing current block")
	}

	return domain.MarineReading{
		WaveHeight: body.Current.WaveHeight,
		WindWave:   body.Current.WindWaveHeight,
	}, nil
}
