// Package nominatim implements ports.Geocoder against the OpenStreetMap
// Nominatim search API. Lookups are read-through cached: place names
// rarely move.
package nominatim

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

const cacheTTLSeconds = 86400 // 24h

// Geocoder resolves place names via Nominatim.
type Geocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	cache     ports.CacheService
}

// New creates a geocoder. userAgent must be a descriptive application
// string per the OSM usage policy. cache may be nil.
func New(baseURL, userAgent string, timeout time.Duration, cache ports.CacheService) *Geocoder {
	return &Geocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		cache:     cache,
	}
}

// nominatim returns lat/lon as JSON strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup resolves a place name to coordinates. Provider errors and
// empty result sets both return nil; this adapter never fails outward.
func (g *Geocoder) Lookup(ctx context.Context, name string) *domain.GeoPoint {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	cacheKey := "geocode:" + strings.ToLower(name)
	if g.cache != nil {
		if data, err := g.cache.Get(ctx, cacheKey); err == nil {
			var pt domain.GeoPoint
			if err := json.Unmarshal(data, &pt); err == nil {
				metrics.CacheHits.WithLabelValues("geocode").Inc()
				return &pt
			}
		} else {
			metrics.CacheMisses.WithLabelValues("geocode").Inc()
		}
	}

	pt, err := g.search(ctx, name)
	if err != nil {
		slog.Warn("geocoding failed", "place", name, "error", err)
		metrics.GeocodeLookups.WithLabelValues("error").Inc()
		return nil
	}
	if pt == nil {
		metrics.GeocodeLookups.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.GeocodeLookups.WithLabelValues("resolved").Inc()

	if g.cache != nil {
		if data, err := json.Marshal(pt); err == nil {
			_ = g.cache.Set(ctx, cacheKey, data, cacheTTLSeconds)
		}
	}
	return pt
}

func (g *Geocoder) search(ctx context.Context, name string) (*domain.GeoPoint, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", results[0].Lon, err)
	}
	return &domain.GeoPoint{Lat: lat, Lng: lng}, nil
}
