package ports

import (
	"context"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
)

// CompletionClient is the text-generation oracle behind every AI feature.
// Implementations return the assistant's reply text, trimmed.
type CompletionClient interface {
	Complete(ctx context.Context, model, system, user string, temperature float32) (string, error)
}

// Geocoder resolves a free-text place name to coordinates.
// Implementations must not fail outward: provider errors and empty
// result sets both map to nil.
type Geocoder interface {
	Lookup(ctx context.Context, name string) *domain.GeoPoint
}

// MarineWeather fetches current sea-state conditions for a point.
// Implementations must return a fixed fallback reading on timeout or
// malformed provider output rather than an error.
type MarineWeather interface {
	Fetch(ctx context.Context, lat, lng float64) domain.MarineReading
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher broadcasts state changes to a message broker so the
// realtime relay can push them to connected map clients.
type EventPublisher interface {
	PublishFlyTo(ctx context.Context, cmd *domain.Command) error
	PublishMissionUpdate(ctx context.Context, m *domain.Mission) error
}
