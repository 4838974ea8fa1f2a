package usecases_test

import (
	"context"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
)

// --- Mock collaborators ---

type mockOracle struct {
	completeFn func(ctx context.Context, model, system, user string, temperature float32) (string, error)
	// Captured arguments from the most recent call.
	lastModel  string
	lastSystem string
	lastUser   string
	calls      int
}

func (m *mockOracle) Complete(ctx context.Context, model, system, user string, temperature float32) (string, error) {
	m.calls++
	m.lastModel = model
	m.lastSystem = system
	m.lastUser = user
	if m.completeFn != nil {
		return m.completeFn(ctx, model, system, user, temperature)
	}
	return "", nil
}

type mockGeocoder struct {
	lookupFn func(ctx context.Context, name string) *domain.GeoPoint
	calls    int
}

func (m *mockGeocoder) Lookup(ctx context.Context, name string) *domain.GeoPoint {
	m.calls++
	if m.lookupFn != nil {
		return m.lookupFn(ctx, name)
	}
	return nil
}

type mockMarine struct {
	fetchFn func(ctx context.Context, lat, lng float64) domain.MarineReading
	calls   int
}

func (m *mockMarine) Fetch(ctx context.Context, lat, lng float64) domain.MarineReading {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, lat, lng)
	}
	return domain.MarineReading{WaveHeight: 0.5, WindWave: 0.2}
}

type mockPublisher struct {
	flyTos   []*domain.Command
	missions []*domain.Mission
}

func (m *mockPublisher) PublishFlyTo(ctx context.Context, cmd *domain.Command) error {
	m.flyTos = append(m.flyTos, cmd)
	return nil
}

func (m *mockPublisher) PublishMissionUpdate(ctx context.Context, mi *domain.Mission) error {
	m.missions = append(m.missions, mi)
	return nil
}
