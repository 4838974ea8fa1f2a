// Package state holds the process-wide mutable records shared between
// chat turns: the last-known camera viewport and the active mission.
// Both stores funnel every mutation through a mutex so concurrent
// requests cannot interleave partial writes; last write wins.
package state

import (
	"sync"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
)

// initialZoom is the high-orbit default the globe client boots with.
const initialZoom = 2.2

// CameraStore guards the shared viewport record.
type CameraStore struct {
	mu  sync.RWMutex
	cam domain.CameraState
}

// NewCameraStore returns a store centered on the prime meridian at the
// default orbit.
func NewCameraStore() *CameraStore {
	return &CameraStore{cam: domain.CameraState{Zoom: initialZoom}}
}

// Snapshot returns a copy of the current viewport.
func (s *CameraStore) Snapshot() domain.CameraState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

// Set replaces the viewport, clamping zoom to the client's bounds.
func (s *CameraStore) Set(cam domain.CameraState) domain.CameraState {
	s.mu.Lock()
	defer s.mu.Unlock()
	cam.Zoom = clampZoom(cam.Zoom)
	s.cam = cam
	return s.cam
}

// Update applies fn to the viewport under the lock and returns the
// resulting state. Zoom is clamped after fn runs.
func (s *CameraStore) Update(fn func(*domain.CameraState)) domain.CameraState {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cam)
	s.cam.Zoom = clampZoom(s.cam.Zoom)
	return s.cam
}

func clampZoom(z float64) float64 {
	if z < domain.MinZoom {
		return domain.MinZoom
	}
	if z > domain.MaxZoom {
		return domain.MaxZoom
	}
	return z
}

// MissionStore guards the shared mission record.
type MissionStore struct {
	mu      sync.RWMutex
	mission domain.Mission
}

// NewMissionStore returns an inactive mission with placeholder endpoints.
func NewMissionStore() *MissionStore {
	return &MissionStore{mission: domain.Mission{
		Origin:      domain.Waypoint{Name: "Unknown"},
		Destination: domain.Waypoint{Name: "Unknown"},
	}}
}

// Snapshot returns a copy of the current mission.
func (s *MissionStore) Snapshot() domain.Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mission
}

// Replace atomically installs a new mission. The caller is expected to
// pass Active: true; missions are never cleared, only overwritten.
func (s *MissionStore) Replace(m domain.Mission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mission = m
}

// Active reports whether a route plan has been installed.
func (s *MissionStore) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mission.Active
}
