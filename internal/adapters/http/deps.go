package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/oceanhelm/internal/adapters/valkey"
	"github.com/samirrijal/oceanhelm/internal/core/state"
	"github.com/samirrijal/oceanhelm/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Chat      *usecases.ChatService
	Routes    *usecases.RouteService
	Sentinel  *usecases.SentinelService
	Sitrep    *usecases.SitrepService
	OceanData *usecases.OceanDataService
	Camera    *state.CameraStore
	Mission   *state.MissionStore
	NATS      *nats.Conn
	Cache     *valkey.Cache
}
