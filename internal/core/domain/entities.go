package domain

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Waypoint is a named coordinate, used for mission endpoints.
type Waypoint struct {
	GeoPoint
	Name string `json:"name"`
}

// Mission is the shared route context injected into chat prompts.
// Created inactive; populated only by a successful route plan and
// never cleared within a process lifetime.
type Mission struct {
	Active      bool     `json:"active"`
	Origin      Waypoint `json:"origin"`
	Destination Waypoint `json:"destination"`
	Summary     string   `json:"summary"`
}

// Viewport zoom bounds for the globe client.
const (
	MinZoom = 0.15
	MaxZoom = 2.5
)

// CameraState is the last-known globe viewport.
type CameraState struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom float64 `json:"zoom"`
}

// Command is a structured navigation directive returned to the map client.
type Command struct {
	Type string  `json:"type"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom float64 `json:"zoom"`
}

// FlyTo builds the only command type the client currently understands.
func FlyTo(lat, lng, zoom float64) *Command {
	return &Command{Type: "fly_to", Lat: lat, Lng: lng, Zoom: zoom}
}

// ChatResult is the outcome of one chat turn: a reply for the transcript
// and an optional command for the globe.
type ChatResult struct {
	Reply   string   `json:"reply"`
	Command *Command `json:"command"`
}

// RouteReport is the structured route-analysis document produced by the
// analyst model. The report is treated as an opaque payload; only
// basic_info (distance, endpoint names) and captain_summary are
// interpreted by the planner.
type RouteReport = map[string]any

// MarineReading is a current-conditions sample from the marine weather
// provider.
type MarineReading struct {
	WaveHeight float64 `json:"wave_height"`
	WindWave   float64 `json:"wind_wave"`
}

// FloatReading is one oceanographic point record for the globe overlay.
// Field names follow the ARGO column convention the frontend expects.
type FloatReading struct {
	Latitude   float64 `json:"LATITUDE"`
	Longitude  float64 `json:"LONGITUDE"`
	Temp       float64 `json:"TEMP"`
	Salinity   float64 `json:"PSU"`
	Oxygen     float64 `json:"DOXY"`
	WaveHeight float64 `json:"WAVE_HEIGHT"`
	WindWave   float64 `json:"WIND_WAVE"`
}

// StormPayload describes a tracked storm for SITREP generation.
type StormPayload struct {
	Name          string  `json:"name"`
	Wind          int     `json:"wind"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	Category      string  `json:"category"`
	Lifecycle     string  `json:"lifecycle"`
	AffectedShips int     `json:"affected_ships"`
}

// SitrepMetadata accompanies a generated situation report.
type SitrepMetadata struct {
	StormName           string `json:"storm_name"`
	AnalysisTimestamp   string `json:"analysis_timestamp"`
	ThreatLevel         string `json:"threat_level"`
	RecommendedResponse string `json:"recommended_response"`
}

// SitrepReport is the full response for a storm analysis request.
type SitrepReport struct {
	Status   string         `json:"status"`
	Sitrep   string         `json:"sitrep"`
	Metadata SitrepMetadata `json:"metadata"`
}
