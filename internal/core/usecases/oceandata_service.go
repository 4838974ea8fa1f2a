package usecases

import (
	"context"
	"math"
	"math/rand"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
	"github.com/samirrijal/oceanhelm/internal/core/ports"
)

// The first snapshot records carry live sea state for these points, in
// this order: Tokyo, New York, Sydney, London, Mumbai.
var samplePoints = []domain.GeoPoint{
	{Lat: 35.6, Lng: 139.6},
	{Lat: 40.7, Lng: -74.0},
	{Lat: -33.8, Lng: 151.2},
	{Lat: 51.5, Lng: -0.1},
	{Lat: 19.0, Lng: 72.8},
}

// syntheticCount background records fill out the overlay.
const syntheticCount = 200

// Background sea state for synthetic records.
const (
	backgroundWaveHeight = 0.5
	backgroundWindWave   = 0.2
)

// OceanDataService synthesizes the float-overlay dataset: a handful of
// live-weather anchor points plus a field of simulated readings.
type OceanDataService struct {
	marine ports.MarineWeather
}

// NewOceanDataService creates an OceanDataService.
func NewOceanDataService(marine ports.MarineWeather) *OceanDataService {
	return &OceanDataService{marine: marine}
}

// Snapshot returns the full overlay dataset. It cannot fail: the marine
// adapter degrades to fixed readings and the rest is synthetic.
func (s *OceanDataService) Snapshot(ctx context.Context) []domain.FloatReading {
	readings := make([]domain.FloatReading, 0, len(samplePoints)+syntheticCount)

	for _, pt := range samplePoints {
		sea := s.marine.Fetch(ctx, pt.Lat, pt.Lng)
		readings = append(readings, domain.FloatReading{
			Latitude:   pt.Lat,
			Longitude:  pt.Lng,
			Temp:       round1(20 + randRange(-5, 5)),
			Salinity:   35.0,
			Oxygen:     200.0,
			WaveHeight: sea.WaveHeight,
			WindWave:   sea.WindWave,
		})
	}

	for i := 0; i < syntheticCount; i++ {
		lat := randRange(-75, 75)
		readings = append(readings, domain.FloatReading{
			Latitude:  lat,
			Longitude: randRange(-180, 180),
			// Warm at the equator, cooling toward the poles.
			Temp:       round1(30 - math.Abs(lat)/3 + randRange(-2, 2)),
			Salinity:   round1(randRange(33, 37)),
			Oxygen:     math.Round(150 + math.Abs(lat)*2 + randRange(-20, 20)),
			WaveHeight: backgroundWaveHeight,
			WindWave:   backgroundWindWave,
		})
	}

	return readings
}

func randRange(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
