package geospatial

import "math"

const (
	earthRadiusKm         = 6371.0
	metersPerNauticalMile = 1852.0
)

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// DistanceNM returns the great-circle distance in nautical miles,
// rounded to the nearest mile. Used as a deterministic fallback when a
// route report arrives without a usable distance figure.
func DistanceNM(lat1, lon1, lat2, lon2 float64) float64 {
	return math.Round(Haversine(lat1, lon1, lat2, lon2) / metersPerNauticalMile)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
