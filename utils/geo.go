package utils

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by HaversineDistance
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points on Earth
// Returns distance in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	// Convert degrees to radians
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	// Haversine formula
	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// GridCell snaps a location to a grid cell key for caching.
// precision is the number of decimal places kept (4 is roughly 11 m).
func GridCell(lat, lon float64, precision int) string {
	scale := math.Pow(10, float64(precision))
	latCell := int64(math.Floor(lat * scale))
	lonCell := int64(math.Floor(lon * scale))
	return fmt.Sprintf("%d_%d", latCell, lonCell)
}

// ValidateLocation checks if location coordinates are valid
func ValidateLocation(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("invalid latitude: must be between -90 and 90")
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("invalid longitude: must be between -180 and 180")
	}
	return nil
}

// IsWithinRadius checks if a point is within radius meters of the reference point
func IsWithinRadius(refLat, refLon, pointLat, pointLon, radius float64) bool {
	return HaversineDistance(refLat, refLon, pointLat, pointLon) <= radius
}

// OffsetNorth returns the latitude reached by moving meters due north
// (negative meters move south) along a meridian.
func OffsetNorth(lat, meters float64) float64 {
	return lat + (meters/EarthRadiusMeters)*180/math.Pi
}
