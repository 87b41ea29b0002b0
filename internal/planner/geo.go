package planner

import (
	"math"

	"github.com/localwander/go-walk-itineraries/internal/types"
)

const (
	earthRadiusMeters = 6371000.0
	metersPerMile     = 1609.34
	// Average walking speed, roughly 3 mph.
	walkingSpeedMetersPerSecond = 1.34

	minWalkMinutes = 1
	maxWalkMinutes = 30
)

// Density is a coarse classification of how many candidates a search area
// yielded. Downstream it adapts stop-count targets and duration ceilings.
type Density string

const (
	DensityDense    Density = "dense"
	DensityModerate Density = "moderate"
	DensitySparse   Density = "sparse"
)

// Distance returns the haversine great-circle distance in meters between
// two places. ok is false when either place lacks coordinates; callers must
// treat that as "unknown", never as "adjacent".
func Distance(a, b types.Place) (meters float64, ok bool) {
	if !a.HasCoordinates() || !b.HasCoordinates() {
		return 0, false
	}
	lat1 := *a.Latitude * math.Pi / 180
	lat2 := *b.Latitude * math.Pi / 180
	dLat := (*b.Latitude - *a.Latitude) * math.Pi / 180
	dLon := (*b.Longitude - *a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c, true
}

// WalkingMinutes converts a known distance into walking minutes: floor of
// 1 minute, cap of 30.
func WalkingMinutes(distanceMeters float64) int {
	seconds := distanceMeters / walkingSpeedMetersPerSecond
	minutes := int(math.Round(seconds / 60))
	if minutes < minWalkMinutes {
		minutes = minWalkMinutes
	}
	if minutes > maxWalkMinutes {
		minutes = maxWalkMinutes
	}
	return minutes
}

// MilesToMeters converts itinerary radii expressed in miles.
func MilesToMeters(miles float64) float64 {
	return miles * metersPerMile
}

// AreaDensity classifies a search area by places per square mile.
func AreaDensity(totalPlaces int, searchRadiusMiles float64) Density {
	if searchRadiusMiles <= 0 {
		return DensitySparse
	}
	perSqMile := float64(totalPlaces) / (math.Pi * searchRadiusMiles * searchRadiusMiles)
	switch {
	case perSqMile >= 10:
		return DensityDense
	case perSqMile >= 5:
		return DensityModerate
	default:
		return DensitySparse
	}
}

// MaxItineraryMinutes is the duration ceiling for a validated itinerary:
// 135 minutes normally, 180 for dense areas.
func MaxItineraryMinutes(density Density) int {
	if density == DensityDense {
		return 180
	}
	return 135
}
