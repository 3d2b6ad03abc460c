package travel

import (
	"context"
	"math"

	"fieldops-backend/internal/models"
)

// Estimator is the travel capability used by the routing engine. Distance is
// always the pure great-circle figure; TravelTime may be provider-backed
// (road network, possibly asymmetric) or derived from distance.
type Estimator interface {
	// Distance returns the great-circle distance between two points in miles.
	Distance(a, b models.Coordinates) float64
	// TravelTime returns the estimated drive time between two points in minutes.
	TravelTime(ctx context.Context, a, b models.Coordinates) (float64, error)
}

const earthRadiusMiles = 3958.8

// Haversine computes the great-circle distance between two points in miles.
// It is symmetric and zero for identical points.
func Haversine(a, b models.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}

// HaversineEstimator derives travel time from straight-line distance with a
// fixed minutes-per-mile factor and a minimum floor. It is the pure fallback
// used when no routing provider is configured or the provider fails.
type HaversineEstimator struct {
	MinutesPerMile float64
	MinimumMinutes float64
}

// NewHaversineEstimator returns an estimator tuned for suburban driving.
func NewHaversineEstimator() *HaversineEstimator {
	return &HaversineEstimator{MinutesPerMile: 2.0, MinimumMinutes: 5.0}
}

func (e *HaversineEstimator) Distance(a, b models.Coordinates) float64 {
	return Haversine(a, b)
}

func (e *HaversineEstimator) TravelTime(_ context.Context, a, b models.Coordinates) (float64, error) {
	return e.Minutes(a, b), nil
}

// Minutes is the pure form of TravelTime, usable where no context or error
// plumbing is wanted (e.g. inside sequencing score loops).
func (e *HaversineEstimator) Minutes(a, b models.Coordinates) float64 {
	if a == b {
		return 0
	}
	minutes := Haversine(a, b) * e.MinutesPerMile
	if minutes < e.MinimumMinutes {
		minutes = e.MinimumMinutes
	}
	return minutes
}
