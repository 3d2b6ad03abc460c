package routing

import (
	"time"

	"fieldops-backend/internal/models"
	"fieldops-backend/internal/modules/travel"
)

// TwoOptSequencer wraps another Sequencer and applies 2-opt segment
// reversals to shave total distance. Windowed location sets are returned
// unchanged from the base sequencer: a reversal can reorder a stop past its
// window, and the greedy pass already accounts for windows.
type TwoOptSequencer struct {
	base       Sequencer
	iterations int
}

func NewTwoOptSequencer(base Sequencer, iterations int) *TwoOptSequencer {
	if iterations <= 0 {
		iterations = 5
	}
	return &TwoOptSequencer{base: base, iterations: iterations}
}

func (s *TwoOptSequencer) Sequence(locations []models.Location, dayStart time.Time) []models.Location {
	route := s.base.Sequence(locations, dayStart)
	if len(route) < 4 {
		return route
	}
	for _, loc := range route {
		if loc.HasTimeWindow() {
			return route
		}
	}

	best := route
	bestDist := pathDistance(best)
	n := len(best)
	for it := 0; it < s.iterations; it++ {
		improved := false
		for i := 1; i < n-2; i++ {
			for k := i + 1; k < n-1; k++ {
				candidate := twoOptSwap(best, i, k)
				if d := pathDistance(candidate); d+1e-6 < bestDist {
					best, bestDist = candidate, d
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return best
}

// twoOptSwap reverses the segment [i, k] of the route.
func twoOptSwap(route []models.Location, i, k int) []models.Location {
	out := make([]models.Location, len(route))
	copy(out, route[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = route[j]
		pos++
	}
	copy(out[pos:], route[k+1:])
	return out
}

func pathDistance(route []models.Location) float64 {
	total := 0.0
	for i := 0; i < len(route)-1; i++ {
		total += travel.Haversine(route[i].Coordinates, route[i+1].Coordinates)
	}
	return total
}
