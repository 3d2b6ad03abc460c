package routing

import (
	"time"

	"fieldops-backend/internal/models"
	"fieldops-backend/internal/modules/travel"
)

// Sequencer orders an unordered set of locations into a visiting sequence.
// Implementations must return a permutation of the input: no location is
// ever added or dropped. The interface exists so stronger heuristics
// (2-opt, annealing, exact solvers for small N) can replace the default
// without touching the route builder or the scorer.
type Sequencer interface {
	Sequence(locations []models.Location, dayStart time.Time) []models.Location
}

const (
	maxPriority = 5

	// windowMissPenalty dominates any realistic distance so a candidate
	// whose window would already be missed is chosen only when nothing
	// else remains.
	windowMissPenalty = 10000.0

	// earlyArrivalPenaltyPerMinute discourages needless idling before a
	// window opens without forbidding it.
	earlyArrivalPenaltyPerMinute = 0.5

	// priorityWeight converts priority distance into score units.
	priorityWeight = 2.0
)

// NearestNeighborSequencer is a constrained greedy sequencer. At each step
// it scores every unvisited candidate as
//
//	score = distance(current, candidate) + windowPenalty + priorityBonus
//
// and picks the minimum. Arrival times used for window penalties are
// heuristic (pure distance-derived travel estimates), keeping sequencing
// free of provider calls; exact timestamps are the route builder's job.
// Complexity is O(n²), fine for daily per-technician job counts.
type NearestNeighborSequencer struct {
	heuristic *travel.HaversineEstimator
}

func NewNearestNeighborSequencer() *NearestNeighborSequencer {
	return &NearestNeighborSequencer{heuristic: travel.NewHaversineEstimator()}
}

// Sequence returns a permutation of locations honoring time-window and
// priority constraints greedily. Seeding picks the earliest window start,
// ties broken by higher priority, then by address for determinism.
func (s *NearestNeighborSequencer) Sequence(locations []models.Location, dayStart time.Time) []models.Location {
	n := len(locations)
	if n <= 1 {
		out := make([]models.Location, n)
		copy(out, locations)
		return out
	}

	remaining := make([]models.Location, n)
	copy(remaining, locations)

	seedIdx := 0
	for i := 1; i < n; i++ {
		if seedLess(remaining[i], remaining[seedIdx]) {
			seedIdx = i
		}
	}

	route := make([]models.Location, 0, n)
	current := remaining[seedIdx]
	remaining = append(remaining[:seedIdx], remaining[seedIdx+1:]...)
	route = append(route, current)

	clock := s.advanceClock(dayStart, current)

	for len(remaining) > 0 {
		bestIdx := 0
		bestScore := s.score(current, remaining[0], clock)
		tied := false
		for i := 1; i < len(remaining); i++ {
			sc := s.score(current, remaining[i], clock)
			switch {
			case sc < bestScore:
				bestIdx, bestScore = i, sc
				tied = false
			case sc == bestScore:
				tied = true
			}
		}

		// An exact tie means the heuristic has no preference; appending the
		// rest in original order guarantees termination and that no job is
		// silently dropped.
		if tied {
			route = append(route, remaining...)
			break
		}

		current = remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		route = append(route, current)

		travelMin := s.heuristic.Minutes(route[len(route)-2].Coordinates, current.Coordinates)
		clock = s.advanceClock(clock.Add(time.Duration(travelMin)*time.Minute), current)
	}

	return route
}

// advanceClock waits for the location's window if needed and serves it.
func (s *NearestNeighborSequencer) advanceClock(arrival time.Time, loc models.Location) time.Time {
	if loc.TimeWindowStart != nil && arrival.Before(*loc.TimeWindowStart) {
		arrival = *loc.TimeWindowStart
	}
	return arrival.Add(time.Duration(loc.EstimatedDurationMinutes) * time.Minute)
}

func (s *NearestNeighborSequencer) score(current, candidate models.Location, clock time.Time) float64 {
	dist := travel.Haversine(current.Coordinates, candidate.Coordinates)

	travelMin := s.heuristic.Minutes(current.Coordinates, candidate.Coordinates)
	arrival := clock.Add(time.Duration(travelMin) * time.Minute)

	penalty := 0.0
	if candidate.TimeWindowEnd != nil && !arrival.Before(*candidate.TimeWindowEnd) {
		penalty = windowMissPenalty
	} else if candidate.TimeWindowStart != nil && arrival.Before(*candidate.TimeWindowStart) {
		earlyMin := candidate.TimeWindowStart.Sub(arrival).Minutes()
		penalty = earlyMin * earlyArrivalPenaltyPerMinute
	}

	bonus := float64(maxPriority-candidate.Priority) * priorityWeight

	return dist + penalty + bonus
}

// seedLess orders seed candidates: earliest window start first, then higher
// priority, then address. Locations without a window sort after windowed ones.
func seedLess(a, b models.Location) bool {
	aw, bw := a.TimeWindowStart, b.TimeWindowStart
	switch {
	case aw != nil && bw != nil && !aw.Equal(*bw):
		return aw.Before(*bw)
	case aw != nil && bw == nil:
		return true
	case aw == nil && bw != nil:
		return false
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Address < b.Address
}
