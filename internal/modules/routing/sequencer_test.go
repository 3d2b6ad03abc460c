package routing

import (
	"testing"
	"time"

	"fieldops-backend/internal/models"
)

func loc(address string, lat, lon float64, durationMin, priority int) models.Location {
	return models.Location{
		Address:                  address,
		Coordinates:              models.Coordinates{Latitude: lat, Longitude: lon},
		JobID:                    "job-" + address,
		EstimatedDurationMinutes: durationMin,
		Priority:                 priority,
	}
}

func withWindow(l models.Location, start, end time.Time) models.Location {
	l.TimeWindowStart = &start
	l.TimeWindowEnd = &end
	return l
}

func assertPermutation(t *testing.T, in, out []models.Location) {
	t.Helper()
	if len(out) != len(in) {
		t.Fatalf("sequence length = %d, want %d", len(out), len(in))
	}
	seen := make(map[string]int, len(in))
	for _, l := range in {
		seen[l.JobID]++
	}
	for _, l := range out {
		seen[l.JobID]--
	}
	for id, n := range seen {
		if n != 0 {
			t.Fatalf("job %s count off by %d; output is not a permutation", id, n)
		}
	}
}

var dayStart = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func TestSequenceEmptyAndSingle(t *testing.T) {
	s := NewNearestNeighborSequencer()

	if out := s.Sequence(nil, dayStart); len(out) != 0 {
		t.Fatalf("empty input produced %d locations", len(out))
	}

	single := []models.Location{loc("A", 40.0, -75.0, 60, 3)}
	out := s.Sequence(single, dayStart)
	if len(out) != 1 || out[0].JobID != "job-A" {
		t.Fatalf("single location not returned as-is: %+v", out)
	}
}

func TestSequenceIsPermutation(t *testing.T) {
	s := NewNearestNeighborSequencer()
	in := []models.Location{
		loc("A", 40.00, -75.00, 60, 3),
		loc("B", 40.10, -75.05, 30, 3),
		loc("C", 40.05, -75.20, 45, 3),
		loc("D", 40.20, -75.10, 30, 3),
		loc("E", 39.95, -75.15, 90, 3),
	}

	out := s.Sequence(in, dayStart)
	assertPermutation(t, in, out)
}

func TestSequenceDoesNotMutateInput(t *testing.T) {
	s := NewNearestNeighborSequencer()
	in := []models.Location{
		loc("A", 40.00, -75.00, 60, 3),
		loc("B", 40.50, -75.50, 30, 3),
		loc("C", 40.05, -75.02, 45, 3),
	}
	snapshot := make([]models.Location, len(in))
	copy(snapshot, in)

	s.Sequence(in, dayStart)

	for i := range in {
		if in[i].JobID != snapshot[i].JobID {
			t.Fatalf("input slice mutated at index %d", i)
		}
	}
}

func TestSequenceGreedyPicksNearest(t *testing.T) {
	s := NewNearestNeighborSequencer()
	// B is close to A; C is far from both. Same priority, no windows.
	in := []models.Location{
		loc("A", 40.00, -75.00, 30, 3),
		loc("C", 41.00, -76.00, 30, 3),
		loc("B", 40.02, -75.01, 30, 3),
	}

	out := s.Sequence(in, dayStart)
	assertPermutation(t, in, out)

	// Seed is by address (no windows, equal priority), so A leads and its
	// nearest unvisited neighbor B follows.
	if out[0].JobID != "job-A" || out[1].JobID != "job-B" || out[2].JobID != "job-C" {
		got := []string{out[0].JobID, out[1].JobID, out[2].JobID}
		t.Fatalf("order = %v, want [job-A job-B job-C]", got)
	}
}

func TestSequenceSeedsEarliestWindow(t *testing.T) {
	s := NewNearestNeighborSequencer()
	windowed := withWindow(
		loc("Z", 40.50, -75.50, 30, 1),
		time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	)
	in := []models.Location{
		loc("A", 40.00, -75.00, 30, 5),
		windowed,
		loc("B", 40.02, -75.01, 30, 5),
	}

	out := s.Sequence(in, dayStart)
	assertPermutation(t, in, out)

	if out[0].JobID != "job-Z" {
		t.Fatalf("first stop = %s, want the windowed job-Z", out[0].JobID)
	}
}

func TestSequencePrefersHigherPriorityOnEqualDistance(t *testing.T) {
	s := NewNearestNeighborSequencer()
	// B and C sit at distinct points near-equidistant from A; the priority
	// bonus must break the near-tie toward the urgent one.
	in := []models.Location{
		loc("A", 40.00, -75.00, 30, 3),
		loc("B", 40.10, -75.00, 30, 1),
		loc("C", 39.90, -75.00, 30, 5),
	}

	out := s.Sequence(in, dayStart)
	assertPermutation(t, in, out)

	if out[0].JobID != "job-C" {
		// Seeding also prefers priority when no windows exist.
		t.Fatalf("first stop = %s, want high-priority job-C", out[0].JobID)
	}
}

func TestSequenceExactTieAppendsOriginalOrder(t *testing.T) {
	s := NewNearestNeighborSequencer()
	// Identical coordinates and priorities with no windows score every
	// candidate the same, so after the seed the rest must follow in
	// original input order.
	in := []models.Location{
		loc("C", 40.00, -75.00, 30, 3),
		loc("A", 40.00, -75.00, 30, 3),
		loc("D", 40.00, -75.00, 30, 3),
		loc("B", 40.00, -75.00, 30, 3),
	}

	out := s.Sequence(in, dayStart)
	assertPermutation(t, in, out)

	// A seeds by address; C, D, B trail in the order they arrived.
	want := []string{"job-A", "job-C", "job-D", "job-B"}
	for i, w := range want {
		if out[i].JobID != w {
			got := make([]string, len(out))
			for k, l := range out {
				got[k] = l.JobID
			}
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestTwoOptImprovesCrossedRoute(t *testing.T) {
	base := NewNearestNeighborSequencer()
	s := NewTwoOptSequencer(base, 10)

	// Four corners of a rectangle; any sequencer output must still be a
	// permutation and 2-opt must never make the tour longer.
	in := []models.Location{
		loc("A", 40.00, -75.00, 10, 3),
		loc("B", 40.00, -75.10, 10, 3),
		loc("C", 40.10, -75.10, 10, 3),
		loc("D", 40.10, -75.00, 10, 3),
	}

	greedy := base.Sequence(in, dayStart)
	improved := s.Sequence(in, dayStart)

	assertPermutation(t, in, improved)
	if pathDistance(improved) > pathDistance(greedy)+1e-9 {
		t.Fatalf("2-opt lengthened the route: %f > %f", pathDistance(improved), pathDistance(greedy))
	}
}

func TestTwoOptLeavesWindowedRoutesAlone(t *testing.T) {
	base := NewNearestNeighborSequencer()
	s := NewTwoOptSequencer(base, 10)

	in := []models.Location{
		loc("A", 40.00, -75.00, 10, 3),
		loc("B", 40.00, -75.10, 10, 3),
		loc("C", 40.10, -75.10, 10, 3),
		withWindow(loc("D", 40.10, -75.00, 10, 3),
			time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)),
	}

	greedy := base.Sequence(in, dayStart)
	out := s.Sequence(in, dayStart)

	for i := range greedy {
		if out[i].JobID != greedy[i].JobID {
			t.Fatalf("windowed route reordered at index %d", i)
		}
	}
}
