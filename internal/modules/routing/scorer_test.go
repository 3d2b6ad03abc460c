package routing

import "testing"

func TestScoreZeroStops(t *testing.T) {
	if s := Score(0, 0, 0, 0); s != 0 {
		t.Fatalf("empty route score = %f, want 0", s)
	}
}

func TestScoreBounds(t *testing.T) {
	cases := []struct {
		name          string
		stops         int
		distanceMiles float64
		travelMinutes float64
		workMinutes   int
	}{
		{"dense short day", 10, 5, 15, 480},
		{"sparse long hauls", 2, 200, 400, 60},
		{"single stop no travel", 1, 0, 0, 60},
		{"all travel no work", 3, 50, 300, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Score(tc.stops, tc.distanceMiles, tc.travelMinutes, tc.workMinutes)
			if s < 0 || s > 100 {
				t.Fatalf("score = %f, want within [0, 100]", s)
			}
		})
	}
}

func TestScoreNoTravelIsPerfectTimeEfficiency(t *testing.T) {
	// One stop, zero distance and travel: 0.3*100 + 0.5*100 + 0.2*10 = 82.
	if s := Score(1, 0, 0, 60); s != 82 {
		t.Fatalf("score = %f, want 82", s)
	}
}

func TestScoreRewardsDensity(t *testing.T) {
	sparse := Score(2, 10, 30, 120)
	dense := Score(8, 10, 30, 480)
	if dense <= sparse {
		t.Fatalf("denser day scored %f, sparser %f; want dense > sparse", dense, sparse)
	}
}

func TestScorePenalizesDistance(t *testing.T) {
	tight := Score(5, 10, 60, 300)
	spread := Score(5, 150, 60, 300)
	if spread >= tight {
		t.Fatalf("spread-out day scored %f, tight %f; want spread < tight", spread, tight)
	}
}
