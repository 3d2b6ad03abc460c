package travel

import (
	"context"
	"errors"
	"math"
	"testing"

	"fieldops-backend/internal/models"
)

var (
	sanFrancisco = models.Coordinates{Latitude: 37.7749, Longitude: -122.4194}
	losAngeles   = models.Coordinates{Latitude: 34.0522, Longitude: -118.2437}
)

func TestHaversineZeroForIdenticalPoints(t *testing.T) {
	if d := Haversine(sanFrancisco, sanFrancisco); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	ab := Haversine(sanFrancisco, losAngeles)
	ba := Haversine(losAngeles, sanFrancisco)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("asymmetric: %f vs %f", ab, ba)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Great-circle SF to LA is roughly 347 miles.
	d := Haversine(sanFrancisco, losAngeles)
	if d < 340 || d > 355 {
		t.Fatalf("SF-LA distance = %f, want ~347", d)
	}
}

func TestHaversineEstimatorMinutes(t *testing.T) {
	e := NewHaversineEstimator()

	if m := e.Minutes(sanFrancisco, sanFrancisco); m != 0 {
		t.Fatalf("minutes to self = %f, want 0", m)
	}

	// A very short hop is floored at the minimum.
	near := models.Coordinates{Latitude: 37.7750, Longitude: -122.4194}
	if m := e.Minutes(sanFrancisco, near); m != e.MinimumMinutes {
		t.Fatalf("short hop = %f, want floor %f", m, e.MinimumMinutes)
	}

	// A long trip is distance times the per-mile factor.
	m := e.Minutes(sanFrancisco, losAngeles)
	want := Haversine(sanFrancisco, losAngeles) * e.MinutesPerMile
	if math.Abs(m-want) > 1e-9 {
		t.Fatalf("long trip = %f, want %f", m, want)
	}
}

type stubDurationProvider struct {
	minutes float64
	err     error
	calls   int
}

func (p *stubDurationProvider) Duration(_ context.Context, _, _ models.Coordinates) (float64, error) {
	p.calls++
	return p.minutes, p.err
}

func TestProviderEstimatorUsesProvider(t *testing.T) {
	provider := &stubDurationProvider{minutes: 42}
	e := NewProviderEstimator(provider, 100)

	got, err := e.TravelTime(context.Background(), sanFrancisco, losAngeles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("travel time = %f, want 42", got)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.calls)
	}
}

func TestProviderEstimatorFallsBackOnError(t *testing.T) {
	provider := &stubDurationProvider{err: errors.New("matrix endpoint down")}
	e := NewProviderEstimator(provider, 100)

	got, err := e.TravelTime(context.Background(), sanFrancisco, losAngeles)
	if err != nil {
		t.Fatalf("fallback must not surface provider error, got: %v", err)
	}
	want := NewHaversineEstimator().Minutes(sanFrancisco, losAngeles)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("fallback travel time = %f, want heuristic %f", got, want)
	}
}

func TestProviderEstimatorZeroForIdenticalPoints(t *testing.T) {
	provider := &stubDurationProvider{minutes: 99}
	e := NewProviderEstimator(provider, 100)

	got, err := e.TravelTime(context.Background(), sanFrancisco, sanFrancisco)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("travel time to self = %f, want 0", got)
	}
	if provider.calls != 0 {
		t.Fatalf("provider should not be called for identical points")
	}
}
