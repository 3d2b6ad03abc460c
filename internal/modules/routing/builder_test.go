package routing

import (
	"context"
	"testing"
	"time"

	"fieldops-backend/internal/models"
	"fieldops-backend/internal/modules/travel"
)

func TestBuildRouteTimeline(t *testing.T) {
	estimator := travel.NewHaversineEstimator()
	ordered := []models.Location{
		loc("A", 40.00, -75.00, 60, 3),
		loc("B", 40.05, -75.02, 30, 3),
		loc("C", 40.10, -75.05, 45, 3),
	}

	stops, err := BuildRoute(context.Background(), ordered, dayStart, estimator, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stops) != len(ordered) {
		t.Fatalf("stops = %d, want %d", len(stops), len(ordered))
	}

	if !stops[0].ArrivalTime.Equal(dayStart) {
		t.Fatalf("first arrival = %v, want day start %v", stops[0].ArrivalTime, dayStart)
	}
	if stops[0].TravelTimeFromPrevious != 0 {
		t.Fatalf("first stop travel = %f, want 0", stops[0].TravelTimeFromPrevious)
	}

	totalWork := 0
	for i, stop := range stops {
		if stop.SequenceNumber != i+1 {
			t.Fatalf("sequence number at %d = %d, want %d", i, stop.SequenceNumber, i+1)
		}

		wantDeparture := stop.ArrivalTime.Add(time.Duration(stop.Location.EstimatedDurationMinutes) * time.Minute)
		if !stop.DepartureTime.Equal(wantDeparture) {
			t.Fatalf("stop %d departure = %v, want arrival+duration %v", i, stop.DepartureTime, wantDeparture)
		}

		if i > 0 {
			if stop.TravelTimeFromPrevious <= 0 {
				t.Fatalf("stop %d travel = %f, want > 0", i, stop.TravelTimeFromPrevious)
			}
			if !stop.ArrivalTime.After(stops[i-1].DepartureTime) {
				t.Fatalf("stop %d arrival %v not after previous departure %v", i, stop.ArrivalTime, stops[i-1].DepartureTime)
			}
		}
		totalWork += stop.Location.EstimatedDurationMinutes
	}

	// 60 + 30 + 45 minutes of on-site work.
	if totalWork != 135 {
		t.Fatalf("total work = %d minutes, want 135", totalWork)
	}
}

func TestBuildRouteWithoutTravelTime(t *testing.T) {
	estimator := travel.NewHaversineEstimator()
	ordered := []models.Location{
		loc("A", 40.00, -75.00, 60, 3),
		loc("B", 40.50, -75.50, 30, 3),
	}

	stops, err := BuildRoute(context.Background(), ordered, dayStart, estimator, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stops[1].TravelTimeFromPrevious != 0 {
		t.Fatalf("travel = %f with inclusion disabled, want 0", stops[1].TravelTimeFromPrevious)
	}
	if !stops[1].ArrivalTime.Equal(stops[0].DepartureTime) {
		t.Fatalf("back-to-back arrival = %v, want previous departure %v", stops[1].ArrivalTime, stops[0].DepartureTime)
	}
}

func TestBuildRouteWaitsForWindow(t *testing.T) {
	estimator := travel.NewHaversineEstimator()
	windowStart := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ordered := []models.Location{
		loc("A", 40.00, -75.00, 30, 3),
		withWindow(loc("B", 40.02, -75.01, 30, 3), windowStart, windowStart.Add(time.Hour)),
	}

	stops, err := BuildRoute(context.Background(), ordered, dayStart, estimator, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stops[1].ArrivalTime.Equal(windowStart) {
		t.Fatalf("windowed arrival = %v, want wait until %v", stops[1].ArrivalTime, windowStart)
	}
}

func TestBuildRouteEmpty(t *testing.T) {
	stops, err := BuildRoute(context.Background(), nil, dayStart, travel.NewHaversineEstimator(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stops) != 0 {
		t.Fatalf("empty input produced %d stops", len(stops))
	}
}
