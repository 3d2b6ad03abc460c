package routing

import (
	"context"
	"fmt"
	"time"

	"fieldops-backend/internal/models"
	"fieldops-backend/internal/modules/travel"
)

// BuildRoute converts an ordered location sequence into concrete stops.
// The running clock starts at dayStart; each stop's travel time from the
// previous stop advances it (zero for the first stop, or when travel-time
// inclusion is disabled), a stop whose window opens later than the clock
// waits for the window, and departure is always arrival plus the estimated
// service duration. Sequence numbers run 1..N in visiting order.
func BuildRoute(ctx context.Context, ordered []models.Location, dayStart time.Time, estimator travel.Estimator, includeTravel bool) ([]models.RouteStop, error) {
	stops := make([]models.RouteStop, 0, len(ordered))
	clock := dayStart

	for i, loc := range ordered {
		travelMin := 0.0
		if i > 0 && includeTravel {
			var err error
			travelMin, err = estimator.TravelTime(ctx, ordered[i-1].Coordinates, loc.Coordinates)
			if err != nil {
				// Estimators fall back internally; an error here means the
				// run itself was cancelled.
				return nil, fmt.Errorf("routing.BuildRoute: %w", err)
			}
		}

		clock = clock.Add(time.Duration(travelMin * float64(time.Minute)))
		if loc.TimeWindowStart != nil && clock.Before(*loc.TimeWindowStart) {
			clock = *loc.TimeWindowStart
		}

		arrival := clock
		departure := arrival.Add(time.Duration(loc.EstimatedDurationMinutes) * time.Minute)
		clock = departure

		stops = append(stops, models.RouteStop{
			Location:               loc,
			ArrivalTime:            arrival,
			DepartureTime:          departure,
			TravelTimeFromPrevious: travelMin,
			SequenceNumber:         i + 1,
		})
	}

	return stops, nil
}
