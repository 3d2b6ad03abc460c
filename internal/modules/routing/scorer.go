package routing

import "math"

// Score computes the 0-100 composite efficiency metric for a built route:
//
//	0.3 * distance efficiency + 0.5 * time efficiency + 0.2 * stop density
//
// where distance efficiency falls off with average miles per stop, time
// efficiency is the share of on-site work in the total working time (100
// when there is no travel), and stop density rewards fuller days. A route
// with zero stops scores 0. The result is clamped to [0, 100] and rounded
// to two decimals.
func Score(stopCount int, totalDistanceMiles, totalTravelMinutes float64, totalWorkMinutes int) float64 {
	if stopCount == 0 {
		return 0
	}

	avgDistancePerStop := totalDistanceMiles / float64(stopCount)
	distanceEfficiency := math.Max(0, 100-avgDistancePerStop*5)

	timeEfficiency := 100.0
	if totalTravelMinutes > 0 {
		work := float64(totalWorkMinutes)
		timeEfficiency = work / (work + totalTravelMinutes) * 100
	}

	stopDensity := math.Min(100, float64(stopCount)*10)

	efficiency := 0.3*distanceEfficiency + 0.5*timeEfficiency + 0.2*stopDensity
	efficiency = math.Max(0, math.Min(100, efficiency))
	return math.Round(efficiency*100) / 100
}
