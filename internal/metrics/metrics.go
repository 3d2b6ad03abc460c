package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API.
	Registry = prometheus.NewRegistry()

	// OptimizationRuns counts optimization runs by outcome.
	OptimizationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_optimization_runs_total", Help: "Route optimization runs by outcome."},
		[]string{"outcome"},
	)
	// OptimizationDuration records end-to-end optimization run durations in seconds.
	OptimizationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_optimization_duration_seconds", Help: "Route optimization run duration in seconds.", Buckets: prometheus.DefBuckets},
	)
	// GeocodeFailures counts addresses the provider could not resolve.
	GeocodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "geocode_failures_total", Help: "Addresses excluded from optimization because geocoding failed."},
	)
	// TravelFallbacks counts travel-time estimates that fell back to the haversine heuristic.
	TravelFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "travel_estimate_fallbacks_total", Help: "Travel-time lookups that fell back to the distance heuristic."},
	)
	// RoutesSaved counts per-technician route persistences by outcome.
	RoutesSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimized_routes_saved_total", Help: "Optimized route persistence outcomes."},
		[]string{"outcome"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(OptimizationRuns)
		Registry.MustRegister(OptimizationDuration)
		Registry.MustRegister(GeocodeFailures)
		Registry.MustRegister(TravelFallbacks)
		Registry.MustRegister(RoutesSaved)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
