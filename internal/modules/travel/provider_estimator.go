package travel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"fieldops-backend/internal/metrics"
	"fieldops-backend/internal/models"

	"golang.org/x/time/rate"
)

// DurationProvider returns a road-network drive time in minutes between two
// points. Unlike the haversine figure it may differ by direction.
type DurationProvider interface {
	Duration(ctx context.Context, origin, destination models.Coordinates) (float64, error)
}

// ProviderEstimator is an Estimator that asks an external routing provider
// for travel times and degrades to the haversine heuristic on any error or
// timeout. Provider calls are rate limited.
type ProviderEstimator struct {
	provider DurationProvider
	fallback *HaversineEstimator
	limiter  *rate.Limiter
}

func NewProviderEstimator(provider DurationProvider, ratePerSec int) *ProviderEstimator {
	if ratePerSec <= 0 {
		ratePerSec = 8
	}
	return &ProviderEstimator{
		provider: provider,
		fallback: NewHaversineEstimator(),
		limiter:  rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
	}
}

func (e *ProviderEstimator) Distance(a, b models.Coordinates) float64 {
	return Haversine(a, b)
}

// TravelTime never fails: provider errors fall back to the heuristic.
func (e *ProviderEstimator) TravelTime(ctx context.Context, a, b models.Coordinates) (float64, error) {
	if a == b {
		return 0, nil
	}

	if err := e.limiter.Wait(ctx); err == nil {
		minutes, perr := e.provider.Duration(ctx, a, b)
		if perr == nil && minutes >= 0 {
			return minutes, nil
		}
		if perr != nil {
			log.Printf("travel provider failed, using heuristic err=%v", perr)
		}
	}

	metrics.TravelFallbacks.Inc()
	return e.fallback.TravelTime(ctx, a, b)
}

// MatrixProvider calls an OpenRouteService-compatible matrix endpoint for a
// single origin/destination pair.
type MatrixProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	profile string
}

func NewMatrixProvider(baseURL, apiKey string, timeout time.Duration) *MatrixProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MatrixProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		profile: "driving-car",
	}
}

type matrixRequest struct {
	Locations [][]float64 `json:"locations"` // [lon, lat]
	Metrics   []string    `json:"metrics"`
	Sources   []int       `json:"sources"`
	Destinations []int    `json:"destinations"`
}

type matrixResponse struct {
	Durations [][]float64 `json:"durations"` // seconds
}

func (p *MatrixProvider) Duration(ctx context.Context, origin, destination models.Coordinates) (float64, error) {
	body, err := json.Marshal(matrixRequest{
		Locations: [][]float64{
			{origin.Longitude, origin.Latitude},
			{destination.Longitude, destination.Latitude},
		},
		Metrics:      []string{"duration"},
		Sources:      []int{0},
		Destinations: []int{1},
	})
	if err != nil {
		return 0, fmt.Errorf("travel.MatrixProvider marshal: %w", err)
	}

	endpoint := p.baseURL + "/v2/matrix/" + p.profile
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("travel.MatrixProvider build request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("travel.MatrixProvider call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("travel.MatrixProvider: unexpected status %d", resp.StatusCode)
	}

	var decoded matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("travel.MatrixProvider decode: %w", err)
	}
	if len(decoded.Durations) == 0 || len(decoded.Durations[0]) == 0 {
		return 0, fmt.Errorf("travel.MatrixProvider: empty durations matrix")
	}

	return decoded.Durations[0][0] / 60.0, nil
}
