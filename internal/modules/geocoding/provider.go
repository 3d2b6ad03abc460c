package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"fieldops-backend/internal/models"
)

// Provider resolves a free-form address to coordinates via an external
// geocoding service.
type Provider interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// HTTPProvider calls an OpenRouteService-compatible /geocode/search endpoint.
// Transient failures (429, 5xx, network errors) are retried with exponential
// backoff; everything else surfaces to the caller, who treats the address as
// unresolved rather than failing the batch.
type HTTPProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPProvider creates a provider against the given base URL. The timeout
// bounds every attempt including retries' individual round trips.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) (*HTTPProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("geocoding: api key is empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}, nil
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves a single address. Returns models.ErrUnresolvedAddress when
// the provider has no match for the address.
func (p *HTTPProvider) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	endpoint := p.baseURL + "/geocode/search"

	makeReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", p.apiKey)
		req.Header.Set("Accept", "application/json")
		q := req.URL.Query()
		q.Set("text", address)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	}

	resp, err := p.doWithRetry(ctx, makeReq)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding.Geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding.Geocode decode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return models.Coordinates{}, fmt.Errorf("geocoding.Geocode %q: %w", address, models.ErrUnresolvedAddress)
	}
	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return models.Coordinates{}, fmt.Errorf("geocoding.Geocode %q: malformed coordinates: %w", address, models.ErrUnresolvedAddress)
	}

	return models.Coordinates{Latitude: coords[1], Longitude: coords[0]}, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (p *HTTPProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries transient failures with exponential backoff while
// respecting context cancellation.
func (p *HTTPProvider) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := p.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return nil, lastErr
}
