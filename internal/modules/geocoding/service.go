package geocoding

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"fieldops-backend/internal/metrics"
	"fieldops-backend/internal/models"

	"golang.org/x/time/rate"
)

// Service resolves addresses to coordinates, memoizing by the exact
// normalized address string so repeat lookups within and across runs never
// hit the provider twice. Provider calls are rate limited to respect
// third-party quotas.
type Service struct {
	provider Provider
	cache    Cache
	limiter  *rate.Limiter
	workers  int
}

// NewService creates a resolver. ratePerSec bounds provider calls per second;
// workers bounds concurrent in-flight resolutions in ResolveAll.
func NewService(provider Provider, cache Cache, ratePerSec, workers int) *Service {
	if ratePerSec <= 0 {
		ratePerSec = 8
	}
	if workers <= 0 {
		workers = 5
	}
	return &Service{
		provider: provider,
		cache:    cache,
		limiter:  rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		workers:  workers,
	}
}

// normalize collapses whitespace so trivially different spellings of the
// same address share one cache entry.
func normalize(address string) string {
	return strings.Join(strings.Fields(address), " ")
}

// Resolve returns coordinates for an address. A provider failure of any kind
// wraps models.ErrUnresolvedAddress so callers can exclude the job and move on.
func (s *Service) Resolve(ctx context.Context, address string) (models.Coordinates, error) {
	addr := normalize(address)
	if addr == "" {
		return models.Coordinates{}, fmt.Errorf("geocoding.Resolve: empty address: %w", models.ErrUnresolvedAddress)
	}

	if coords, ok, err := s.cache.Get(ctx, addr); err == nil && ok {
		return coords, nil
	} else if err != nil {
		// Cache trouble is never fatal; fall through to the provider.
		log.Printf("geocode cache read failed addr=%q err=%v", addr, err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return models.Coordinates{}, fmt.Errorf("geocoding.Resolve: %w", err)
	}

	coords, err := s.provider.Geocode(ctx, addr)
	if err != nil {
		metrics.GeocodeFailures.Inc()
		return models.Coordinates{}, fmt.Errorf("geocoding.Resolve: %w: %v", models.ErrUnresolvedAddress, err)
	}

	if err := s.cache.Put(ctx, addr, coords); err != nil {
		log.Printf("geocode cache write failed addr=%q err=%v", addr, err)
	}
	return coords, nil
}

// ResolveAll resolves a set of addresses with bounded parallelism. It returns
// the coordinates found keyed by normalized address plus the list of
// addresses that could not be resolved; it never fails the whole batch.
func (s *Service) ResolveAll(ctx context.Context, addresses []string) (map[string]models.Coordinates, []string) {
	seen := make(map[string]struct{}, len(addresses))
	uniq := make([]string, 0, len(addresses))
	for _, a := range addresses {
		na := normalize(a)
		if na == "" {
			continue
		}
		if _, ok := seen[na]; ok {
			continue
		}
		seen[na] = struct{}{}
		uniq = append(uniq, na)
	}

	var (
		mu       sync.Mutex
		resolved = make(map[string]models.Coordinates, len(uniq))
		failed   []string
	)

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for _, addr := range uniq {
		wg.Add(1)
		go func(a string) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			coords, err := s.Resolve(ctx, a)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("geocode failed addr=%q err=%v", a, err)
				failed = append(failed, a)
				return
			}
			resolved[a] = coords
		}(addr)
	}
	wg.Wait()

	return resolved, failed
}

// NormalizeAddress exposes the cache-key normalization so callers can map
// their own records onto ResolveAll results.
func NormalizeAddress(address string) string {
	return normalize(address)
}
