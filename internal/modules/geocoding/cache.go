package geocoding

import (
	"context"
	"sync"

	"fieldops-backend/internal/models"
)

// Cache maps normalized address strings to coordinates. Implementations must
// be safe for concurrent use; duplicate concurrent inserts for the same
// address are idempotent (both resolve and the last write wins harmlessly).
type Cache interface {
	Get(ctx context.Context, address string) (models.Coordinates, bool, error)
	Put(ctx context.Context, address string, coords models.Coordinates) error
}

// MemoryCache is an in-process Cache used when no redis is configured and as
// the per-run memoization layer in tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]models.Coordinates
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]models.Coordinates)}
}

func (m *MemoryCache) Get(_ context.Context, address string) (models.Coordinates, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.entries[address]
	return c, ok, nil
}

func (m *MemoryCache) Put(_ context.Context, address string, coords models.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[address] = coords
	return nil
}
