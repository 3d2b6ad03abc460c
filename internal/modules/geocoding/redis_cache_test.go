package geocoding

import (
	"context"
	"testing"
	"time"

	"fieldops-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisCache(rdb, time.Hour), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "100 Main St"); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v, want miss", ok, err)
	}

	want := models.Coordinates{Latitude: 40.0, Longitude: -75.0}
	if err := cache.Put(ctx, "100 Main St", want); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := cache.Get(ctx, "100 Main St")
	if err != nil || !ok {
		t.Fatalf("get after put: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRedisCacheCorruptEntryIsMiss(t *testing.T) {
	cache, mr := newTestRedisCache(t)

	mr.Set("geocode:100 Main St", "not json")

	_, ok, err := cache.Get(context.Background(), "100 Main St")
	if err != nil {
		t.Fatalf("corrupt entry must not error: %v", err)
	}
	if ok {
		t.Fatalf("corrupt entry must read as a miss")
	}
}

func TestRedisCacheEntryExpires(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	if err := cache.Put(ctx, "100 Main St", models.Coordinates{Latitude: 1, Longitude: 2}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if _, ok, err := cache.Get(ctx, "100 Main St"); err != nil || ok {
		t.Fatalf("expired entry: ok=%v err=%v, want miss", ok, err)
	}
}
