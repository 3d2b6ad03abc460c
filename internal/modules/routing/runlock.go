package routing

import (
	"context"
	"fmt"
	"time"

	"fieldops-backend/internal/models"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// RunLock serializes optimization runs per (company, date) key. Nothing in
// the persistence layer versions concurrent runs, so without the lock two
// overlapping runs would interleave their job write-backs; the lock closes
// that gap. With no redis configured the lock degrades to a no-op, which
// matches single-instance deployments.
type RunLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRunLock(rdb *redis.Client, ttl time.Duration) *RunLock {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RunLock{rdb: rdb, ttl: ttl}
}

func (l *RunLock) key(companyID, date string) string {
	return fmt.Sprintf("optimize:run:%s:%s", companyID, date)
}

// Acquire takes the run lock, returning a release function. It returns
// models.ErrRunInProgress when another run already holds the key; the TTL
// bounds how long a crashed run can block its key.
func (l *RunLock) Acquire(ctx context.Context, companyID, date string) (func(), error) {
	if l.rdb == nil {
		return func() {}, nil
	}

	key := l.key(companyID, date)
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("routing.RunLock.Acquire: %w", err)
	}
	if !ok {
		return nil, models.ErrRunInProgress
	}

	release := func() {
		// Only delete our own token; an expired lock may have been re-taken.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.rdb.Eval(releaseCtx, script, []string{key}, token).Err()
	}
	return release, nil
}
