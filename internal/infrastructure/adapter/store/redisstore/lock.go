package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
)

const lockKey = "arena_write_lock"

// releaseScript deletes the lock only while it still carries our token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// WriteLock is a store-wide lock held as a Redis key with a TTL
type WriteLock struct {
	client       redis.UniversalClient
	key          string
	ttl          time.Duration
	pollInterval time.Duration
	ids          coreport.IDGenerator
	logger       coreport.Logger
}

// NewWriteLock creates a WriteLock; ttl bounds how long a crashed holder blocks others
func NewWriteLock(client redis.UniversalClient, prefix string, ttl time.Duration, ids coreport.IDGenerator, logger coreport.Logger) *WriteLock {
	return &WriteLock{
		client:       client,
		key:          prefix + lockKey,
		ttl:          ttl,
		pollInterval: 10 * time.Millisecond,
		ids:          ids,
		logger:       logger,
	}
}

// Acquire polls SET NX until the lock is taken or ctx is done
func (l *WriteLock) Acquire(ctx context.Context) (persistence.Release, error) {
	token := l.ids.NewID()
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: lock %s: %v", errs.ErrStore, l.key, err)
		}
		if ok {
			return l.releaser(token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *WriteLock) releaser(token string) persistence.Release {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil && err != redis.Nil {
			l.logger.Warn("Failed to release redis write lock, it will expire", map[string]any{
				"key":   l.key,
				"error": err.Error(),
			})
		}
	}
}
