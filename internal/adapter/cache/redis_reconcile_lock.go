package cache

import (
	"context"
	"time"

	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisReconcileLock serializes gateway callbacks per transaction id. The TTL
// bounds how long a crashed handler can hold a transaction hostage.
type RedisReconcileLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisReconcileLock(rdb *redis.Client, ttl time.Duration) *RedisReconcileLock {
	return &RedisReconcileLock{rdb: rdb, ttl: ttl}
}

func (s *RedisReconcileLock) TryLock(ctx context.Context, txID string) (bool, error) {
	return s.rdb.SetNX(ctx, "reconcile:lock:"+txID, "1", s.ttl).Result()
}

func (s *RedisReconcileLock) Release(ctx context.Context, txID string) error {
	return s.rdb.Del(ctx, "reconcile:lock:"+txID).Err()
}

var _ usecase.ReconcileLock = (*RedisReconcileLock)(nil)
