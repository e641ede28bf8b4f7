package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/redis/go-redis/v9"
)

type RedisStatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatusCache(rdb *redis.Client, ttl time.Duration) *RedisStatusCache {
	return &RedisStatusCache{rdb: rdb, ttl: ttl}
}

func statusKey(orderID int64) string {
	return "order:status:" + strconv.FormatInt(orderID, 10)
}

func (r *RedisStatusCache) SetStatus(ctx context.Context, orderID int64, status string) error {
	return r.rdb.Set(ctx, statusKey(orderID), status, r.ttl).Err()
}

func (r *RedisStatusCache) GetStatus(ctx context.Context, orderID int64) (string, error) {
	val, err := r.rdb.Get(ctx, statusKey(orderID)).Result()
	if err == redis.Nil {
		return "", usecase.ErrNotFound
	}
	return val, err
}

var _ usecase.StatusCache = (*RedisStatusCache)(nil)
