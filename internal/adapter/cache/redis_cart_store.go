package cache

import (
	"context"
	"encoding/json"
	"time"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisCartStore keeps guest carts as session-scoped entries with a TTL, so
// an abandoned cart expires instead of lingering as server-side state.
type RedisCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartStore(rdb *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{rdb: rdb, ttl: ttl}
}

func cartKey(sessionID string) string { return "cart:guest:" + sessionID }

func (s *RedisCartStore) Get(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	raw, err := s.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return []domain.CartLine{}, nil
	}
	return lines, nil
}

func (s *RedisCartStore) Replace(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	raw, err := json.Marshal(domain.NormalizeLines(lines))
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(sessionID), raw, s.ttl).Err()
}

var _ usecase.GuestCartStore = (*RedisCartStore)(nil)
