package production

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/kitchenops/pkg/redis"
)

const defaultAggregateTTL = 36 * time.Hour

// AggregateStore persists daily aggregate snapshots.
type AggregateStore interface {
	Load(ctx context.Context, day string) (*Aggregate, bool, error)
	Save(ctx context.Context, agg *Aggregate) error
	Invalidate(ctx context.Context, day string) error
}

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	AggregateKey(day string) string
}

// RedisAggregateStore keeps one JSON snapshot per day under a TTL.
type RedisAggregateStore struct {
	client redisKV
	ttl    time.Duration
}

func NewRedisAggregateStore(client redisKV, ttl time.Duration) (*RedisAggregateStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		ttl = defaultAggregateTTL
	}
	return &RedisAggregateStore{client: client, ttl: ttl}, nil
}

// Load returns the snapshot for day; the boolean is false when none is stored.
func (s *RedisAggregateStore) Load(ctx context.Context, day string) (*Aggregate, bool, error) {
	raw, err := s.client.Get(ctx, s.client.AggregateKey(day))
	if err != nil {
		if redis.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read aggregate: %w", err)
	}
	var agg Aggregate
	if err := json.Unmarshal([]byte(raw), &agg); err != nil {
		return nil, false, fmt.Errorf("decode aggregate: %w", err)
	}
	if agg.Buckets == nil {
		agg.Buckets = make(map[string]*Bucket)
	}
	return &agg, true, nil
}

func (s *RedisAggregateStore) Save(ctx context.Context, agg *Aggregate) error {
	if agg == nil {
		return fmt.Errorf("aggregate required")
	}
	buf, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("encode aggregate: %w", err)
	}
	if err := s.client.Set(ctx, s.client.AggregateKey(agg.Day), string(buf), s.ttl); err != nil {
		return fmt.Errorf("write aggregate: %w", err)
	}
	return nil
}

func (s *RedisAggregateStore) Invalidate(ctx context.Context, day string) error {
	if err := s.client.Del(ctx, s.client.AggregateKey(day)); err != nil {
		return fmt.Errorf("delete aggregate: %w", err)
	}
	return nil
}
