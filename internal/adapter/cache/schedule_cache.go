package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/gym_booking/internal/core/domain"
)

// ScheduleCache stores class snapshots in Redis. Every key embeds a
// generation number; Invalidate bumps the generation so all older snapshots
// stop being read and expire on their own.
type ScheduleCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewScheduleCache(rdb *redis.Client, prefix string, ttl time.Duration) *ScheduleCache {
	if prefix == "" {
		prefix = "schedule"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ScheduleCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *ScheduleCache) genKey() string {
	return c.prefix + ":gen"
}

// Generation reads the current generation. A missing counter is generation 0.
func (c *ScheduleCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *ScheduleCache) dataKey(gen int64, key string) string {
	return fmt.Sprintf("%s:classes:%d:%s", c.prefix, gen, key)
}

func (c *ScheduleCache) GetClasses(ctx context.Context, gen int64, key string) ([]domain.GymClass, bool, error) {
	raw, err := c.rdb.Get(ctx, c.dataKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var classes []domain.GymClass
	if err := json.Unmarshal(raw, &classes); err != nil {
		return nil, false, fmt.Errorf("decode cached schedule: %w", err)
	}
	return classes, true, nil
}

// SetClasses stores classes under gen, which must be the generation the
// caller read before loading them. If a writer has invalidated since, the
// snapshot lands under a generation nobody reads any more.
func (c *ScheduleCache) SetClasses(ctx context.Context, gen int64, key string, classes []domain.GymClass) error {
	raw, err := json.Marshal(classes)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.dataKey(gen, key), raw, c.ttl).Err()
}

func (c *ScheduleCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, c.genKey()).Err()
}
