package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl}
}

// AcquireOnce tries to acquire a dedup lock for a handler + entity id.
// Returns true the first time, false for a redelivery. When Redis is
// unavailable processing proceeds rather than stalling the queue.
func (d *Deduper) AcquireOnce(ctx context.Context, handler, entityID string) bool {
	key := fmt.Sprintf("dedup:%s:%s", handler, entityID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}
