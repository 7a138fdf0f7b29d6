package persistence

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/khoahotran/folio/internal/domain/view"
)

const viewDedupPrefix = "view:"

// RedisViewDedup remembers (profile, visitor) pairs for ttl so repeat visits
// never reach the queue or the store.
type RedisViewDedup struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisViewDedup(rdb *redis.Client, ttl time.Duration) *RedisViewDedup {
	return &RedisViewDedup{rdb: rdb, ttl: ttl}
}

func (d *RedisViewDedup) FirstSeen(ctx context.Context, v view.View) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, dedupKey(v), 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx view: %w", err)
	}
	return ok, nil
}

func (d *RedisViewDedup) Forget(ctx context.Context, v view.View) error {
	if err := d.rdb.Del(ctx, dedupKey(v)).Err(); err != nil {
		return fmt.Errorf("redis del view: %w", err)
	}
	return nil
}

// dedupKey hashes the visitor so raw IPs and user agents never land in Redis.
func dedupKey(v view.View) string {
	sum := blake2b.Sum256([]byte(v.VisitorID))
	return viewDedupPrefix + v.ProfileID.String() + ":" + hex.EncodeToString(sum[:16])
}
