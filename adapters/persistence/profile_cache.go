package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/folio/internal/domain/profile"
)

const profileCachePrefix = "profile:username:"

type RedisProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProfileCache(rdb *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{rdb: rdb, ttl: ttl}
}

func profileCacheKey(username string) string {
	return profileCachePrefix + username
}

func (c *RedisProfileCache) Get(ctx context.Context, username string) (*profile.Profile, error) {
	data, err := c.rdb.Get(ctx, profileCacheKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get profile: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		// Drop the entry so the next read repopulates it.
		_ = c.rdb.Del(ctx, profileCacheKey(username)).Err()
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return &p, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile for cache: %w", err)
	}
	if err := c.rdb.Set(ctx, profileCacheKey(p.Username), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set profile: %w", err)
	}
	return nil
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, usernames ...string) error {
	if len(usernames) == 0 {
		return nil
	}
	keys := make([]string, len(usernames))
	for i, u := range usernames {
		keys[i] = profileCacheKey(u)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del profiles: %w", err)
	}
	return nil
}
