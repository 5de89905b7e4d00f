package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// RequestThrottle counts attempts per key inside a fixed window.
type RequestThrottle interface {
	// Allow records one attempt and reports whether it stays within limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// TokenDenylist tracks revoked token IDs until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ActivityBroadcaster fans out new activity entries to live subscribers.
type ActivityBroadcaster interface {
	Publish(ctx context.Context, e *model.ActivityEntry) error
}

// RedisStore implements the Redis-backed throttle, denylist and broadcaster.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Allow increments the window counter, setting its expiry on the first hit.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("throttle %s: %w", key, err)
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("throttle %s: %w", key, err)
		}
	}
	return n <= int64(limit), nil
}

// Revoke stores the jti in the denylist.
func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, config.CacheKey.RevokedTokenKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether the jti is in the denylist.
func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.rdb.Get(ctx, config.CacheKey.RevokedTokenKey(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Publish sends the entry as JSON on the activity channel.
func (s *RedisStore) Publish(ctx context.Context, e *model.ActivityEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, config.CacheKey.ActivityChannel(), payload).Err()
}

// SubscribeActivity opens a subscription on the activity channel.
// The caller must close the returned PubSub.
func (s *RedisStore) SubscribeActivity(ctx context.Context) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.ActivityChannel())
}
