package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"coursework/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	redisIdempotencyPrefix = "idemp:"
	redisPendingPrefix     = "idemp:pending:"
	// A claim left behind by a crashed replica frees itself after this long.
	redisPendingTTL = 5 * time.Minute
)

// RedisIdempotencyStore shares cached responses between replicas. Redis
// errors degrade to a cache miss so orders keep flowing without it.
type RedisIdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisIdempotencyStore(client redis.Cmdable, ttl time.Duration, log *logger.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool) {
	val, err := s.client.Get(ctx, redisIdempotencyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.log.Warn("Idempotency lookup failed", "error", err)
		return nil, false
	}

	var resp CachedResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		s.log.Warn("Idempotency entry is corrupt", "error", err)
		return nil, false
	}
	return &resp, true
}

func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, response *CachedResponse) {
	response.CreatedAt = time.Now()
	data, err := json.Marshal(response)
	if err != nil {
		s.log.Warn("Failed to encode idempotency entry", "error", err)
		return
	}
	if err := s.client.Set(ctx, redisIdempotencyPrefix+key, data, s.ttl).Err(); err != nil {
		s.log.Warn("Failed to store idempotency entry", "error", err)
	}
	s.Release(ctx, key)
}

// Claim takes the pending marker with SETNX. When Redis is unreachable the
// claim is granted, matching the cache-miss behaviour of Get.
func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string) bool {
	ok, err := s.client.SetNX(ctx, redisPendingPrefix+key, "1", redisPendingTTL).Result()
	if err != nil {
		s.log.Warn("Idempotency claim failed", "error", err)
		return true
	}
	if !ok {
		return false
	}

	// The first request may have finished between the caller's Get and here.
	if n, err := s.client.Exists(ctx, redisIdempotencyPrefix+key).Result(); err == nil && n > 0 {
		s.Release(ctx, key)
		return false
	}
	return true
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) {
	if err := s.client.Del(ctx, redisPendingPrefix+key).Err(); err != nil {
		s.log.Warn("Failed to release idempotency claim", "error", err)
	}
}

// Stop is a no-op; the Redis client is closed by its owner.
func (s *RedisIdempotencyStore) Stop() {}
