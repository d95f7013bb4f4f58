// Package redis implements the cache port on a Redis client. It is the
// multi-instance replacement for the in-process memcache backend: values are
// stored as JSON strings with native TTLs, and pattern invalidation scans
// the keyspace.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/coursehub/coursehub-api/internal/common/logging"
)

// CacheStore implements cache operations on Redis. Like memcache, every
// operation is best-effort: failures are logged, never surfaced.
type CacheStore struct {
	client redis.UniversalClient
	logger *logrus.Logger
}

// New creates a CacheStore.
func New(client redis.UniversalClient, logger *logrus.Logger) *CacheStore {
	return &CacheStore{
		client: client,
		logger: logger,
	}
}

// Set stores value under key. ttl <= 0 stores without expiry.
func (s *CacheStore) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logError(ctx, "Failed to marshal cache value", err, key)
		return
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logError(ctx, "Failed to set cache", err, key)
	}
}

// Get retrieves the value stored under key. Values round-trip through JSON,
// so callers receive the generic decoded form (maps and slices), matching
// what they stored structurally rather than by concrete type.
func (s *CacheStore) Get(ctx context.Context, key string) (any, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logError(ctx, "Failed to get cache", err, key)
		return nil, false
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		s.logError(ctx, "Failed to unmarshal cache value", err, key)
		return nil, false
	}
	return value, true
}

// Delete removes one key.
func (s *CacheStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logError(ctx, "Failed to delete cache", err, key)
	}
}

// DeletePattern removes every key matching pattern. The single-"*" glob maps
// directly onto Redis MATCH syntax.
func (s *CacheStore) DeletePattern(ctx context.Context, pattern string) {
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			s.logError(ctx, "Failed to delete cache key", err, iter.Val())
		}
	}
	if err := iter.Err(); err != nil {
		s.logError(ctx, "Failed to scan cache keys", err, pattern)
	}
}

// Clear removes all entries in the current database.
func (s *CacheStore) Clear(ctx context.Context) {
	if err := s.client.FlushDB(ctx).Err(); err != nil {
		s.logError(ctx, "Failed to clear cache", err, "")
	}
}

func (s *CacheStore) logError(ctx context.Context, message string, err error, key string) {
	logging.LogErrorWithTraceNotNotify(ctx, s.logger, "cache", message, err, logrus.Fields{
		"cache.key": key,
	})
}
