// Package memcache implements the cache port on a process-local map with
// per-entry expiry. It trades precision for simplicity: no size bound, no
// eviction beyond TTL, and bulk invalidation by glob pattern after writes.
package memcache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value  any
	expiry time.Time // zero means never expires
}

func (e entry) expired(now time.Time) bool {
	return !e.expiry.IsZero() && now.After(e.expiry)
}

// Stats is a point-in-time snapshot for diagnostics.
type Stats struct {
	Size    int  `json:"size"`
	Enabled bool `json:"enabled"`
}

// CacheStore is a process-local key/value store with TTL. All operations
// are safe for concurrent use and never return an error: caching is
// best-effort and must not be the cause of a request failure.
type CacheStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	enabled bool
	clock   func() time.Time
}

// Option configures a CacheStore.
type Option func(*CacheStore)

// WithClock overrides the time source. For tests.
func WithClock(clock func() time.Time) Option {
	return func(s *CacheStore) {
		s.clock = clock
	}
}

// New creates a CacheStore. A disabled store accepts every call and reports
// every key as absent, indistinguishable from a miss.
func New(enabled bool, opts ...Option) *CacheStore {
	s := &CacheStore{
		entries: make(map[string]entry),
		enabled: enabled,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores value under key. ttl <= 0 means the entry never expires.
// Overwrites any existing entry for key.
func (s *CacheStore) Set(_ context.Context, key string, value any, ttl time.Duration) {
	if !s.enabled {
		return
	}

	e := entry{value: value}
	if ttl > 0 {
		e.expiry = s.clock().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Get returns the stored value if present and not expired. An expired entry
// is deleted as a side effect. Misses, expired entries and a disabled cache
// all report the same absence.
func (s *CacheStore) Get(_ context.Context, key string) (any, bool) {
	if !s.enabled {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if e.expired(s.clock()) {
		s.mu.Lock()
		// Re-check under the write lock; another request may have replaced
		// the entry since the read.
		if current, ok := s.entries[key]; ok && current.expired(s.clock()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Delete removes one entry unconditionally. No-op if absent.
func (s *CacheStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// DeletePattern removes every key matching pattern. The pattern holds a
// single "*" wildcard, e.g. "courses:*"; without one it is an exact match.
func (s *CacheStore) DeletePattern(_ context.Context, pattern string) {
	prefix, suffix, wildcard := strings.Cut(pattern, "*")

	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if !wildcard {
			if key == pattern {
				delete(s.entries, key)
			}
			continue
		}
		if strings.HasPrefix(key, prefix) && strings.HasSuffix(key[len(prefix):], suffix) {
			delete(s.entries, key)
		}
	}
}

// Clear removes all entries.
func (s *CacheStore) Clear(_ context.Context) {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Stats reports size and the enabled flag.
func (s *CacheStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Size: len(s.entries), Enabled: s.enabled}
}
