package tracing

import (
	"context"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/usecase/port"
)

// CacheStoreTracer wraps a CacheRepository with tracing and hit/miss metrics.
type CacheStoreTracer struct {
	store  port.CacheRepository
	statsd statsd.ClientInterface
}

// NewCacheStoreTracer creates a tracing decorator for a cache backend.
func NewCacheStoreTracer(store port.CacheRepository, statsdClient statsd.ClientInterface) port.CacheRepository {
	if statsdClient == nil {
		statsdClient = &statsd.NoOpClient{}
	}
	return &CacheStoreTracer{
		store:  store,
		statsd: statsdClient,
	}
}

// Set wraps the Set method with tracing
func (t *CacheStoreTracer) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	span, ctx := tracer.StartSpanFromContext(ctx, "cache.set")
	defer span.Finish()

	span.SetTag("cache.key", key)
	span.SetTag("cache.ttl", ttl.Seconds())

	t.store.Set(ctx, key, value, ttl)
}

// Get wraps the Get method with tracing
func (t *CacheStoreTracer) Get(ctx context.Context, key string) (any, bool) {
	span, ctx := tracer.StartSpanFromContext(ctx, "cache.get")
	defer span.Finish()

	span.SetTag("cache.key", key)

	value, ok := t.store.Get(ctx, key)
	span.SetTag("cache.hit", ok)
	if ok {
		_ = t.statsd.Incr("cache.hit", nil, 1)
	} else {
		_ = t.statsd.Incr("cache.miss", nil, 1)
	}
	return value, ok
}

// Delete wraps the Delete method with tracing
func (t *CacheStoreTracer) Delete(ctx context.Context, key string) {
	span, ctx := tracer.StartSpanFromContext(ctx, "cache.delete")
	defer span.Finish()

	span.SetTag("cache.key", key)
	t.store.Delete(ctx, key)
}

// DeletePattern wraps the DeletePattern method with tracing
func (t *CacheStoreTracer) DeletePattern(ctx context.Context, pattern string) {
	span, ctx := tracer.StartSpanFromContext(ctx, "cache.delete_pattern")
	defer span.Finish()

	span.SetTag("cache.pattern", pattern)
	_ = t.statsd.Incr("cache.invalidation", []string{"pattern:" + pattern}, 1)
	t.store.DeletePattern(ctx, pattern)
}

// Clear wraps the Clear method with tracing
func (t *CacheStoreTracer) Clear(ctx context.Context) {
	span, ctx := tracer.StartSpanFromContext(ctx, "cache.clear")
	defer span.Finish()

	t.store.Clear(ctx)
}
