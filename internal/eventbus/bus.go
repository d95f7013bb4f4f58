package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/sirupsen/logrus"

	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/usecase/port"
)

// subscription is one handler registration. Unsubscription is identity
// based: registering the same handler twice creates two subscriptions, and
// each unsubscribe handle removes exactly its own.
type subscription struct {
	handler port.EventHandler
}

// Bus is a synchronous in-process publish/subscribe registry. Handlers for
// an event run in registration order; a failing or panicking handler is
// logged and skipped, it never blocks its siblings and never reaches the
// publisher. One Bus is constructed at startup and lives for the process
// lifetime.
type Bus struct {
	mu     sync.Mutex
	subs   map[string][]*subscription
	logger *logrus.Logger
	statsd statsd.ClientInterface
}

// New creates a Bus. statsd may be a NoOpClient in tests.
func New(logger *logrus.Logger, statsdClient statsd.ClientInterface) *Bus {
	if statsdClient == nil {
		statsdClient = &statsd.NoOpClient{}
	}
	return &Bus{
		subs:   make(map[string][]*subscription),
		logger: logger,
		statsd: statsdClient,
	}
}

// Subscribe registers handler for every future publish of event. The
// returned function removes that exact registration; calling it more than
// once is a no-op.
func (b *Bus) Subscribe(event string, handler port.EventHandler) func() {
	sub := &subscription{handler: handler}

	b.mu.Lock()
	b.subs[event] = append(b.subs[event], sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.remove(event, sub)
		})
	}
}

// Publish invokes every currently-registered handler for event, in
// registration order, passing payload. It returns after all handlers have
// finished. Zero subscribers is a no-op.
func (b *Bus) Publish(ctx context.Context, event string, payload any) {
	b.mu.Lock()
	// Snapshot so handlers can subscribe/unsubscribe without deadlocking.
	subs := make([]*subscription, len(b.subs[event]))
	copy(subs, b.subs[event])
	b.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	_ = b.statsd.Incr("eventbus.published", []string{"event:" + event}, 1)

	for _, sub := range subs {
		b.invoke(ctx, event, sub, payload)
	}
}

// invoke runs one handler, converting a panic into a logged error.
func (b *Bus) invoke(ctx context.Context, event string, sub *subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			_ = b.statsd.Incr("eventbus.handler_panic", []string{"event:" + event}, 1)
			logging.LogErrorWithTrace(ctx, b.logger, "eventbus",
				"Event handler panicked", fmt.Errorf("panic: %v", r), logrus.Fields{
					"event.name": event,
				})
		}
	}()

	if err := sub.handler(ctx, payload); err != nil {
		_ = b.statsd.Incr("eventbus.handler_error", []string{"event:" + event}, 1)
		logging.LogErrorWithTraceNotNotify(ctx, b.logger, "eventbus",
			"Event handler failed", err, logrus.Fields{
				"event.name": event,
			})
	}
}

// UnsubscribeAll drops every handler for event.
func (b *Bus) UnsubscribeAll(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, event)
}

// SubscriberCount reports how many handlers are registered for event.
func (b *Bus) SubscriberCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[event])
}

// Reset drops every registration. For tests.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[string][]*subscription)
}

func (b *Bus) remove(event string, target *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[event]
	for i, sub := range subs {
		if sub == target {
			b.subs[event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[event]) == 0 {
		delete(b.subs, event)
	}
}
