package eventbus

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestBus() *Bus {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger, nil)
}

func TestPublishInvokesInRegistrationOrder(t *testing.T) {
	bus := newTestBus()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe("course:enrolled", func(ctx context.Context, payload any) error {
			order = append(order, i)
			return nil
		})
	}

	bus.Publish(context.Background(), "course:enrolled", nil)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("handlers ran in order %v, want [1 2 3]", order)
	}
}

func TestPublishPassesPayload(t *testing.T) {
	bus := newTestBus()

	var got any
	bus.Subscribe("review:created", func(ctx context.Context, payload any) error {
		got = payload
		return nil
	})

	bus.Publish(context.Background(), "review:created", "payload")

	if got != "payload" {
		t.Errorf("handler received %v, want %q", got, "payload")
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	bus := newTestBus()
	// Must not panic or block.
	bus.Publish(context.Background(), "course:completed", nil)
}

func TestHandlerErrorDoesNotStopSiblings(t *testing.T) {
	bus := newTestBus()

	var ran []string
	bus.Subscribe("event", func(ctx context.Context, payload any) error {
		ran = append(ran, "first")
		return errors.New("handler failure")
	})
	bus.Subscribe("event", func(ctx context.Context, payload any) error {
		ran = append(ran, "second")
		return nil
	})

	bus.Publish(context.Background(), "event", nil)

	if len(ran) != 2 {
		t.Errorf("ran %v, want both handlers despite the first failing", ran)
	}
}

func TestHandlerPanicIsContained(t *testing.T) {
	bus := newTestBus()

	var secondRan bool
	bus.Subscribe("event", func(ctx context.Context, payload any) error {
		panic("handler blew up")
	})
	bus.Subscribe("event", func(ctx context.Context, payload any) error {
		secondRan = true
		return nil
	})

	bus.Publish(context.Background(), "event", nil)

	if !secondRan {
		t.Error("panic in one handler must not stop the next")
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := newTestBus()

	var calls int
	unsubscribe := bus.Subscribe("event", func(ctx context.Context, payload any) error {
		calls++
		return nil
	})

	bus.Publish(context.Background(), "event", nil)
	unsubscribe()
	bus.Publish(context.Background(), "event", nil)

	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := newTestBus()

	handler := func(ctx context.Context, payload any) error { return nil }
	first := bus.Subscribe("event", handler)
	bus.Subscribe("event", handler)

	if n := bus.SubscriberCount("event"); n != 2 {
		t.Fatalf("SubscriberCount = %d, want 2", n)
	}

	// Calling the same handle twice removes only the first registration.
	first()
	first()

	if n := bus.SubscriberCount("event"); n != 1 {
		t.Errorf("SubscriberCount = %d after double unsubscribe, want 1", n)
	}
}

func TestUnsubscribeAll(t *testing.T) {
	bus := newTestBus()

	var calls int
	handler := func(ctx context.Context, payload any) error {
		calls++
		return nil
	}
	bus.Subscribe("event", handler)
	bus.Subscribe("event", handler)
	bus.Subscribe("other", handler)

	bus.UnsubscribeAll("event")

	if n := bus.SubscriberCount("event"); n != 0 {
		t.Errorf("SubscriberCount(event) = %d, want 0", n)
	}
	if n := bus.SubscriberCount("other"); n != 1 {
		t.Errorf("SubscriberCount(other) = %d, want 1 (untouched)", n)
	}

	bus.Publish(context.Background(), "event", nil)
	if calls != 0 {
		t.Errorf("handler ran %d times after UnsubscribeAll, want 0", calls)
	}
}

func TestSubscribeDuringPublish(t *testing.T) {
	bus := newTestBus()

	var lateRan bool
	bus.Subscribe("event", func(ctx context.Context, payload any) error {
		// Registering from inside a handler must not deadlock, and the new
		// handler only sees future publishes.
		bus.Subscribe("event", func(ctx context.Context, payload any) error {
			lateRan = true
			return nil
		})
		return nil
	})

	bus.Publish(context.Background(), "event", nil)
	if lateRan {
		t.Error("handler registered mid-publish must not run in the same publish")
	}

	bus.Reset()
}
