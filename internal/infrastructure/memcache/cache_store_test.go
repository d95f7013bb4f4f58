package memcache

import (
	"context"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	store := New(true)

	store.Set(ctx, "course:go-basics", "value", time.Minute)

	got, ok := store.Get(ctx, "course:go-basics")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got != "value" {
		t.Errorf("got %v, want %q", got, "value")
	}
}

func TestGetMiss(t *testing.T) {
	store := New(true)

	if _, ok := store.Get(context.Background(), "absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	store := New(true)

	store.Set(ctx, "key", "first", time.Minute)
	store.Set(ctx, "key", "second", time.Minute)

	got, _ := store.Get(ctx, "key")
	if got != "second" {
		t.Errorf("got %v, want %q", got, "second")
	}
	if size := store.Stats().Size; size != 1 {
		t.Errorf("size = %d, want 1", size)
	}
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := New(true, WithClock(func() time.Time { return now }))

	store.Set(ctx, "key", "value", 10*time.Second)

	if _, ok := store.Get(ctx, "key"); !ok {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(11 * time.Second)
	if _, ok := store.Get(ctx, "key"); ok {
		t.Error("expected miss after expiry")
	}
	// The expired read removes the entry.
	if size := store.Stats().Size; size != 0 {
		t.Errorf("size = %d after expired read, want 0", size)
	}
}

func TestNoTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := New(true, WithClock(func() time.Time { return now }))

	store.Set(ctx, "key", "value", 0)

	now = now.Add(1000 * time.Hour)
	if _, ok := store.Get(ctx, "key"); !ok {
		t.Error("entry without TTL should never expire")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := New(true)

	store.Set(ctx, "key", "value", time.Minute)
	store.Delete(ctx, "key")

	if _, ok := store.Get(ctx, "key"); ok {
		t.Error("expected miss after Delete")
	}

	// Deleting an absent key is a no-op.
	store.Delete(ctx, "absent")
}

func TestDeletePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		keys    []string
		left    []string
	}{
		{
			name:    "prefix wildcard",
			pattern: "courses:*",
			keys:    []string{"courses:page=1", "courses:page=2", "course:go-basics"},
			left:    []string{"course:go-basics"},
		},
		{
			name:    "detail prefix does not match list keys",
			pattern: "course:*",
			keys:    []string{"courses:page=1", "course:go-basics", "course:rust-101"},
			left:    []string{"courses:page=1"},
		},
		{
			name:    "exact match without wildcard",
			pattern: "courses:featured",
			keys:    []string{"courses:featured", "courses:page=1"},
			left:    []string{"courses:page=1"},
		},
		{
			name:    "no match leaves everything",
			pattern: "users:*",
			keys:    []string{"courses:page=1", "course:go-basics"},
			left:    []string{"courses:page=1", "course:go-basics"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := New(true)
			for _, key := range tt.keys {
				store.Set(ctx, key, "value", time.Minute)
			}

			store.DeletePattern(ctx, tt.pattern)

			if size := store.Stats().Size; size != len(tt.left) {
				t.Errorf("size = %d, want %d", size, len(tt.left))
			}
			for _, key := range tt.left {
				if _, ok := store.Get(ctx, key); !ok {
					t.Errorf("key %q should have survived", key)
				}
			}
		})
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := New(true)

	store.Set(ctx, "a", 1, time.Minute)
	store.Set(ctx, "b", 2, time.Minute)
	store.Clear(ctx)

	if size := store.Stats().Size; size != 0 {
		t.Errorf("size = %d after Clear, want 0", size)
	}
}

func TestDisabledStore(t *testing.T) {
	ctx := context.Background()
	store := New(false)

	store.Set(ctx, "key", "value", time.Minute)

	if _, ok := store.Get(ctx, "key"); ok {
		t.Error("disabled store must report every key as absent")
	}
	if size := store.Stats().Size; size != 0 {
		t.Errorf("disabled store stored %d entries, want 0", size)
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := New(true)

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				store.Set(ctx, "shared", j, time.Minute)
				store.Get(ctx, "shared")
				store.DeletePattern(ctx, "shar*")
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
