package inflight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func guards(t *testing.T) map[string]Guard {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return map[string]Guard{
		"local": NewLocalGuard(),
		"redis": NewRedisGuard(rdb, "", time.Minute),
	}
}

func TestGuardExclusive(t *testing.T) {
	for name, g := range guards(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := Key("u7", "pay", 42)

			release, err := g.Acquire(ctx, key)
			if err != nil {
				t.Fatalf("first Acquire: %v", err)
			}
			if _, err := g.Acquire(ctx, key); !errors.Is(err, ErrBusy) {
				t.Fatalf("second Acquire err = %v, want ErrBusy", err)
			}
			other, err := g.Acquire(ctx, Key("u7", "pay", 43))
			if err != nil {
				t.Fatalf("Acquire of another key: %v", err)
			}
			other()

			release()
			release() // a second release is harmless
			again, err := g.Acquire(ctx, key)
			if err != nil {
				t.Fatalf("Acquire after release: %v", err)
			}
			again()
		})
	}
}

func TestRedisGuardExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	g := NewRedisGuard(rdb, "inflight", time.Second)
	ctx := context.Background()

	stale, err := g.Acquire(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Second)

	fresh, err := g.Acquire(ctx, "k")
	if err != nil {
		t.Fatalf("Acquire after expiry: %v", err)
	}
	// The expired holder must not release the new claim.
	stale()
	if _, err := g.Acquire(ctx, "k"); !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy while the fresh claim is held", err)
	}
	fresh()
	if mr.Exists("inflight:k") {
		t.Error("key survived release")
	}
}

func TestKey(t *testing.T) {
	if got := Key("s1", "cancel", uint64(9)); got != "s1:cancel:9" {
		t.Errorf("Key = %q", got)
	}
}
