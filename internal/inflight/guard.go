// Package inflight prevents the same user action from being dispatched twice
// while the first dispatch is still waiting on the backend (a double click on
// "pay", two tabs cancelling the same booking).
package inflight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrBusy is returned by Acquire while the key is held.
var ErrBusy = errors.New("inflight: action already in progress")

// Guard hands out exclusive, self-expiring claims on action keys.
type Guard interface {
	// Acquire claims key or fails with ErrBusy.  The returned release must
	// be called once the action settles.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Key builds a guard key from its parts, e.g. Key(sid, "pay", 42).
func Key(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ":")
}

// LocalGuard is an in-process Guard.
type LocalGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalGuard returns an in-process Guard.
func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: make(map[string]struct{})}
}

func (g *LocalGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return nil, ErrBusy
	}
	g.held[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}

// releaseScript deletes the key only if it still holds our token, so a
// claim that expired and was re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisGuard shares claims across server instances.  Claims expire after
// TTL so a crashed request cannot block an action forever.
type RedisGuard struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisGuard returns a Guard whose holds expire after ttl (30s when unset).
func NewRedisGuard(rdb *redis.Client, prefix string, ttl time.Duration) *RedisGuard {
	if prefix == "" {
		prefix = "inflight"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisGuard{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	full := g.prefix + ":" + key
	token := uuid.NewString()
	ok, err := g.rdb.SetNX(ctx, full, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("inflight: acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrBusy
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			// The request context may already be done; release on a fresh one.
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(ctx, g.rdb, []string{full}, token).Err()
		})
	}, nil
}
