package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage stores each value under "<prefix>:<sid>:<key>".  Every write
// and every successful read slides the TTL of the keys it touches.
type RedisStorage struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorage returns a Redis-backed Storage.  A ttl of zero keeps keys
// until they are deleted.
func NewRedisStorage(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStorage {
	if prefix == "" {
		prefix = "sess"
	}
	return &RedisStorage{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStorage) Name() string { return "redis" }

func (s *RedisStorage) key(sid, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, sid, key)
}

// Put writes all values inside MULTI/EXEC so a reader never sees half a
// session.
func (s *RedisStorage) Put(ctx context.Context, sid string, values map[string]string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, s.key(sid, k), v, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session: redis put: %w", err)
	}
	return nil
}

// Get reads with GETEX so an active session keeps its full TTL.
func (s *RedisStorage) Get(ctx context.Context, sid, key string) (string, error) {
	var cmd *redis.StringCmd
	if s.ttl > 0 {
		cmd = s.rdb.GetEx(ctx, s.key(sid, key), s.ttl)
	} else {
		cmd = s.rdb.Get(ctx, s.key(sid, key))
	}
	v, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session: redis get: %w", err)
	}
	return v, nil
}

func (s *RedisStorage) Take(ctx context.Context, sid, key string) (string, error) {
	v, err := s.rdb.GetDel(ctx, s.key(sid, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session: redis getdel: %w", err)
	}
	return v, nil
}

func (s *RedisStorage) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(sid, k)
	}
	if err := s.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}
