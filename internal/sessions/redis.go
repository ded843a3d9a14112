package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session slots in Redis under "<prefix><sid>:<key>" with a
// TTL refreshed on every write.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. Prefix may be empty; a
// non-positive ttl falls back to 24h.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "session:"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) slot(sid, key string) string {
	return r.prefix + sid + ":" + key
}

func (r *RedisStore) Get(ctx context.Context, sid, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.slot(sid, key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStore) Put(ctx context.Context, sid, key, value string) error {
	return r.client.Set(ctx, r.slot(sid, key), value, r.ttl).Err()
}

func (r *RedisStore) Forget(ctx context.Context, sid, key string) error {
	return r.client.Del(ctx, r.slot(sid, key)).Err()
}
