package store

import (
	"context"
	"errors"
	"time"

	"bookadmin/internal/session"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis client methods used by SessionRedis.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

const redisKeyPrefix = "bookadmin:session:"

// SessionRedis stores session tokens under a prefixed key with the session
// TTL as the key expiry.
type SessionRedis struct {
	client RedisClient
}

func NewSessionRedis(client RedisClient) *SessionRedis {
	return &SessionRedis{client: client}
}

func (r *SessionRedis) Save(ctx context.Context, id, token string, ttl time.Duration) error {
	return r.client.Set(ctx, redisKeyPrefix+id, token, ttl).Err()
}

func (r *SessionRedis) Load(ctx context.Context, id string) (string, error) {
	token, err := r.client.Get(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", session.ErrNotFound
		}
		return "", err
	}
	return token, nil
}

func (r *SessionRedis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKeyPrefix+id).Err()
}

func (r *SessionRedis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
