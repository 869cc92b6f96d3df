package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRegistry shares session state across processes. Access tokens live in
// a list per username, the refresh token in a plain key. TTLs bound how long
// orphaned entries survive when a revoke never arrives.
type RedisRegistry struct {
	client    *redis.Client
	accessTTL time.Duration
}

func NewRedisRegistry(client *redis.Client, accessTTL time.Duration) *RedisRegistry {
	return &RedisRegistry{client: client, accessTTL: accessTTL}
}

func accessKey(username string) string  { return "sess:access:" + username }
func refreshKey(username string) string { return "sess:refresh:" + username }

func (r *RedisRegistry) RegisterAccess(ctx context.Context, username, token string) error {
	key := accessKey(username)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, token)
	pipe.Expire(ctx, key, r.accessTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisRegistry) RegisterRefresh(ctx context.Context, username, token string) error {
	// No TTL: the refresh token outlives access tokens and is replaced on
	// the next login anyway.
	return r.client.Set(ctx, refreshKey(username), token, 0).Err()
}

func (r *RedisRegistry) RevokeAccess(ctx context.Context, username, token string) (bool, error) {
	removed, err := r.client.LRem(ctx, accessKey(username), 1, token).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (r *RedisRegistry) IsHonoredAccess(ctx context.Context, username, token string) (bool, error) {
	pos, err := r.client.LPos(ctx, accessKey(username), token, redis.LPosArgs{}).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return pos >= 0, nil
}

func (r *RedisRegistry) ClearUser(ctx context.Context, username string) error {
	return r.client.Del(ctx, accessKey(username), refreshKey(username)).Err()
}

func (r *RedisRegistry) ActiveCount(ctx context.Context, username string) (int, error) {
	n, err := r.client.LLen(ctx, accessKey(username)).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
