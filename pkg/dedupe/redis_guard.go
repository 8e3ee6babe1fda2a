package dedupe

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisGuard implements Guard on Redis. A single SET NX GET round trip
// claims the key and returns the previous holder's id in one atomic step,
// which makes the guard safe across application instances.
type RedisGuard struct {
	client redis.UniversalClient
	config config
}

// NewRedisGuard creates a Guard backed by the given Redis client.
func NewRedisGuard(client redis.UniversalClient, opts ...Option) (*RedisGuard, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &RedisGuard{client: client, config: cfg}, nil
}

func (g *RedisGuard) Mark(ctx context.Context, userID, key, id string) (string, bool, error) {
	val, err := g.client.SetArgs(ctx, guardKey(userID, key), id, redis.SetArgs{
		Mode: "NX",
		TTL:  g.config.window,
		Get:  true,
	}).Result()
	if errors.Is(err, redis.Nil) {
		// Key was absent and is now claimed by this caller.
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrGuardUnavailable, err)
	}
	return val, true, nil
}

func (g *RedisGuard) Release(ctx context.Context, userID, key string) error {
	if err := g.client.Del(ctx, guardKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrGuardUnavailable, err)
	}
	return nil
}
