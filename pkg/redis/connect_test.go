package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisconn "github.com/ledgerly/notify/pkg/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redisconn.Connect(context.Background(), redisconn.Config{
		ConnectionURL:  "redis://" + mr.Addr(),
		RetryAttempts:  1,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, redisconn.Healthcheck(client)(context.Background()))
}

func TestConnect_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := redisconn.Connect(context.Background(), redisconn.Config{})
	assert.ErrorIs(t, err, redisconn.ErrEmptyConnectionURL)
}

func TestConnect_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := redisconn.Connect(context.Background(), redisconn.Config{
		ConnectionURL:  "not-a-url",
		ConnectTimeout: time.Second,
	})
	assert.ErrorIs(t, err, redisconn.ErrFailedToParseRedisConnString)
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	_, err := redisconn.Connect(context.Background(), redisconn.Config{
		ConnectionURL:  "redis://127.0.0.1:1", // nothing listens here
		RetryAttempts:  2,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 500 * time.Millisecond,
	})
	assert.ErrorIs(t, err, redisconn.ErrRedisNotReady)
}
