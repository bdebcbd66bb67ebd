package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounter struct {
	counts map[string]int64
	err    error
}

func (m *memCounter) incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(&memCounter{counts: map[string]int64{}}, 2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, ok, "keys are counted separately")

	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, ok, "a new window starts from zero")
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	l := newLimiter(&memCounter{err: errors.New("connection refused")}, 1, time.Minute)

	ok, err := l.Allow(context.Background(), "user:1")
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestRedisLimiter_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, 1, time.Minute)
	require.NotNil(t, l)

	ok, err := l.Allow(context.Background(), "user:1")
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestNewRedisLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewRedisLimiter(nil, 10, time.Minute))

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	assert.Nil(t, NewRedisLimiter(client, 0, time.Minute))
}
