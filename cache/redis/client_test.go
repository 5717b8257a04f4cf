package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a live server; set REDIS_ADDR to run.
func testConfig(t *testing.T) Config {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	return Config{Addr: addr}
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, err := NewCache(testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := "rotationsolver:test:" + t.Name()
	defer c.Del(ctx, key, key+":h", key+":l")

	require.NoError(t, c.Set(ctx, key, "v", time.Minute))
	v, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Del(ctx, key))
	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.HSet(ctx, key+":h", "phase", "P1"))
	fields, err := c.HGetAll(ctx, key+":h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"phase": "P1"}, fields)

	require.NoError(t, c.LPush(ctx, key+":l", "b", "a"))
	items, err := c.LRange(ctx, key+":l", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
}

func TestRedisPubSub(t *testing.T) {
	ps, err := NewPubSub(testConfig(t))
	require.NoError(t, err)
	defer ps.Close()

	ctx := context.Background()
	ch, cancel, err := ps.Subscribe(ctx, "rotationsolver:test")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, ps.Publish(ctx, "rotationsolver:test", "hi"))
	select {
	case msg := <-ch:
		assert.Equal(t, "hi", msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no message")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := NewCache(Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
