package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestAcquire_SecondOwnerIsRefused(t *testing.T) {
	client, _ := setupTestRedis(t)
	l := NewLock(client)
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "events:ai", "reg-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Acquire(ctx, "events:ai", "reg-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := client.Get(ctx, "registration_lock:events:ai").Result()
	require.NoError(t, err)
	assert.Equal(t, "reg-1", val)
}

func TestRelease_OnlyByOwner(t *testing.T) {
	client, _ := setupTestRedis(t)
	l := NewLock(client)
	ctx := context.Background()

	_, err := l.Acquire(ctx, "events:ai", "reg-1", time.Minute)
	require.NoError(t, err)

	require.NoError(t, l.Release(ctx, "events:ai", "reg-2"))
	locked, err := l.IsLocked(ctx, "events:ai")
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, l.Release(ctx, "events:ai", "reg-1"))
	locked, err = l.IsLocked(ctx, "events:ai")
	require.NoError(t, err)
	assert.False(t, locked)

	assert.NoError(t, l.Release(ctx, "events:ai", "reg-1"))
}

func TestAcquire_ExpiresWithTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewLock(client)
	ctx := context.Background()

	_, err := l.Acquire(ctx, "dashboard:ai", "reg-1", 3*time.Second)
	require.NoError(t, err)

	mr.FastForward(4 * time.Second)

	ok, err := l.Acquire(ctx, "dashboard:ai", "reg-2", 3*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAcquire_ConcurrentClicksOneWinner(t *testing.T) {
	client, _ := setupTestRedis(t)
	l := NewLock(client)

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ok, err := l.Acquire(context.Background(), "events:ai", fmt.Sprintf("reg-%d", n), time.Minute)
			if err == nil && ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}
