package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/remindr/internal/cache"
)

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newRedis(t *testing.T) (*miniredis.Miniredis, goredis.UniversalClient) {
	t.Helper()

	srv := miniredis.RunT(t)
	client, err := cache.Open(context.Background(), "redis://"+srv.Addr(), 1, time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[item](time.Hour, 0)
	t.Cleanup(func() { _ = c.Close() })

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Set(ctx, "a", item{Name: "a", Count: 1}, 0))
	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, item{Name: "a", Count: 1}, got)

	require.NoError(t, c.Set(ctx, "short", item{}, time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, err = c.Get(ctx, "short")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Delete(ctx, "a"))
	_, err = c.Get(ctx, "a")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Set(ctx, "b", item{}, 0), cache.ErrClosed)
}

func TestMemory_Sweep(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[int](0, 5*time.Millisecond)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(context.Background(), "k", 1, time.Millisecond))
	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRedis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv, client := newRedis(t)
	c := cache.NewRedis[item](client, "tpl", time.Minute, nil)

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Set(ctx, "a", item{Name: "a", Count: 2}, 0))
	assert.True(t, srv.Exists("tpl:a"))
	assert.Equal(t, time.Minute, srv.TTL("tpl:a"))

	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, item{Name: "a", Count: 2}, got)

	require.NoError(t, c.Set(ctx, "forever", item{}, -1))
	assert.Zero(t, srv.TTL("tpl:forever"))

	srv.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "a")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, srv.Set("tpl:broken", "{not json"))
	_, err = c.Get(ctx, "broken")
	require.ErrorIs(t, err, cache.ErrUnmarshal)

	require.NoError(t, c.Delete(ctx, "forever"))
	assert.False(t, srv.Exists("tpl:forever"))
}

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := cache.Open(ctx, "", 1, 0)
	require.ErrorIs(t, err, cache.ErrEmptyConnectionURL)

	_, err = cache.Open(ctx, "http://localhost:6379", 1, 0)
	require.ErrorIs(t, err, cache.ErrFailedToParseURL)

	_, err = cache.Open(ctx, "redis://127.0.0.1:1", 2, time.Millisecond)
	require.ErrorIs(t, err, cache.ErrConnectionFailed)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	srv, client := newRedis(t)
	check := cache.Healthcheck(client)
	require.NoError(t, check(context.Background()))

	srv.Close()
	require.ErrorIs(t, check(context.Background()), cache.ErrHealthcheckFailed)
	require.ErrorIs(t, cache.Healthcheck(nil)(context.Background()), cache.ErrHealthcheckFailed)
}

func TestLoader_GetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := cache.NewLoader[item](cache.NewMemory[item](time.Hour, 0), time.Minute)

	var calls atomic.Int32
	load := func(context.Context) (item, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return item{Name: "loaded"}, nil
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := l.GetOrSet(ctx, "k", load)
			assert.NoError(t, err)
			assert.Equal(t, "loaded", v.Name)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())

	_, err := l.GetOrSet(ctx, "k", load)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, l.Forget(ctx, "k"))
	_, err = l.GetOrSet(ctx, "k", load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoader_ErrorNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, client := newRedis(t)
	l := cache.NewLoader[item](cache.NewRedis[item](client, "x", 0, nil), time.Minute)

	boom := errors.New("boom")
	_, err := l.GetOrSet(ctx, "k", func(context.Context) (item, error) { return item{}, boom })
	require.ErrorIs(t, err, boom)

	v, err := l.GetOrSet(ctx, "k", func(context.Context) (item, error) { return item{Count: 3}, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, v.Count)
}
