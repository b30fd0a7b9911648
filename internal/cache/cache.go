package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a key-value cache with per-entry TTL. A zero TTL passed to Set
// means the backend default; a negative TTL means no expiry.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Loader caches the results of a load function. Concurrent misses for the
// same key share one call.
type Loader[V any] struct {
	cache Cache[V]
	group singleflight.Group
	ttl   time.Duration
}

// NewLoader wraps c. Loaded values are stored with ttl.
func NewLoader[V any](c Cache[V], ttl time.Duration) *Loader[V] {
	return &Loader[V]{cache: c, ttl: ttl}
}

// GetOrSet returns the cached value for key or calls load and caches its
// result. Cache read and write errors fall back to load; load errors are
// returned and nothing is cached.
func (l *Loader[V]) GetOrSet(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, error) {
	if v, err := l.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := l.group.Do(key, func() (any, error) {
		if v, err := l.cache.Get(ctx, key); err == nil {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_ = l.cache.Set(ctx, key, v, l.ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Forget drops key from the cache.
func (l *Loader[V]) Forget(ctx context.Context, key string) error {
	return l.cache.Delete(ctx, key)
}

// Marshaler converts values for byte-oriented backends.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSON marshals values with encoding/json.
type JSON[V any] struct{}

func (JSON[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (JSON[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}
