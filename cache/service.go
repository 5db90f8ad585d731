package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by Store.Get when the key holds no value.
var ErrCacheMiss = errors.New("cache miss")

// KeySerializer builds a cache key from a leading segment + arbitrary args.
// Keys must be a pure function of the inputs.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// Store is the byte-oriented cache backend used by the read-through helpers
// and the invalidation cascade.
type Store interface {
	// Get returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete treats a missing key as success.
	Delete(ctx context.Context, key string) error
	// DeleteByPrefix removes every key starting with prefix and reports how
	// many were removed when the backend can tell.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}

// BackendError wraps a failure reported by a cache backend.
type BackendError struct {
	Backend string
	Op      string
	Key     string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("cache %s %s %q: %v", e.Backend, e.Op, e.Key, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// FetchFn loads a value from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// GetOrFetch is the read-through contract: on a hit the stored snapshot is
// decoded, on a miss fetch runs and its result is encoded and stored.
// Errors from fetch are returned untouched and nothing is stored. A Get
// error other than ErrCacheMiss is returned as is and fetch is not called.
func GetOrFetch[T any](ctx context.Context, store Store, codec Codec, key string, fetch FetchFn[T]) (T, bool, error) {
	var zero T

	data, err := store.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		if err := codec.Unmarshal(data, &value); err != nil {
			return zero, true, fmt.Errorf("decode cached %q: %w", key, err)
		}
		return value, true, nil
	case !errors.Is(err, ErrCacheMiss):
		return zero, false, err
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, false, err
	}

	encoded, err := codec.Marshal(value)
	if err != nil {
		return zero, false, fmt.Errorf("encode %q: %w", key, err)
	}
	if err := store.Set(ctx, key, encoded); err != nil {
		return zero, false, err
	}

	return value, false, nil
}
