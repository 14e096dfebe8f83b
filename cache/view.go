package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Codec serializes values of type T in the MUS format. The serializers
// in package core satisfy it.
type Codec[T any] interface {
	Marshal(v T, bs []byte) int
	Unmarshal(bs []byte) (T, int, error)
	Size(v T) int
}

// View pairs a Store with a Codec to provide typed cache access.
type View[T any] struct {
	store  Store
	codec  Codec[T]
	logger *slog.Logger
}

// NewView creates a typed view over store. A nil logger falls back to
// slog.Default().
func NewView[T any](store Store, codec Codec[T], logger *slog.Logger) *View[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &View[T]{store: store, codec: codec, logger: logger}
}

// Get returns the decoded value stored under key. A corrupt entry
// reports ErrDecodeFailed.
func (v *View[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	bs, ok, err := v.store.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	value, _, err := v.codec.Unmarshal(bs)
	if err != nil {
		return zero, false, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	return value, true, nil
}

// Set encodes value and stores it under key for ttl.
func (v *View[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	bs := make([]byte, v.codec.Size(value))
	v.codec.Marshal(value, bs)
	return v.store.Set(ctx, key, bs, ttl)
}

// GetOrSet returns the value cached under key, or invokes factory and
// caches its result for ttl. Cache failures are logged and treated as a
// miss on read and as a no-op on write, so the caller always receives a
// value when factory succeeds.
func (v *View[T]) GetOrSet(ctx context.Context, key string, ttl time.Duration, factory func(ctx context.Context) (T, error)) (T, error) {
	value, ok, err := v.Get(ctx, key)
	if err != nil {
		v.logger.Warn("cache read failed", "key", key, "err", err)
	} else if ok {
		return value, nil
	}

	value, err = factory(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := v.Set(ctx, key, value, ttl); err != nil {
		v.logger.Warn("cache write failed", "key", key, "err", err)
	}
	return value, nil
}
