package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// KeySerializer builds a cache key from a method name + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn is the function signature GetOrFetch expects when reading from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Service is a key-value store with per-key TTL and glob invalidation.
// Implementations must be safe for concurrent use.
type Service interface {
	// Get returns the stored bytes and true, or false when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key until now + ttl, replacing any previous value.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// InvalidatePattern removes every key matching pattern, where '*' matches any run of characters.
	InvalidatePattern(ctx context.Context, pattern string) error
}

// Client bundles a Service with the codec and logger needed by the typed helpers.
// Cache failures never surface through Client: they are logged and treated as misses.
type Client struct {
	Service Service
	Codec   Codec
	Logger  zerolog.Logger
}

// NewClient returns a Client using the msgpack codec.
func NewClient(service Service, logger zerolog.Logger) *Client {
	return &Client{
		Service: service,
		Codec:   MsgpackCodec{},
		Logger:  logger,
	}
}

// GetOrFetch returns the cached value for key or calls fetchFn and stores its result for ttl.
// Errors from fetchFn are returned as is and never cached.
func GetOrFetch[T any](ctx context.Context, c *Client, key string, ttl time.Duration, fetchFn FetchFn[T]) (T, error) {
	if value, ok := Lookup[T](ctx, c, key); ok {
		return value, nil
	}

	value, err := fetchFn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	Store(ctx, c, key, value, ttl)
	return value, nil
}

// Lookup decodes the cached value for key. Read and decode failures report a miss.
func Lookup[T any](ctx context.Context, c *Client, key string) (T, bool) {
	var zero T
	if c == nil || c.Service == nil {
		return zero, false
	}

	raw, ok, err := c.Service.Get(ctx, key)
	if err != nil {
		c.Logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var value T
	if err := c.Codec.Unmarshal(raw, &value); err != nil {
		c.Logger.Warn().Err(err).Str("key", key).Msg("cache decode failed")
		_ = c.Service.Delete(ctx, key)
		return zero, false
	}
	return value, true
}

// Store encodes value and writes it under key. Failures are logged and ignored.
func Store[T any](ctx context.Context, c *Client, key string, value T, ttl time.Duration) {
	if c == nil || c.Service == nil {
		return
	}

	raw, err := c.Codec.Marshal(value)
	if err != nil {
		c.Logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.Service.Set(ctx, key, raw, ttl); err != nil {
		c.Logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Forget deletes the given keys, logging failures.
func (c *Client) Forget(ctx context.Context, keys ...string) {
	if c == nil || c.Service == nil {
		return
	}
	for _, key := range keys {
		if err := c.Service.Delete(ctx, key); err != nil {
			c.Logger.Warn().Err(err).Str("key", key).Msg("cache delete failed")
		}
	}
}

// Invalidate removes every key matching the given patterns, logging failures.
func (c *Client) Invalidate(ctx context.Context, patterns ...string) {
	if c == nil || c.Service == nil {
		return
	}
	for _, pattern := range patterns {
		if err := c.Service.InvalidatePattern(ctx, pattern); err != nil {
			c.Logger.Warn().Err(err).Str("pattern", pattern).Msg("cache invalidation failed")
		}
	}
}
