package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc cache adapter.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the longest lifetime any entry may have. Per-key TTLs passed to
	// Set are honoured on read and must not exceed it.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often sturdyc sweeps expired entries.
	// Zero keeps the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions converts the optional parts of Config to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// entry carries its own expiry so every key can use a different TTL
// while sturdyc enforces the global ceiling.
type entry struct {
	Value     []byte
	ExpiresAt time.Time
}

// SturdycService stores byte payloads in a sturdyc client.
type SturdycService struct {
	client     *sturdyc.Client[entry]
	defaultTTL time.Duration
	now        func() time.Time
}

// NewSturdycService validates cfg and builds a sturdyc backed service.
func NewSturdycService(cfg Config) (*SturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycService{
		client:     client,
		defaultTTL: cfg.TTL,
		now:        time.Now,
	}, nil
}

// WithClock replaces the time source used for per-key expiry. Intended for tests.
func (s *SturdycService) WithClock(now func() time.Time) *SturdycService {
	s.now = now
	return s
}

// Get returns the payload for key, evicting it first when its TTL elapsed.
func (s *SturdycService) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := s.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.ExpiresAt) {
		s.client.Delete(key)
		return nil, false, nil
	}
	return e.Value, true, nil
}

// Set stores value until now + ttl. A non-positive ttl uses the configured ceiling.
func (s *SturdycService) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > s.defaultTTL {
		ttl = s.defaultTTL
	}
	s.client.Set(key, entry{Value: value, ExpiresAt: s.now().Add(ttl)})
	return nil
}

// Delete removes key if present.
func (s *SturdycService) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// InvalidatePattern removes every stored key matching pattern.
func (s *SturdycService) InvalidatePattern(_ context.Context, pattern string) error {
	for _, key := range s.client.ScanKeys() {
		if MatchPattern(pattern, key) {
			s.client.Delete(key)
		}
	}
	return nil
}
