package cache

import (
	"time"

	"github.com/goliatone/go-productivity/internal/cacheinfra"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	// Enabled switches between the sturdyc backed service and a no-op service.
	Enabled            bool
	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
	TTL                TTLs
}

// DefaultConfig returns an enabled Config populated with sensible defaults.
func DefaultConfig() Config {
	infra := cacheinfra.DefaultConfig()
	return Config{
		Enabled:            true,
		Capacity:           infra.Capacity,
		NumShards:          infra.NumShards,
		EvictionPercentage: infra.EvictionPercentage,
		EvictionInterval:   infra.EvictionInterval,
		TTL:                DefaultTTLs(),
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return c.toInternal().Validate()
}

// NewCacheService constructs the cache service described by cfg.
func NewCacheService(cfg Config) (Service, error) {
	if !cfg.Enabled {
		return cacheinfra.NewDisabledService(), nil
	}
	service, err := cacheinfra.NewSturdycService(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return service, nil
}

// MatchPattern reports whether key matches a glob pattern where '*' matches any run of characters.
func MatchPattern(pattern, key string) bool {
	return cacheinfra.MatchPattern(pattern, key)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL.Max(),
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}
