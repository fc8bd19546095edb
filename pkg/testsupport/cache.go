package testsupport

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-productivity/cache"
)

// ErrCacheDown is returned by a failing MemoryCache.
var ErrCacheDown = errors.New("testsupport: cache unavailable")

// MemoryCache is a cache.Service that keeps entries in a map and counts calls.
// TTLs are recorded but never expire entries.
type MemoryCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	ttls     map[string]time.Duration
	failing  bool
	Hits     int
	Misses   int
	Sets     int
	Patterns []string
}

var _ cache.Service = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

// Fail makes every subsequent call return ErrCacheDown.
func (m *MemoryCache) Fail(failing bool) {
	m.mu.Lock()
	m.failing = failing
	m.mu.Unlock()
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, false, ErrCacheDown
	}
	value, ok := m.entries[key]
	if ok {
		m.Hits++
	} else {
		m.Misses++
	}
	return value, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrCacheDown
	}
	m.entries[key] = value
	m.ttls[key] = ttl
	m.Sets++
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrCacheDown
	}
	delete(m.entries, key)
	delete(m.ttls, key)
	return nil
}

func (m *MemoryCache) InvalidatePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrCacheDown
	}
	m.Patterns = append(m.Patterns, pattern)
	for key := range m.entries {
		if cache.MatchPattern(pattern, key) {
			delete(m.entries, key)
			delete(m.ttls, key)
		}
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *MemoryCache) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is stored.
func (m *MemoryCache) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

// TTL returns the ttl key was last written with.
func (m *MemoryCache) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}
