package di

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/auth"
	"github.com/goliatone/go-productivity/cache"
	"github.com/goliatone/go-productivity/internal/cacheinfra"
	"github.com/goliatone/go-productivity/todos"
)

func TestNewContainer(t *testing.T) {
	config := cache.Config{
		Enabled:            true,
		Capacity:           1000,
		NumShards:          16,
		EvictionPercentage: 10,
		TTL: cache.TTLs{
			Short:  time.Minute,
			Medium: 5 * time.Minute,
			Long:   10 * time.Minute,
			Daily:  time.Hour,
		},
	}

	container, err := NewContainer(Options{Cache: config, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container.CacheService() == nil || container.Cache() == nil {
		t.Fatal("Container should have a cache service and client")
	}
	if _, ok := container.CacheService().(*cacheinfra.SturdycService); !ok {
		t.Errorf("expected a sturdyc service, got %T", container.CacheService())
	}

	repos := container.Repositories()
	if repos.Todos == nil || repos.Notes == nil || repos.Events == nil || repos.Categories == nil {
		t.Errorf("expected every repository to be wired, got %+v", repos)
	}
	if container.API() == nil || container.API().Dashboard == nil {
		t.Error("expected the api facade")
	}

	stored := container.Config()
	if stored.Capacity != config.Capacity || stored.TTL != config.TTL {
		t.Errorf("expected stored config %+v, got %+v", config, stored)
	}
	if container.Shared().TTL.Medium != 5*time.Minute {
		t.Errorf("expected repositories to use the configured TTLs, got %+v", container.Shared().TTL)
	}
	if err := container.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	config := container.Config()
	defaults := cache.DefaultConfig()
	if config.Capacity != defaults.Capacity || config.TTL != defaults.TTL {
		t.Errorf("expected default config %+v, got %+v", defaults, config)
	}
	if _, ok := container.Shared().Identity.(auth.ContextResolver); !ok {
		t.Errorf("expected the context resolver by default, got %T", container.Shared().Identity)
	}
}

func TestNewContainer_DisabledCache(t *testing.T) {
	container, err := NewContainer(Options{Cache: cache.Config{Enabled: false}, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	if _, ok := container.CacheService().(cacheinfra.DisabledService); !ok {
		t.Fatalf("expected the disabled service, got %T", container.CacheService())
	}

	ctx := auth.WithUser(context.Background(), "alice")
	created, err := container.API().Todos.Create(ctx, todos.CreateInput{Title: "works without a cache"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := container.API().Todos.GetByID(ctx, created.ID)
	if err != nil || got.Title != created.Title {
		t.Fatalf("expected to read back %q, got %v %v", created.Title, got, err)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config cache.Config
	}{
		{name: "zero capacity", config: cache.Config{Enabled: true, NumShards: 1, EvictionPercentage: 10, TTL: cache.DefaultTTLs()}},
		{name: "zero shards", config: cache.Config{Enabled: true, Capacity: 10, EvictionPercentage: 10, TTL: cache.DefaultTTLs()}},
		{name: "eviction out of range", config: cache.Config{Enabled: true, Capacity: 10, NumShards: 1, EvictionPercentage: 101, TTL: cache.DefaultTTLs()}},
		{name: "no ttl", config: cache.Config{Enabled: true, Capacity: 10, NumShards: 1, EvictionPercentage: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewContainer(Options{Cache: tt.config, Logger: zerolog.Nop()}); err == nil {
				t.Fatal("expected an error for an invalid cache config")
			}
		})
	}
}
