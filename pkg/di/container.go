package di

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-productivity/api"
	"github.com/goliatone/go-productivity/audit"
	"github.com/goliatone/go-productivity/auth"
	"github.com/goliatone/go-productivity/cache"
	"github.com/goliatone/go-productivity/categories"
	"github.com/goliatone/go-productivity/events"
	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/notes"
	"github.com/goliatone/go-productivity/repositorycache"
	"github.com/goliatone/go-productivity/store"
	"github.com/goliatone/go-productivity/store/bunstore"
	"github.com/goliatone/go-productivity/store/memstore"
	"github.com/goliatone/go-productivity/todos"
)

// Options selects the backing services of a Container.
type Options struct {
	Cache cache.Config
	// CacheService replaces the service built from Cache when set.
	CacheService cache.Service
	// DB backs every table when set; otherwise records live in memory.
	DB *bun.DB
	// Identity defaults to auth.ContextResolver.
	Identity auth.Resolver
	Logger   zerolog.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Container provides dependency injection for the productivity services.
// It owns the singleton cache service, the stores and the domain repositories,
// and exposes the api facade built on top of them.
type Container struct {
	options      Options
	cacheService cache.Service
	cacheClient  *cache.Client
	activity     *audit.Log
	repos        api.Repositories
	api          *api.API
}

// NewContainer wires every component from options.
func NewContainer(options Options) (*Container, error) {
	if err := options.Cache.Validate(); err != nil {
		return nil, err
	}
	if options.Identity == nil {
		options.Identity = auth.ContextResolver{}
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}

	cacheService := options.CacheService
	if cacheService == nil {
		var err error
		if cacheService, err = cache.NewCacheService(options.Cache); err != nil {
			return nil, err
		}
	}

	c := &Container{
		options:      options,
		cacheService: cacheService,
		cacheClient:  cache.NewClient(cacheService, options.Logger),
	}
	c.activity = audit.NewLog(NewStore(c, audit.Table, func() *audit.ActivityLog { return new(audit.ActivityLog) }), options.Clock, options.Logger)

	shared := c.Shared()
	c.repos.Todos = todos.NewRepository(NewStore(c, todos.Table, func() *todos.Todo { return new(todos.Todo) }), shared)
	c.repos.Notes = notes.NewRepository(NewStore(c, notes.Table, func() *notes.Note { return new(notes.Note) }), shared)
	c.repos.Events = events.NewRepository(NewStore(c, events.Table, func() *events.Event { return new(events.Event) }), shared)
	c.repos.Categories = categories.NewRepository(
		NewStore(c, categories.Table, func() *categories.Category { return new(categories.Category) }),
		categories.Referrers{
			Todos:  c.repos.Todos,
			Notes:  c.repos.Notes,
			Events: c.repos.Events,
		},
		shared,
	)
	c.api = api.New(c.repos, options.Logger)

	return c, nil
}

// NewContainerWithDefaults creates an in-memory container with the default
// cache configuration and a silent logger.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(Options{Cache: cache.DefaultConfig(), Logger: zerolog.Nop()})
}

// NewStore returns the store for table: bun backed when the container has a
// database, in-memory otherwise.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
func NewStore[T model.Entity](c *Container, table string, newRecord func() T) store.Store[T] {
	if c.options.DB != nil {
		return bunstore.New(c.options.DB, table, newRecord)
	}
	return memstore.New[T](table)
}

// Shared returns the dependencies handed to every repository.
func (c *Container) Shared() repositorycache.Shared {
	return repositorycache.Shared{
		Cache:    c.cacheClient,
		TTL:      c.options.Cache.TTL,
		Identity: c.options.Identity,
		Audit:    c.activity,
		Logger:   c.options.Logger,
		Clock:    c.options.Clock,
	}
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.Service {
	return c.cacheService
}

func (c *Container) Cache() *cache.Client {
	return c.cacheClient
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.options.Cache
}

func (c *Container) Activity() *audit.Log {
	return c.activity
}

func (c *Container) Repositories() api.Repositories {
	return c.repos
}

func (c *Container) API() *api.API {
	return c.api
}

// Close releases the database, when the container has one.
func (c *Container) Close() error {
	if c.options.DB == nil {
		return nil
	}
	return c.options.DB.Close()
}
