package repositorycache

import (
	"context"
	"encoding/json"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/audit"
	"github.com/goliatone/go-productivity/auth"
	"github.com/goliatone/go-productivity/cache"
	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/store"
)

// Config describes one entity type.
type Config[T model.Entity, S any] struct {
	// Entity prefixes every cache key of this type, e.g. "todo".
	Entity string
	// SearchColumns are matched case-insensitively, OR combined, by Criteria.Search.
	SearchColumns []string
	// Sortable and Filterable list the columns accepted from callers besides
	// created_at and updated_at.
	Sortable   []string
	Filterable []string
	// Stats reduces every row of an owner into the statistics returned by GetStats.
	Stats func(records []T, now time.Time) S
	// Prepare normalizes derived fields before every write.
	Prepare func(record T, now time.Time)
	// Validate runs after Prepare. Returned errors surface as validation failures.
	Validate func(record T) error
}

// Shared holds the collaborators every repository of a process uses.
type Shared struct {
	Cache    *cache.Client
	TTL      cache.TTLs
	Identity auth.Resolver
	Audit    audit.Recorder
	Logger   zerolog.Logger
	// Clock defaults to time.Now. Timestamps are stored in UTC.
	Clock func() time.Time
}

// Repository is the ownership scoped CRUD engine the domain repositories configure.
// Reads go through the cache, writes go to the store and then invalidate the
// owner's cached lists and statistics. Every write is recorded in the audit log.
type Repository[T model.Entity, S any] struct {
	cfg    Config[T, S]
	store  store.Store[T]
	shared Shared
	loader *Loader
	logger zerolog.Logger
}

// New binds cfg to s.
func New[T model.Entity, S any](s store.Store[T], cfg Config[T, S], shared Shared) *Repository[T, S] {
	if shared.Clock == nil {
		shared.Clock = time.Now
	}
	if shared.Audit == nil {
		shared.Audit = audit.Nop{}
	}
	if shared.TTL == (cache.TTLs{}) {
		shared.TTL = cache.DefaultTTLs()
	}

	return &Repository[T, S]{
		cfg:    cfg,
		store:  s,
		shared: shared,
		loader: NewLoader(shared.Cache),
		logger: shared.Logger.With().Str("entity", cfg.Entity).Logger(),
	}
}

// Entity returns the cache prefix of the repository.
func (r *Repository[T, S]) Entity() string { return r.cfg.Entity }

// TTL returns the configured TTL tiers.
func (r *Repository[T, S]) TTL() cache.TTLs { return r.shared.TTL }

// Loader returns the read-through loader shared by the repository's cached reads.
func (r *Repository[T, S]) Loader() *Loader { return r.loader }

// Now returns the repository clock in UTC.
func (r *Repository[T, S]) Now() time.Time { return r.shared.Clock().UTC() }

// Owner resolves the current principal.
func (r *Repository[T, S]) Owner(ctx context.Context) (string, error) {
	if r.shared.Identity == nil {
		return "", auth.Unauthenticated()
	}
	owner, err := r.shared.Identity.CurrentUser(ctx)
	if err != nil {
		if goerrors.IsAuth(err) {
			return "", err
		}
		return "", goerrors.Wrap(err, goerrors.CategoryAuth, "authentication required").
			WithTextCode(auth.TextCodeUnauthenticated)
	}
	if owner == "" {
		return "", auth.Unauthenticated()
	}
	return owner, nil
}

// Create stamps record with a new id, the current owner and timestamps, then inserts it.
func (r *Repository[T, S]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	owner, err := r.Owner(ctx)
	if err != nil {
		return zero, err
	}

	now := r.Now()
	r.stamp(record, owner, now)
	if err := r.prepare(record, now); err != nil {
		return zero, err
	}

	created, err := r.store.Insert(ctx, record)
	if err != nil {
		return zero, r.failure("create", record.Meta().ID, owner, err)
	}

	r.invalidateOwner(ctx, owner)
	r.audit(ctx, owner, created.Meta().ID, audit.ActionCreate, nil, created)
	return created, nil
}

// GetByID returns the record with id owned by the caller.
func (r *Repository[T, S]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	owner, err := r.Owner(ctx)
	if err != nil {
		return zero, err
	}

	key := cache.ItemKey(r.cfg.Entity, id)
	if !cacheBypassed(ctx) {
		if record, ok := cache.Lookup[T](ctx, r.shared.Cache, key); ok && ownedBy(record, owner) {
			return record, nil
		}
	}

	seq := r.loader.Seq()
	record, err := r.fetch(ctx, owner, id)
	if err != nil {
		return zero, err
	}
	r.loader.Fill(ctx, seq, key, record, r.shared.TTL.Medium)
	return record, nil
}

// Update loads the caller's record, applies mutate and writes every field back.
// The id, owner and creation time cannot be changed by mutate.
func (r *Repository[T, S]) Update(ctx context.Context, id string, mutate func(T) error) (T, error) {
	var zero T
	owner, err := r.Owner(ctx)
	if err != nil {
		return zero, err
	}
	return r.update(ctx, owner, id, mutate)
}

func (r *Repository[T, S]) update(ctx context.Context, owner, id string, mutate func(T) error) (T, error) {
	var zero T
	current, err := r.fetch(ctx, owner, id)
	if err != nil {
		return zero, err
	}
	before := snapshot(current)
	meta := *current.Meta()

	if mutate != nil {
		if err := mutate(current); err != nil {
			return zero, err
		}
	}

	now := r.Now()
	m := current.Meta()
	m.ID = meta.ID
	m.CreatedBy = meta.CreatedBy
	m.CreatedAt = meta.CreatedAt
	m.UpdatedAt = now
	if err := r.prepare(current, now); err != nil {
		return zero, err
	}

	updated, err := r.store.Update(ctx, current, owner)
	if err != nil {
		return zero, r.failure("update", id, owner, err)
	}

	r.invalidateRecords(ctx, owner, id)
	r.audit(ctx, owner, id, audit.ActionUpdate, before, updated)
	return updated, nil
}

// Delete removes the caller's record with id.
func (r *Repository[T, S]) Delete(ctx context.Context, id string) error {
	owner, err := r.Owner(ctx)
	if err != nil {
		return err
	}

	current, err := r.fetch(ctx, owner, id)
	if err != nil {
		return err
	}

	if err := r.store.Delete(ctx, id, owner); err != nil {
		return r.failure("delete", id, owner, err)
	}

	r.invalidateRecords(ctx, owner, id)
	r.audit(ctx, owner, id, audit.ActionDelete, current, nil)
	return nil
}

// GetStats reduces every row of the caller with Config.Stats. The result is cached.
func (r *Repository[T, S]) GetStats(ctx context.Context) (S, error) {
	var zero S
	owner, err := r.Owner(ctx)
	if err != nil {
		return zero, err
	}

	key := cache.StatsKey(owner, r.cfg.Entity)
	return Remember(ctx, r.loader, key, r.shared.TTL.Medium, func(ctx context.Context) (S, error) {
		records, _, err := r.store.Select(ctx, store.Query{Owner: owner})
		if err != nil {
			return zero, r.failure("stats", "", owner, err)
		}
		if r.cfg.Stats == nil {
			return zero, nil
		}
		return r.cfg.Stats(records, r.Now()), nil
	})
}

func (r *Repository[T, S]) fetch(ctx context.Context, owner, id string) (T, error) {
	var zero T
	records, _, err := r.store.Select(ctx, store.Query{Owner: owner, IDs: []string{id}, Limit: 1})
	if err != nil {
		return zero, r.failure("get", id, owner, err)
	}
	if len(records) == 0 {
		return zero, NotFound(r.cfg.Entity, id)
	}
	return records[0], nil
}

func (r *Repository[T, S]) stamp(record T, owner string, now time.Time) {
	meta := record.Meta()
	meta.ID = uuid.NewString()
	meta.CreatedBy = owner
	meta.CreatedAt = now
	meta.UpdatedAt = now
}

func (r *Repository[T, S]) prepare(record T, now time.Time) error {
	if r.cfg.Prepare != nil {
		r.cfg.Prepare(record, now)
	}
	if r.cfg.Validate != nil {
		if err := r.cfg.Validate(record); err != nil {
			return ValidationFailed(err)
		}
	}
	return nil
}

// audit is best effort: failures are logged and never returned.
func (r *Repository[T, S]) audit(ctx context.Context, owner, id string, action audit.Action, before, after any) {
	err := r.shared.Audit.Record(ctx, audit.Entry{
		UserID:     owner,
		EntityType: r.store.Table(),
		EntityID:   id,
		Action:     action,
		Old:        before,
		New:        after,
	})
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("id", id).
			Str("action", string(action)).
			Msg("audit log write failed")
	}
}

func ownedBy[T model.Entity](record T, owner string) bool {
	meta := record.Meta()
	return meta != nil && meta.CreatedBy == owner
}

// snapshot captures the state of a record before it is mutated in place.
func snapshot(record any) json.RawMessage {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	return raw
}
