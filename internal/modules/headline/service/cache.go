package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	"github.com/reshetovitsme/news-highlights/internal/modules/headline/repository"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a snapshot is served before a refresh.
const DefaultTTL = 60 * time.Second

const refreshKey = "highlights"

// Source produces aggregations for the cache.
type Source interface {
	Validate() error
	Aggregate(ctx context.Context) (*domain.Aggregation, error)
}

// Cache serves the latest aggregation for one TTL window and falls back to the last
// good snapshot when a refresh yields nothing.
type Cache struct {
	source Source
	repo   repository.Repository
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	snapshot atomic.Pointer[domain.Snapshot]
	group    singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// WithRepository mirrors every new snapshot to repo.
func WithRepository(repo repository.Repository) CacheOption {
	return func(c *Cache) {
		c.repo = repo
	}
}

// WithCacheLogger sets the logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates a cache in front of source.
func NewCache(source Source, ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.snapshot.Store(domain.EmptySnapshot())
	return c
}

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Snapshot returns the snapshot currently being served.
func (c *Cache) Snapshot() *domain.Snapshot {
	return c.snapshot.Load()
}

// Fresh reports whether the current snapshot is inside its TTL window.
func (c *Cache) Fresh() bool {
	return c.Snapshot().Fresh(c.now(), c.ttl)
}

// Highlights returns the cached items, refreshing them when the snapshot is empty or
// expired. The only error it returns is a configuration-class error.
func (c *Cache) Highlights(ctx context.Context) ([]domain.Item, error) {
	if err := c.source.Validate(); err != nil {
		return nil, err
	}

	if current := c.Snapshot(); current.Fresh(c.now(), c.ttl) {
		return current.Items, nil
	}

	snap, err := c.refresh(ctx, false)
	if err != nil {
		return nil, err
	}
	return snap.Items, nil
}

// Refresh aggregates regardless of freshness. Concurrent callers share one run.
func (c *Cache) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	return c.refresh(ctx, true)
}

// Restore seeds an empty cache with the mirrored snapshot, if any. The restored
// snapshot keeps its original fetch time, so it is only served as a fallback until
// the next refresh succeeds.
func (c *Cache) Restore(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}

	snap, err := c.repo.Load(ctx)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if snap.IsEmpty() {
		return nil
	}

	current := c.Snapshot()
	if !current.IsEmpty() {
		return nil
	}
	if c.snapshot.CompareAndSwap(current, snap) {
		c.logger.Info("Restored highlights snapshot", "items", len(snap.Items), "fetched_at", snap.FetchedAt)
	}
	return nil
}

// Close releases the mirror, if any.
func (c *Cache) Close() error {
	if c.repo == nil {
		return nil
	}
	return c.repo.Close()
}

func (c *Cache) refresh(ctx context.Context, force bool) (*domain.Snapshot, error) {
	// The shared run must outlive any single caller.
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		return c.load(detached, force)
	})

	select {
	case <-ctx.Done():
		c.logger.Warn("Caller gave up waiting for refresh, serving current snapshot", "error", ctx.Err())
		return c.Snapshot(), nil
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Snapshot), nil
	}
}

func (c *Cache) load(ctx context.Context, force bool) (*domain.Snapshot, error) {
	previous := c.Snapshot()
	if !force && previous.Fresh(c.now(), c.ttl) {
		return previous, nil
	}

	agg, err := c.source.Aggregate(ctx)
	if err != nil {
		if errors.IsConfiguration(err) {
			return nil, err
		}
		c.logger.Warn("Refresh failed, serving previous snapshot", "items", len(previous.Items), "error", err)
		return previous, nil
	}

	if agg.IsEmpty() {
		if previous.IsEmpty() {
			c.logger.Warn("No highlights available from any source", "failed_sources", len(agg.Failures))
		} else {
			c.logger.Warn("Refresh returned no items, serving stale snapshot",
				"items", len(previous.Items),
				"fetched_at", previous.FetchedAt,
				"failed_sources", len(agg.Failures),
			)
		}
		return previous, nil
	}

	next := previous.Next(agg.Items, c.now())
	c.snapshot.Store(next)
	c.logger.Info("Highlights refreshed", "items", len(next.Items), "failed_sources", len(agg.Failures))

	if c.repo != nil {
		if err := c.repo.Save(ctx, next); err != nil {
			c.logger.Warn("Failed to mirror highlights snapshot", "error", err)
		}
	}
	return next, nil
}
