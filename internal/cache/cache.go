// Package cache holds the single most recent schedule snapshot and makes sure
// at most one scrape runs at a time.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"dtek-schedule/internal/logging"
	"dtek-schedule/internal/metrics"
	"dtek-schedule/internal/schedule"
)

const (
	DefaultTTL          = 300 * time.Second
	DefaultFetchTimeout = 90 * time.Second

	flightKey = "snapshot"
)

// ErrFetchSuppressed is returned while the fetch breaker is open.
var ErrFetchSuppressed = errors.New("fetch suppressed after repeated failures")

// FetchFunc produces a fresh snapshot.
type FetchFunc func(ctx context.Context) (*schedule.Snapshot, error)

// Store mirrors the cached snapshot outside the process.
// Load returns nil, nil when nothing is stored.
type Store interface {
	Load(ctx context.Context) (*schedule.Snapshot, error)
	Save(ctx context.Context, snap *schedule.Snapshot, ttl time.Duration) error
}

type Cache struct {
	fetch        FetchFunc
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	store        Store
	breaker      *gobreaker.CircuitBreaker[*schedule.Snapshot]
	rec          metrics.Recorder
	log          zerolog.Logger

	group singleflight.Group

	mu        sync.RWMutex
	snap      *schedule.Snapshot
	fetchedAt time.Time
}

// Option configures a Cache.
type Option func(*Cache)

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithFetchTimeout bounds a single shared fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) { c.fetchTimeout = d }
}

// WithStore mirrors every successful fetch into s.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithBreaker suppresses fetches after threshold consecutive failures until
// cooldown has passed. A zero threshold leaves the breaker off.
func WithBreaker(threshold uint32, cooldown time.Duration) Option {
	return func(c *Cache) {
		if threshold == 0 {
			c.breaker = nil
			return
		}
		c.breaker = gobreaker.NewCircuitBreaker[*schedule.Snapshot](gobreaker.Settings{
			Name:        "dtek-fetch",
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.log.Warn().Str("breaker", name).Stringer("from", from).Stringer("to", to).Msg("fetch breaker state changed")
			},
		})
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(c *Cache) { c.rec = r }
}

func New(fetch FetchFunc, opts ...Option) *Cache {
	c := &Cache{
		fetch:        fetch,
		ttl:          DefaultTTL,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		rec:          metrics.Nop{},
		log:          logging.New("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached snapshot while it is fresh and fetches a new one
// otherwise. Concurrent misses share one fetch. A failed fetch leaves the
// previous snapshot in place.
func (c *Cache) Get(ctx context.Context) (*schedule.Snapshot, error) {
	if snap, ok := c.fresh(); ok {
		c.rec.CacheRequest(metrics.CacheHit)
		return snap, nil
	}
	c.rec.CacheRequest(metrics.CacheMiss)
	return c.load(ctx, false)
}

// Refresh fetches regardless of freshness.
func (c *Cache) Refresh(ctx context.Context) (*schedule.Snapshot, error) {
	return c.load(ctx, true)
}

// Stale returns the last snapshot regardless of age, or nil.
func (c *Cache) Stale() *schedule.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap != nil {
		c.rec.CacheRequest(metrics.CacheStale)
	}
	return c.snap
}

// Prime seeds the slot from the store if it still holds a fresh snapshot.
func (c *Cache) Prime(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	snap, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load stored snapshot: %w", err)
	}
	if snap == nil || snap.Fact == nil {
		return nil
	}
	if c.now().Sub(snap.FetchedAt) > c.ttl {
		c.log.Debug().Time("fetched_at", snap.FetchedAt).Msg("stored snapshot expired, ignoring")
		return nil
	}

	c.mu.Lock()
	c.snap = snap
	c.fetchedAt = snap.FetchedAt
	c.mu.Unlock()
	c.log.Info().Time("fetched_at", snap.FetchedAt).Msg("primed from store")
	return nil
}

func (c *Cache) fresh() (*schedule.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.now().Sub(c.fetchedAt) > c.ttl {
		return nil, false
	}
	return c.snap, true
}

func (c *Cache) load(ctx context.Context, force bool) (*schedule.Snapshot, error) {
	ch := c.group.DoChan(flightKey, func() (any, error) {
		if !force {
			// Another flight may have filled the slot since our check.
			if snap, ok := c.fresh(); ok {
				return snap, nil
			}
		}
		return c.fetchAndStore(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*schedule.Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) fetchAndStore(parent context.Context) (*schedule.Snapshot, error) {
	ctx, cancel := context.WithTimeout(parent, c.fetchTimeout)
	defer cancel()

	start := time.Now()
	snap, err := c.run(ctx)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrFetchSuppressed, err)
	}
	c.rec.ObserveFetch(time.Since(start), err)
	if err != nil {
		c.log.Error().Err(err).Msg("fetch failed")
		return nil, err
	}

	c.mu.Lock()
	c.snap = snap
	c.fetchedAt = c.now()
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(ctx, snap, c.ttl); err != nil {
			c.log.Warn().Err(err).Msg("mirror snapshot")
		}
	}
	return snap, nil
}

func (c *Cache) run(ctx context.Context) (*schedule.Snapshot, error) {
	if c.breaker == nil {
		return c.fetch(ctx)
	}
	return c.breaker.Execute(func() (*schedule.Snapshot, error) {
		return c.fetch(ctx)
	})
}
