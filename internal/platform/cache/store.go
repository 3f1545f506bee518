package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/equipe-service/internal/platform/logging"
	"golang.org/x/sync/singleflight"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	defaultGCTime        = 5 * time.Minute
	defaultRetryDelay    = time.Second
	defaultMaxRetryDelay = 30 * time.Second
)

// Key identifies a cached query. Namespace is the first segment and the unit
// of invalidation.
type Key struct {
	Namespace string
	Parts     []string
}

func NewKey(namespace string, parts ...string) Key {
	return Key{Namespace: namespace, Parts: append([]string(nil), parts...)}
}

func (k Key) String() string {
	if len(k.Parts) == 0 {
		return k.Namespace
	}
	return k.Namespace + ":" + strings.Join(k.Parts, ":")
}

// QueryState is the observable state of one cached query.
type QueryState struct {
	Status     Status
	Err        error
	UpdatedAt  time.Time
	IsStale    bool
	FetchCount int
}

func (s QueryState) IsLoading() bool { return s.Status == StatusLoading }
func (s QueryState) IsError() bool   { return s.Status == StatusError }

// Loader produces the value of a query on a miss.
type Loader func(ctx context.Context) (any, error)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks a loader error that retrying cannot fix. Fetch returns the
// wrapped error without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type Options struct {
	GCTime        time.Duration
	Retries       int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	Logger        *logging.Logger
	Now           func() time.Time
}

type entry struct {
	key        Key
	value      any
	hasValue   bool
	updatedAt  time.Time
	staleAt    time.Time
	status     Status
	err        error
	fetchCount int
	inFlight   int
	settledAt  time.Time
}

// QueryCache is a keyed query result cache with staleness windows,
// namespace invalidation and deduplicated loads.
type QueryCache struct {
	mu          sync.Mutex
	entries     map[string]*entry
	generations map[string]uint64
	flight      singleflight.Group

	gcTime        time.Duration
	retries       int
	retryDelay    time.Duration
	maxRetryDelay time.Duration
	logger        *logging.Logger
	now           func() time.Time
}

func NewQueryCache(opts Options) *QueryCache {
	if opts.GCTime <= 0 {
		opts.GCTime = defaultGCTime
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.MaxRetryDelay <= 0 {
		opts.MaxRetryDelay = defaultMaxRetryDelay
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &QueryCache{
		entries:       make(map[string]*entry),
		generations:   make(map[string]uint64),
		gcTime:        opts.GCTime,
		retries:       opts.Retries,
		retryDelay:    opts.RetryDelay,
		maxRetryDelay: opts.MaxRetryDelay,
		logger:        opts.Logger,
		now:           opts.Now,
	}
}

// Fetch returns the cached value for key while it is fresh, otherwise runs
// loader once for all concurrent callers and caches its result for staleTime.
func (c *QueryCache) Fetch(ctx context.Context, key Key, staleTime time.Duration, loader Loader) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key.Namespace == "" {
		return nil, fmt.Errorf("cache key namespace is required")
	}

	id := key.String()

	c.mu.Lock()
	now := c.now()
	c.collectLocked(now)
	if e, ok := c.entries[id]; ok && e.hasValue && now.Before(e.staleAt) {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}
	generation := c.generations[key.Namespace]
	c.mu.Unlock()

	// The shared load outlives any single caller; each caller stops waiting
	// when its own context ends.
	flightKey := id + "#" + strconv.FormatUint(generation, 10)
	done := c.flight.DoChan(flightKey, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), key, generation, staleTime, loader)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

func (c *QueryCache) load(ctx context.Context, key Key, generation uint64, staleTime time.Duration, loader Loader) (any, error) {
	id := key.String()

	c.mu.Lock()
	e := c.entryLocked(key)
	if e.hasValue && c.now().Before(e.staleAt) {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}
	e.status = StatusLoading
	e.err = nil
	e.inFlight++
	c.mu.Unlock()

	loaded, err := c.loadWithRetry(ctx, key, loader)

	c.mu.Lock()
	defer c.mu.Unlock()

	e = c.entryLocked(key)
	if e.inFlight > 0 {
		e.inFlight--
	}
	e.fetchCount++
	e.settledAt = c.now()
	if err != nil {
		e.status = StatusError
		e.err = err
		return nil, err
	}

	now := c.now()
	e.value = loaded
	e.hasValue = true
	e.updatedAt = now
	e.status = StatusSuccess
	e.err = nil
	if c.generations[key.Namespace] != generation {
		// invalidated while loading: serve this result, refetch on next access
		e.staleAt = now
		c.logger.Debug("query invalidated during load", "key", id)
		return loaded, nil
	}
	e.staleAt = now.Add(staleTime)

	return loaded, nil
}

func (c *QueryCache) loadWithRetry(ctx context.Context, key Key, loader Loader) (any, error) {
	delay := c.retryDelay
	for attempt := 0; ; attempt++ {
		value, err := loader(ctx)
		if err == nil {
			return value, nil
		}
		var permanent *permanentError
		if errors.As(err, &permanent) {
			return nil, permanent.err
		}
		if attempt >= c.retries || ctx.Err() != nil {
			return nil, err
		}

		c.logger.DebugContext(ctx, "query load failed, retrying",
			"key", key.String(),
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, err
		case <-timer.C:
		}

		delay *= 2
		if delay > c.maxRetryDelay {
			delay = c.maxRetryDelay
		}
	}
}

// Values returns every fresh value under namespace. Stale entries, including
// results of loads that raced an invalidation, are left out.
func (c *QueryCache) Values(namespace string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	out := make([]any, 0)
	for _, e := range c.entries {
		if e.key.Namespace != namespace || !e.hasValue || !now.Before(e.staleAt) {
			continue
		}
		out = append(out, e.value)
	}
	return out
}

func (c *QueryCache) State(key Key) QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return QueryState{Status: StatusIdle, IsStale: true}
	}

	return QueryState{
		Status:     e.status,
		Err:        e.err,
		UpdatedAt:  e.updatedAt,
		IsStale:    !e.hasValue || !c.now().Before(e.staleAt),
		FetchCount: e.fetchCount,
	}
}

// InvalidateNamespace drops every entry of the given namespaces. Loads that
// are in flight finish but their results are not kept as fresh.
func (c *QueryCache) InvalidateNamespace(ctx context.Context, namespaces ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for _, ns := range namespaces {
		if ns == "" {
			continue
		}
		c.generations[ns]++
		for id, e := range c.entries {
			if e.key.Namespace != ns {
				continue
			}
			if e.inFlight > 0 {
				e.hasValue = false
				e.value = nil
				e.staleAt = time.Time{}
				continue
			}
			delete(c.entries, id)
			dropped++
		}
	}

	c.logger.DebugContext(ctx, "query cache invalidated", "namespaces", namespaces, "dropped", dropped)
}

func (c *QueryCache) entryLocked(key Key) *entry {
	id := key.String()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: key, status: StatusIdle}
		c.entries[id] = e
	}
	return e
}

func (c *QueryCache) collectLocked(now time.Time) {
	for id, e := range c.entries {
		if e.inFlight > 0 {
			continue
		}
		// entries without a value (failed or invalidated loads) age from
		// their last settle
		last := e.staleAt
		if !e.hasValue {
			last = e.settledAt
		}
		if !last.IsZero() && now.Sub(last) > c.gcTime {
			delete(c.entries, id)
		}
	}
}
