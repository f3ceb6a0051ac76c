package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

const (
	DefaultStaleTime    = 5 * time.Minute
	DefaultGCTime       = 10 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
)

// State is a snapshot of one cache entry.
type State[T any] struct {
	Data      T
	HasData   bool
	IsLoading bool
	Err       error
	UpdatedAt time.Time
	Stale     bool
}

// Fetcher loads the current value of a resource.
type Fetcher[T any] func(ctx context.Context) (T, error)

type Options struct {
	StaleTime    time.Duration
	GCTime       time.Duration
	FetchTimeout time.Duration
	Now          func() time.Time
}

// MutateOptions are the follow-ups of a write. Invalidates lists the key
// prefixes whose cached data the write makes out of date.
type MutateOptions struct {
	Invalidates []Key
	OnSuccess   func()
	OnError     func(error)
}

// Cache holds one entry per Key. Concurrent reads of the same key share a
// single fetch; writes never patch cached data, they invalidate it.
type Cache[T any] struct {
	name    string
	opts    Options
	log     *slog.Logger
	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]*entry[T]
	nextID  uint64
}

type entry[T any] struct {
	key   Key
	state State[T]
	// generation is bumped on every invalidation; dataGeneration is the
	// generation the held data (or error) was fetched in.
	generation     uint64
	dataGeneration uint64
	inflight       int
	fetch          Fetcher[T]
	watchers       map[uint64]*watcher[T]
	lastAccess     time.Time
}

func New[T any](name string, log *slog.Logger, opts Options) *Cache[T] {
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.GCTime <= 0 {
		opts.GCTime = DefaultGCTime
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache[T]{
		name:    name,
		opts:    opts,
		log:     log.With("cache", name),
		entries: make(map[string]*entry[T]),
	}
}

// Read returns fresh cached data without a fetch. Otherwise it joins (or
// starts) the single pending fetch for the key and waits for it. The fetch
// itself is not tied to ctx: if ctx ends first the caller stops waiting and
// the fetch completes for everyone else.
func (c *Cache[T]) Read(ctx context.Context, key Key, fetch Fetcher[T]) State[T] {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.lastAccess = c.opts.Now()
	e.fetch = fetch
	if e.state.HasData && !c.staleLocked(e) {
		st := e.state
		c.mu.Unlock()
		return st
	}
	gen := e.generation
	c.mu.Unlock()

	ch := c.group.DoChan(flightKey(key, gen), func() (any, error) {
		return c.run(logger.Detach(ctx), key, gen, fetch), nil
	})
	select {
	case res := <-ch:
		return res.Val.(State[T])
	case <-ctx.Done():
		st, _ := c.Peek(key)
		st.Err = ctx.Err()
		return st
	}
}

// Peek returns the current state of key without fetching.
func (c *Cache[T]) Peek(key Key) (State[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.id()]
	if !ok {
		return State[T]{}, false
	}
	st := e.state
	st.Stale = c.staleLocked(e)
	return st, true
}

// Invalidate marks every key under prefix stale. Keys with watchers are
// refetched in the background; the rest wait for their next Read.
// It returns the number of keys marked.
func (c *Cache[T]) Invalidate(ctx context.Context, prefix Key) int {
	type refetch struct {
		key   Key
		gen   uint64
		fetch Fetcher[T]
	}

	c.mu.Lock()
	var (
		marked int
		todo   []refetch
	)
	for _, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.generation++
		e.state.Stale = true
		marked++
		if len(e.watchers) > 0 && e.fetch != nil {
			todo = append(todo, refetch{key: e.key, gen: e.generation, fetch: e.fetch})
		}
	}
	c.mu.Unlock()

	bg := logger.Detach(ctx)
	for _, r := range todo {
		r := r // per-iteration copy; go directive is 1.21 (pre-loopvar semantics)
		c.group.DoChan(flightKey(r.key, r.gen), func() (any, error) {
			return c.run(bg, r.key, r.gen, r.fetch), nil
		})
	}

	c.log.Debug("cache invalidated", "prefix", prefix.String(), "keys", marked, "refetching", len(todo))
	return marked
}

// Mutate runs write. On success the listed prefixes are invalidated before
// OnSuccess runs; on failure OnError runs and the error is returned.
// Writes are never retried or queued.
func (c *Cache[T]) Mutate(ctx context.Context, write func(ctx context.Context) error, opts MutateOptions) error {
	if err := write(ctx); err != nil {
		logger.FromContext(ctx).Warn("cache mutation failed", "cache", c.name, "error", err)
		if opts.OnError != nil {
			opts.OnError(err)
		}
		return err
	}
	for _, k := range opts.Invalidates {
		c.Invalidate(ctx, k)
	}
	if opts.OnSuccess != nil {
		opts.OnSuccess()
	}
	return nil
}

// CleanExpired drops entries that have no watchers, no fetch in flight and
// have not been read for GCTime. It returns the number removed.
func (c *Cache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Now()
	removed := 0
	for id, e := range c.entries {
		if len(e.watchers) > 0 || e.inflight > 0 {
			continue
		}
		if now.Sub(e.lastAccess) >= c.opts.GCTime {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Size returns the number of entries currently held.
func (c *Cache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[T]) run(ctx context.Context, key Key, gen uint64, fetch Fetcher[T]) State[T] {
	log := logger.FromContext(ctx).With("cache", c.name, "key", key.String())

	c.mu.Lock()
	e := c.entryLocked(key)
	e.inflight++
	e.state.IsLoading = true
	loading := e.state
	watchers := e.watcherList()
	c.mu.Unlock()
	notify(watchers, loading)

	fctx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	data, err := safeFetch(fctx, fetch)
	cancel()

	c.mu.Lock()
	e = c.entryLocked(key)
	e.inflight--
	if e.inflight <= 0 {
		e.inflight = 0
		e.state.IsLoading = false
	}
	switch {
	case gen < e.dataGeneration:
		log.Debug("discarding fetch from older generation", "gen", gen, "held", e.dataGeneration)
	case err != nil:
		e.state.Err = err
		e.dataGeneration = gen
		log.Warn("cache fetch failed", "error", err, "has_data", e.state.HasData)
	default:
		e.state.Data = data
		e.state.HasData = true
		e.state.Err = nil
		e.state.UpdatedAt = c.opts.Now()
		e.dataGeneration = gen
		e.state.Stale = gen < e.generation
	}
	st := e.state
	st.Stale = c.staleLocked(e)
	watchers = e.watcherList()
	c.mu.Unlock()

	notify(watchers, st)
	return st
}

// safeFetch turns a panicking fetcher into an error so that IsLoading is
// always cleared.
func safeFetch[T any](ctx context.Context, fetch Fetcher[T]) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return fetch(ctx)
}

func (c *Cache[T]) entryLocked(key Key) *entry[T] {
	id := key.id()
	e, ok := c.entries[id]
	if !ok {
		e = &entry[T]{
			key:        append(Key(nil), key...),
			watchers:   make(map[uint64]*watcher[T]),
			lastAccess: c.opts.Now(),
		}
		c.entries[id] = e
	}
	return e
}

func (c *Cache[T]) staleLocked(e *entry[T]) bool {
	if !e.state.HasData {
		return true
	}
	return e.state.Stale || c.opts.Now().Sub(e.state.UpdatedAt) >= c.opts.StaleTime
}

func flightKey(key Key, gen uint64) string {
	return fmt.Sprintf("%s#%d", key.id(), gen)
}
