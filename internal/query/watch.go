package query

import (
	"context"
	"sync"

	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

type watcher[T any] struct {
	mu     sync.Mutex
	closed bool
	fn     func(State[T])
}

func (w *watcher[T]) deliver(st State[T]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.fn(st)
}

// Subscription is an active consumer of a key, the equivalent of a mounted view.
type Subscription struct {
	once  sync.Once
	close func()
}

// Close unmounts the consumer. No state is delivered after Close returns.
// Closing a zero Subscription is a no-op.
func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.close != nil {
			s.close()
		}
	})
}

// Watch registers fn as an active consumer of key. fn receives the current
// state straight away when it is fresh, otherwise a fetch is started and fn
// sees the loading and completed states. While the subscription is open,
// invalidating the key refetches it in the background.
// fn must not call Close on its own subscription.
func (c *Cache[T]) Watch(ctx context.Context, key Key, fetch Fetcher[T], fn func(State[T])) *Subscription {
	w := &watcher[T]{fn: fn}

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	e := c.entryLocked(key)
	e.watchers[id] = w
	e.fetch = fetch
	e.lastAccess = c.opts.Now()
	fresh := e.state.HasData && !c.staleLocked(e)
	st := e.state
	gen := e.generation
	c.mu.Unlock()

	if fresh {
		w.deliver(st)
	} else {
		bg := logger.Detach(ctx)
		c.group.DoChan(flightKey(key, gen), func() (any, error) {
			return c.run(bg, key, gen, fetch), nil
		})
	}

	return &Subscription{close: func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()

		c.mu.Lock()
		if e, ok := c.entries[key.id()]; ok {
			delete(e.watchers, id)
			e.lastAccess = c.opts.Now()
		}
		c.mu.Unlock()
	}}
}

func (e *entry[T]) watcherList() []*watcher[T] {
	if len(e.watchers) == 0 {
		return nil
	}
	out := make([]*watcher[T], 0, len(e.watchers))
	for _, w := range e.watchers {
		out = append(out, w)
	}
	return out
}

func notify[T any](watchers []*watcher[T], st State[T]) {
	for _, w := range watchers {
		w.deliver(st)
	}
}
