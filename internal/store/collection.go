// Package store holds the client-side state containers that cache
// backend entities in memory and keep them in sync with the API.
//
// Every store wraps a Collection: an ordered, unique-by-ID list plus a
// loading flag and the last error. Operations are never optimistic: the
// collection changes only after the backend confirms. Operations are not
// serialized against each other; each applies its result when its response
// arrives, so the last response to arrive wins.
package store

import (
	"sync"

	"github.com/nhle/study-dashboard/internal/model"
)

// Snapshot is an immutable copy of a collection's state.
type Snapshot[T model.Entity] struct {
	Items     []T
	IsLoading bool
	Error     string
}

type subscriber[T model.Entity] struct {
	id int
	fn func(Snapshot[T])
}

// Collection is the generic state container shared by all entity stores.
// It is safe for concurrent use.
type Collection[T model.Entity] struct {
	mu       sync.Mutex
	items    []T
	inFlight int
	err      error
	subs     []subscriber[T]
	nextSub  int

	// notifyMu serializes mutations together with their notifications so
	// callbacks see snapshots in mutation order. It is always taken before mu.
	notifyMu sync.Mutex
}

// NewCollection creates an empty collection.
func NewCollection[T model.Entity]() *Collection[T] {
	return &Collection[T]{}
}

// Snapshot returns a copy of the current state.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Items returns a copy of the cached entities in collection order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyItemsLocked()
}

// Len returns the number of cached entities.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Get returns the entity with the given ID.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// IsLoading reports whether a fetch is in flight.
func (c *Collection[T]) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// Err returns the error of the most recent failed operation, or nil if the
// most recent operation has not failed.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Subscribe registers fn to receive a snapshot after every state change.
// Callbacks run on the goroutine that changed the state, in change order.
// They may read the collection but must not call mutating store operations
// synchronously. The returned function removes the subscription.
func (c *Collection[T]) Subscribe(fn func(Snapshot[T])) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// filter returns the entities matching keep, in collection order.
func (c *Collection[T]) filter(keep func(T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []T
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// begin clears the error at the start of a non-fetch operation.
func (c *Collection[T]) begin() {
	c.apply(func() { c.err = nil })
}

// beginFetch clears the error and marks a fetch as in flight.
func (c *Collection[T]) beginFetch() {
	c.apply(func() {
		c.err = nil
		c.inFlight++
	})
}

// endFetch finishes a fetch. On success the items are replaced wholesale;
// on failure the previous items are kept and err is recorded.
func (c *Collection[T]) endFetch(items []T, err error) {
	c.apply(func() {
		if c.inFlight > 0 {
			c.inFlight--
		}
		if err != nil {
			c.err = err
			return
		}
		c.items = dedupe(items)
	})
}

// fail records err without touching the items.
func (c *Collection[T]) fail(err error) {
	c.apply(func() { c.err = err })
}

// upsert replaces the entity with the same ID in place, or appends it.
func (c *Collection[T]) upsert(item T) {
	c.apply(func() {
		if i := c.indexLocked(item.GetID()); i >= 0 {
			c.items[i] = item
			return
		}
		c.items = append(c.items, item)
	})
}

// remove drops the entity with the given ID; absent IDs are a no-op.
func (c *Collection[T]) remove(id string) {
	c.apply(func() {
		if i := c.indexLocked(id); i >= 0 {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
		}
	})
}

// modify edits the entity with the given ID in place and reports whether
// it was found.
func (c *Collection[T]) modify(id string, edit func(*T)) bool {
	found := false
	c.apply(func() {
		if i := c.indexLocked(id); i >= 0 {
			edit(&c.items[i])
			found = true
		}
	})
	return found
}

// apply runs mutate under the lock, then notifies subscribers with the
// resulting snapshot.
func (c *Collection[T]) apply(mutate func()) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	mutate()
	snap := c.snapshotLocked()
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}

func (c *Collection[T]) snapshotLocked() Snapshot[T] {
	snap := Snapshot[T]{
		Items:     c.copyItemsLocked(),
		IsLoading: c.inFlight > 0,
	}
	if c.err != nil {
		snap.Error = c.err.Error()
	}
	return snap
}

func (c *Collection[T]) copyItemsLocked() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) indexLocked(id string) int {
	for i, item := range c.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the first position of each ID with the last value seen for it.
func dedupe[T model.Entity](items []T) []T {
	out := make([]T, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if i, ok := index[item.GetID()]; ok {
			out[i] = item
			continue
		}
		index[item.GetID()] = len(out)
		out = append(out, item)
	}
	return out
}
