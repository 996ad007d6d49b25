// Package cache memoizes background fetches keyed by what they fetch.
//
// Both caches hold at most one in-flight [async.Handle] per key. They are not
// safe for concurrent use; the refresh loop that owns them is the only caller.
package cache

import "github.com/desertthunder/champr/internal/async"

// Snapshot is what a [Singleton] knows this cycle.
type Snapshot[T any] struct {
	Value   T
	Has     bool
	Pending bool
	Err     error
}

// Singleton caches a single fetch for the lifetime of the session.
//
// A failed fetch keeps its handle, so it is not retried until [Singleton.Reset].
type Singleton[T any] struct {
	handle *async.Handle[T]
	value  T
	has    bool
}

// GetOrStart starts the fetch if none exists and reports its state.
func (c *Singleton[T]) GetOrStart(start func() *async.Handle[T]) Snapshot[T] {
	if c.handle == nil {
		c.handle = start()
	}
	return c.poll()
}

// Peek reports the current state without starting anything.
func (c *Singleton[T]) Peek() Snapshot[T] {
	if c.handle == nil {
		return Snapshot[T]{Value: c.value, Has: c.has}
	}
	return c.poll()
}

func (c *Singleton[T]) poll() Snapshot[T] {
	res, ok := c.handle.Poll()
	switch {
	case !ok:
		return Snapshot[T]{Value: c.value, Has: c.has, Pending: true}
	case res.Err != nil:
		return Snapshot[T]{Value: c.value, Has: c.has, Err: res.Err}
	}

	c.value, c.has = res.Value, true
	return Snapshot[T]{Value: c.value, Has: true}
}

// Started reports whether a fetch was ever started since the last reset.
func (c *Singleton[T]) Started() bool {
	return c.handle != nil
}

// Reset abandons the current fetch so the next GetOrStart starts a new one.
// The last successful value is kept until the new fetch resolves.
func (c *Singleton[T]) Reset() {
	c.handle = nil
}

// Entry is what a [Keyed] cache knows about one key this cycle.
//
// Err holds the most recent failure for the key; it can be set while a retry is Pending.
type Entry[V any] struct {
	Value   V
	Has     bool
	Pending bool
	Err     error
}

// Keyed caches fetches by key.
//
// A successful value is kept and never fetched again. A failure drops the
// handle and records the error, so the next GetOrStart retries.
type Keyed[K comparable, V any] struct {
	handles map[K]*async.Handle[V]
	values  map[K]V
	errs    map[K]error
}

// NewKeyed returns an empty keyed cache.
func NewKeyed[K comparable, V any]() *Keyed[K, V] {
	return &Keyed[K, V]{
		handles: make(map[K]*async.Handle[V]),
		values:  make(map[K]V),
		errs:    make(map[K]error),
	}
}

// GetOrStart returns the cached value for key, starting a fetch if nothing is cached or in flight.
func (c *Keyed[K, V]) GetOrStart(key K, start func() *async.Handle[V]) Entry[V] {
	if v, ok := c.values[key]; ok {
		return Entry[V]{Value: v, Has: true}
	}

	if _, ok := c.handles[key]; !ok {
		c.handles[key] = start()
	}
	return c.poll(key)
}

// Peek reports what is known about key without starting a fetch.
func (c *Keyed[K, V]) Peek(key K) Entry[V] {
	if v, ok := c.values[key]; ok {
		return Entry[V]{Value: v, Has: true}
	}
	if _, ok := c.handles[key]; !ok {
		return Entry[V]{Err: c.errs[key]}
	}
	return c.poll(key)
}

func (c *Keyed[K, V]) poll(key K) Entry[V] {
	res, ok := c.handles[key].Poll()
	if !ok {
		return Entry[V]{Pending: true, Err: c.errs[key]}
	}

	delete(c.handles, key)
	if res.Err != nil {
		c.errs[key] = res.Err
		return Entry[V]{Err: res.Err}
	}

	delete(c.errs, key)
	c.values[key] = res.Value
	return Entry[V]{Value: res.Value, Has: true}
}

// InFlight reports whether a fetch for key is running.
func (c *Keyed[K, V]) InFlight(key K) bool {
	_, ok := c.handles[key]
	return ok
}

// Forget drops everything known about key. An in-flight fetch is abandoned.
func (c *Keyed[K, V]) Forget(key K) {
	delete(c.handles, key)
	delete(c.values, key)
	delete(c.errs, key)
}

// Clear drops every key.
func (c *Keyed[K, V]) Clear() {
	clear(c.handles)
	clear(c.values)
	clear(c.errs)
}

// Len returns the number of resolved values.
func (c *Keyed[K, V]) Len() int {
	return len(c.values)
}

// Pending returns the number of in-flight fetches.
func (c *Keyed[K, V]) Pending() int {
	return len(c.handles)
}
