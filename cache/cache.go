package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

/*
Cache implements a thread-safe, in-process key/value store with:

  - Single-writer, multiple-reader access (sync.RWMutex): readers run in
    parallel with each other; writers run exclusively.
  - A periodic, policy-driven eviction pass (eviction.go).
  - Periodic, coalesced delta notifications (notifier.go, changelog.go).
  - A get-or-load operation with single-flight semantics per key
    (getorload.go).

Capacity limits, recency ordering, and cross-process coherence are
explicitly not implemented; see SPEC_FULL.md.

STRUCTURE FIELDS

	name    -> diagnostic label; not an identifier, collisions permitted
	mu      -> guards data and changes together, so a mutation and its
	           change-log entry commit as one atomic step
	data    -> the authoritative Key -> Value mapping
	changes -> journal of mutations since the last notification
	decider -> optional eviction predicate; nil means no automatic eviction
	evict   -> periodic eviction timer
	notify  -> periodic notification timer
	evictMu -> serializes manual Purge against periodic eviction ticks
	bus     -> typed subscriber registry for this cache's delta events
	loadGroup -> collapses concurrent GetOrLoad misses for the same key
*/
type Cache[K comparable, V any] struct {
	name string

	mu      sync.RWMutex
	data    map[K]V
	changes changeLog[K, V]

	decider EvictionDecider[K, V]
	evictMu sync.Mutex

	evictionInterval     time.Duration
	notificationInterval time.Duration

	evict  *intervalTimer
	notify *intervalTimer

	bus *bus[ChangeEvent[K, V]]

	loadGroup singleflight.Group

	logger *zap.Logger

	registerer prometheus.Registerer
	collector  *collector[K, V]

	closeOnce sync.Once
	closed    chan struct{}
}

// New constructs a Cache. name is optional and purely diagnostic
// (spec.md §3, "Cache Identity"); an empty name is replaced with a
// generated one so log lines and metrics always carry a label.
func New[K comparable, V any](name string, opts ...Option[K, V]) *Cache[K, V] {
	if name == "" {
		name = "driftcache-" + newEventID()
	}

	c := &Cache[K, V]{
		name:                 name,
		data:                 make(map[K]V),
		changes:              newChangeLog[K, V](),
		evictionInterval:     defaultEvictionInterval,
		notificationInterval: 0,
		bus:                  newBus[ChangeEvent[K, V]](),
		logger:               zap.NewNop(),
		closed:               make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.collector = newCollector(c)
	if c.registerer != nil {
		_ = c.registerer.Register(c.collector)
	}

	c.evict = newIntervalTimer(c.evictionInterval, c.runScheduledEviction)
	c.notify = newIntervalTimer(c.notificationInterval, c.runScheduledNotification)

	c.logger.Debug("cache created",
		zap.String("cache", c.name),
		zap.Duration("eviction_interval", c.evictionInterval),
		zap.Duration("notification_interval", c.notificationInterval),
	)

	return c
}

// Name returns the cache's diagnostic label. Read-only per spec.md §6.
func (c *Cache[K, V]) Name() string {
	return c.name
}

// EvictionInterval returns the current periodic-eviction cadence.
func (c *Cache[K, V]) EvictionInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.evictionInterval
}

// SetEvictionInterval reconfigures the periodic eviction cadence. Zero or
// negative disables periodic eviction without affecting Purge.
func (c *Cache[K, V]) SetEvictionInterval(d time.Duration) {
	c.mu.Lock()
	c.evictionInterval = d
	c.mu.Unlock()
	c.evict.Reconfigure(d)
}

// NotificationInterval returns the current periodic-notification cadence.
func (c *Cache[K, V]) NotificationInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notificationInterval
}

// SetNotificationInterval reconfigures the periodic notification cadence.
// Zero or negative disables notifications; no events are published
// regardless of mutation volume while disabled.
func (c *Cache[K, V]) SetNotificationInterval(d time.Duration) {
	c.mu.Lock()
	c.notificationInterval = d
	c.mu.Unlock()
	c.notify.Reconfigure(d)
}

// Get returns the value stored for key, and whether it was present. It
// takes only a read lock: readers run in parallel with each other.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	v, ok := c.data[key]
	c.mu.RUnlock()

	if ok {
		c.collector.hits.Add(1)
	} else {
		c.collector.misses.Add(1)
	}
	return v, ok
}

// Put inserts or replaces the value for key and records the mutation in
// the change log. Replacement is atomic and change-tracked as a single
// update, not a remove-then-insert pair (spec.md §3).
func (c *Cache[K, V]) Put(key K, value V) {
	if isNilValue(value) {
		c.Remove(key)
		return
	}
	c.mu.Lock()
	c.data[key] = value
	c.changes.recordPut(key, value)
	c.mu.Unlock()
}

// Remove deletes keys from the cache, if present. Unknown keys are
// silently ignored (spec.md §7).
func (c *Cache[K, V]) Remove(keys ...K) {
	c.mu.Lock()
	for _, key := range keys {
		if _, ok := c.data[key]; !ok {
			continue
		}
		delete(c.data, key)
		c.changes.recordRemove(key)
	}
	c.mu.Unlock()
}

// RemoveAll empties the cache. Every key present at the moment of the
// call is recorded as removed.
func (c *Cache[K, V]) RemoveAll() {
	c.mu.Lock()
	for key := range c.data {
		c.changes.recordRemove(key)
	}
	c.data = make(map[K]V)
	c.mu.Unlock()
}

// AddEntries merges entries into the cache as a single atomic
// transition: no reader observes a partial application, and every entry
// is part of the same next notification event even if a key's value was
// already identical in the cache (spec.md §3, §6).
func (c *Cache[K, V]) AddEntries(entries map[K]V) {
	if len(entries) == 0 {
		return
	}
	c.mu.Lock()
	for key, value := range entries {
		c.data[key] = value
		c.changes.recordPut(key, value)
	}
	c.mu.Unlock()
}

// Snapshot returns an independent copy of the cache's contents. Mutations
// made to the cache after Snapshot returns are never reflected in the
// returned map, and vice versa; this is the recommended way to iterate
// since the Store exposes no lock-holding streaming iterator.
func (c *Cache[K, V]) Snapshot() map[K]V {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[K]V, len(c.data))
	for k, v := range c.data {
		out[k] = v
	}
	return out
}

// Len returns the number of entries currently in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Subscribe registers for this cache's delta notifications. The returned
// cancel func must be called to release the subscription and close the
// channel. buffer controls how many undelivered events may queue before
// further events are dropped for this subscriber (spec.md §4.4: the
// Notifier never waits on delivery).
func (c *Cache[K, V]) Subscribe(buffer int) (<-chan ChangeEvent[K, V], func()) {
	return c.bus.subscribe(buffer)
}

// Close cancels both periodic timers and waits for any in-flight tick to
// finish. It is safe to call more than once; only the first call has
// effect. Unlike the teacher's Stop (which panics on a second call), this
// uses sync.Once — see DESIGN.md. Close does not itself wait for a
// concurrent Get/Put/Remove to return; see DESIGN.md for why that is
// still considered safe.
func (c *Cache[K, V]) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.evict.Stop()
		c.notify.Stop()
		c.bus.closeAll()
		if c.registerer != nil {
			c.registerer.Unregister(c.collector)
		}
		c.logger.Debug("cache closed", zap.String("cache", c.name))
	})
}
