package cache

import "go.uber.org/zap"

// Entry is a point-in-time (Key, Value) pair, as returned by the eviction
// snapshot. It carries no relationship to the Store once taken.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// runScheduledEviction is the periodic timer's callback (spec.md §4.3):
// automatic passes call the decider with context == nil.
func (c *Cache[K, V]) runScheduledEviction() {
	c.runEvictionPass(nil)
}

// Purge performs an immediate eviction pass on the caller's goroutine,
// passing context through to the decider. Manual and periodic passes are
// serialized with respect to each other via evictMu.
func (c *Cache[K, V]) Purge(context any) {
	c.runEvictionPass(context)
}

// runEvictionPass implements the four-step algorithm from spec.md §4.3:
//
//  1. Under a read lock, snapshot (key, value) pairs to evaluate.
//  2. Evaluate the decider over the snapshot, without the Store lock held.
//  3. Collect keys the decider flagged.
//  4. Under a write lock, remove each flagged key only if its value is
//     still the one the decider saw — entries mutated in between are left
//     untouched, since the decider's decision about them is stale.
func (c *Cache[K, V]) runEvictionPass(context any) {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	if c.decider == nil {
		return
	}

	snapshot := c.evictionSnapshot()
	c.logger.Debug("eviction pass started",
		zap.String("cache", c.name),
		zap.Int("candidates", len(snapshot)),
		zap.Bool("manual", context != nil),
	)

	var toRemove []K
	for _, e := range snapshot {
		if c.decider(e.Key, e.Value, context) {
			toRemove = append(toRemove, e.Key)
		}
	}
	if len(toRemove) == 0 {
		c.logger.Debug("eviction pass finished", zap.String("cache", c.name), zap.Int("evicted", 0))
		return
	}

	snapshotValues := make(map[K]V, len(snapshot))
	for _, e := range snapshot {
		snapshotValues[e.Key] = e.Value
	}

	evicted := 0
	c.mu.Lock()
	for _, key := range toRemove {
		current, ok := c.data[key]
		if !ok {
			continue
		}
		if !valuesEqual(current, snapshotValues[key]) {
			// Modified since the snapshot was taken; the decider's
			// decision no longer applies.
			continue
		}
		delete(c.data, key)
		c.changes.recordRemove(key)
		evicted++
		c.collector.evictions.Add(1)
	}
	c.mu.Unlock()

	logFinished := c.logger.Debug
	if evicted > 0 {
		logFinished = c.logger.Info
	}
	logFinished("eviction pass finished",
		zap.String("cache", c.name),
		zap.Int("evicted", evicted),
		zap.Int("candidates", len(snapshot)),
	)
}

// evictionSnapshot takes a lightweight, read-locked snapshot of the
// Store's current entries for the decider to evaluate outside the lock.
func (c *Cache[K, V]) evictionSnapshot() []Entry[K, V] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]Entry[K, V], 0, len(c.data))
	for k, v := range c.data {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	return entries
}
