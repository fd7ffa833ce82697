package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// defaultEvictionInterval matches the original's 600-second default
// (spec.md §4.3).
const defaultEvictionInterval = 600 * time.Second

// EvictionDecider decides whether a (key, value) pair should be evicted.
// context is nil for automatic, timer-driven passes and is passed through
// verbatim from Purge for manual ones (spec.md §4.3).
type EvictionDecider[K comparable, V any] func(key K, value V, context any) bool

// Loader produces a value for a missing key, for use with GetOrLoad. It
// returns ok=false to indicate no value is available; this is not treated
// as an error by the cache (spec.md §7).
type Loader[V any] func() (V, bool)

// Option configures a Cache at construction time. Options implement the
// same functional-options pattern as the teacher's WithCleanupInterval,
// generalized to every configurable property in spec.md §6.
type Option[K comparable, V any] func(*Cache[K, V])

// WithEvictionDecider installs the predicate consulted by the eviction
// engine. Without one, eviction ticks are no-ops (spec.md §4.3).
func WithEvictionDecider[K comparable, V any](decider EvictionDecider[K, V]) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.decider = decider
	}
}

// WithEvictionInterval overrides the default 600s eviction cadence.
// Zero or negative disables periodic eviction; Purge still works.
func WithEvictionInterval[K comparable, V any](d time.Duration) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.evictionInterval = d
	}
}

// WithNotificationInterval enables periodic delta notifications. The
// default is 0 (disabled).
func WithNotificationInterval[K comparable, V any](d time.Duration) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.notificationInterval = d
	}
}

// WithLogger attaches a structured logger. Without one, a no-op logger is
// used so the cache never writes to stdout unbidden.
func WithLogger[K comparable, V any](logger *zap.Logger) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.logger = logger
	}
}

// WithPrometheusRegistry registers the cache's hit/miss/eviction/entry
// metrics (see metrics.go) against reg.
func WithPrometheusRegistry[K comparable, V any](reg prometheus.Registerer) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.registerer = reg
	}
}
