package cache

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// collector implements prometheus.Collector directly on top of a Cache's
// atomic counters, the way samber-hot's HotCache implements Describe/
// Collect over its sub-collectors — except here there is exactly one
// collector per cache, so Describe/Collect build descriptors inline
// rather than delegating to a sub-collector list.
type collector[K comparable, V any] struct {
	cache *Cache[K, V]

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	hitsDesc      *prometheus.Desc
	missesDesc    *prometheus.Desc
	evictionsDesc *prometheus.Desc
	entriesDesc   *prometheus.Desc
}

func newCollector[K comparable, V any](c *Cache[K, V]) *collector[K, V] {
	labels := prometheus.Labels{"cache": c.name}
	return &collector[K, V]{
		cache: c,
		hitsDesc: prometheus.NewDesc(
			"driftcache_hits_total", "Number of Get/GetOrLoad calls that found a value.",
			nil, labels,
		),
		missesDesc: prometheus.NewDesc(
			"driftcache_misses_total", "Number of Get/GetOrLoad calls that found no value.",
			nil, labels,
		),
		evictionsDesc: prometheus.NewDesc(
			"driftcache_evictions_total", "Number of entries removed by the eviction engine.",
			nil, labels,
		),
		entriesDesc: prometheus.NewDesc(
			"driftcache_entries", "Current number of entries in the cache.",
			nil, labels,
		),
	}
}

func (cl *collector[K, V]) Describe(ch chan<- *prometheus.Desc) {
	ch <- cl.hitsDesc
	ch <- cl.missesDesc
	ch <- cl.evictionsDesc
	ch <- cl.entriesDesc
}

func (cl *collector[K, V]) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(cl.hitsDesc, prometheus.CounterValue, float64(cl.hits.Load()))
	ch <- prometheus.MustNewConstMetric(cl.missesDesc, prometheus.CounterValue, float64(cl.misses.Load()))
	ch <- prometheus.MustNewConstMetric(cl.evictionsDesc, prometheus.CounterValue, float64(cl.evictions.Load()))
	ch <- prometheus.MustNewConstMetric(cl.entriesDesc, prometheus.GaugeValue, float64(cl.cache.Len()))
}
