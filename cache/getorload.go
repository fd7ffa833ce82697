package cache

import (
	"fmt"

	"go.uber.org/zap"
)

// loadResult is what GetOrLoad's singleflight.Group.Do call returns,
// boxed because singleflight only deals in `any`.
type loadResult[V any] struct {
	value V
	ok    bool
}

// GetOrLoad implements the read-through protocol from spec.md §4.1:
//
//  1. Consult the Store under a read lock; return immediately on a hit.
//  2. On a miss, collapse concurrent callers for the same key into one
//     loader invocation via singleflight — this is the single-flight
//     guarantee from spec.md §8 property 4, grounded on
//     AdeptTravel-adept-framework's tenant cache (golang.org/x/sync/
//     singleflight coalescing concurrent loads per host).
//  3. The winning call re-checks the Store under the write lock (another
//     GetOrLoad racing on a *different* singleflight generation may have
//     already inserted the value), then invokes loader with the write
//     lock held, exactly as the original's "cache is locked when the
//     defaultLoader block needs to be invoked" comment specifies. A
//     loader that itself mutates this cache will deadlock — documented
//     caller contract, not defended against (spec.md §4.1, §9).
//
// A loader returning ok=false leaves the Store unchanged and is not an
// error (spec.md §7).
func (c *Cache[K, V]) GetOrLoad(key K, loader Loader[V]) (V, bool) {
	if v, ok := c.Get(key); ok {
		return v, true
	}

	sfgKey := fmt.Sprintf("%v", key)
	result, _, shared := c.loadGroup.Do(sfgKey, func() (any, error) {
		c.mu.Lock()
		defer c.mu.Unlock()

		if v, ok := c.data[key]; ok {
			return loadResult[V]{value: v, ok: true}, nil
		}

		v, ok := loader()
		if !ok {
			c.logger.Debug("get-or-load miss: loader returned nothing",
				zap.String("cache", c.name))
			return loadResult[V]{ok: false}, nil
		}

		c.data[key] = v
		c.changes.recordPut(key, v)
		c.logger.Debug("get-or-load loaded value", zap.String("cache", c.name))
		return loadResult[V]{value: v, ok: true}, nil
	})

	res := result.(loadResult[V])
	c.logger.Debug("get-or-load finished",
		zap.String("cache", c.name),
		zap.Bool("found", res.ok),
		zap.Bool("shared", shared),
	)
	return res.value, res.ok
}
