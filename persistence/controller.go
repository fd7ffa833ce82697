package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/driftcache/driftcache/cache"
	"github.com/driftcache/driftcache/internal/ymdict"
	"github.com/driftcache/driftcache/serializer"
	"github.com/gofrs/flock"
	atomicfile "github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// Controller loads a cache.Cache's contents from, and periodically saves
// them to, a JSON file on disk. It generalizes the original's
// YMCachePersistenceController: the cache, the model class, and the
// serialization delegate become a *cache.Cache[string, V], V itself, and
// a serializer.Serializer[V].
//
// Per spec.md §4.4's explicit design choice, the controller subscribes to
// the cache's change notifications only to maintain a diagnostic dirty
// flag; a notification never by itself triggers a save. Saves happen only
// from the autosave timer or an explicit SaveCache call.
type Controller[V any] struct {
	cache *cache.Cache[string, V]
	codec serializer.Serializer[V]
	path  string
	flock *flock.Flock

	logger *zap.Logger

	onWillSave      func(*Controller[V])
	onDidSave       func(*Controller[V])
	onDidFailToSave func(*Controller[V], error)

	mu           sync.Mutex
	saveInterval time.Duration
	saveTimer    *saveTicker
	lastSaveErr  error
	dirty        bool

	unsubscribe func()
}

// Option configures a Controller at construction time.
type Option[V any] func(*Controller[V])

// WithSaveInterval enables periodic autosave at interval d. Zero or
// negative (the default) disables autosave; SaveCache still works.
func WithSaveInterval[V any](d time.Duration) Option[V] {
	return func(c *Controller[V]) { c.saveInterval = d }
}

// WithControllerLogger attaches a structured logger. Without one a no-op
// logger is used.
func WithControllerLogger[V any](logger *zap.Logger) Option[V] {
	return func(c *Controller[V]) { c.logger = logger }
}

// WithWillSave registers a callback invoked immediately before an
// autosave-triggered write. It is not invoked for explicit SaveCache
// calls, matching persistenceControllerWillSaveMemoryCache: in the
// original.
func WithWillSave[V any](fn func(*Controller[V])) Option[V] {
	return func(c *Controller[V]) { c.onWillSave = fn }
}

// WithDidSave registers a callback invoked after a successful
// autosave-triggered write.
func WithDidSave[V any](fn func(*Controller[V])) Option[V] {
	return func(c *Controller[V]) { c.onDidSave = fn }
}

// WithDidFailToSave registers a callback invoked after a failed
// autosave-triggered write.
func WithDidFailToSave[V any](fn func(*Controller[V], error)) Option[V] {
	return func(c *Controller[V]) { c.onDidFailToSave = fn }
}

// New constructs a Controller bound to cc, using codec to convert its
// values to and from disk, with path as the cache file location.
func New[V any](cc *cache.Cache[string, V], codec serializer.Serializer[V], path string, opts ...Option[V]) *Controller[V] {
	c := &Controller[V]{
		cache:  cc,
		codec:  codec,
		path:   path,
		flock:  flock.New(path + ".lock"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	events, cancel := cc.Subscribe(8)
	c.unsubscribe = cancel
	go c.watchDirty(events)

	c.saveTimer = newSaveTicker(c.saveInterval, c.autosave)
	return c
}

// watchDirty marks the cache dirty on every delta notification. It never
// triggers a save itself.
func (c *Controller[V]) watchDirty(events <-chan cache.ChangeEvent[string, V]) {
	for range events {
		c.mu.Lock()
		c.dirty = true
		c.mu.Unlock()
	}
}

// SaveInterval returns the current autosave cadence.
func (c *Controller[V]) SaveInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveInterval
}

// SetSaveInterval reconfigures the autosave cadence. Zero or negative
// disables autosave.
func (c *Controller[V]) SetSaveInterval(d time.Duration) {
	c.mu.Lock()
	c.saveInterval = d
	c.mu.Unlock()
	c.saveTimer.Reconfigure(d)
}

// LastSaveError returns the error from the most recent save attempt, or
// nil if the most recent attempt (if any) succeeded.
func (c *Controller[V]) LastSaveError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaveErr
}

// LoadCache reads the cache file from disk, decodes it with the
// controller's serializer, and merges every entry into the cache as a
// single AddEntries call. It returns the number of entries loaded; a
// missing file is not an error and loads zero entries.
func (c *Controller[V]) LoadCache(ctx context.Context) (int, error) {
	locked, err := c.flock.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil {
		return 0, fmt.Errorf("persistence: lock %s: %w", c.path, err)
	}
	if !locked {
		return 0, fmt.Errorf("persistence: could not acquire lock on %s", c.path)
	}
	defer c.flock.Unlock()

	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("persistence: read %s: %w", c.path, err)
	}

	var doc map[string]serializer.Dict
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("persistence: decode %s: %w", c.path, err)
	}

	entries, err := ymdict.Decode(doc, c.codec)
	if err != nil {
		return 0, fmt.Errorf("persistence: %w", err)
	}

	c.cache.AddEntries(entries)
	c.logger.Debug("cache loaded", zap.String("path", c.path), zap.Int("count", len(entries)))
	return len(entries), nil
}

// SaveCache snapshots the cache and atomically writes it to disk. It does
// not invoke the WillSave/DidSave/DidFailToSave callbacks; those fire
// only around autosave ticks, matching the original.
func (c *Controller[V]) SaveCache(ctx context.Context) error {
	err := c.save(ctx)
	c.mu.Lock()
	c.lastSaveErr = err
	if err == nil {
		c.dirty = false
	}
	c.mu.Unlock()
	return err
}

func (c *Controller[V]) save(ctx context.Context) error {
	locked, err := c.flock.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil {
		return fmt.Errorf("persistence: lock %s: %w", c.path, err)
	}
	if !locked {
		return fmt.Errorf("persistence: could not acquire lock on %s", c.path)
	}
	defer c.flock.Unlock()

	snapshot := c.cache.Snapshot()
	doc, err := ymdict.Encode(snapshot, c.codec)
	if err != nil {
		return fmt.Errorf("persistence: %w", err)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("persistence: encode %s: %w", c.path, err)
	}

	if err := atomicfile.WriteFile(c.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("persistence: write %s: %w", c.path, err)
	}
	return nil
}

// autosave runs on the controller's own timer and, unlike SaveCache,
// invokes the Will/Did(Fail)Save callbacks around the write.
func (c *Controller[V]) autosave() {
	if c.onWillSave != nil {
		c.onWillSave(c)
	}

	err := c.save(context.Background())

	c.mu.Lock()
	c.lastSaveErr = err
	if err == nil {
		c.dirty = false
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("autosave failed", zap.String("path", c.path), zap.Error(err))
		if c.onDidFailToSave != nil {
			c.onDidFailToSave(c, err)
		}
		return
	}
	if c.onDidSave != nil {
		c.onDidSave(c)
	}
}

// Close stops the autosave timer and unsubscribes from the cache's
// notifications. It does not close the underlying cache.
func (c *Controller[V]) Close() {
	c.saveTimer.Stop()
	c.unsubscribe()
}
