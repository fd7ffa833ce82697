package cache

import (
	"sync"

	"github.com/google/uuid"
)

// EventCacheDidChange is the well-known name of the delta notification
// published by every Cache's Notifier (spec.md §6). It mirrors the
// original's kYFCacheDidChangeNotification.
const EventCacheDidChange = "CacheDidChange"

// ChangeEvent is the payload of a single coalesced delta: every mutation
// observed since the previous notification, or since the cache was
// created. A key never appears in both UpdatedItems and RemovedItems.
type ChangeEvent[K comparable, V any] struct {
	ID           string
	CacheName    string
	UpdatedItems map[K]V
	RemovedItems map[K]struct{}
}

// Notification is the process-wide, type-erased form of a ChangeEvent,
// delivered on the package-level bus returned by SubscribeAll. It exists
// because Go generics can't give every Cache[K, V] instantiation a single
// shared channel type the way the original's NSNotificationCenter could
// fan a dynamically-typed userInfo dictionary out to arbitrary listeners.
// Typed consumers should prefer Cache.Subscribe instead.
type Notification struct {
	Name      string
	CacheName string
	Payload   any
}

// bus is a subscriber registry with non-blocking fan-out delivery on a
// background goroutine, the shape spec.md §9 asks for ("a subscribe/
// publish abstraction at the core boundary"). Grounded on cuemby-warren's
// pkg/events.Broker: a map of buffered subscriber channels protected by a
// RWMutex, with slow/full subscribers dropped rather than blocking
// Publish.
type bus[T any] struct {
	mu          sync.RWMutex
	subscribers map[chan T]struct{}
}

func newBus[T any]() *bus[T] {
	return &bus[T]{subscribers: make(map[chan T]struct{})}
}

func (b *bus[T]) subscribe(buffer int) (<-chan T, func()) {
	ch := make(chan T, buffer)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// publish delivers to every current subscriber without blocking on any of
// them; a subscriber whose buffer is full misses this event rather than
// stalling the Notifier.
func (b *bus[T]) publish(v T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- v:
		default:
		}
	}
}

func (b *bus[T]) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, ch)
	}
}

// processBus is the package-level, type-erased bus backing SubscribeAll.
var processBus = newBus[Notification]()

// SubscribeAll registers for every cache's delta notifications,
// regardless of key/value type, the way a process-wide notification
// center would. The returned cancel func must be called to release the
// subscription; the channel is closed when it is.
func SubscribeAll(buffer int) (<-chan Notification, func()) {
	return processBus.subscribe(buffer)
}

func publishNotification(n Notification) {
	processBus.publish(n)
}

func newEventID() string {
	return uuid.NewString()
}
