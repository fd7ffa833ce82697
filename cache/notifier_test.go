package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNotificationCoalescesMutations covers spec.md §8 scenario 2.
func TestNotificationCoalescesMutations(t *testing.T) {
	c := New[string, int]("coalesce", WithNotificationInterval[string, int](30*time.Millisecond))
	defer c.Close()

	events, cancel := c.Subscribe(4)
	defer cancel()

	c.AddEntries(map[string]int{"a": 1, "b": 2})
	c.Remove("a")

	select {
	case ev := <-events:
		assert.Equal(t, map[string]int{"b": 2}, ev.UpdatedItems)
		assert.Equal(t, map[string]struct{}{"a": {}}, ev.RemovedItems)
	case <-time.After(time.Second):
		t.Fatal("expected exactly one coalesced event")
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected second event: %+v", ev)
	case <-time.After(80 * time.Millisecond):
	}
}

// TestNoNotificationsWhenDisabled covers spec.md §8 boundary behavior:
// notification_interval == 0 means no events regardless of mutation
// volume.
func TestNoNotificationsWhenDisabled(t *testing.T) {
	c := New[string, int]("disabled")
	defer c.Close()

	events, cancel := c.Subscribe(4)
	defer cancel()

	for i := 0; i < 50; i++ {
		c.Put("k", i)
	}

	select {
	case ev := <-events:
		t.Fatalf("expected no events, got %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

// TestEventKeysAreExclusive covers spec.md §8 invariant 6: within a
// single event a key is never in both UpdatedItems and RemovedItems.
func TestEventKeysAreExclusive(t *testing.T) {
	c := New[string, int]("exclusive", WithNotificationInterval[string, int](30*time.Millisecond))
	defer c.Close()

	events, cancel := c.Subscribe(4)
	defer cancel()

	c.Put("a", 1)
	c.Remove("a")
	c.Put("a", 2)

	select {
	case ev := <-events:
		_, inRemoved := ev.RemovedItems["a"]
		v, inUpdated := ev.UpdatedItems["a"]
		require.True(t, inUpdated)
		require.False(t, inRemoved)
		assert.Equal(t, 2, v)
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestChangeLogEmptyAfterPublish(t *testing.T) {
	c := New[string, int]("drained", WithNotificationInterval[string, int](20*time.Millisecond))
	defer c.Close()

	c.Put("a", 1)
	time.Sleep(60 * time.Millisecond)

	c.mu.RLock()
	empty := c.changes.isEmpty()
	c.mu.RUnlock()
	assert.True(t, empty)
}
