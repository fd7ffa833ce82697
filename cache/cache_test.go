package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBasicPutGet covers spec.md §8 scenario 1.
func TestBasicPutGet(t *testing.T) {
	c := New[string, int]("basic")
	defer c.Close()

	c.Put("a", 1)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestPutReplacesValue(t *testing.T) {
	c := New[string, int]("replace")
	defer c.Close()

	c.Put("a", 1)
	c.Put("a", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPutNilIsRemove(t *testing.T) {
	c := New[string, *int]("nilput")
	defer c.Close()

	one := 1
	c.Put("a", &one)
	c.Put("a", nil)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestRemoveUnknownKeyIsIgnored(t *testing.T) {
	c := New[string, int]("removeunknown")
	defer c.Close()

	assert.NotPanics(t, func() { c.Remove("missing") })
}

func TestRemoveIdempotent(t *testing.T) {
	c := New[string, int]("removeidem")
	defer c.Close()

	c.Put("a", 1)
	c.Remove("a")
	c.Remove("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestRemoveAll(t *testing.T) {
	c := New[string, int]("removeall")
	defer c.Close()

	c.AddEntries(map[string]int{"a": 1, "b": 2, "c": 3})
	c.RemoveAll()

	for _, k := range []string{"a", "b", "c"} {
		_, ok := c.Get(k)
		assert.False(t, ok)
	}
	assert.Equal(t, 0, c.Len())
}

func TestAddEntriesMergesAllEntries(t *testing.T) {
	c := New[string, int]("addentries")
	defer c.Close()

	c.AddEntries(map[string]int{"a": 1, "b": 2})

	snap := c.Snapshot()
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, snap)
}

// TestSnapshotIsIndependent covers spec.md §8 invariant 3.
func TestSnapshotIsIndependent(t *testing.T) {
	c := New[string, int]("snapshot")
	defer c.Close()

	c.Put("a", 1)
	snap := c.Snapshot()
	snap["a"] = 999
	snap["b"] = 2

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	c := New[string, int]("concurrent")
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Put("key", i)
			c.Get("key")
			c.Snapshot()
		}(i)
	}
	wg.Wait()
}

func TestDisableTimersMidFlight(t *testing.T) {
	c := New[string, int]("disable-mid-flight", WithNotificationInterval[string, int](20*time.Millisecond))
	defer c.Close()

	events, cancel := c.Subscribe(8)
	defer cancel()

	c.Put("a", 1)
	<-events // first tick delivers the pending update

	c.SetNotificationInterval(0)
	c.Put("b", 2)

	select {
	case ev := <-events:
		t.Fatalf("expected no further events after disabling notifications, got %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New[string, int]("close-idempotent")
	assert.NotPanics(t, func() {
		c.Close()
		c.Close()
	})
}

func TestNameDefaultedWhenEmpty(t *testing.T) {
	c := New[string, int]("")
	defer c.Close()
	assert.NotEmpty(t, c.Name())
}
