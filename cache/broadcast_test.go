package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeAllReceivesProcessWideNotification(t *testing.T) {
	all, cancel := SubscribeAll(4)
	defer cancel()

	c := New[string, int]("process-wide", WithNotificationInterval[string, int](20*time.Millisecond))
	defer c.Close()

	c.Put("a", 1)

	select {
	case n := <-all:
		assert.Equal(t, EventCacheDidChange, n.Name)
		assert.Equal(t, "process-wide", n.CacheName)
		ev, ok := n.Payload.(ChangeEvent[string, int])
		require.True(t, ok)
		assert.Equal(t, 1, ev.UpdatedItems["a"])
	case <-time.After(time.Second):
		t.Fatal("expected a process-wide notification")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	c := New[string, int]("unsubscribe")
	defer c.Close()

	events, cancel := c.Subscribe(1)
	cancel()

	_, open := <-events
	assert.False(t, open)
}

func TestCloseClosesSubscriberChannels(t *testing.T) {
	c := New[string, int]("close-subs")
	events, _ := c.Subscribe(1)

	c.Close()

	_, open := <-events
	assert.False(t, open)
}
