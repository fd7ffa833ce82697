package cache

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalTimerTicks(t *testing.T) {
	var ticks atomic.Int32
	timer := newIntervalTimer(10*time.Millisecond, func() { ticks.Add(1) })
	defer timer.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.GreaterOrEqual(t, ticks.Load(), int32(3))
}

func TestIntervalTimerDisabledByZero(t *testing.T) {
	var ticks atomic.Int32
	timer := newIntervalTimer(0, func() { ticks.Add(1) })
	defer timer.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), ticks.Load())
}

func TestIntervalTimerReconfigureEnables(t *testing.T) {
	var ticks atomic.Int32
	timer := newIntervalTimer(0, func() { ticks.Add(1) })
	defer timer.Stop()

	timer.Reconfigure(10 * time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Greater(t, ticks.Load(), int32(0))
}

func TestIntervalTimerNoOverlap(t *testing.T) {
	var running atomic.Int32
	var overlapped atomic.Bool

	timer := newIntervalTimer(5*time.Millisecond, func() {
		if running.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
	})
	defer timer.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.False(t, overlapped.Load())
}

func TestIntervalTimerStopWaitsForInflightTick(t *testing.T) {
	done := make(chan struct{})
	timer := newIntervalTimer(1*time.Millisecond, func() {
		time.Sleep(30 * time.Millisecond)
		close(done)
	})

	time.Sleep(10 * time.Millisecond) // let a tick start
	timer.Stop()

	select {
	case <-done:
	default:
		t.Fatal("Stop returned before the in-flight tick finished")
	}
}
