package runtime_test

import (
	"testing"
	"time"

	"github.com/aretw0/sectionkit/internal/runtime"
	"github.com/aretw0/sectionkit/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottler_BurstRunsInOrderWithSpacing(t *testing.T) {
	clock := scheduler.NewManual()
	interval := 100 * time.Millisecond
	th := runtime.NewThrottler(clock, interval)

	var ran []int
	var at []time.Duration
	for i := 0; i < 5; i++ {
		started := th.Submit(func(done func()) {
			ran = append(ran, i)
			at = append(at, clock.Now())
			done()
		})
		assert.Equal(t, i == 0, started, "only the first submission runs synchronously")
	}

	require.Equal(t, []int{0}, ran)
	assert.Equal(t, 4, th.Pending())
	assert.True(t, th.Busy())

	clock.Drain()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, ran)
	for i := 1; i < len(at); i++ {
		assert.GreaterOrEqual(t, at[i]-at[i-1], interval, "operation %d ran too early", i)
	}
	assert.Equal(t, 0, th.Pending())
	assert.False(t, th.Busy())
}

func TestThrottler_WaitsForAsyncCompletion(t *testing.T) {
	clock := scheduler.NewManual()
	th := runtime.NewThrottler(clock, 10*time.Millisecond)

	var held func()
	var ran []string
	th.Submit(func(done func()) {
		ran = append(ran, "first")
		held = done
	})
	th.Submit(func(done func()) {
		ran = append(ran, "second")
		done()
	})

	clock.Drain()
	assert.Equal(t, []string{"first"}, ran, "second must wait for first to complete")

	held()
	held() // extra calls are ignored
	clock.Drain()
	assert.Equal(t, []string{"first", "second"}, ran)
	assert.False(t, th.Busy())
}

func TestThrottler_IdleAfterCooldown(t *testing.T) {
	clock := scheduler.NewManual()
	th := runtime.NewThrottler(clock, 50*time.Millisecond)

	noop := func(done func()) { done() }
	assert.True(t, th.Submit(noop))
	assert.True(t, th.Busy(), "cooldown keeps the worker busy")

	clock.Advance(50 * time.Millisecond)
	assert.False(t, th.Busy())
	assert.True(t, th.Submit(noop), "a new burst starts immediately")
}

func TestThrottler_LoneCompletionStillCoolsDown(t *testing.T) {
	clock := scheduler.NewManual()
	interval := 50 * time.Millisecond
	th := runtime.NewThrottler(clock, interval)

	var ran []string
	require.True(t, th.Submit(func(done func()) { ran = append(ran, "first"); done() }))
	assert.True(t, th.Busy())
	assert.Equal(t, 0, th.Pending(), "nothing is in flight during the cooldown")

	started := th.Submit(func(done func()) { ran = append(ran, "second"); done() })
	assert.False(t, started, "submissions during the cooldown are buffered")
	assert.Equal(t, []string{"first"}, ran)

	clock.Advance(interval - time.Millisecond)
	assert.Equal(t, []string{"first"}, ran)
	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"first", "second"}, ran)

	clock.Advance(interval)
	assert.False(t, th.Busy())
}

func TestThrottler_RecoversPanics(t *testing.T) {
	clock := scheduler.NewManual()
	th := runtime.NewThrottler(clock, time.Millisecond)

	var ran bool
	assert.NotPanics(t, func() {
		th.Submit(func(done func()) { panic("boom") })
	})
	th.Submit(func(done func()) {
		ran = true
		done()
	})

	clock.Drain()
	assert.True(t, ran, "queue must keep draining after a panic")
}
