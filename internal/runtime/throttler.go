package runtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/sectionkit/internal/logging"
	"github.com/aretw0/sectionkit/pkg/ports"
)

// DefaultCoalesceInterval is the minimum spacing between buffered operations.
const DefaultCoalesceInterval = 100 * time.Millisecond

// Operation is a unit of work run by the Throttler. It must call done once
// it has finished, possibly asynchronously. Extra calls are ignored.
type Operation func(done func())

// Throttler is a single-worker, trailing-edge coalescing queue.
//
// The first operation submitted while idle runs immediately on the caller's
// goroutine. Operations submitted while another one runs are buffered in
// submission order. Every completion is followed by a cooldown of interval,
// after which the front of the buffer runs; the throttler is idle again once
// a cooldown ends with an empty buffer. Nothing is ever dropped or
// reordered, and operations of one burst are spaced by at least interval
// even when they complete synchronously.
//
// A lone operation also starts a cooldown when it completes. For that
// interval Busy reports true while Pending is zero and no operation is
// running; a submission in that window is buffered until the cooldown ends.
// Hosts waiting for work to finish should check Pending, or wait for Busy
// to turn false when they need the list fully settled.
type Throttler struct {
	mu        sync.Mutex
	busy      bool
	pending   []Operation
	scheduler ports.Scheduler
	interval  time.Duration
	logger    *slog.Logger
}

// ThrottlerOption configures a Throttler.
type ThrottlerOption func(*Throttler)

// WithThrottlerLogger sets the logger used to report recovered panics.
func WithThrottlerLogger(logger *slog.Logger) ThrottlerOption {
	return func(t *Throttler) {
		t.logger = logger
	}
}

// NewThrottler creates an idle throttler.
func NewThrottler(scheduler ports.Scheduler, interval time.Duration, opts ...ThrottlerOption) *Throttler {
	t := &Throttler{
		scheduler: scheduler,
		interval:  interval,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Submit runs op now if the throttler is idle, or buffers it otherwise.
// It reports whether op started immediately.
func (t *Throttler) Submit(op Operation) bool {
	t.mu.Lock()
	if t.busy {
		t.pending = append(t.pending, op)
		t.mu.Unlock()
		return false
	}
	t.busy = true
	t.mu.Unlock()

	t.run(op)
	return true
}

// Pending returns the number of buffered operations.
func (t *Throttler) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Busy reports whether an operation or its cooldown is in progress. It stays
// true for one interval after the last completion even with nothing queued.
func (t *Throttler) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Interval returns the configured spacing.
func (t *Throttler) Interval() time.Duration {
	return t.interval
}

func (t *Throttler) run(op Operation) {
	var once sync.Once
	done := func() { once.Do(t.complete) }

	defer func() {
		// A panicking operation must not wedge the queue.
		if r := recover(); r != nil {
			t.logger.Error("List operation panicked", "panic", r)
			done()
		}
	}()
	op(done)
}

func (t *Throttler) complete() {
	t.scheduler.AfterFunc(t.interval, t.next)
}

func (t *Throttler) next() {
	t.mu.Lock()
	if len(t.pending) == 0 {
		t.busy = false
		t.mu.Unlock()
		return
	}
	op := t.pending[0]
	t.pending[0] = nil
	t.pending = t.pending[1:]
	t.mu.Unlock()

	t.run(op)
}
