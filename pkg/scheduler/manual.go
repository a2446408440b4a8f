package scheduler

import (
	"sort"
	"sync"
	"time"
)

type task struct {
	at  time.Duration
	seq int
	fn  func()
}

// Manual is a virtual clock. Work scheduled with AfterFunc only runs from
// Advance or Drain, on the caller's goroutine.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []task
}

// NewManual returns a clock positioned at zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc schedules fn at Now()+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.tasks = append(m.tasks, task{at: m.now + max(d, 0), seq: m.seq, fn: fn})
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of scheduled tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Advance moves the clock forward by d, running every task that becomes due
// in time order. Tasks scheduled while advancing run too if they fall inside
// the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	deadline := m.now + d
	m.mu.Unlock()

	for {
		next, ok := m.pop(deadline)
		if !ok {
			break
		}
		next.fn()
	}

	m.mu.Lock()
	m.now = max(m.now, deadline)
	m.mu.Unlock()
}

// Drain runs tasks until none are left, jumping the clock to each one.
func (m *Manual) Drain() {
	for {
		next, ok := m.pop(-1)
		if !ok {
			return
		}
		next.fn()
	}
}

// pop removes the earliest task due at or before deadline. A negative
// deadline accepts any task.
func (m *Manual) pop(deadline time.Duration) (task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tasks) == 0 {
		return task{}, false
	}
	sort.Slice(m.tasks, func(i, j int) bool {
		if m.tasks[i].at == m.tasks[j].at {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].at < m.tasks[j].at
	})
	next := m.tasks[0]
	if deadline >= 0 && next.at > deadline {
		return task{}, false
	}
	m.tasks = m.tasks[1:]
	m.now = max(m.now, next.at)
	return next, true
}
