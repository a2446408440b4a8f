package ports

import "time"

// Scheduler runs deferred work. Implementations decide on which goroutine fn
// runs; the engine serializes its own state either way.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}
