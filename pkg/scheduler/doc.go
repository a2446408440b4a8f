/*
Package scheduler provides ports.Scheduler implementations.

  - Timer runs continuations on runtime timers. It needs no host cooperation.
  - Loop funnels every continuation through a single goroutine driven by Run,
    which mirrors a UI run loop: the host performs its own engine calls with
    Post or Do so that everything happens on one goroutine.
  - Manual keeps a virtual clock and only runs work when told to. It makes
    throttling behaviour deterministic in tests.
*/
package scheduler
