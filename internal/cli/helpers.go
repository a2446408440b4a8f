package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/sectionkit/internal/logging"
	"github.com/aretw0/sectionkit/pkg/adapters/redis"
	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/ports"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// It writes to Stderr so frames on Stdout stay pipeable. "off" silences it.
func createLogger(level string) (*slog.Logger, error) {
	if strings.EqualFold(strings.TrimSpace(level), "off") {
		return logging.NewNop(), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

func createDebugHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnOperationQueued: func(e *domain.OperationEvent) {
			logger.Debug("Operation Queued", "op", e.Op, "pending", e.Pending)
		},
		OnOperationApplied: func(e *domain.OperationEvent) {
			logger.Debug("Operation Applied", "op", e.Op, "mode", e.Mode.String(), "changed", e.Changed,
				"sections", e.Sections, "items", e.Items)
		},
		OnImpression: func(e *domain.ImpressionEvent) {
			logger.Debug("Impression", "section", e.Section, "item", e.Item)
		},
		OnPrefetch: func(e *domain.PrefetchEvent) {
			logger.Debug("Prefetch", "section", e.Section, "indices", e.Indices)
		},
		OnCancelPrefetch: func(e *domain.PrefetchEvent) {
			logger.Debug("Cancel Prefetch", "section", e.Section, "indices", e.Indices)
		},
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorProfile picks the colour profile for w. Plain output and anything
// that is not a terminal get termenv.Ascii.
func colorProfile(w io.Writer, plain bool) termenv.Profile {
	if plain || !isTerminal(w) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).ColorProfile()
}

// newImpressionStore connects the shared impression record when addr is set.
// The engine already namespaces records by list ID, so lists can share one
// prefix.
func newImpressionStore(ctx context.Context, addr, list string, logger *slog.Logger) (ports.ImpressionStore, error) {
	if addr == "" {
		return nil, nil
	}
	store := redis.New(addr, "", 0)
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	logger.Info("Using redis impression store", "addr", addr, "list", list)
	return store, nil
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}
