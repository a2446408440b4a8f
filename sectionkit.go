package sectionkit

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/sectionkit/internal/logging"
	"github.com/aretw0/sectionkit/internal/runtime"
	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/ports"
)

// DefaultCoalesceInterval is the spacing applied between buffered mutations
// when WithCoalesceInterval is not used.
const DefaultCoalesceInterval = runtime.DefaultCoalesceInterval

// Engine is the high-level entry point for the sectionkit library.
// It wraps the internal runtime and is what sections, surfaces and hosts talk to.
type Engine struct {
	runtime     *runtime.Engine
	surface     ports.RenderingSurface
	runtimeOpts []runtime.EngineOption
	logger      *slog.Logger
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithHooks(hooks))
	}
}

// WithScheduler sets where buffered mutations continue. The default runs
// them on timer goroutines; hosts with a UI loop pass a scheduler.Loop.
func WithScheduler(s ports.Scheduler) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithScheduler(s))
	}
}

// WithCoalesceInterval sets the minimum spacing between buffered mutations.
func WithCoalesceInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithCoalesceInterval(d))
	}
}

// WithImpressionStore persists impressions somewhere other than memory.
func WithImpressionStore(store ports.ImpressionStore) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithImpressionStore(store))
	}
}

// WithReloadStrategy selects whether mutations are diffed or presented as
// full refreshes.
func WithReloadStrategy(s domain.ReloadStrategy) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithReloadStrategy(s))
	}
}

// WithScrollAxis sets the axis used to compute impression visibility.
func WithScrollAxis(axis domain.Axis) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithScrollAxis(axis))
	}
}

// WithEnvironment sets the scroll axis and a fallback container size.
func WithEnvironment(env domain.Environment) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithEnvironment(env))
	}
}

// WithName labels the engine. The name is used as the impression namespace
// and added to every log line, so engines sharing a store and a name share
// impressions. Unnamed engines get a random namespace.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New creates an engine driving surface.
func New(surface ports.RenderingSurface, opts ...Option) (*Engine, error) {
	if surface == nil {
		return nil, fmt.Errorf("failed to create engine: %w", domain.ErrNilSurface)
	}
	eng := &Engine{surface: surface}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("name", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithListID(eng.Name),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)
	eng.runtime = runtime.NewEngine(surface, runtimeOpts...)
	return eng, nil
}

// Surface returns the rendering surface the engine drives.
func (e *Engine) Surface() ports.RenderingSurface {
	return e.surface
}

// ListID returns the impression namespace.
func (e *Engine) ListID() string {
	return e.runtime.ListID()
}

// SurfaceCapabilities returns the capabilities negotiated with the surface.
func (e *Engine) SurfaceCapabilities() ports.SurfaceCapabilities {
	return e.runtime.SurfaceCapabilities()
}

// Pending returns the number of mutations waiting in the throttler.
func (e *Engine) Pending() int {
	return e.runtime.Pending()
}

// Busy reports whether a mutation or its cooldown is in progress. After the
// last completion it stays true for one coalesce interval with Pending at
// zero, so it does not mean work is in flight.
func (e *Engine) Busy() bool {
	return e.runtime.Busy()
}
