package script

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/sectionkit"
	"github.com/aretw0/sectionkit/internal/logging"
	"github.com/aretw0/sectionkit/pkg/adapters/headless"
	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/observability"
	"github.com/aretw0/sectionkit/pkg/ports"
	"github.com/aretw0/sectionkit/pkg/scheduler"
)

// Clock is the scheduler a scenario runs on plus a way to let time pass.
type Clock interface {
	ports.Scheduler
	Advance(ctx context.Context, d time.Duration) error
}

// ManualClock replays scenarios on virtual time.
type ManualClock struct{ *scheduler.Manual }

// NewManualClock returns a virtual clock at zero.
func NewManualClock() ManualClock {
	return ManualClock{Manual: scheduler.NewManual()}
}

func (c ManualClock) Advance(_ context.Context, d time.Duration) error {
	c.Manual.Advance(d)
	return nil
}

// WallClock runs scenarios in real time on any scheduler, typically a
// scheduler.Loop.
type WallClock struct{ ports.Scheduler }

func (c WallClock) Advance(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result is the outcome of a replay. Engine and Surface stay usable.
type Result struct {
	Engine      *sectionkit.Engine
	Surface     *headless.Surface
	Frames      []headless.Frame
	Impressions []domain.ImpressionEvent
	// Completions counts mutation completions; it equals the number of
	// mutation steps once the run settled.
	Completions int
	Final       domain.SnapshotView
}

// Runner replays scenarios against a headless surface.
type Runner struct {
	logger  *slog.Logger
	hooks   domain.Hooks
	store   ports.ImpressionStore
	clock   Clock
	onStep  func(index int, step Step)
	onFrame func(headless.Frame)
	onReady func(*sectionkit.Engine, *headless.Surface)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger handed to the engine and the surface.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithHooks adds engine hooks, e.g. observability.Metrics.Hooks().
func WithHooks(hooks domain.Hooks) RunnerOption {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithImpressionStore replaces the in-memory impression record.
func WithImpressionStore(store ports.ImpressionStore) RunnerOption {
	return func(r *Runner) {
		r.store = store
	}
}

// WithClock sets the clock. The default is a fresh ManualClock.
func WithClock(clock Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = clock
	}
}

// OnStep is called before each step runs.
func OnStep(fn func(index int, step Step)) RunnerOption {
	return func(r *Runner) {
		r.onStep = fn
	}
}

// OnFrame is called for every snapshot the surface applies.
func OnFrame(fn func(headless.Frame)) RunnerOption {
	return func(r *Runner) {
		r.onFrame = fn
	}
}

// OnReady is called once the engine is attached, before the first step.
func OnReady(fn func(*sectionkit.Engine, *headless.Surface)) RunnerOption {
	return func(r *Runner) {
		r.onReady = fn
	}
}

// NewRunner creates a runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type run struct {
	ctx         context.Context
	engine      *sectionkit.Engine
	surface     *headless.Surface
	clock       Clock
	completions atomic.Int64
}

func (r *run) completion() func() {
	return func() { r.completions.Add(1) }
}

func (r *run) build(specs []SectionSpec) []domain.Section {
	out := make([]domain.Section, len(specs))
	for i, s := range specs {
		out[i] = s.Build()
	}
	return out
}

// Run replays sc and waits until the engine has drained its queue.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	coalesce, reload, axis, err := sc.Engine.Options()
	if err != nil {
		return nil, err
	}
	if coalesce == 0 {
		coalesce = sectionkit.DefaultCoalesceInterval
	}
	clock := r.clock
	if clock == nil {
		clock = NewManualClock()
	}

	surfaceOpts := []headless.Option{
		headless.WithAxis(axis),
		headless.WithLogger(r.logger),
		headless.WithCapabilities(ports.SurfaceCapabilities{
			Reconfigure:       sc.Viewport.Reconfigure,
			EnvironmentLayout: sc.Viewport.Layout,
		}),
	}
	if sc.Viewport.Width > 0 && sc.Viewport.Height > 0 {
		surfaceOpts = append(surfaceOpts, headless.WithContainerSize(domain.Size{Width: sc.Viewport.Width, Height: sc.Viewport.Height}))
	}
	if sc.Viewport.Animation != "" {
		d, _ := time.ParseDuration(sc.Viewport.Animation)
		surfaceOpts = append(surfaceOpts, headless.WithAnimation(d, clock))
	}
	surface := headless.New(surfaceOpts...)

	var (
		mu          sync.Mutex
		impressions []domain.ImpressionEvent
	)
	record := domain.Hooks{OnImpression: func(e *domain.ImpressionEvent) {
		mu.Lock()
		impressions = append(impressions, *e)
		mu.Unlock()
	}}

	engineOpts := []sectionkit.Option{
		sectionkit.WithLogger(r.logger),
		sectionkit.WithScheduler(clock),
		sectionkit.WithCoalesceInterval(coalesce),
		sectionkit.WithReloadStrategy(reload),
		sectionkit.WithScrollAxis(axis),
		sectionkit.WithHooks(observability.Chain(record, r.hooks)),
	}
	if sc.Engine.Name != "" {
		engineOpts = append(engineOpts, sectionkit.WithName(sc.Engine.Name))
	}
	if r.store != nil {
		engineOpts = append(engineOpts, sectionkit.WithImpressionStore(r.store))
	}
	engine, err := sectionkit.New(surface, engineOpts...)
	if err != nil {
		return nil, err
	}
	surface.Attach(engine)
	if r.onFrame != nil {
		surface.Subscribe(r.onFrame)
	}
	if r.onReady != nil {
		r.onReady(engine, surface)
	}

	state := &run{ctx: ctx, engine: engine, surface: surface, clock: clock}
	r.logger.Info("Replaying scenario", "name", sc.Name, "steps", len(sc.Steps), "list", engine.ListID())
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if step.action == nil {
			return nil, fmt.Errorf("step %d (%s): %w: scenario was not compiled", i+1, step.Op, domain.ErrInvalidScenario)
		}
		if r.onStep != nil {
			r.onStep(i, step)
		}
		r.logger.Debug("Running step", "index", i+1, "op", step.Op, "animate", step.Animate)
		if err := step.action(state, step.Animate); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}

	for engine.Busy() {
		if err := clock.Advance(ctx, coalesce); err != nil {
			return nil, err
		}
	}

	mu.Lock()
	defer mu.Unlock()
	return &Result{
		Engine:      engine,
		Surface:     surface,
		Frames:      surface.Frames(),
		Impressions: impressions,
		Completions: int(state.completions.Load()),
		Final:       engine.Snapshot().View(),
	}, nil
}
