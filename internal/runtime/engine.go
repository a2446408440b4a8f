package runtime

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/sectionkit/internal/logging"
	"github.com/aretw0/sectionkit/pkg/adapters/memory"
	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/ports"
	"github.com/aretw0/sectionkit/pkg/scheduler"
	"github.com/google/uuid"
)

// Engine owns the section registry and the current snapshot, and drives a
// RenderingSurface through a Throttler.
//
// State is guarded by mu. The lock is never held while section, surface or
// hook callbacks run, so callbacks may call back into the engine.
type Engine struct {
	mu       sync.RWMutex
	registry *Registry
	snapshot *domain.Snapshot

	surface     ports.RenderingSurface
	surfaceCaps ports.SurfaceCapabilities
	throttler   *Throttler
	impressions ports.ImpressionStore

	scheduler ports.Scheduler
	interval  time.Duration
	strategy  domain.ReloadStrategy
	env       domain.Environment
	hooks     domain.Hooks
	logger    *slog.Logger
	listID    string
}

// EngineOption configures the runtime engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.Hooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithScheduler sets where buffered operations are continued.
func WithScheduler(s ports.Scheduler) EngineOption {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithCoalesceInterval sets the minimum spacing between buffered operations.
func WithCoalesceInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d >= 0 {
			e.interval = d
		}
	}
}

// WithImpressionStore replaces the in-memory impression record.
func WithImpressionStore(store ports.ImpressionStore) EngineOption {
	return func(e *Engine) {
		if store != nil {
			e.impressions = store
		}
	}
}

// WithReloadStrategy selects diffing or full refresh presentation.
func WithReloadStrategy(s domain.ReloadStrategy) EngineOption {
	return func(e *Engine) {
		e.strategy = s
	}
}

// WithEnvironment sets the scroll axis and the container size used when the
// surface reports an empty one.
func WithEnvironment(env domain.Environment) EngineOption {
	return func(e *Engine) {
		e.env = env
	}
}

// WithScrollAxis sets only the scroll axis.
func WithScrollAxis(axis domain.Axis) EngineOption {
	return func(e *Engine) {
		e.env.Axis = axis
	}
}

// WithListID sets the namespace of impression records. Engines sharing an
// external store and a list ID share impressions.
func WithListID(id string) EngineOption {
	return func(e *Engine) {
		if id != "" {
			e.listID = id
		}
	}
}

// NewEngine creates an engine bound to surface. Surface capabilities are
// negotiated here, once.
func NewEngine(surface ports.RenderingSurface, opts ...EngineOption) *Engine {
	e := &Engine{
		registry:    NewRegistry(),
		snapshot:    domain.NewSnapshot(),
		surface:     surface,
		impressions: memory.NewImpressionStore(),
		scheduler:   scheduler.NewTimer(),
		interval:    DefaultCoalesceInterval,
		logger:      logging.NewNop(),
		listID:      uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if r, ok := surface.(ports.CapabilityReporter); ok {
		e.surfaceCaps = r.Capabilities()
	}
	e.logger = e.logger.With("component", "engine", "list", e.listID)
	e.throttler = NewThrottler(e.scheduler, e.interval,
		WithThrottlerLogger(e.logger.With("component", "throttler")))
	return e
}

// ListID returns the impression namespace of this engine.
func (e *Engine) ListID() string {
	return e.listID
}

// SurfaceCapabilities returns what was negotiated at construction.
func (e *Engine) SurfaceCapabilities() ports.SurfaceCapabilities {
	return e.surfaceCaps
}

// Pending returns the number of buffered operations.
func (e *Engine) Pending() int {
	return e.throttler.Pending()
}

// Busy reports whether an operation or the cooldown after it is in progress.
func (e *Engine) Busy() bool {
	return e.throttler.Busy()
}

// plan is what one mutation did to the registry, computed under the lock and
// acted upon after it is released.
type plan struct {
	changed bool
	reload  bool
	added   []*entry
	removed []*entry
	pushes  []itemsPush
	reason  error
	subject string
}

type itemsPush struct {
	setter domain.ItemsSetter
	items  []domain.Item
}

func ignored(reason error, subject string) plan {
	return plan{reason: reason, subject: subject}
}

// submit queues a mutation. mutate runs under the write lock when the
// throttler gets to it and must leave registry and snapshot consistent.
func (e *Engine) submit(op domain.Op, animate bool, completion func(), mutate func() plan) {
	requested := e.modeFor(plan{reload: op == domain.OpReloadSections || op == domain.OpReset}, animate)
	e.emitOperation(e.hooks.OnOperationQueued, domain.EventOperationQueued, op, requested, false, nil)

	e.throttler.Submit(func(done func()) {
		p, snap := e.mutate(mutate)
		if !p.changed {
			e.logger.Debug("Operation ignored", "op", op, "section", p.subject, "reason", p.reason)
		}
		e.propagateLifecycle(p)

		mode := e.modeFor(p, animate)
		var once sync.Once
		finish := func() {
			once.Do(func() {
				e.emitOperation(e.hooks.OnOperationApplied, domain.EventOperationApplied, op, mode, p.changed, snap)
				if completion != nil {
					completion()
				}
				done()
			})
		}
		e.surface.Apply(snap, mode, finish)
	})
}

func (e *Engine) mutate(fn func() plan) (plan, *domain.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := fn()
	if !p.changed {
		// Hand the surface an unmarked copy so stale refresh marks are not
		// replayed.
		e.commit(e.snapshot.Edit(func(*domain.Editor) {}))
	}
	return p, e.snapshot
}

func (e *Engine) modeFor(p plan, animate bool) domain.ApplyMode {
	if p.reload || e.strategy == domain.ReloadAlways {
		return domain.ApplyReload
	}
	return domain.ModeFor(animate)
}

// commit installs next and synchronizes the registry. Entries the snapshot
// dropped are detached and returned in their previous display order.
func (e *Engine) commit(next *domain.Snapshot) []*entry {
	e.snapshot = next
	dropped, collided := e.registry.sync(next)
	for _, k := range collided {
		e.logger.Debug("Item ignored", "key", k, "reason", domain.ErrKeyCollision)
	}
	for _, d := range dropped {
		d.detach()
	}
	return dropped
}

// attach gives newly registered entries a live context.
func (e *Engine) attach(entries []*entry) {
	for _, en := range entries {
		en.ctx = newSectionContext(e, en.id())
	}
}

func (e *Engine) pushItems(entries ...*entry) []itemsPush {
	var out []itemsPush
	for _, en := range entries {
		if !en.caps.Has(domain.CapItemsSetter) {
			continue
		}
		out = append(out, itemsPush{
			setter: en.section.(domain.ItemsSetter),
			items:  slices.Clone(en.items),
		})
	}
	return out
}

// propagateLifecycle notifies removed sections first so a section that is
// removed and re-added in one operation ends up active.
func (e *Engine) propagateLifecycle(p plan) {
	for _, en := range p.removed {
		if l, ok := en.section.(domain.Lifecycle); ok && en.caps.Has(domain.CapLifecycle) {
			l.DidRemove()
		}
	}
	for _, en := range p.added {
		if l, ok := en.section.(domain.Lifecycle); ok && en.caps.Has(domain.CapLifecycle) {
			l.DidAdd(en.ctx)
		}
	}
	for _, push := range p.pushes {
		push.setter.SetItems(push.items)
	}
}

func (e *Engine) emitOperation(hook func(*domain.OperationEvent), typ domain.EventType, op domain.Op, mode domain.ApplyMode, changed bool, snap *domain.Snapshot) {
	if hook == nil {
		return
	}
	ev := &domain.OperationEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, ListID: e.listID},
		Op:        op,
		Mode:      mode,
		Pending:   e.throttler.Pending(),
		Changed:   changed,
	}
	if snap != nil {
		ev.Sections = snap.NumberOfSections()
		ev.Items = snap.TotalItems()
	}
	hook(ev)
}
