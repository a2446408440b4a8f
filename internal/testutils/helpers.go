package testutils

import (
	"sync"

	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/ports"
)

// Applied is one Apply call recorded by Surface.
type Applied struct {
	Snapshot *domain.Snapshot
	Mode     domain.ApplyMode
}

// Surface is a RenderingSurface for tests. It records every Apply and calls
// completion synchronously unless Hold is set, in which case completions are
// queued until Release.
type Surface struct {
	mu          sync.Mutex
	applied     []Applied
	held        []func()
	Hold        bool
	Visible     []domain.IndexPath
	Size        domain.Size
	Caps        ports.SurfaceCapabilities
	Bounds      domain.Rect
	Frames      []domain.VisibleItem
	OnApply     func(Applied)
	reportsCaps bool
}

var (
	_ ports.RenderingSurface   = (*Surface)(nil)
	_ ports.VisibilityReporter = (*Surface)(nil)
	_ ports.CapabilityReporter = (*Surface)(nil)
)

// NewSurface returns a surface that completes synchronously.
func NewSurface() *Surface {
	return &Surface{Size: domain.Size{Width: 320, Height: 640}}
}

// NewCapableSurface returns a surface reporting caps.
func NewCapableSurface(caps ports.SurfaceCapabilities) *Surface {
	s := NewSurface()
	s.Caps = caps
	s.reportsCaps = true
	return s
}

func (s *Surface) Apply(snapshot *domain.Snapshot, mode domain.ApplyMode, completion func()) {
	a := Applied{Snapshot: snapshot, Mode: mode}
	s.mu.Lock()
	s.applied = append(s.applied, a)
	hold := s.Hold
	if hold {
		s.held = append(s.held, completion)
	}
	hook := s.OnApply
	s.mu.Unlock()

	if hook != nil {
		hook(a)
	}
	if !hold {
		completion()
	}
}

// Release runs the held completions in order and stops holding.
func (s *Surface) Release() {
	s.mu.Lock()
	held := s.held
	s.held = nil
	s.Hold = false
	s.mu.Unlock()
	for _, fn := range held {
		fn()
	}
}

// Applied returns every recorded Apply call.
func (s *Surface) Applied() []Applied {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Applied, len(s.applied))
	copy(out, s.applied)
	return out
}

// Last returns the most recent Apply call.
func (s *Surface) Last() Applied {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.applied) == 0 {
		return Applied{}
	}
	return s.applied[len(s.applied)-1]
}

func (s *Surface) VisibleIndexPaths() []domain.IndexPath { return s.Visible }
func (s *Surface) ContainerSize() domain.Size { return s.Size }
func (s *Surface) VisibleBounds() domain.Rect { return s.Bounds }
func (s *Surface) VisibleItems() []domain.VisibleItem { return s.Frames }

// Capabilities is only honoured for surfaces built by NewCapableSurface;
// others report the baseline.
func (s *Surface) Capabilities() ports.SurfaceCapabilities {
	if !s.reportsCaps {
		return ports.SurfaceCapabilities{}
	}
	return s.Caps
}

// Section is a fully capable section that records every callback.
type Section struct {
	mu sync.Mutex

	SectionID string
	Values    []domain.Item
	Kinds     []string

	Ctx         domain.SectionContext
	Events      []string
	Prefetched  [][]int
	Cancelled   [][]int
	Impressions []string
	Pushed      [][]string
}

var (
	_ domain.Section            = (*Section)(nil)
	_ domain.Supplementary      = (*Section)(nil)
	_ domain.Prefetcher         = (*Section)(nil)
	_ domain.ImpressionReporter = (*Section)(nil)
	_ domain.Lifecycle          = (*Section)(nil)
	_ domain.ItemsSetter        = (*Section)(nil)
	_ domain.Styled             = (*Section)(nil)
	_ domain.LayoutProvider     = (*Section)(nil)
)

// NewSection builds a recording section with string items.
func NewSection(id string, items ...string) *Section {
	return &Section{SectionID: id, Values: domain.StringItems(items...), Kinds: []string{domain.KindHeader}}
}

func (s *Section) ID() string { return s.SectionID }

func (s *Section) Items() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Item(nil), s.Values...)
}

func (s *Section) Cell(item domain.Item, index int) any {
	return "cell:" + item.ID()
}

func (s *Section) Size(env domain.Environment, index int) domain.Size {
	return domain.Size{Width: env.ContainerSize.Width, Height: 44}
}

func (s *Section) SupplementaryKinds() []string { return s.Kinds }

func (s *Section) Supplementary(kind string, index int) any {
	return kind + ":" + s.SectionID
}

func (s *Section) Style() domain.Style {
	return domain.Style{LineSpacing: 8}
}

func (s *Section) Layout(env domain.Environment) any {
	return env.Axis.String()
}

func (s *Section) Prefetch(indices []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Prefetched = append(s.Prefetched, indices)
}

func (s *Section) CancelPrefetch(indices []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cancelled = append(s.Cancelled, indices)
}

func (s *Section) Impressed(item domain.Item, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Impressions = append(s.Impressions, item.ID())
}

func (s *Section) DidAdd(ctx domain.SectionContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ctx = ctx
	s.Events = append(s.Events, "add")
}

func (s *Section) DidBecomeActive() { s.record("active") }
func (s *Section) DidBecomeInactive() { s.record("inactive") }

func (s *Section) DidRemove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ctx = nil
	s.Events = append(s.Events, "remove")
}

func (s *Section) SetItems(items []domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Values = append([]domain.Item(nil), items...)
	s.Pushed = append(s.Pushed, domain.ItemIDs(items))
}

// Context returns the context received in the last DidAdd, nil once removed.
func (s *Section) Context() domain.SectionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Ctx
}

// Log returns the recorded lifecycle events.
func (s *Section) Log() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Events...)
}

func (s *Section) record(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
}

// Plain is a section with no optional capabilities.
type Plain struct {
	SectionID string
	Values    []domain.Item
}

// NewPlain builds a capability-free section with string items.
func NewPlain(id string, items ...string) Plain {
	return Plain{SectionID: id, Values: domain.StringItems(items...)}
}

func (p Plain) ID() string { return p.SectionID }
func (p Plain) Items() []domain.Item { return p.Values }
func (p Plain) Cell(domain.Item, int) any { return nil }
func (p Plain) Size(domain.Environment, int) domain.Size { return domain.Size{} }

// Keys extracts the section keys and per-section item keys of snap.
func Keys(snap *domain.Snapshot) map[string][]string {
	out := make(map[string][]string)
	for _, sec := range snap.SectionKeys() {
		out[sec] = snap.ItemKeys(sec)
	}
	return out
}
