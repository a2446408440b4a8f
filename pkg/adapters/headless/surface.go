package headless

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/sectionkit/internal/logging"
	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/ports"
)

// DefaultExtent is the item length along the scroll axis used when no
// Sizer is attached or a section reports an empty size.
const DefaultExtent = 44

// Sizer answers item size queries. *sectionkit.Engine satisfies it.
type Sizer interface {
	SizeFor(path domain.IndexPath) domain.Size
}

// Frame is one Apply call as the surface saw it.
type Frame struct {
	Seq       int                 `json:"seq"`
	Time      time.Time           `json:"time"`
	Mode      domain.ApplyMode    `json:"-"`
	ModeName  string              `json:"mode"`
	Changeset *domain.Changeset   `json:"changeset"`
	Snapshot  domain.SnapshotView `json:"snapshot"`
}

// Surface is a RenderingSurface without pixels. It keeps the displayed
// snapshot, records a changeset per Apply, lays items out in a single
// column (or row) and reports visibility for a scroll offset.
type Surface struct {
	mu        sync.Mutex
	displayed *domain.Snapshot
	frames    []Frame
	listeners []func(Frame)

	caps      ports.SurfaceCapabilities
	size      domain.Size
	axis      domain.Axis
	offset    float64
	sizer     Sizer
	animation time.Duration
	scheduler ports.Scheduler
	logger    *slog.Logger
}

var (
	_ ports.RenderingSurface   = (*Surface)(nil)
	_ ports.VisibilityReporter = (*Surface)(nil)
	_ ports.CapabilityReporter = (*Surface)(nil)
)

// Option configures a Surface.
type Option func(*Surface)

// WithContainerSize sets the viewport size.
func WithContainerSize(size domain.Size) Option {
	return func(s *Surface) {
		s.size = size
	}
}

// WithAxis sets the scroll axis.
func WithAxis(axis domain.Axis) Option {
	return func(s *Surface) {
		s.axis = axis
	}
}

// WithCapabilities sets what the surface reports to the engine.
func WithCapabilities(caps ports.SurfaceCapabilities) Option {
	return func(s *Surface) {
		s.caps = caps
	}
}

// WithAnimation delays completion of animated applies by d on sched,
// simulating an animation. Other modes complete synchronously.
func WithAnimation(d time.Duration, sched ports.Scheduler) Option {
	return func(s *Surface) {
		s.animation = d
		s.scheduler = sched
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surface) {
		s.logger = logger
	}
}

// New creates an empty surface.
func New(opts ...Option) *Surface {
	s := &Surface{
		displayed: domain.NewSnapshot(),
		size:      domain.Size{Width: 320, Height: 640},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach sets the Sizer used for layout. Call it once the engine exists.
func (s *Surface) Attach(sizer Sizer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sizer = sizer
}

// Subscribe registers fn to be called after every Apply.
func (s *Surface) Subscribe(fn func(Frame)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Apply records the transition to snapshot and makes it the displayed one.
func (s *Surface) Apply(snapshot *domain.Snapshot, mode domain.ApplyMode, completion func()) {
	s.mu.Lock()
	frame := Frame{
		Seq:       len(s.frames) + 1,
		Time:      time.Now(),
		Mode:      mode,
		ModeName:  mode.String(),
		Changeset: domain.Diff(s.displayed, snapshot),
		Snapshot:  snapshot.View(),
	}
	s.displayed = snapshot
	s.frames = append(s.frames, frame)
	listeners := slices.Clone(s.listeners)
	animation, sched := s.animation, s.scheduler
	s.mu.Unlock()

	s.logger.Debug("Applied snapshot", "seq", frame.Seq, "mode", frame.ModeName,
		"sections", snapshot.NumberOfSections(), "items", snapshot.TotalItems())
	for _, fn := range listeners {
		fn(frame)
	}

	if mode == domain.ApplyAnimated && animation > 0 && sched != nil {
		sched.AfterFunc(animation, completion)
		return
	}
	completion()
}

// Displayed returns the snapshot currently shown.
func (s *Surface) Displayed() *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed
}

// Frames returns every recorded Apply.
func (s *Surface) Frames() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.frames...)
}

// Last returns the latest frame.
func (s *Surface) Last() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

func (s *Surface) Capabilities() ports.SurfaceCapabilities {
	return s.caps
}

func (s *Surface) ContainerSize() domain.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// ScrollTo moves the viewport along the scroll axis. Offsets are clamped to
// the content length.
func (s *Surface) ScrollTo(offset float64) {
	length := s.contentLength()
	s.mu.Lock()
	defer s.mu.Unlock()
	viewport := s.size.Height
	if s.axis == domain.Horizontal {
		viewport = s.size.Width
	}
	s.offset = min(max(offset, 0), max(length-viewport, 0))
}

// Offset returns the current scroll offset.
func (s *Surface) Offset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

func (s *Surface) VisibleBounds() domain.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.axis == domain.Horizontal {
		return domain.NewRect(s.offset, 0, s.size.Width, s.size.Height)
	}
	return domain.NewRect(0, s.offset, s.size.Width, s.size.Height)
}

// VisibleItems returns the frames of items overlapping the viewport.
func (s *Surface) VisibleItems() []domain.VisibleItem {
	bounds := s.VisibleBounds()
	var out []domain.VisibleItem
	for _, item := range s.Layout() {
		if overlap := item.Frame.Intersection(bounds); overlap.Size.Width > 0 && overlap.Size.Height > 0 {
			out = append(out, item)
		}
	}
	return out
}

func (s *Surface) VisibleIndexPaths() []domain.IndexPath {
	visible := s.VisibleItems()
	paths := make([]domain.IndexPath, len(visible))
	for i, v := range visible {
		paths[i] = v.Path
	}
	return paths
}

// Layout stacks every displayed item along the scroll axis.
func (s *Surface) Layout() []domain.VisibleItem {
	s.mu.Lock()
	snap, sizer, axis, container := s.displayed, s.sizer, s.axis, s.size
	s.mu.Unlock()

	var out []domain.VisibleItem
	var pos float64
	for si, sec := range snap.SectionKeys() {
		for ii := range snap.NumberOfItems(sec) {
			path := domain.IndexPath{Section: si, Item: ii}
			var size domain.Size
			if sizer != nil {
				size = sizer.SizeFor(path)
			}
			var frame domain.Rect
			if axis == domain.Horizontal {
				w := size.Width
				if w <= 0 {
					w = DefaultExtent
				}
				frame = domain.NewRect(pos, 0, w, container.Height)
				pos += w
			} else {
				h := size.Height
				if h <= 0 {
					h = DefaultExtent
				}
				frame = domain.NewRect(0, pos, container.Width, h)
				pos += h
			}
			out = append(out, domain.VisibleItem{Path: path, Frame: frame})
		}
	}
	return out
}

func (s *Surface) contentLength() float64 {
	items := s.Layout()
	if len(items) == 0 {
		return 0
	}
	last := items[len(items)-1].Frame
	s.mu.Lock()
	axis := s.axis
	s.mu.Unlock()
	if axis == domain.Horizontal {
		return last.MaxX()
	}
	return last.MaxY()
}
