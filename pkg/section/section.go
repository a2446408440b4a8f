package section

import (
	"sync"

	"github.com/aretw0/sectionkit/pkg/domain"
)

// Section is a closure-backed domain.Section over values of type T.
// It implements every optional interface and declares the ones its builder
// configured.
type Section[T domain.Item] struct {
	id           string
	capabilities domain.CapabilitySet

	mu     sync.RWMutex
	values []T
	ctx    domain.SectionContext

	cell           func(T, int) any
	size           func(domain.Environment, int) domain.Size
	kinds          []string
	supplements    map[string]func(int) any
	prefetch       func([]int)
	cancelPrefetch func([]int)
	impressed      func(T, int)
	layout         func(domain.Environment) any
	style          domain.Style
	onAdd          func(domain.SectionContext)
	onActive       func()
	onInactive     func()
	onRemove       func()
}

var (
	_ domain.Section            = (*Section[domain.StringItem])(nil)
	_ domain.Supplementary      = (*Section[domain.StringItem])(nil)
	_ domain.Prefetcher         = (*Section[domain.StringItem])(nil)
	_ domain.ImpressionReporter = (*Section[domain.StringItem])(nil)
	_ domain.LayoutProvider     = (*Section[domain.StringItem])(nil)
	_ domain.Styled             = (*Section[domain.StringItem])(nil)
	_ domain.Lifecycle          = (*Section[domain.StringItem])(nil)
	_ domain.ItemsSetter        = (*Section[domain.StringItem])(nil)
	_ domain.CapabilityDeclarer = (*Section[domain.StringItem])(nil)
)

func (s *Section[T]) ID() string { return s.id }

// Capabilities reports the optional behaviour configured on the builder.
func (s *Section[T]) Capabilities() domain.CapabilitySet { return s.capabilities }

func (s *Section[T]) Items() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Item, len(s.values))
	for i, v := range s.values {
		items[i] = v
	}
	return items
}

// Values returns the typed values as last reconciled by the engine.
func (s *Section[T]) Values() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.values...)
}

// SetItems keeps the values in sync with the engine. Items of another type
// are dropped.
func (s *Section[T]) SetItems(items []domain.Item) {
	values := make([]T, 0, len(items))
	for _, it := range items {
		if v, ok := it.(T); ok {
			values = append(values, v)
		}
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
}

func (s *Section[T]) Cell(item domain.Item, index int) any {
	v, ok := item.(T)
	if !ok || s.cell == nil {
		return nil
	}
	return s.cell(v, index)
}

func (s *Section[T]) Size(env domain.Environment, index int) domain.Size {
	if s.size == nil {
		return domain.Size{}
	}
	return s.size(env, index)
}

func (s *Section[T]) SupplementaryKinds() []string {
	return append([]string(nil), s.kinds...)
}

func (s *Section[T]) Supplementary(kind string, index int) any {
	fn, ok := s.supplements[kind]
	if !ok || fn == nil {
		return nil
	}
	return fn(index)
}

func (s *Section[T]) Prefetch(indices []int) {
	if s.prefetch != nil {
		s.prefetch(indices)
	}
}

func (s *Section[T]) CancelPrefetch(indices []int) {
	if s.cancelPrefetch != nil {
		s.cancelPrefetch(indices)
	}
}

func (s *Section[T]) Impressed(item domain.Item, index int) {
	if v, ok := item.(T); ok && s.impressed != nil {
		s.impressed(v, index)
	}
}

func (s *Section[T]) Layout(env domain.Environment) any {
	if s.layout == nil {
		return nil
	}
	return s.layout(env)
}

func (s *Section[T]) Style() domain.Style { return s.style }

func (s *Section[T]) DidAdd(ctx domain.SectionContext) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	if s.onAdd != nil {
		s.onAdd(ctx)
	}
}

func (s *Section[T]) DidBecomeActive() {
	if s.onActive != nil {
		s.onActive()
	}
}

func (s *Section[T]) DidBecomeInactive() {
	if s.onInactive != nil {
		s.onInactive()
	}
}

func (s *Section[T]) DidRemove() {
	s.mu.Lock()
	s.ctx = nil
	s.mu.Unlock()
	if s.onRemove != nil {
		s.onRemove()
	}
}

// Context returns the engine context while the section is registered.
func (s *Section[T]) Context() (domain.SectionContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx, s.ctx != nil
}

// Append queues new values through the engine. Before registration the
// values are added directly.
func (s *Section[T]) Append(values []T, animate bool, completion func()) {
	ctx, ok := s.Context()
	if !ok {
		s.mu.Lock()
		s.values = append(s.values, values...)
		s.mu.Unlock()
		if completion != nil {
			completion()
		}
		return
	}
	ctx.AppendItems(toItems(values), animate, completion)
}

// Delete queues the removal of values by ID.
func (s *Section[T]) Delete(ids []string, animate bool, completion func()) {
	ctx, ok := s.Context()
	if !ok {
		if completion != nil {
			completion()
		}
		return
	}
	ctx.DeleteItems(ids, animate, completion)
}

// Reconfigure queues new values for items that are already shown.
func (s *Section[T]) Reconfigure(values []T, animate bool, completion func()) {
	ctx, ok := s.Context()
	if !ok {
		if completion != nil {
			completion()
		}
		return
	}
	ctx.ReconfigureItems(toItems(values), animate, completion)
}

// Replace swaps every value. While registered the values only change when
// the queued operation runs.
func (s *Section[T]) Replace(values []T, animate bool, completion func()) {
	ctx, ok := s.Context()
	if !ok {
		s.mu.Lock()
		s.values = append([]T(nil), values...)
		s.mu.Unlock()
		if completion != nil {
			completion()
		}
		return
	}
	ctx.ReplaceItems(toItems(values), animate, completion)
}

func toItems[T domain.Item](values []T) []domain.Item {
	items := make([]domain.Item, len(values))
	for i, v := range values {
		items[i] = v
	}
	return items
}
