package section

import (
	"github.com/aretw0/sectionkit/pkg/domain"
)

// Builder configures a Section. It is not safe for concurrent use; Build
// once and share the result.
type Builder[T domain.Item] struct {
	s *Section[T]
}

// New starts a section with an ID and its initial values.
func New[T domain.Item](id string, values ...T) *Builder[T] {
	return &Builder[T]{s: &Section[T]{
		id:           id,
		values:       append([]T(nil), values...),
		supplements:  make(map[string]func(int) any),
		capabilities: domain.Of(domain.CapLifecycle, domain.CapItemsSetter),
	}}
}

// Cell sets the cell constructor. Without one every cell is a placeholder.
func (b *Builder[T]) Cell(fn func(item T, index int) any) *Builder[T] {
	b.s.cell = fn
	return b
}

// Size sets the item size function.
func (b *Builder[T]) Size(fn func(env domain.Environment, index int) domain.Size) *Builder[T] {
	b.s.size = fn
	return b
}

// Fixed returns a size function that ignores the environment.
func Fixed(size domain.Size) func(domain.Environment, int) domain.Size {
	return func(domain.Environment, int) domain.Size { return size }
}

// FullWidth spans the container across the scroll axis with a fixed extent
// along it.
func FullWidth(extent float64) func(domain.Environment, int) domain.Size {
	return func(env domain.Environment, _ int) domain.Size {
		if env.Axis == domain.Horizontal {
			return domain.Size{Width: extent, Height: env.ContainerSize.Height}
		}
		return domain.Size{Width: env.ContainerSize.Width, Height: extent}
	}
}

// Header sets the header view constructor.
func (b *Builder[T]) Header(fn func(index int) any) *Builder[T] {
	return b.Supplementary(domain.KindHeader, fn)
}

// Footer sets the footer view constructor.
func (b *Builder[T]) Footer(fn func(index int) any) *Builder[T] {
	return b.Supplementary(domain.KindFooter, fn)
}

// Supplementary registers a view constructor for a custom kind.
func (b *Builder[T]) Supplementary(kind string, fn func(index int) any) *Builder[T] {
	if _, ok := b.s.supplements[kind]; !ok {
		b.s.kinds = append(b.s.kinds, kind)
	}
	b.s.supplements[kind] = fn
	b.s.capabilities |= domain.Of(domain.CapSupplementary)
	return b
}

// Prefetch sets the prefetch callback.
func (b *Builder[T]) Prefetch(fn func(indices []int)) *Builder[T] {
	b.s.prefetch = fn
	b.s.capabilities |= domain.Of(domain.CapPrefetch)
	return b
}

// CancelPrefetch sets the prefetch cancellation callback.
func (b *Builder[T]) CancelPrefetch(fn func(indices []int)) *Builder[T] {
	b.s.cancelPrefetch = fn
	b.s.capabilities |= domain.Of(domain.CapPrefetch)
	return b
}

// OnImpression sets the impression callback.
func (b *Builder[T]) OnImpression(fn func(item T, index int)) *Builder[T] {
	b.s.impressed = fn
	b.s.capabilities |= domain.Of(domain.CapImpressions)
	return b
}

// Layout sets the environment driven layout description.
func (b *Builder[T]) Layout(fn func(env domain.Environment) any) *Builder[T] {
	b.s.layout = fn
	b.s.capabilities |= domain.Of(domain.CapLayout)
	return b
}

// Style sets insets and spacing.
func (b *Builder[T]) Style(style domain.Style) *Builder[T] {
	b.s.style = style
	b.s.capabilities |= domain.Of(domain.CapStyle)
	return b
}

// OnAdd runs after the section is registered.
func (b *Builder[T]) OnAdd(fn func(ctx domain.SectionContext)) *Builder[T] {
	b.s.onAdd = fn
	return b
}

// OnActive runs when the list becomes active while the section is visible.
func (b *Builder[T]) OnActive(fn func()) *Builder[T] {
	b.s.onActive = fn
	return b
}

// OnInactive is the counterpart of OnActive.
func (b *Builder[T]) OnInactive(fn func()) *Builder[T] {
	b.s.onInactive = fn
	return b
}

// OnRemove runs after the section is unregistered.
func (b *Builder[T]) OnRemove(fn func()) *Builder[T] {
	b.s.onRemove = fn
	return b
}

// Build returns the configured section.
func (b *Builder[T]) Build() *Section[T] {
	return b.s
}
