package runtime

import (
	"slices"

	"github.com/aretw0/sectionkit/pkg/domain"
)

// Snapshot returns the snapshot last handed to the surface.
func (e *Engine) Snapshot() *domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// NumberOfSections returns the number of registered sections.
func (e *Engine) NumberOfSections() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Len()
}

// NumberOfItems returns the item count of the section at index.
func (e *Engine) NumberOfItems(section int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	en, ok := e.registry.at(section)
	if !ok {
		return 0
	}
	return len(en.items)
}

// Sections returns the registered sections in display order.
func (e *Engine) Sections() []domain.Section {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Sections()
}

// SectionAt returns the section at a display position.
func (e *Engine) SectionAt(index int) (domain.Section, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.SectionAt(index)
}

// IndexOf returns the display position of a section.
func (e *Engine) IndexOf(id string) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.IndexOf(id)
}

// SectionFor resolves the section owning a composite item key.
func (e *Engine) SectionFor(itemKey string) (domain.Section, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	en, ok := e.registry.sectionFor(e.snapshot, itemKey)
	if !ok {
		return nil, false
	}
	return en.section, true
}

// ItemsOf returns the reconciled items of a section.
func (e *Engine) ItemsOf(id string) ([]domain.Item, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	en, ok := e.registry.get(id)
	if !ok {
		return nil, false
	}
	return slices.Clone(en.items), true
}

// CapabilitiesOf returns the capability set recorded for a section.
func (e *Engine) CapabilitiesOf(id string) (domain.CapabilitySet, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	en, ok := e.registry.get(id)
	if !ok {
		return 0, false
	}
	return en.caps, true
}

// ItemAt returns the item at path.
func (e *Engine) ItemAt(path domain.IndexPath) (domain.Item, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, item, ok := e.registry.itemAt(path)
	return item, ok
}

// ItemIdentifier returns the composite key at path.
func (e *Engine) ItemIdentifier(path domain.IndexPath) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot.ItemKeyAt(path)
}

type resolved struct {
	section domain.Section
	caps    domain.CapabilitySet
	id      string
	item    domain.Item
	key     string
}

func (e *Engine) resolve(path domain.IndexPath) (resolved, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	en, item, ok := e.registry.itemAt(path)
	if !ok {
		return resolved{}, false
	}
	return resolved{section: en.section, caps: en.caps, id: en.id(), item: item, key: en.key(item.ID())}, true
}

// CellFor asks the owning section for the cell content at path. A section
// that returns nil or panics yields a Placeholder, as does an unknown path.
func (e *Engine) CellFor(path domain.IndexPath) (cell any) {
	r, ok := e.resolve(path)
	if !ok {
		return domain.Placeholder{Key: path.String()}
	}
	placeholder := domain.Placeholder{Key: r.key}
	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("Section failed to build cell", "section", r.id, "item", r.key, "panic", p)
			cell = placeholder
		}
	}()
	if c := r.section.Cell(r.item, path.Item); c != nil {
		return c
	}
	return placeholder
}

// SupplementaryFor asks the section at path.Section for a supplementary
// view of kind; path.Item is passed through as the view index.
func (e *Engine) SupplementaryFor(kind string, path domain.IndexPath) (view any) {
	e.mu.RLock()
	en, ok := e.registry.at(path.Section)
	e.mu.RUnlock()
	if !ok {
		return domain.Placeholder{Key: kind}
	}
	placeholder := domain.Placeholder{Key: domain.ItemKey(en.id(), kind)}
	if !en.caps.Has(domain.CapSupplementary) {
		return placeholder
	}
	s := en.section.(domain.Supplementary)
	if !slices.Contains(s.SupplementaryKinds(), kind) {
		return placeholder
	}
	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("Section failed to build supplementary view", "section", en.id(), "kind", kind, "panic", p)
			view = placeholder
		}
	}()
	if v := s.Supplementary(kind, path.Item); v != nil {
		return v
	}
	return placeholder
}

// SizeFor returns the size the owning section reports for path.
func (e *Engine) SizeFor(path domain.IndexPath) domain.Size {
	r, ok := e.resolve(path)
	if !ok {
		return domain.Size{}
	}
	return r.section.Size(e.Environment(), path.Item)
}

// StyleFor returns the layout parameters of the section at index.
func (e *Engine) StyleFor(section int) (domain.Style, bool) {
	en, ok := e.entryAt(section)
	if !ok || !en.caps.Has(domain.CapStyle) {
		return domain.Style{}, false
	}
	return en.section.(domain.Styled).Style(), true
}

// LayoutFor returns the environment driven layout of the section at index.
// It is only available when the surface negotiated environment layout.
func (e *Engine) LayoutFor(section int) (any, bool) {
	if !e.surfaceCaps.EnvironmentLayout {
		return nil, false
	}
	en, ok := e.entryAt(section)
	if !ok || !en.caps.Has(domain.CapLayout) {
		return nil, false
	}
	return en.section.(domain.LayoutProvider).Layout(e.Environment()), true
}

// ContainerSize returns the surface's container size, falling back to the
// configured environment while the surface reports none.
func (e *Engine) ContainerSize() domain.Size {
	if size := e.surface.ContainerSize(); size.Width > 0 || size.Height > 0 {
		return size
	}
	return e.env.ContainerSize
}

// Environment describes the container sections are laid out in.
func (e *Engine) Environment() domain.Environment {
	return domain.Environment{ContainerSize: e.ContainerSize(), Axis: e.env.Axis}
}

func (e *Engine) entryAt(index int) (*entry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.at(index)
}
