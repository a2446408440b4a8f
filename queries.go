package sectionkit

import (
	"context"

	"github.com/aretw0/sectionkit/pkg/domain"
)

// Snapshot returns the snapshot last handed to the surface.
func (e *Engine) Snapshot() *domain.Snapshot {
	return e.runtime.Snapshot()
}

// NumberOfSections returns the number of active sections.
func (e *Engine) NumberOfSections() int {
	return e.runtime.NumberOfSections()
}

// NumberOfItems returns the item count of the section at index.
func (e *Engine) NumberOfItems(section int) int {
	return e.runtime.NumberOfItems(section)
}

// Sections returns the active sections in display order.
func (e *Engine) Sections() []domain.Section {
	return e.runtime.Sections()
}

// SectionAt returns the section at a display position.
func (e *Engine) SectionAt(index int) (domain.Section, bool) {
	return e.runtime.SectionAt(index)
}

// IndexOf returns the display position of a section.
func (e *Engine) IndexOf(id string) (int, bool) {
	return e.runtime.IndexOf(id)
}

// SectionFor resolves the section owning a composite item key.
func (e *Engine) SectionFor(itemKey string) (domain.Section, bool) {
	return e.runtime.SectionFor(itemKey)
}

// ItemsOf returns the reconciled items of a section.
func (e *Engine) ItemsOf(id string) ([]domain.Item, bool) {
	return e.runtime.ItemsOf(id)
}

// CapabilitiesOf returns the optional interfaces a section implements.
func (e *Engine) CapabilitiesOf(id string) (domain.CapabilitySet, bool) {
	return e.runtime.CapabilitiesOf(id)
}

// ItemAt returns the item at path.
func (e *Engine) ItemAt(path domain.IndexPath) (domain.Item, bool) {
	return e.runtime.ItemAt(path)
}

// ItemIdentifier returns the composite key of the item at path.
func (e *Engine) ItemIdentifier(path domain.IndexPath) (string, bool) {
	return e.runtime.ItemIdentifier(path)
}

// CellFor returns the cell content for path, or a domain.Placeholder.
func (e *Engine) CellFor(path domain.IndexPath) any {
	return e.runtime.CellFor(path)
}

// SupplementaryFor returns a header, footer or custom view of the section
// at path.Section, or a domain.Placeholder.
func (e *Engine) SupplementaryFor(kind string, path domain.IndexPath) any {
	return e.runtime.SupplementaryFor(kind, path)
}

// SizeFor returns the item size the owning section reports.
func (e *Engine) SizeFor(path domain.IndexPath) domain.Size {
	return e.runtime.SizeFor(path)
}

// StyleFor returns the insets and spacing of the section at index.
func (e *Engine) StyleFor(section int) (domain.Style, bool) {
	return e.runtime.StyleFor(section)
}

// LayoutFor returns the per-environment layout of the section at index. It
// reports false unless the surface supports environment layout.
func (e *Engine) LayoutFor(section int) (any, bool) {
	return e.runtime.LayoutFor(section)
}

// ContainerSize returns the size of the scrollable container.
func (e *Engine) ContainerSize() domain.Size {
	return e.runtime.ContainerSize()
}

// Environment returns the container size and scroll axis.
func (e *Engine) Environment() domain.Environment {
	return e.runtime.Environment()
}

// DidBecomeActive notifies the sections that currently own a visible item.
func (e *Engine) DidBecomeActive() {
	e.runtime.DidBecomeActive()
}

// DidBecomeDeactive is the counterpart of DidBecomeActive.
func (e *Engine) DidBecomeDeactive() {
	e.runtime.DidBecomeInactive()
}

// ReportVisibility runs an impression pass over the given frames and
// returns the number of first-time impressions.
func (e *Engine) ReportVisibility(ctx context.Context, bounds domain.Rect, visible []domain.VisibleItem) int {
	return e.runtime.ReportVisibility(ctx, bounds, visible)
}

// DidScroll runs an impression pass with frames pulled from the surface, if
// it implements ports.VisibilityReporter.
func (e *Engine) DidScroll(ctx context.Context) int {
	return e.runtime.DidScroll(ctx)
}

// Impressed lists the composite keys already impressed in a section.
func (e *Engine) Impressed(ctx context.Context, section string) ([]string, error) {
	return e.runtime.Impressed(ctx, section)
}

// Prefetch forwards upcoming index paths to the sections owning them.
func (e *Engine) Prefetch(paths []domain.IndexPath) {
	e.runtime.Prefetch(paths)
}

// CancelPrefetch tells sections that index paths are no longer needed.
func (e *Engine) CancelPrefetch(paths []domain.IndexPath) {
	e.runtime.CancelPrefetch(paths)
}
