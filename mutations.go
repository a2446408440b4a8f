package sectionkit

import (
	"context"

	"github.com/aretw0/sectionkit/pkg/domain"
)

// Every mutation is queued through the throttler and applied in submission
// order. References to unknown sections or items are ignored and duplicate
// entries are filtered; completion runs in every case, after the surface
// finished applying the resulting snapshot. completion may be nil.

// AppendSections adds sections at the end of the list.
func (e *Engine) AppendSections(sections []domain.Section, animate bool, completion func()) {
	e.runtime.AppendSections(sections, animate, completion)
}

// ReloadSections replaces every section with sections. The surface is asked
// for a full refresh, which is never animated.
func (e *Engine) ReloadSections(sections []domain.Section, completion func()) {
	e.runtime.ReloadSections(sections, completion)
}

// UpdateSections replaces registered sections and their items, optionally
// forcing refreshes of unchanged items and supplementary views.
func (e *Engine) UpdateSections(updates []domain.SectionUpdate, animate bool, completion func()) {
	e.runtime.UpdateSections(updates, animate, completion)
}

// InsertSections places sections before or after an existing section.
func (e *Engine) InsertSections(sections []domain.Section, anchor domain.Anchor, animate bool, completion func()) {
	e.runtime.InsertSections(sections, anchor, animate, completion)
}

// DeleteSections removes sections by ID.
func (e *Engine) DeleteSections(ids []string, animate bool, completion func()) {
	e.runtime.DeleteSections(ids, animate, completion)
}

// MoveSection moves a section before or after another one.
func (e *Engine) MoveSection(id string, anchor domain.Anchor, animate bool, completion func()) {
	e.runtime.MoveSection(id, anchor, animate, completion)
}

// AppendItems adds items at the end of a section.
func (e *Engine) AppendItems(section string, items []domain.Item, animate bool, completion func()) {
	e.runtime.AppendItems(section, items, animate, completion)
}

// InsertItems places items before or after an item of the same section.
func (e *Engine) InsertItems(section string, items []domain.Item, anchor domain.Anchor, animate bool, completion func()) {
	e.runtime.InsertItems(section, items, anchor, animate, completion)
}

// DeleteItems removes items of a section by ID.
func (e *Engine) DeleteItems(section string, ids []string, animate bool, completion func()) {
	e.runtime.DeleteItems(section, ids, animate, completion)
}

// MoveItem moves an item before or after another item of the same section.
func (e *Engine) MoveItem(section, id string, anchor domain.Anchor, animate bool, completion func()) {
	e.runtime.MoveItem(section, id, anchor, animate, completion)
}

// ReconfigureItems swaps in new values for existing items and refreshes
// their cells in place when the surface supports it.
func (e *Engine) ReconfigureItems(section string, items []domain.Item, animate bool, completion func()) {
	e.runtime.ReconfigureItems(section, items, animate, completion)
}

// ReloadItems swaps in new values for existing items and reloads their cells.
func (e *Engine) ReloadItems(section string, items []domain.Item, animate bool, completion func()) {
	e.runtime.ReloadItems(section, items, animate, completion)
}

// Reset removes every section and forgets every impression.
func (e *Engine) Reset(ctx context.Context, completion func()) {
	e.runtime.Reset(ctx, completion)
}
