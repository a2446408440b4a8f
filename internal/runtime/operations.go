package runtime

import (
	"context"

	"github.com/aretw0/sectionkit/pkg/domain"
)

// AppendSections registers new sections at the end of the list. Sections
// whose ID is already registered, or repeated in the input, are skipped.
func (e *Engine) AppendSections(sections []domain.Section, animate bool, completion func()) {
	e.submit(domain.OpAppendSections, animate, completion, func() plan {
		return e.addSections(sections, nil)
	})
}

// InsertSections registers new sections next to an existing one.
func (e *Engine) InsertSections(sections []domain.Section, anchor domain.Anchor, animate bool, completion func()) {
	e.submit(domain.OpInsertSections, animate, completion, func() plan {
		if !e.snapshot.ContainsSection(anchor.ID) {
			return ignored(domain.ErrUnknownAnchor, anchor.ID)
		}
		return e.addSections(sections, &anchor)
	})
}

func (e *Engine) addSections(sections []domain.Section, anchor *domain.Anchor) plan {
	fresh := domain.UniqueSections(sections, e.registry.Contains)
	if len(fresh) == 0 {
		return ignored(domain.ErrNothingToApply, "")
	}

	ids := make([]string, len(fresh))
	adopted := make([]*entry, len(fresh))
	staged := make([][]string, len(fresh))
	for i, s := range fresh {
		ids[i] = s.ID()
		adopted[i] = e.registry.adopt(s)
		staged[i] = adopted[i].stage(domain.UniqueItems(s.Items(), nil))
	}
	next := e.snapshot.Edit(func(ed *domain.Editor) {
		if anchor == nil {
			ed.AppendSections(ids...)
		} else {
			ed.InsertSections(ids, *anchor)
		}
		for i, id := range ids {
			ed.AppendItems(id, staged[i]...)
		}
	})
	removed := e.commit(next)
	e.attach(adopted)
	return plan{
		changed: true,
		added:   adopted,
		removed: removed,
		pushes:  e.pushItems(adopted...),
	}
}

// ReloadSections replaces every registered section with sections and asks
// the surface for a full refresh. It is never animated.
func (e *Engine) ReloadSections(sections []domain.Section, completion func()) {
	e.submit(domain.OpReloadSections, false, completion, func() plan {
		return e.rebuild(domain.UniqueSections(sections, nil))
	})
}

// Reset drops every section and clears the impression record.
func (e *Engine) Reset(ctx context.Context, completion func()) {
	e.submit(domain.OpReset, false, completion, func() plan {
		if err := e.impressions.Reset(ctx); err != nil {
			e.logger.Error("Failed to reset impressions", "err", err)
		}
		return e.rebuild(nil)
	})
}

func (e *Engine) rebuild(sections []domain.Section) plan {
	removed := e.registry.clear()
	for _, en := range removed {
		en.detach()
	}

	adopted := make([]*entry, len(sections))
	staged := make([][]string, len(sections))
	for i, s := range sections {
		adopted[i] = e.registry.adopt(s)
		staged[i] = adopted[i].stage(domain.UniqueItems(s.Items(), nil))
	}
	next := domain.NewSnapshot().Edit(func(ed *domain.Editor) {
		for i, en := range adopted {
			ed.AppendSections(en.id())
			ed.AppendItems(en.id(), staged[i]...)
		}
	})
	e.commit(next)
	e.attach(adopted)
	return plan{
		changed: true,
		reload:  true,
		added:   adopted,
		removed: removed,
		pushes:  e.pushItems(adopted...),
	}
}

// UpdateSections swaps registered sections for new values with the same ID
// and replaces their items. The previous value receives DidRemove and the new
// one DidAdd, even when they are the same instance.
func (e *Engine) UpdateSections(updates []domain.SectionUpdate, animate bool, completion func()) {
	e.submit(domain.OpUpdateSections, animate, completion, func() plan {
		type swap struct {
			update domain.SectionUpdate
			next   *entry
			keys   []string
		}
		var swaps []swap
		var p plan
		seen := make(map[string]struct{})
		for _, u := range updates {
			if u.Section == nil {
				continue
			}
			id := u.Section.ID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			next := newEntry(u.Section)
			prev, ok := e.registry.replace(next)
			if !ok {
				continue
			}
			keys := next.stage(domain.UniqueItems(u.Section.Items(), nil))
			swaps = append(swaps, swap{update: u, next: next, keys: keys})
			prev.detach()
			p.removed = append(p.removed, prev)
			p.added = append(p.added, next)
		}
		if len(swaps) == 0 {
			return ignored(domain.ErrUnknownSection, "")
		}

		next := e.snapshot.Edit(func(ed *domain.Editor) {
			for _, s := range swaps {
				id := s.next.id()
				ed.ReplaceItems(id, s.keys)
				e.markRefresh(ed, s.next.keysFor(s.update.RefreshItems))
				if s.update.RefreshHeader {
					ed.RefreshSupplementary(id, domain.KindHeader)
				}
				if s.update.RefreshFooter {
					ed.RefreshSupplementary(id, domain.KindFooter)
				}
				for _, kind := range s.update.RefreshCustoms {
					ed.RefreshSupplementary(id, kind)
				}
			}
		})
		e.commit(next)
		e.attach(p.added)
		p.changed = true
		p.pushes = e.pushItems(p.added...)
		return p
	})
}

// refreshSection replaces the items of the section owning scope with items,
// or re-reads them from the section when items is nil. The entry and its
// context are kept.
func (e *Engine) refreshSection(scope *sectionContext, items []domain.Item, animate bool, completion func()) {
	e.submit(domain.OpUpdateSections, animate, completion, func() plan {
		en, ok := e.scoped(scope, scope.section)
		if !ok {
			return ignored(domain.ErrUnknownSection, scope.section)
		}
		if items == nil {
			items = en.section.Items()
		}
		keys := en.stage(domain.UniqueItems(items, nil))
		e.commit(e.snapshot.Edit(func(ed *domain.Editor) {
			ed.ReplaceItems(en.id(), keys)
		}))
		return plan{changed: true, pushes: e.pushItems(en)}
	})
}

// markRefresh downgrades to a reload when the surface cannot reconfigure.
func (e *Engine) markRefresh(ed *domain.Editor, keys []string) {
	if len(keys) == 0 {
		return
	}
	if e.surfaceCaps.Reconfigure {
		ed.ReconfigureItems(keys...)
	} else {
		ed.ReloadItems(keys...)
	}
}

// DeleteSections removes sections and their items. Unknown IDs are ignored.
func (e *Engine) DeleteSections(ids []string, animate bool, completion func()) {
	e.submit(domain.OpDeleteSections, animate, completion, func() plan {
		known := domain.KnownIDs(ids, e.snapshot.ContainsSection)
		if len(known) == 0 {
			return ignored(domain.ErrUnknownSection, "")
		}
		removed := e.commit(e.snapshot.Edit(func(ed *domain.Editor) {
			ed.DeleteSections(known...)
		}))
		return plan{changed: true, removed: removed}
	})
}

// MoveSection relocates a section next to another one.
func (e *Engine) MoveSection(id string, anchor domain.Anchor, animate bool, completion func()) {
	e.submit(domain.OpMoveSection, animate, completion, func() plan {
		var moved bool
		next := e.snapshot.Edit(func(ed *domain.Editor) {
			moved = ed.MoveSection(id, anchor)
		})
		if !moved {
			return ignored(domain.ErrUnknownSection, id)
		}
		e.commit(next)
		return plan{changed: true}
	})
}

// AppendItems adds items at the end of a section. Items already present in
// the section, or repeated in the input, are skipped.
func (e *Engine) AppendItems(section string, items []domain.Item, animate bool, completion func()) {
	e.appendItems(nil, section, items, animate, completion)
}

func (e *Engine) appendItems(scope *sectionContext, section string, items []domain.Item, animate bool, completion func()) {
	e.submit(domain.OpAppendItems, animate, completion, func() plan {
		en, ok := e.scoped(scope, section)
		if !ok {
			return ignored(domain.ErrUnknownSection, section)
		}
		fresh := domain.UniqueItems(items, en.hasItem)
		if len(fresh) == 0 {
			return ignored(domain.ErrNothingToApply, section)
		}
		keys := en.stage(fresh)
		e.commit(e.snapshot.Edit(func(ed *domain.Editor) {
			ed.AppendItems(section, keys...)
		}))
		return plan{changed: true, pushes: e.pushItems(en)}
	})
}

// InsertItems places items next to an existing item of the same section.
// anchor.ID is an item ID, not a composite key.
func (e *Engine) InsertItems(section string, items []domain.Item, anchor domain.Anchor, animate bool, completion func()) {
	e.submit(domain.OpInsertItems, animate, completion, func() plan {
		en, ok := e.registry.get(section)
		if !ok {
			return ignored(domain.ErrUnknownSection, section)
		}
		if !en.hasItem(anchor.ID) {
			return ignored(domain.ErrUnknownAnchor, section)
		}
		fresh := domain.UniqueItems(items, en.hasItem)
		if len(fresh) == 0 {
			return ignored(domain.ErrNothingToApply, section)
		}
		keys := en.stage(fresh)
		target := domain.Anchor{ID: en.key(anchor.ID), Placement: anchor.Placement}
		e.commit(e.snapshot.Edit(func(ed *domain.Editor) {
			ed.InsertItems(keys, target)
		}))
		return plan{changed: true, pushes: e.pushItems(en)}
	})
}

// DeleteItems removes items from a section. Unknown IDs are ignored.
func (e *Engine) DeleteItems(section string, ids []string, animate bool, completion func()) {
	e.deleteItems(nil, section, ids, animate, completion)
}

func (e *Engine) deleteItems(scope *sectionContext, section string, ids []string, animate bool, completion func()) {
	e.submit(domain.OpDeleteItems, animate, completion, func() plan {
		en, ok := e.scoped(scope, section)
		if !ok {
			return ignored(domain.ErrUnknownSection, section)
		}
		keys := en.keysFor(ids)
		if len(keys) == 0 {
			return ignored(domain.ErrUnknownItem, section)
		}
		e.commit(e.snapshot.Edit(func(ed *domain.Editor) {
			ed.DeleteItems(keys...)
		}))
		return plan{changed: true, pushes: e.pushItems(en)}
	})
}

// MoveItem relocates an item next to another item of the same section.
func (e *Engine) MoveItem(section, id string, anchor domain.Anchor, animate bool, completion func()) {
	e.submit(domain.OpMoveItem, animate, completion, func() plan {
		en, ok := e.registry.get(section)
		if !ok {
			return ignored(domain.ErrUnknownSection, section)
		}
		var moved bool
		next := e.snapshot.Edit(func(ed *domain.Editor) {
			moved = ed.MoveItem(en.key(id), domain.Anchor{ID: en.key(anchor.ID), Placement: anchor.Placement})
		})
		if !moved {
			return ignored(domain.ErrUnknownItem, section)
		}
		e.commit(next)
		return plan{changed: true, pushes: e.pushItems(en)}
	})
}

// ReconfigureItems swaps in new values for items already in the section and
// asks the surface to update their cells in place. Surfaces that cannot
// reconfigure get a reload of those items instead.
func (e *Engine) ReconfigureItems(section string, items []domain.Item, animate bool, completion func()) {
	e.refreshItems(nil, domain.OpReconfigureItems, section, items, animate, completion)
}

// ReloadItems is ReconfigureItems with a full cell reload.
func (e *Engine) ReloadItems(section string, items []domain.Item, animate bool, completion func()) {
	e.refreshItems(nil, domain.OpReloadItems, section, items, animate, completion)
}

func (e *Engine) refreshItems(scope *sectionContext, op domain.Op, section string, items []domain.Item, animate bool, completion func()) {
	e.submit(op, animate, completion, func() plan {
		en, ok := e.scoped(scope, section)
		if !ok {
			return ignored(domain.ErrUnknownSection, section)
		}
		keys := en.swap(domain.UniqueItems(items, nil))
		if len(keys) == 0 {
			return ignored(domain.ErrUnknownItem, section)
		}
		e.commit(e.snapshot.Edit(func(ed *domain.Editor) {
			if op == domain.OpReloadItems {
				ed.ReloadItems(keys...)
				return
			}
			e.markRefresh(ed, keys)
		}))
		return plan{changed: true, pushes: e.pushItems(en)}
	})
}

// scoped resolves a section, rejecting calls from a context that no longer
// owns the registered entry.
func (e *Engine) scoped(scope *sectionContext, section string) (*entry, bool) {
	en, ok := e.registry.get(section)
	if !ok {
		return nil, false
	}
	if scope != nil && en.ctx != scope {
		return nil, false
	}
	return en, true
}
