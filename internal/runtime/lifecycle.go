package runtime

import (
	"sync/atomic"

	"github.com/aretw0/sectionkit/pkg/domain"
)

// sectionContext is the back reference handed to a section in DidAdd. It
// only carries the section ID; once detached every mutation is a no-op that
// still runs its completion.
type sectionContext struct {
	engine   *Engine
	section  string
	detached atomic.Bool
}

var _ domain.SectionContext = (*sectionContext)(nil)

func newSectionContext(e *Engine, section string) *sectionContext {
	return &sectionContext{engine: e, section: section}
}

func (en *entry) detach() {
	if en.ctx != nil {
		en.ctx.detached.Store(true)
	}
}

func (c *sectionContext) ContainerSize() domain.Size {
	return c.engine.ContainerSize()
}

func (c *sectionContext) IndexOf() (int, bool) {
	if c.detached.Load() {
		return 0, false
	}
	return c.engine.IndexOf(c.section)
}

// VisibleIndices lists the item positions of this section that the surface
// currently shows.
func (c *sectionContext) VisibleIndices() []int {
	index, ok := c.IndexOf()
	if !ok {
		return nil
	}
	var out []int
	for _, p := range c.engine.surface.VisibleIndexPaths() {
		if p.Section == index {
			out = append(out, p.Item)
		}
	}
	return out
}

func (c *sectionContext) AppendItems(items []domain.Item, animate bool, completion func()) {
	if c.skip(completion) {
		return
	}
	c.engine.appendItems(c, c.section, items, animate, completion)
}

func (c *sectionContext) DeleteItems(ids []string, animate bool, completion func()) {
	if c.skip(completion) {
		return
	}
	c.engine.deleteItems(c, c.section, ids, animate, completion)
}

func (c *sectionContext) ReconfigureItems(items []domain.Item, animate bool, completion func()) {
	if c.skip(completion) {
		return
	}
	c.engine.refreshItems(c, domain.OpReconfigureItems, c.section, items, animate, completion)
}

func (c *sectionContext) Update(animate bool, completion func()) {
	if c.skip(completion) {
		return
	}
	c.engine.refreshSection(c, nil, animate, completion)
}

func (c *sectionContext) ReplaceItems(items []domain.Item, animate bool, completion func()) {
	if c.skip(completion) {
		return
	}
	c.engine.refreshSection(c, items, animate, completion)
}

func (c *sectionContext) skip(completion func()) bool {
	if !c.detached.Load() {
		return false
	}
	if completion != nil {
		completion()
	}
	return true
}

// DidBecomeActive notifies the sections owning a visible index path.
func (e *Engine) DidBecomeActive() {
	for _, l := range e.visibleLifecycles() {
		l.DidBecomeActive()
	}
}

// DidBecomeInactive is the counterpart of DidBecomeActive.
func (e *Engine) DidBecomeInactive() {
	for _, l := range e.visibleLifecycles() {
		l.DidBecomeInactive()
	}
}

func (e *Engine) visibleLifecycles() []domain.Lifecycle {
	paths := e.surface.VisibleIndexPaths()

	e.mu.RLock()
	defer e.mu.RUnlock()
	seen := make(map[int]struct{})
	var out []domain.Lifecycle
	for _, p := range paths {
		if _, dup := seen[p.Section]; dup {
			continue
		}
		seen[p.Section] = struct{}{}
		en, ok := e.registry.at(p.Section)
		if !ok || !en.caps.Has(domain.CapLifecycle) {
			continue
		}
		out = append(out, en.section.(domain.Lifecycle))
	}
	return out
}
