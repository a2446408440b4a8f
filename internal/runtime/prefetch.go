package runtime

import (
	"time"

	"github.com/aretw0/sectionkit/pkg/domain"
)

type prefetchGroup struct {
	section string
	target  domain.Prefetcher
	indices []int
}

// Prefetch forwards index paths to the sections owning them. Paths are
// grouped by section in first-seen order; sections that cannot prefetch and
// paths outside the current snapshot are skipped.
func (e *Engine) Prefetch(paths []domain.IndexPath) {
	for _, g := range e.groupPrefetch(paths) {
		g.target.Prefetch(g.indices)
		e.emitPrefetch(e.hooks.OnPrefetch, domain.EventPrefetch, g)
	}
}

// CancelPrefetch is the counterpart of Prefetch.
func (e *Engine) CancelPrefetch(paths []domain.IndexPath) {
	for _, g := range e.groupPrefetch(paths) {
		g.target.CancelPrefetch(g.indices)
		e.emitPrefetch(e.hooks.OnCancelPrefetch, domain.EventCancelPrefetch, g)
	}
}

func (e *Engine) groupPrefetch(paths []domain.IndexPath) []*prefetchGroup {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var groups []*prefetchGroup
	bySection := make(map[int]*prefetchGroup)
	for _, p := range paths {
		en, _, ok := e.registry.itemAt(p)
		if !ok || !en.caps.Has(domain.CapPrefetch) {
			continue
		}
		g, ok := bySection[p.Section]
		if !ok {
			g = &prefetchGroup{section: en.id(), target: en.section.(domain.Prefetcher)}
			bySection[p.Section] = g
			groups = append(groups, g)
		}
		g.indices = append(g.indices, p.Item)
	}
	return groups
}

func (e *Engine) emitPrefetch(hook func(*domain.PrefetchEvent), typ domain.EventType, g *prefetchGroup) {
	if hook == nil {
		return
	}
	hook(&domain.PrefetchEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, ListID: e.listID},
		Section:   g.section,
		Indices:   g.indices,
	})
}
