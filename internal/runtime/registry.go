package runtime

import (
	"sort"

	"github.com/aretw0/sectionkit/pkg/domain"
)

// entry is the registry's record of one active section.
type entry struct {
	section domain.Section
	caps    domain.CapabilitySet
	// items follows the snapshot's order for this section.
	items []domain.Item
	byKey map[string]domain.Item
	index int
	ctx   *sectionContext
}

func newEntry(s domain.Section) *entry {
	return &entry{
		section: s,
		caps:    domain.CapabilitiesOf(s),
		byKey:   make(map[string]domain.Item),
	}
}

func (e *entry) id() string {
	return e.section.ID()
}

func (e *entry) key(itemID string) string {
	return domain.ItemKey(e.id(), itemID)
}

func (e *entry) hasItem(itemID string) bool {
	_, ok := e.byKey[e.key(itemID)]
	return ok
}

// stage records item values and returns their composite keys. The snapshot
// decides which keys survive; sync prunes the rest.
func (e *entry) stage(items []domain.Item) []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		k := e.key(it.ID())
		e.byKey[k] = it
		keys = append(keys, k)
	}
	return keys
}

// swap replaces values of items that are already present and returns the
// keys that matched.
func (e *entry) swap(items []domain.Item) []string {
	var keys []string
	for _, it := range items {
		if it == nil {
			continue
		}
		k := e.key(it.ID())
		if _, ok := e.byKey[k]; ok {
			e.byKey[k] = it
			keys = append(keys, k)
		}
	}
	return keys
}

func (e *entry) keysFor(ids []string) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if e.hasItem(id) {
			keys = append(keys, e.key(id))
		}
	}
	return keys
}

// Registry is the ordered collection of active sections. Identifier lookups
// are O(1); positional lookups use the order slice, which is rebuilt from the
// snapshot after every mutation so both always agree.
type Registry struct {
	entries map[string]*entry
	order   []*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Len returns the number of active sections.
func (r *Registry) Len() int {
	return len(r.order)
}

// Contains reports whether a section with id is registered.
func (r *Registry) Contains(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// SectionAt returns the section at a display position.
func (r *Registry) SectionAt(index int) (domain.Section, bool) {
	e, ok := r.at(index)
	if !ok {
		return nil, false
	}
	return e.section, true
}

// IndexOf returns the display position of a section.
func (r *Registry) IndexOf(id string) (int, bool) {
	e, ok := r.entries[id]
	if !ok || e.index < 0 {
		return 0, false
	}
	return e.index, true
}

// Sections returns the active sections in display order.
func (r *Registry) Sections() []domain.Section {
	out := make([]domain.Section, len(r.order))
	for i, e := range r.order {
		out[i] = e.section
	}
	return out
}

func (r *Registry) get(id string) (*entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

func (r *Registry) at(index int) (*entry, bool) {
	if index < 0 || index >= len(r.order) {
		return nil, false
	}
	return r.order[index], true
}

// adopt registers s without positioning it. Callers must follow up with
// sync once the snapshot includes the section.
func (r *Registry) adopt(s domain.Section) *entry {
	e := newEntry(s)
	e.index = -1
	r.entries[s.ID()] = e
	return e
}

// replace swaps the entry registered under next's ID, keeping its position.
func (r *Registry) replace(next *entry) (*entry, bool) {
	prev, ok := r.entries[next.id()]
	if !ok {
		return nil, false
	}
	next.index = prev.index
	r.entries[next.id()] = next
	if prev.index >= 0 && prev.index < len(r.order) {
		r.order[prev.index] = next
	}
	return prev, true
}

// clear drops every entry and returns them in display order.
func (r *Registry) clear() []*entry {
	out := r.order
	r.entries = make(map[string]*entry)
	r.order = nil
	return out
}

// sync rebuilds positional order and item lists from snap. Entries the
// snapshot no longer lists are dropped and returned, together with staged
// keys the snapshot assigned to a different section.
func (r *Registry) sync(snap *domain.Snapshot) (dropped []*entry, collided []string) {
	keys := snap.SectionKeys()
	order := make([]*entry, 0, len(keys))
	live := make(map[string]struct{}, len(keys))
	for _, id := range keys {
		e, ok := r.entries[id]
		if !ok {
			continue
		}
		live[id] = struct{}{}
		itemKeys := snap.ItemKeys(id)
		items := make([]domain.Item, 0, len(itemKeys))
		kept := make(map[string]domain.Item, len(itemKeys))
		for _, k := range itemKeys {
			if it, ok := e.byKey[k]; ok {
				items = append(items, it)
				kept[k] = it
			}
		}
		for k := range e.byKey {
			if _, ok := kept[k]; ok {
				continue
			}
			if owner, ok := snap.SectionOf(k); ok && owner != id {
				collided = append(collided, k)
			}
		}
		e.items = items
		e.byKey = kept
		e.index = len(order)
		order = append(order, e)
	}

	previous := make(map[*entry]int, len(r.order))
	for i, e := range r.order {
		previous[e] = i
	}
	for id, e := range r.entries {
		if _, ok := live[id]; !ok {
			delete(r.entries, id)
			dropped = append(dropped, e)
		}
	}
	sort.SliceStable(dropped, func(i, j int) bool {
		return rank(previous, dropped[i]) < rank(previous, dropped[j])
	})
	r.order = order
	sort.Strings(collided)
	return dropped, collided
}

func rank(previous map[*entry]int, e *entry) int {
	if i, ok := previous[e]; ok {
		return i
	}
	return len(previous)
}

// sectionFor resolves the section owning a composite item key.
func (r *Registry) sectionFor(snap *domain.Snapshot, key string) (*entry, bool) {
	id, ok := snap.SectionOf(key)
	if !ok {
		return nil, false
	}
	return r.get(id)
}

// itemAt resolves an index path to its entry and item.
func (r *Registry) itemAt(path domain.IndexPath) (*entry, domain.Item, bool) {
	e, ok := r.at(path.Section)
	if !ok || path.Item < 0 || path.Item >= len(e.items) {
		return nil, nil, false
	}
	return e, e.items[path.Item], true
}
