package domain

import "slices"

// Placement positions an insert or move relative to a reference key.
type Placement int

const (
	PlaceBefore Placement = iota
	PlaceAfter
)

func (p Placement) String() string {
	if p == PlaceAfter {
		return "after"
	}
	return "before"
}

// Anchor references an existing section or item for relative edits.
type Anchor struct {
	ID        string    `json:"id"`
	Placement Placement `json:"placement"`
}

// Before anchors an edit in front of id.
func Before(id string) Anchor { return Anchor{ID: id, Placement: PlaceBefore} }

// After anchors an edit behind id.
func After(id string) Anchor { return Anchor{ID: id, Placement: PlaceAfter} }

// Editor applies declarative edits to a snapshot copy.
// References to keys that are not present are ignored. Additive edits drop
// keys that already exist; every method reports what it actually applied.
type Editor struct {
	snap *Snapshot
}

// AppendSections adds new empty sections at the end.
func (e *Editor) AppendSections(keys ...string) []string {
	added := e.freshSections(keys)
	e.snap.sections = append(e.snap.sections, added...)
	for _, k := range added {
		e.snap.items[k] = nil
	}
	return added
}

// InsertSections places new empty sections next to the anchor section.
func (e *Editor) InsertSections(keys []string, anchor Anchor) []string {
	at, ok := e.sectionInsertionIndex(anchor)
	if !ok {
		return nil
	}
	added := e.freshSections(keys)
	e.snap.sections = slices.Insert(e.snap.sections, at, added...)
	for _, k := range added {
		e.snap.items[k] = nil
	}
	return added
}

// DeleteSections removes sections together with their items.
func (e *Editor) DeleteSections(keys ...string) []string {
	removed := KnownIDs(keys, e.snap.ContainsSection)
	for _, k := range removed {
		for _, item := range e.snap.items[k] {
			delete(e.snap.owner, item)
		}
		delete(e.snap.items, k)
		e.snap.sections = slices.DeleteFunc(e.snap.sections, func(s string) bool { return s == k })
	}
	return removed
}

// MoveSection relocates an existing section next to the anchor section.
func (e *Editor) MoveSection(key string, anchor Anchor) bool {
	if key == anchor.ID || !e.snap.ContainsSection(key) || !e.snap.ContainsSection(anchor.ID) {
		return false
	}
	e.snap.sections = slices.DeleteFunc(e.snap.sections, func(s string) bool { return s == key })
	at, _ := e.sectionInsertionIndex(anchor)
	e.snap.sections = slices.Insert(e.snap.sections, at, key)
	return true
}

// ReloadSections marks sections for a forced refresh.
func (e *Editor) ReloadSections(keys ...string) []string {
	known := KnownIDs(keys, e.snap.ContainsSection)
	e.snap.marks.ReloadedSections = appendUnique(e.snap.marks.ReloadedSections, known...)
	return known
}

// ReplaceItems swaps a section's items for keys, keeping the first
// occurrence of each key.
func (e *Editor) ReplaceItems(section string, keys []string) []string {
	if !e.snap.ContainsSection(section) {
		return nil
	}
	for _, item := range e.snap.items[section] {
		delete(e.snap.owner, item)
	}
	e.snap.items[section] = nil
	return e.AppendItems(section, keys...)
}

// AppendItems adds keys at the end of a section.
func (e *Editor) AppendItems(section string, keys ...string) []string {
	if !e.snap.ContainsSection(section) {
		return nil
	}
	added := e.freshItems(keys)
	e.snap.items[section] = append(e.snap.items[section], added...)
	for _, k := range added {
		e.snap.owner[k] = section
	}
	return added
}

// InsertItems places keys next to the anchor item, in the anchor's section.
func (e *Editor) InsertItems(keys []string, anchor Anchor) []string {
	section, ok := e.snap.owner[anchor.ID]
	if !ok {
		return nil
	}
	added := e.freshItems(keys)
	at := e.itemInsertionIndex(section, anchor)
	e.snap.items[section] = slices.Insert(e.snap.items[section], at, added...)
	for _, k := range added {
		e.snap.owner[k] = section
	}
	return added
}

// DeleteItems removes item keys wherever they live.
func (e *Editor) DeleteItems(keys ...string) []string {
	removed := KnownIDs(keys, e.snap.ContainsItem)
	for _, k := range removed {
		section := e.snap.owner[k]
		e.snap.items[section] = slices.DeleteFunc(e.snap.items[section], func(s string) bool { return s == k })
		delete(e.snap.owner, k)
	}
	return removed
}

// MoveItem relocates an item next to an anchor item of the same section.
func (e *Editor) MoveItem(key string, anchor Anchor) bool {
	if key == anchor.ID {
		return false
	}
	section, ok := e.snap.owner[key]
	if !ok {
		return false
	}
	if other, ok := e.snap.owner[anchor.ID]; !ok || other != section {
		return false
	}
	e.snap.items[section] = slices.DeleteFunc(e.snap.items[section], func(s string) bool { return s == key })
	at := e.itemInsertionIndex(section, anchor)
	e.snap.items[section] = slices.Insert(e.snap.items[section], at, key)
	return true
}

// ReloadItems marks items for a full cell reload.
func (e *Editor) ReloadItems(keys ...string) []string {
	known := KnownIDs(keys, e.snap.ContainsItem)
	e.snap.marks.ReloadedItems = appendUnique(e.snap.marks.ReloadedItems, known...)
	return known
}

// ReconfigureItems marks items whose content changed without an identity
// change, so the surface can update the existing cells in place.
func (e *Editor) ReconfigureItems(keys ...string) []string {
	known := KnownIDs(keys, e.snap.ContainsItem)
	e.snap.marks.ReconfiguredItems = appendUnique(e.snap.marks.ReconfiguredItems, known...)
	return known
}

// RefreshSupplementary marks a section's supplementary view of kind.
func (e *Editor) RefreshSupplementary(section, kind string) bool {
	if !e.snap.ContainsSection(section) {
		return false
	}
	ref := SupplementaryRef{Section: section, Kind: kind}
	if !slices.Contains(e.snap.marks.Supplementary, ref) {
		e.snap.marks.Supplementary = append(e.snap.marks.Supplementary, ref)
	}
	return true
}

func (e *Editor) freshSections(keys []string) []string {
	return uniqueKeys(keys, e.snap.ContainsSection)
}

func (e *Editor) freshItems(keys []string) []string {
	return uniqueKeys(keys, e.snap.ContainsItem)
}

func (e *Editor) sectionInsertionIndex(anchor Anchor) (int, bool) {
	i := slices.Index(e.snap.sections, anchor.ID)
	if i < 0 {
		return 0, false
	}
	if anchor.Placement == PlaceAfter {
		i++
	}
	return i, true
}

func (e *Editor) itemInsertionIndex(section string, anchor Anchor) int {
	i := slices.Index(e.snap.items[section], anchor.ID)
	if anchor.Placement == PlaceAfter {
		i++
	}
	return i
}

func uniqueKeys(keys []string, exists func(string) bool) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if !exists(k) {
			out = append(out, k)
		}
	}
	return out
}

func appendUnique(dst []string, keys ...string) []string {
	for _, k := range keys {
		if !slices.Contains(dst, k) {
			dst = append(dst, k)
		}
	}
	return dst
}
