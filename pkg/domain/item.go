package domain

// KeySeparator joins a section identifier and an item identifier.
const KeySeparator = "-"

// Item is a single identifiable unit of content inside a section.
// IDs only need to be unique within the owning section.
type Item interface {
	ID() string
}

// ItemKey derives the composite key the rendering surface sees for an item.
// The surface only knows flat key spaces, so two sections may hold items with
// the same ID without colliding.
func ItemKey(sectionID, itemID string) string {
	return sectionID + KeySeparator + itemID
}

// StringItem is an Item whose identity is its own value.
type StringItem string

func (s StringItem) ID() string { return string(s) }

// StringItems wraps plain identifiers as items.
func StringItems(ids ...string) []Item {
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = StringItem(id)
	}
	return items
}

// ItemIDs lists the identifiers of items in order.
func ItemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	return ids
}

// UniqueItems keeps the first occurrence of each item whose ID is not already
// present according to exists. Relative order is preserved. A nil exists
// only removes duplicates inside candidates.
func UniqueItems(candidates []Item, exists func(id string) bool) []Item {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Item, 0, len(candidates))
	for _, it := range candidates {
		if it == nil {
			continue
		}
		id := it.ID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if exists != nil && exists(id) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// UniqueSections is the section counterpart of UniqueItems.
func UniqueSections(candidates []Section, exists func(id string) bool) []Section {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Section, 0, len(candidates))
	for _, s := range candidates {
		if s == nil {
			continue
		}
		id := s.ID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if exists != nil && exists(id) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// KnownIDs keeps the IDs accepted by exists, dropping repeats.
// It is the filter used by subtractive operations.
func KnownIDs(ids []string, exists func(id string) bool) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if exists(id) {
			out = append(out, id)
		}
	}
	return out
}
