package domain

import "slices"

// SupplementaryRef names one supplementary view of a section.
type SupplementaryRef struct {
	Section string `json:"section"`
	Kind    string `json:"kind"`
}

// Marks are the forced-refresh requests attached to one snapshot. They only
// describe the transition that produced the snapshot and are reset on Edit.
type Marks struct {
	ReloadedSections  []string           `json:"reloaded_sections,omitempty"`
	ReloadedItems     []string           `json:"reloaded_items,omitempty"`
	ReconfiguredItems []string           `json:"reconfigured_items,omitempty"`
	Supplementary     []SupplementaryRef `json:"supplementary,omitempty"`
}

// IsEmpty reports whether no refresh was requested.
func (m Marks) IsEmpty() bool {
	return len(m.ReloadedSections) == 0 &&
		len(m.ReloadedItems) == 0 &&
		len(m.ReconfiguredItems) == 0 &&
		len(m.Supplementary) == 0
}

// Snapshot is an immutable ordered description of sections and their
// composite item keys. Use Edit to derive the next snapshot.
type Snapshot struct {
	sections []string
	items    map[string][]string
	owner    map[string]string
	marks    Marks
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		items: make(map[string][]string),
		owner: make(map[string]string),
	}
}

// SectionKeys returns the section keys in display order.
func (s *Snapshot) SectionKeys() []string {
	return slices.Clone(s.sections)
}

// ItemKeys returns the composite item keys of a section in display order.
func (s *Snapshot) ItemKeys(section string) []string {
	return slices.Clone(s.items[section])
}

// NumberOfSections returns the number of sections.
func (s *Snapshot) NumberOfSections() int {
	return len(s.sections)
}

// NumberOfItems returns the item count of a section, 0 when unknown.
func (s *Snapshot) NumberOfItems(section string) int {
	return len(s.items[section])
}

// TotalItems counts items across all sections.
func (s *Snapshot) TotalItems() int {
	return len(s.owner)
}

// ContainsSection reports whether the section key is present.
func (s *Snapshot) ContainsSection(section string) bool {
	_, ok := s.items[section]
	return ok
}

// ContainsItem reports whether the composite item key is present.
func (s *Snapshot) ContainsItem(key string) bool {
	_, ok := s.owner[key]
	return ok
}

// SectionOf returns the section owning an item key.
func (s *Snapshot) SectionOf(key string) (string, bool) {
	sec, ok := s.owner[key]
	return sec, ok
}

// IndexOfSection returns the position of a section key.
func (s *Snapshot) IndexOfSection(section string) (int, bool) {
	if !s.ContainsSection(section) {
		return 0, false
	}
	i := slices.Index(s.sections, section)
	return i, i >= 0
}

// IndexPathOf locates an item key.
func (s *Snapshot) IndexPathOf(key string) (IndexPath, bool) {
	sec, ok := s.owner[key]
	if !ok {
		return IndexPath{}, false
	}
	si, _ := s.IndexOfSection(sec)
	return IndexPath{Section: si, Item: slices.Index(s.items[sec], key)}, true
}

// SectionKeyAt returns the section key at index.
func (s *Snapshot) SectionKeyAt(index int) (string, bool) {
	if index < 0 || index >= len(s.sections) {
		return "", false
	}
	return s.sections[index], true
}

// ItemKeyAt returns the composite key at path.
func (s *Snapshot) ItemKeyAt(path IndexPath) (string, bool) {
	sec, ok := s.SectionKeyAt(path.Section)
	if !ok {
		return "", false
	}
	keys := s.items[sec]
	if path.Item < 0 || path.Item >= len(keys) {
		return "", false
	}
	return keys[path.Item], true
}

// Marks returns the refresh requests carried by this snapshot.
func (s *Snapshot) Marks() Marks {
	return Marks{
		ReloadedSections:  slices.Clone(s.marks.ReloadedSections),
		ReloadedItems:     slices.Clone(s.marks.ReloadedItems),
		ReconfiguredItems: slices.Clone(s.marks.ReconfiguredItems),
		Supplementary:     slices.Clone(s.marks.Supplementary),
	}
}

// Equal compares section and item keys, ignoring marks.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if !slices.Equal(s.sections, other.sections) {
		return false
	}
	for _, sec := range s.sections {
		if !slices.Equal(s.items[sec], other.items[sec]) {
			return false
		}
	}
	return true
}

// Edit copies the snapshot, applies fn to the copy and returns it.
// The receiver is left untouched and the copy starts with no marks.
func (s *Snapshot) Edit(fn func(e *Editor)) *Snapshot {
	next := s.clone()
	fn(&Editor{snap: next})
	return next
}

func (s *Snapshot) clone() *Snapshot {
	next := &Snapshot{
		sections: slices.Clone(s.sections),
		items:    make(map[string][]string, len(s.items)),
		owner:    make(map[string]string, len(s.owner)),
	}
	for sec, keys := range s.items {
		next.items[sec] = slices.Clone(keys)
	}
	for key, sec := range s.owner {
		next.owner[key] = sec
	}
	return next
}

// SnapshotView is the serializable form of a snapshot.
type SnapshotView struct {
	Sections []SectionView `json:"sections"`
	Marks    *Marks        `json:"marks,omitempty"`
}

// SectionView lists one section's item keys.
type SectionView struct {
	Key   string   `json:"key"`
	Items []string `json:"items"`
}

// View flattens the snapshot for JSON output and rendering.
func (s *Snapshot) View() SnapshotView {
	view := SnapshotView{Sections: make([]SectionView, 0, len(s.sections))}
	for _, sec := range s.sections {
		view.Sections = append(view.Sections, SectionView{Key: sec, Items: slices.Clone(s.items[sec])})
	}
	if !s.marks.IsEmpty() {
		m := s.Marks()
		view.Marks = &m
	}
	return view
}
