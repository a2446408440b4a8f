package domain

import "sort"

// Changeset describes the transition between two snapshots.
// It is designed to be serialized to JSON for surfaces that apply updates
// incrementally.
type Changeset struct {
	DeletedSections  []string `json:"deleted_sections,omitempty"`
	InsertedSections []string `json:"inserted_sections,omitempty"`
	// MovedSections contains surviving sections whose relative order changed.
	MovedSections []string `json:"moved_sections,omitempty"`

	// Items is keyed by the section key in the new snapshot. Sections that
	// were inserted are not listed: all their items are new by definition.
	Items map[string]*ItemChanges `json:"items,omitempty"`

	// Marks carries the forced refreshes requested for the new snapshot.
	Marks Marks `json:"marks,omitempty"`
}

// ItemChanges is the per-section part of a Changeset.
type ItemChanges struct {
	Deleted  []string `json:"deleted,omitempty"`
	Inserted []string `json:"inserted,omitempty"`
	Moved    []string `json:"moved,omitempty"`
}

func (c *ItemChanges) isEmpty() bool {
	return len(c.Deleted) == 0 && len(c.Inserted) == 0 && len(c.Moved) == 0
}

// Diff calculates the difference between old and new.
// If old is nil, it returns a changeset inserting everything in new.
func Diff(old, new *Snapshot) *Changeset {
	if new == nil {
		return nil
	}
	if old == nil {
		old = NewSnapshot()
	}

	cs := &Changeset{Marks: new.Marks()}

	// 1. Sections
	for _, sec := range old.sections {
		if !new.ContainsSection(sec) {
			cs.DeletedSections = append(cs.DeletedSections, sec)
		}
	}
	var survivors []string
	for _, sec := range new.sections {
		if old.ContainsSection(sec) {
			survivors = append(survivors, sec)
		} else {
			cs.InsertedSections = append(cs.InsertedSections, sec)
		}
	}
	cs.MovedSections = reordered(old.sections, survivors)

	// 2. Items of surviving sections
	for _, sec := range survivors {
		changes := diffItems(old, new, sec)
		if changes.isEmpty() {
			continue
		}
		if cs.Items == nil {
			cs.Items = make(map[string]*ItemChanges)
		}
		cs.Items[sec] = changes
	}

	return cs
}

func diffItems(old, new *Snapshot, sec string) *ItemChanges {
	changes := &ItemChanges{}
	for _, key := range old.items[sec] {
		if owner, ok := new.owner[key]; !ok || owner != sec {
			changes.Deleted = append(changes.Deleted, key)
		}
	}
	var survivors []string
	for _, key := range new.items[sec] {
		if owner, ok := old.owner[key]; ok && owner == sec {
			survivors = append(survivors, key)
		} else {
			changes.Inserted = append(changes.Inserted, key)
		}
	}
	changes.Moved = reordered(old.items[sec], survivors)
	return changes
}

// reordered returns the keys of survivors (in new order) that are not part
// of the longest subsequence already ordered as in before. Those are the
// minimal set of moves turning before into survivors.
func reordered(before, survivors []string) []string {
	if len(survivors) < 2 {
		return nil
	}
	pos := make(map[string]int, len(before))
	for i, k := range before {
		pos[k] = i
	}
	seq := make([]int, len(survivors))
	for i, k := range survivors {
		seq[i] = pos[k]
	}

	keep := make([]bool, len(seq))
	for _, i := range longestIncreasing(seq) {
		keep[i] = true
	}
	var moved []string
	for i, k := range survivors {
		if !keep[i] {
			moved = append(moved, k)
		}
	}
	return moved
}

// longestIncreasing returns the indices of one longest strictly increasing
// subsequence of seq (patience sorting, O(n log n)).
func longestIncreasing(seq []int) []int {
	tails := []int{}
	prev := make([]int, len(seq))
	for i, v := range seq {
		j := sort.Search(len(tails), func(k int) bool { return seq[tails[k]] >= v })
		if j > 0 {
			prev[i] = tails[j-1]
		} else {
			prev[i] = -1
		}
		if j == len(tails) {
			tails = append(tails, i)
		} else {
			tails[j] = i
		}
	}
	if len(tails) == 0 {
		return nil
	}
	out := make([]int, len(tails))
	for i, k := len(tails)-1, tails[len(tails)-1]; i >= 0; i, k = i-1, prev[k] {
		out[i] = k
	}
	return out
}

// IsEmpty checks if the changeset contains any actionable changes.
func (c *Changeset) IsEmpty() bool {
	return len(c.DeletedSections) == 0 &&
		len(c.InsertedSections) == 0 &&
		len(c.MovedSections) == 0 &&
		len(c.Items) == 0 &&
		c.Marks.IsEmpty()
}
