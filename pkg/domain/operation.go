package domain

// Op names a mutation accepted by the engine.
type Op string

const (
	OpAppendSections   Op = "append_sections"
	OpReloadSections   Op = "reload_sections"
	OpUpdateSections   Op = "update_sections"
	OpInsertSections   Op = "insert_sections"
	OpDeleteSections   Op = "delete_sections"
	OpMoveSection      Op = "move_section"
	OpAppendItems      Op = "append_items"
	OpInsertItems      Op = "insert_items"
	OpDeleteItems      Op = "delete_items"
	OpMoveItem         Op = "move_item"
	OpReconfigureItems Op = "reconfigure_items"
	OpReloadItems      Op = "reload_items"
	OpReset            Op = "reset"
)

// ApplyMode tells the surface how to present a new snapshot.
type ApplyMode int

const (
	// ApplyImmediate diffs against the displayed state without animation.
	ApplyImmediate ApplyMode = iota
	// ApplyAnimated diffs and animates the changes.
	ApplyAnimated
	// ApplyReload replaces the displayed state wholesale, bypassing diffing.
	ApplyReload
)

func (m ApplyMode) String() string {
	switch m {
	case ApplyAnimated:
		return "animated"
	case ApplyReload:
		return "reload"
	default:
		return "immediate"
	}
}

// ModeFor maps an animate flag to the diffing apply modes.
func ModeFor(animate bool) ApplyMode {
	if animate {
		return ApplyAnimated
	}
	return ApplyImmediate
}

// SectionUpdate replaces a registered section and its items. The refresh
// fields force a visual refresh even when the keys did not change.
type SectionUpdate struct {
	Section        Section
	RefreshItems   []string
	RefreshHeader  bool
	RefreshFooter  bool
	RefreshCustoms []string
}

// ReloadStrategy selects how the engine presents diffable operations.
type ReloadStrategy int

const (
	// ReloadWhenRequested diffs every operation except explicit reloads.
	ReloadWhenRequested ReloadStrategy = iota
	// ReloadAlways presents every operation as a full refresh. The animate
	// flag is ignored in this mode.
	ReloadAlways
)

// ParseReloadStrategy maps "diff"/"always" to a strategy.
func ParseReloadStrategy(s string) (ReloadStrategy, bool) {
	switch s {
	case "", "diff", "when_requested":
		return ReloadWhenRequested, true
	case "always":
		return ReloadAlways, true
	}
	return ReloadWhenRequested, false
}
