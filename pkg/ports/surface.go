package ports

import "github.com/aretw0/sectionkit/pkg/domain"

// RenderingSurface is the view layer the engine drives.
type RenderingSurface interface {
	// Apply presents snapshot. For ApplyImmediate and ApplyAnimated the surface
	// diffs against what it currently displays; for ApplyReload it replaces
	// its state wholesale. completion must be called exactly once, either
	// synchronously or later, and must not be called while holding locks the
	// engine's query methods need.
	Apply(snapshot *domain.Snapshot, mode domain.ApplyMode, completion func())

	// VisibleIndexPaths lists the items currently on screen.
	VisibleIndexPaths() []domain.IndexPath

	// ContainerSize is the size of the scrollable container.
	ContainerSize() domain.Size
}

// VisibilityReporter is implemented by surfaces that can report item frames,
// which lets the engine run impression passes on its own (Engine.DidScroll).
type VisibilityReporter interface {
	VisibleBounds() domain.Rect
	VisibleItems() []domain.VisibleItem
}

// SurfaceCapabilities are negotiated once when the engine is created.
type SurfaceCapabilities struct {
	// Reconfigure means the surface can update cells in place. Without it the
	// engine downgrades reconfigure requests to reloads.
	Reconfigure bool
	// EnvironmentLayout means the surface asks sections for per-environment
	// layout descriptions.
	EnvironmentLayout bool
}

// CapabilityReporter is implemented by surfaces that support more than the
// baseline feature set.
type CapabilityReporter interface {
	Capabilities() SurfaceCapabilities
}
