package domain

// Supplementary view kinds understood by every surface. Sections may declare
// additional custom kinds.
const (
	KindHeader = "header"
	KindFooter = "footer"
)

// Placeholder is returned in place of a cell or supplementary view that a
// section could not produce. Surfaces draw it as an empty neutral view.
type Placeholder struct {
	Key string `json:"key"`
}

// Section is a named, ordered group of items supplied by the host.
type Section interface {
	// ID must be unique among the sections registered with one engine.
	ID() string

	// Items is read whenever the engine (re)adopts the section.
	Items() []Item

	// Cell builds the view content for an item. Returning nil makes the
	// engine hand a Placeholder to the surface.
	Cell(item Item, index int) any

	// Size reports the item size for the given environment.
	Size(env Environment, index int) Size
}

// Supplementary is implemented by sections that provide header, footer or
// custom supplementary views.
type Supplementary interface {
	SupplementaryKinds() []string
	Supplementary(kind string, index int) any
}

// Prefetcher receives advance notice about items that are about to appear,
// and cancellations for items that are no longer needed. Both calls are made
// on the caller's goroutine and must not block.
type Prefetcher interface {
	Prefetch(indices []int)
	CancelPrefetch(indices []int)
}

// ImpressionReporter is notified once per item when more than half of the
// item became visible.
type ImpressionReporter interface {
	Impressed(item Item, index int)
}

// LayoutProvider describes a per-environment layout for surfaces that
// support environment driven section layout.
type LayoutProvider interface {
	Layout(env Environment) any
}

// Styled sections expose insets and spacing.
type Styled interface {
	Style() Style
}

// Lifecycle receives registration and visibility notifications.
// The SectionContext handed to DidAdd is valid until DidRemove.
type Lifecycle interface {
	DidAdd(ctx SectionContext)
	DidBecomeActive()
	DidBecomeInactive()
	DidRemove()
}

// ItemsSetter sections get the reconciled item list pushed back after each
// item level mutation.
type ItemsSetter interface {
	SetItems(items []Item)
}

// SectionContext is the engine back reference a registered section holds.
// Mutations issued through it are queued like any other engine call.
type SectionContext interface {
	ContainerSize() Size
	IndexOf() (int, bool)
	VisibleIndices() []int

	AppendItems(items []Item, animate bool, completion func())
	DeleteItems(ids []string, animate bool, completion func())
	// ReconfigureItems swaps in new values for items already in the section.
	ReconfigureItems(items []Item, animate bool, completion func())
	// Update re-reads the section's Items and replaces its content.
	Update(animate bool, completion func())
	// ReplaceItems replaces the section's content with items once the
	// operation runs, so earlier queued mutations cannot overwrite them.
	ReplaceItems(items []Item, animate bool, completion func())
}

// Capability is one optional interface a section may implement.
type Capability uint8

const (
	CapSupplementary Capability = 1 << iota
	CapPrefetch
	CapImpressions
	CapLayout
	CapStyle
	CapLifecycle
	CapItemsSetter
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapSupplementary, "supplementary"},
	{CapPrefetch, "prefetch"},
	{CapImpressions, "impressions"},
	{CapLayout, "layout"},
	{CapStyle, "style"},
	{CapLifecycle, "lifecycle"},
	{CapItemsSetter, "items_setter"},
}

// CapabilitySet describes which optional interfaces a section implements.
type CapabilitySet uint8

// CapabilitiesOf inspects s once. The engine stores the result alongside the
// section so hot paths never repeat the type assertions.
func CapabilitiesOf(s Section) CapabilitySet {
	var set CapabilitySet
	if _, ok := s.(Supplementary); ok {
		set |= CapabilitySet(CapSupplementary)
	}
	if _, ok := s.(Prefetcher); ok {
		set |= CapabilitySet(CapPrefetch)
	}
	if _, ok := s.(ImpressionReporter); ok {
		set |= CapabilitySet(CapImpressions)
	}
	if _, ok := s.(LayoutProvider); ok {
		set |= CapabilitySet(CapLayout)
	}
	if _, ok := s.(Styled); ok {
		set |= CapabilitySet(CapStyle)
	}
	if _, ok := s.(Lifecycle); ok {
		set |= CapabilitySet(CapLifecycle)
	}
	if _, ok := s.(ItemsSetter); ok {
		set |= CapabilitySet(CapItemsSetter)
	}
	if d, ok := s.(CapabilityDeclarer); ok {
		set &= d.Capabilities()
	}
	return set
}

// CapabilityDeclarer lets a section type that implements every optional
// interface narrow down the ones it actually uses. Declaring a capability
// the type does not implement has no effect.
type CapabilityDeclarer interface {
	Capabilities() CapabilitySet
}

// Of builds a set from individual capabilities.
func Of(caps ...Capability) CapabilitySet {
	var set CapabilitySet
	for _, c := range caps {
		set |= CapabilitySet(c)
	}
	return set
}

// Has reports whether c is part of the set.
func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// Names lists the capabilities in declaration order.
func (s CapabilitySet) Names() []string {
	var names []string
	for _, c := range capabilityNames {
		if s.Has(c.cap) {
			names = append(names, c.name)
		}
	}
	return names
}
