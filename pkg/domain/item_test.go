package domain_test

import (
	"testing"

	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/stretchr/testify/assert"
)

type stubSection struct{ id string }

func (s stubSection) ID() string { return s.id }
func (s stubSection) Items() []domain.Item { return nil }
func (s stubSection) Cell(domain.Item, int) any { return nil }
func (s stubSection) Size(domain.Environment, int) domain.Size { return domain.Size{} }

type prefetchingSection struct{ stubSection }

func (prefetchingSection) Prefetch([]int) {}
func (prefetchingSection) CancelPrefetch([]int) {}

func TestItemKey(t *testing.T) {
	assert.Equal(t, "feed-42", domain.ItemKey("feed", "42"))
}

func TestUniqueItems(t *testing.T) {
	existing := map[string]bool{"a": true}
	got := domain.UniqueItems(domain.StringItems("b", "a", "c", "b"), func(id string) bool { return existing[id] })
	assert.Equal(t, []string{"b", "c"}, domain.ItemIDs(got))

	got = domain.UniqueItems(domain.StringItems("x", "x"), nil)
	assert.Equal(t, []string{"x"}, domain.ItemIDs(got))
}

func TestUniqueSections(t *testing.T) {
	in := []domain.Section{stubSection{"A"}, nil, stubSection{"B"}, stubSection{"A"}}
	got := domain.UniqueSections(in, func(id string) bool { return id == "B" })
	if assert.Len(t, got, 1) {
		assert.Equal(t, "A", got[0].ID())
	}
}

func TestKnownIDs(t *testing.T) {
	got := domain.KnownIDs([]string{"a", "zz", "a", "b"}, func(id string) bool { return id != "zz" })
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestCapabilitiesOf(t *testing.T) {
	plain := domain.CapabilitiesOf(stubSection{"A"})
	assert.False(t, plain.Has(domain.CapPrefetch))
	assert.Empty(t, plain.Names())

	caps := domain.CapabilitiesOf(prefetchingSection{stubSection{"B"}})
	assert.True(t, caps.Has(domain.CapPrefetch))
	assert.False(t, caps.Has(domain.CapImpressions))
	assert.Equal(t, []string{"prefetch"}, caps.Names())
}

type declaringSection struct{ prefetchingSection }

func (declaringSection) Capabilities() domain.CapabilitySet {
	return domain.Of(domain.CapImpressions)
}

func TestCapabilitiesOf_DeclaredSubset(t *testing.T) {
	caps := domain.CapabilitiesOf(declaringSection{prefetchingSection{stubSection{"C"}}})
	assert.False(t, caps.Has(domain.CapPrefetch), "prefetch was not declared")
	assert.False(t, caps.Has(domain.CapImpressions), "declared but not implemented")
}
