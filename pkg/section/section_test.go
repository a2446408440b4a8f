package section_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sectionkit"
	"github.com/aretw0/sectionkit/pkg/adapters/headless"
	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/scheduler"
	"github.com/aretw0/sectionkit/pkg/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	Slug  string
	Title string
}

func (p post) ID() string { return p.Slug }

func newEngine(t *testing.T) (*sectionkit.Engine, *headless.Surface, *scheduler.Manual) {
	t.Helper()
	clock := scheduler.NewManual()
	surface := headless.New(headless.WithContainerSize(domain.Size{Width: 320, Height: 100}))
	engine, err := sectionkit.New(surface,
		sectionkit.WithScheduler(clock),
		sectionkit.WithCoalesceInterval(10*time.Millisecond),
	)
	require.NoError(t, err)
	surface.Attach(engine)
	return engine, surface, clock
}

func TestBuilder_DeclaresConfiguredCapabilities(t *testing.T) {
	bare := section.New[post]("bare").Build()
	assert.Equal(t, []string{"lifecycle", "items_setter"}, domain.CapabilitiesOf(bare).Names())

	full := section.New[post]("full").
		Header(func(int) any { return "head" }).
		Prefetch(func([]int) {}).
		OnImpression(func(post, int) {}).
		Layout(func(domain.Environment) any { return "grid" }).
		Style(domain.Style{LineSpacing: 4}).
		Build()
	assert.Equal(t,
		[]string{"supplementary", "prefetch", "impressions", "layout", "style", "lifecycle", "items_setter"},
		domain.CapabilitiesOf(full).Names())
}

func TestBuilder_SupplementaryKindsKeepRegistrationOrder(t *testing.T) {
	s := section.New[post]("s").
		Footer(func(int) any { return "f" }).
		Header(func(int) any { return "h" }).
		Footer(func(int) any { return "f2" }).
		Build()

	assert.Equal(t, []string{domain.KindFooter, domain.KindHeader}, s.SupplementaryKinds())
	assert.Equal(t, "f2", s.Supplementary(domain.KindFooter, 0))
	assert.Nil(t, s.Supplementary("badge", 0))
}

func TestSection_CellsAndSizesThroughEngine(t *testing.T) {
	engine, surface, clock := newEngine(t)
	feed := section.New("feed", post{"a", "Alpha"}, post{"b", "Beta"}).
		Cell(func(p post, i int) any { return p.Title }).
		Size(section.FullWidth(50)).
		Header(func(int) any { return "Feed" }).
		Build()

	engine.AppendSections([]domain.Section{feed}, false, nil)
	clock.Drain()

	assert.Equal(t, "Beta", engine.CellFor(domain.IndexPath{Section: 0, Item: 1}))
	assert.Equal(t, "Feed", engine.SupplementaryFor(domain.KindHeader, domain.IndexPath{Section: 0}))
	assert.Equal(t, domain.Size{Width: 320, Height: 50}, engine.SizeFor(domain.IndexPath{Section: 0, Item: 0}))
	assert.Equal(t, domain.NewRect(0, 50, 320, 50), surface.Layout()[1].Frame)
}

func TestSection_ConvenienceMutations(t *testing.T) {
	engine, _, clock := newEngine(t)
	var added domain.SectionContext
	removed := false
	feed := section.New("feed", post{Slug: "a"}).
		OnAdd(func(ctx domain.SectionContext) { added = ctx }).
		OnRemove(func() { removed = true }).
		Build()

	feed.Append([]post{{Slug: "pre"}}, false, nil)
	assert.Len(t, feed.Values(), 2, "values are buffered before registration")

	engine.AppendSections([]domain.Section{feed}, false, nil)
	clock.Drain()
	require.NotNil(t, added)
	_, ok := feed.Context()
	require.True(t, ok)

	feed.Append([]post{{Slug: "b"}, {Slug: "a"}}, true, nil)
	feed.Delete([]string{"pre"}, true, nil)
	clock.Drain()
	assert.Equal(t, []string{"feed-a", "feed-b"}, engine.Snapshot().ItemKeys("feed"))
	assert.Equal(t, []post{{Slug: "a"}, {Slug: "b"}}, feed.Values())

	feed.Reconfigure([]post{{Slug: "b", Title: "Bee"}}, false, nil)
	clock.Drain()
	assert.Equal(t, "Bee", feed.Values()[1].Title)

	feed.Replace([]post{{Slug: "z"}}, false, nil)
	clock.Drain()
	assert.Equal(t, []string{"feed-z"}, engine.Snapshot().ItemKeys("feed"))

	engine.DeleteSections([]string{"feed"}, false, nil)
	clock.Drain()
	assert.True(t, removed)
	_, ok = feed.Context()
	assert.False(t, ok)
}

func TestSection_ReplaceWaitsForEarlierMutations(t *testing.T) {
	engine, _, clock := newEngine(t)
	feed := section.New("feed", post{Slug: "a"}, post{Slug: "b"}).Build()
	engine.AppendSections([]domain.Section{feed}, false, nil)
	clock.Drain()

	// the first operation starts a cooldown, so both section calls are buffered
	engine.AppendSections([]domain.Section{section.New[post]("other").Build()}, false, nil)
	require.True(t, engine.Busy())
	feed.Append([]post{{Slug: "x"}}, false, nil)
	feed.Replace([]post{{Slug: "p"}, {Slug: "q"}}, false, nil)
	assert.Equal(t, 2, engine.Pending())
	assert.Equal(t, []post{{Slug: "a"}, {Slug: "b"}}, feed.Values(), "values change when the operation runs")

	clock.Drain()
	assert.Equal(t, []string{"feed-p", "feed-q"}, engine.Snapshot().ItemKeys("feed"))
	assert.Equal(t, []post{{Slug: "p"}, {Slug: "q"}}, feed.Values())
}

func TestSection_ImpressionsFromHeadlessScroll(t *testing.T) {
	engine, surface, clock := newEngine(t)
	var seen []string
	feed := section.New("feed", post{Slug: "1"}, post{Slug: "2"}, post{Slug: "3"}, post{Slug: "4"}).
		Size(section.FullWidth(50)).
		OnImpression(func(p post, _ int) { seen = append(seen, p.Slug) }).
		Build()
	engine.AppendSections([]domain.Section{feed}, false, nil)
	clock.Drain()

	ctx := context.Background()
	assert.Equal(t, 2, engine.DidScroll(ctx))
	assert.Equal(t, 0, engine.DidScroll(ctx))

	surface.ScrollTo(100)
	assert.Equal(t, 2, engine.DidScroll(ctx))
	assert.Equal(t, []string{"1", "2", "3", "4"}, seen)
}
