package runtime_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/sectionkit/internal/runtime"
	"github.com/aretw0/sectionkit/internal/testutils"
	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/ports"
	"github.com/aretw0/sectionkit/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = 10 * time.Millisecond

func newTestEngine(t *testing.T, surface *testutils.Surface, opts ...runtime.EngineOption) (*runtime.Engine, *scheduler.Manual) {
	t.Helper()
	clock := scheduler.NewManual()
	base := []runtime.EngineOption{
		runtime.WithScheduler(clock),
		runtime.WithCoalesceInterval(testInterval),
	}
	return runtime.NewEngine(surface, append(base, opts...)...), clock
}

func sections(ss ...domain.Section) []domain.Section { return ss }

func TestEngine_AppendItemsFiltersDuplicates(t *testing.T) {
	surface := testutils.NewSurface()
	engine, clock := newTestEngine(t, surface)

	engine.AppendSections(sections(testutils.NewPlain("S1", "a", "b")), false, nil)
	engine.AppendItems("S1", domain.StringItems("b", "c", "c"), true, nil)
	clock.Drain()

	assert.Equal(t, []string{"S1-a", "S1-b", "S1-c"}, engine.Snapshot().ItemKeys("S1"))
	assert.Equal(t, domain.ApplyAnimated, surface.Last().Mode)
}

func TestEngine_AppendSectionsDeduplicates(t *testing.T) {
	surface := testutils.NewSurface()
	engine, clock := newTestEngine(t, surface)

	engine.AppendSections(sections(
		testutils.NewPlain("A", "1", "1", "2"),
		testutils.NewPlain("A", "9"),
		testutils.NewPlain("B"),
	), false, nil)
	engine.AppendSections(sections(testutils.NewPlain("B", "x"), testutils.NewPlain("C")), false, nil)
	clock.Drain()

	snap := engine.Snapshot()
	assert.Equal(t, []string{"A", "B", "C"}, snap.SectionKeys())
	assert.Equal(t, []string{"A-1", "A-2"}, snap.ItemKeys("A"))
	assert.Empty(t, snap.ItemKeys("B"), "second B was filtered")
	assert.Equal(t, 3, engine.NumberOfSections())
	assert.Equal(t, 2, engine.NumberOfItems(0))
}

func TestEngine_UnknownReferencesAreIgnored(t *testing.T) {
	surface := testutils.NewSurface()
	engine, clock := newTestEngine(t, surface)

	engine.AppendSections(sections(testutils.NewPlain("A", "1")), false, nil)
	clock.Drain()
	before := engine.Snapshot()

	calls := 0
	done := func() { calls++ }
	engine.DeleteSections([]string{"nope"}, true, done)
	engine.DeleteItems("A", []string{"nope"}, true, done)
	engine.DeleteItems("nope", []string{"1"}, true, done)
	engine.MoveSection("A", domain.Before("nope"), true, done)
	engine.MoveItem("A", "1", domain.After("nope"), true, done)
	engine.InsertItems("A", domain.StringItems("2"), domain.Before("nope"), true, done)
	engine.ReconfigureItems("A", domain.StringItems("nope"), true, done)
	engine.UpdateSections([]domain.SectionUpdate{{Section: testutils.NewPlain("nope")}}, true, done)
	clock.Drain()

	assert.Equal(t, 8, calls, "every completion still runs")
	assert.True(t, before.Equal(engine.Snapshot()))
	assert.Len(t, surface.Applied(), 9, "the surface still sees every operation")
}

func TestEngine_KeyCollisionAcrossSectionsIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	surface := testutils.NewSurface()
	engine, clock := newTestEngine(t, surface, runtime.WithLogger(logger))

	// "a-b"+"c" and "a"+"b-c" share the key "a-b-c"; the first owner keeps it
	engine.AppendSections(sections(testutils.NewPlain("a-b", "c"), testutils.NewPlain("a", "b-c")), false, nil)
	clock.Drain()

	snap := engine.Snapshot()
	assert.Equal(t, []string{"a-b-c"}, snap.ItemKeys("a-b"))
	assert.Empty(t, snap.ItemKeys("a"))
	assert.Equal(t, 0, engine.NumberOfItems(1))
	assert.Contains(t, logs.String(), "key=a-b-c")
	assert.Contains(t, logs.String(), `reason="item key owned by another section"`)
}

func TestEngine_InsertBeforeMissingSectionOnEmptyList(t *testing.T) {
	surface := testutils.NewSurface()
	engine, clock := newTestEngine(t, surface)

	called := false
	engine.InsertSections(sections(testutils.NewPlain("X")), domain.Before("Y"), true, func() { called = true })
	clock.Drain()

	assert.True(t, called)
	assert.Equal(t, 0, engine.Snapshot().NumberOfSections())
	assert.Equal(t, 0, engine.NumberOfSections())
}

func TestEngine_InsertSectionsNextToAnchor(t *testing.T) {
	engine, clock := newTestEngine(t, testutils.NewSurface())

	engine.AppendSections(sections(testutils.NewPlain("A"), testutils.NewPlain("C")), false, nil)
	engine.InsertSections(sections(testutils.NewPlain("B", "1")), domain.After("A"), false, nil)
	engine.InsertSections(sections(testutils.NewPlain("Z")), domain.Before("A"), false, nil)
	clock.Drain()

	assert.Equal(t, []string{"Z", "A", "B", "C"}, engine.Snapshot().SectionKeys())
	idx, ok := engine.IndexOf("B")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, []string{"B-1"}, engine.Snapshot().ItemKeys("B"))
}

func TestEngine_ReloadIsIdempotentAndNeverAnimated(t *testing.T) {
	surface := testutils.NewSurface()
	engine, clock := newTestEngine(t, surface)

	input := func() []domain.Section {
		return sections(testutils.NewPlain("A", "1", "2"), testutils.NewPlain("B", "3"))
	}
	engine.ReloadSections(input(), nil)
	clock.Drain()
	first := engine.Snapshot()

	engine.ReloadSections(input(), nil)
	clock.Drain()
	second := engine.Snapshot()

	assert.True(t, first.Equal(second))
	assert.NotSame(t, first, second)
	for _, a := range surface.Applied() {
		assert.Equal(t, domain.ApplyReload, a.Mode)
	}
}

func TestEngine_ReloadReplacesWholesale(t *testing.T) {
	engine, clock := newTestEngine(t, testutils.NewSurface())

	engine.AppendSections(sections(testutils.NewPlain("A", "1"), testutils.NewPlain("B")), false, nil)
	engine.ReloadSections(sections(testutils.NewPlain("C", "x"), testutils.NewPlain("A", "2")), nil)
	clock.Drain()

	snap := engine.Snapshot()
	assert.Equal(t, []string{"C", "A"}, snap.SectionKeys())
	assert.Equal(t, []string{"A-2"}, snap.ItemKeys("A"))
	item, ok := engine.ItemAt(domain.IndexPath{Section: 1, Item: 0})
	require.True(t, ok)
	assert.Equal(t, "2", item.ID())
}

func TestEngine_ModesPerStrategy(t *testing.T) {
	t.Run("diff", func(t *testing.T) {
		surface := testutils.NewSurface()
		engine, clock := newTestEngine(t, surface)
		engine.AppendSections(sections(testutils.NewPlain("A")), true, nil)
		engine.AppendItems("A", domain.StringItems("1"), false, nil)
		clock.Drain()

		applied := surface.Applied()
		require.Len(t, applied, 2)
		assert.Equal(t, domain.ApplyAnimated, applied[0].Mode)
		assert.Equal(t, domain.ApplyImmediate, applied[1].Mode)
	})

	t.Run("always reload", func(t *testing.T) {
		surface := testutils.NewSurface()
		engine, clock := newTestEngine(t, surface, runtime.WithReloadStrategy(domain.ReloadAlways))
		engine.AppendSections(sections(testutils.NewPlain("A")), true, nil)
		engine.AppendItems("A", domain.StringItems("1"), true, nil)
		engine.DeleteItems("A", []string{"1"}, true, nil)
		clock.Drain()

		applied := surface.Applied()
		require.Len(t, applied, 3)
		for _, a := range applied {
			assert.Equal(t, domain.ApplyReload, a.Mode, "animate is ignored")
		}
		assert.Empty(t, engine.Snapshot().ItemKeys("A"))
	})
}

func TestEngine_OperationsApplyInSubmissionOrder(t *testing.T) {
	surface := testutils.NewSurface()
	engine, clock := newTestEngine(t, surface)

	var order []string
	engine.AppendSections(sections(testutils.NewPlain("A")), false, func() { order = append(order, "append") })
	engine.AppendItems("A", domain.StringItems("1"), false, func() { order = append(order, "items") })
	engine.DeleteSections([]string{"A"}, false, func() { order = append(order, "delete") })

	assert.Equal(t, []string{"append"}, order, "first runs synchronously")
	assert.Equal(t, 2, engine.Pending())

	clock.Drain()
	assert.Equal(t, []string{"append", "items", "delete"}, order)

	applied := surface.Applied()
	require.Len(t, applied, 3)
	assert.Equal(t, []string{"A-1"}, applied[1].Snapshot.ItemKeys("A"))
	assert.Equal(t, 0, applied[2].Snapshot.NumberOfSections())
}

func TestEngine_WaitsForSurfaceCompletion(t *testing.T) {
	surface := testutils.NewSurface()
	surface.Hold = true
	engine, clock := newTestEngine(t, surface)

	engine.AppendSections(sections(testutils.NewPlain("A")), true, nil)
	engine.AppendSections(sections(testutils.NewPlain("B")), true, nil)
	clock.Drain()
	assert.Len(t, surface.Applied(), 1, "second waits for the first animation")

	surface.Release()
	clock.Drain()
	assert.Len(t, surface.Applied(), 2)
	assert.Equal(t, []string{"A", "B"}, engine.Snapshot().SectionKeys())
}

func TestEngine_MoveAndInsertItems(t *testing.T) {
	engine, clock := newTestEngine(t, testutils.NewSurface())

	engine.AppendSections(sections(testutils.NewPlain("A", "1", "2", "3"), testutils.NewPlain("B", "x")), false, nil)
	engine.MoveItem("A", "3", domain.Before("1"), false, nil)
	engine.InsertItems("A", domain.StringItems("n", "2"), domain.After("1"), false, nil)
	engine.MoveItem("A", "1", domain.Before("x"), false, nil) // cross section, ignored
	engine.MoveSection("B", domain.Before("A"), false, nil)
	clock.Drain()

	snap := engine.Snapshot()
	assert.Equal(t, []string{"B", "A"}, snap.SectionKeys())
	assert.Equal(t, []string{"A-3", "A-1", "A-n", "A-2"}, snap.ItemKeys("A"))

	key, ok := engine.ItemIdentifier(domain.IndexPath{Section: 1, Item: 2})
	require.True(t, ok)
	assert.Equal(t, "A-n", key)
}

func TestEngine_DeleteSectionsAndItems(t *testing.T) {
	engine, clock := newTestEngine(t, testutils.NewSurface())

	engine.AppendSections(sections(testutils.NewPlain("A", "1", "2"), testutils.NewPlain("B"), testutils.NewPlain("C")), false, nil)
	engine.DeleteItems("A", []string{"1", "1", "zz"}, true, nil)
	engine.DeleteSections([]string{"C", "B", "B"}, true, nil)
	clock.Drain()

	snap := engine.Snapshot()
	assert.Equal(t, []string{"A"}, snap.SectionKeys())
	assert.Equal(t, []string{"A-2"}, snap.ItemKeys("A"))
	_, ok := engine.SectionAt(1)
	assert.False(t, ok)
}

func TestEngine_UpdateSectionsMarksRefresh(t *testing.T) {
	update := domain.SectionUpdate{
		Section:        testutils.NewPlain("A", "1", "2", "3"),
		RefreshItems:   []string{"2", "missing"},
		RefreshHeader:  true,
		RefreshCustoms: []string{"badge"},
	}

	t.Run("reconfigure capable surface", func(t *testing.T) {
		surface := testutils.NewCapableSurface(ports.SurfaceCapabilities{Reconfigure: true})
		engine, clock := newTestEngine(t, surface)
		engine.AppendSections(sections(testutils.NewPlain("A", "1", "2")), false, nil)
		engine.UpdateSections([]domain.SectionUpdate{update}, true, nil)
		clock.Drain()

		snap := engine.Snapshot()
		assert.Equal(t, []string{"A-1", "A-2", "A-3"}, snap.ItemKeys("A"))
		marks := snap.Marks()
		assert.Equal(t, []string{"A-2"}, marks.ReconfiguredItems)
		assert.Empty(t, marks.ReloadedItems)
		assert.Equal(t, []domain.SupplementaryRef{
			{Section: "A", Kind: domain.KindHeader},
			{Section: "A", Kind: "badge"},
		}, marks.Supplementary)
		assert.Equal(t, domain.ApplyAnimated, surface.Last().Mode)
	})

	t.Run("baseline surface downgrades to reload", func(t *testing.T) {
		surface := testutils.NewSurface()
		engine, clock := newTestEngine(t, surface)
		engine.AppendSections(sections(testutils.NewPlain("A", "1", "2")), false, nil)
		engine.UpdateSections([]domain.SectionUpdate{update}, true, nil)
		clock.Drain()

		marks := engine.Snapshot().Marks()
		assert.Equal(t, []string{"A-2"}, marks.ReloadedItems)
		assert.Empty(t, marks.ReconfiguredItems)
	})
}

func TestEngine_ReconfigureSwapsValues(t *testing.T) {
	engine, clock := newTestEngine(t, testutils.NewCapableSurface(ports.SurfaceCapabilities{Reconfigure: true}))

	engine.AppendSections(sections(testutils.Plain{SectionID: "feed", Values: []domain.Item{postItem{"1", "old"}}}), false, nil)
	engine.ReconfigureItems("feed", []domain.Item{postItem{"1", "new"}, postItem{"2", "ghost"}}, true, nil)
	clock.Drain()

	item, ok := engine.ItemAt(domain.IndexPath{Section: 0, Item: 0})
	require.True(t, ok)
	assert.Equal(t, "new", item.(postItem).title)
	assert.Equal(t, []string{"feed-1"}, engine.Snapshot().Marks().ReconfiguredItems)

	engine.ReloadItems("feed", []domain.Item{postItem{"1", "newer"}}, false, nil)
	clock.Drain()
	assert.Equal(t, []string{"feed-1"}, engine.Snapshot().Marks().ReloadedItems)
	assert.Empty(t, engine.Snapshot().Marks().ReconfiguredItems, "marks only describe the last transition")
}

type postItem struct {
	id    string
	title string
}

func (p postItem) ID() string { return p.id }

func TestEngine_NoopDropsStaleMarks(t *testing.T) {
	engine, clock := newTestEngine(t, testutils.NewSurface())

	engine.AppendSections(sections(testutils.NewPlain("A", "1")), false, nil)
	engine.ReloadItems("A", domain.StringItems("1"), false, nil)
	engine.DeleteItems("A", []string{"ghost"}, false, nil)
	clock.Drain()

	assert.True(t, engine.Snapshot().Marks().IsEmpty())
}

func TestEngine_Hooks(t *testing.T) {
	var queued, applied []*domain.OperationEvent
	hooks := domain.Hooks{
		OnOperationQueued:  func(e *domain.OperationEvent) { queued = append(queued, e) },
		OnOperationApplied: func(e *domain.OperationEvent) { applied = append(applied, e) },
	}
	engine, clock := newTestEngine(t, testutils.NewSurface(), runtime.WithHooks(hooks), runtime.WithListID("feed"))

	engine.AppendSections(sections(testutils.NewPlain("A", "1", "2")), true, nil)
	engine.DeleteSections([]string{"ghost"}, false, nil)
	engine.ReloadSections(nil, nil)
	clock.Drain()

	require.Len(t, queued, 3)
	require.Len(t, applied, 3)
	assert.Equal(t, domain.EventOperationQueued, queued[0].Type)
	assert.Equal(t, 0, queued[1].Pending)
	assert.Equal(t, 1, queued[2].Pending, "the reload is buffered behind the delete")
	assert.Equal(t, domain.ApplyReload, queued[2].Mode)

	assert.Equal(t, "feed", applied[0].ListID)
	assert.Equal(t, domain.OpAppendSections, applied[0].Op)
	assert.True(t, applied[0].Changed)
	assert.Equal(t, 2, applied[0].Items)
	assert.False(t, applied[1].Changed)
	assert.Equal(t, domain.OpReloadSections, applied[2].Op)
	assert.Equal(t, 0, applied[2].Sections)
}
