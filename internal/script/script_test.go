package script_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sectionkit"
	"github.com/aretw0/sectionkit/internal/script"
	"github.com/aretw0/sectionkit/pkg/adapters/headless"
	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RejectsInvalidScenarios(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown op", "steps:\n  - op: explode\n", domain.ErrUnknownOperation},
		{"unknown argument", "steps:\n  - op: append_items\n    section: a\n    colour: red\n", domain.ErrInvalidScenario},
		{"missing anchor", "steps:\n  - op: insert_items\n    section: a\n    items: [x]\n", domain.ErrInvalidScenario},
		{"both anchors", "steps:\n  - op: move_item\n    section: a\n    id: x\n    before: y\n    after: z\n", domain.ErrInvalidScenario},
		{"section without id", "steps:\n  - op: append_sections\n    sections: [{items: [a]}]\n", domain.ErrInvalidScenario},
		{"bad coalesce", "engine:\n  coalesce: soon\n", domain.ErrInvalidScenario},
		{"bad reload", "engine:\n  reload: sometimes\n", domain.ErrInvalidScenario},
		{"bad axis", "engine:\n  axis: diagonal\n", domain.ErrInvalidScenario},
		{"bad wait", "steps:\n  - op: wait\n    duration: later\n", domain.ErrInvalidScenario},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := script.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	sc, err := script.Load("testdata/feed.yaml")
	require.NoError(t, err)
	assert.Equal(t, "home feed", sc.Name)
	require.Len(t, sc.Steps, 9)
	assert.True(t, sc.Steps[0].Animate)
	assert.Equal(t, "feed", sc.Steps[1].Args["section"])

	_, err = script.Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestRunner_ReplaysFeed(t *testing.T) {
	sc, err := script.Load("testdata/feed.yaml")
	require.NoError(t, err)

	var steps []string
	var frames int
	var ready bool
	runner := script.NewRunner(
		script.OnReady(func(e *sectionkit.Engine, _ *headless.Surface) { ready = e.Pending() == 0 }),
		script.OnStep(func(_ int, s script.Step) { steps = append(steps, s.Op) }),
		script.OnFrame(func(headless.Frame) { frames++ }),
	)
	res, err := runner.Run(context.Background(), sc)
	require.NoError(t, err)

	assert.True(t, ready)
	assert.Len(t, steps, 9)
	assert.Equal(t, 6, frames)
	assert.Len(t, res.Frames, 6)
	assert.Equal(t, 6, res.Completions)
	assert.Equal(t, "home", res.Engine.ListID())

	require.Len(t, res.Final.Sections, 2)
	assert.Equal(t, "feed", res.Final.Sections[0].Key)
	assert.Equal(t, []string{"feed-p0", "feed-p1", "feed-p2", "feed-p3", "feed-p4"}, res.Final.Sections[0].Items)
	assert.Equal(t, []string{"stories-s2"}, res.Final.Sections[1].Items)
	require.NotNil(t, res.Final.Marks)
	assert.Equal(t, []string{"feed-p2"}, res.Final.Marks.ReconfiguredItems)

	// scrolled to 150 in a 200 tall viewport of 100 tall rows: only p2 is
	// more than half visible
	require.Len(t, res.Impressions, 1)
	assert.Equal(t, "feed-p2", res.Impressions[0].Item)

	assert.True(t, res.Engine.SurfaceCapabilities().Reconfigure)
	assert.Equal(t, "animated", res.Frames[0].ModeName)
	assert.Equal(t, "immediate", res.Frames[1].ModeName)
}

func TestRunner_ReloadAlwaysFromJSON(t *testing.T) {
	sc, err := script.Load("testdata/reset.json")
	require.NoError(t, err)

	res, err := script.NewRunner().Run(context.Background(), sc)
	require.NoError(t, err)

	require.Len(t, res.Frames, 3)
	for _, f := range res.Frames {
		assert.Equal(t, "reload", f.ModeName)
	}
	assert.Equal(t, 3, res.Completions)
	require.Len(t, res.Final.Sections, 1)
	assert.Equal(t, []string{"b-2"}, res.Final.Sections[0].Items)
}

func TestRunner_WallClockOnLoop(t *testing.T) {
	sc, err := script.Parse([]byte(`
engine:
  coalesce: 1ms
steps:
  - op: append_sections
    sections: [{id: a, items: ["1"]}]
  - op: append_items
    section: a
    items: ["2", "3"]
  - op: move_item
    section: a
    id: "3"
    before: "1"
`))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loop := scheduler.NewLoop(0)
	go loop.Run(ctx)

	res, err := script.NewRunner(script.WithClock(script.WallClock{Scheduler: loop})).Run(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Completions)
	assert.Equal(t, []string{"a-3", "a-1", "a-2"}, res.Final.Sections[0].Items)
}

func TestRunner_CancelledContext(t *testing.T) {
	sc, err := script.Parse([]byte("steps:\n  - op: reset\n"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = script.NewRunner().Run(ctx, sc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_UncompiledScenario(t *testing.T) {
	sc := &script.Scenario{Steps: []script.Step{{Op: "reset"}}}
	_, err := script.NewRunner().Run(context.Background(), sc)
	assert.ErrorIs(t, err, domain.ErrInvalidScenario)
}
