package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/sectionkit/internal/presentation/tui"
	"github.com/aretw0/sectionkit/pkg/adapters/headless"
	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotMarkdown(t *testing.T) {
	view := domain.SnapshotView{
		Sections: []domain.SectionView{
			{Key: "feed", Items: []string{"feed-1", "feed-2"}},
			{Key: "footer", Items: []string{}},
		},
		Marks: &domain.Marks{ReconfiguredItems: []string{"feed-2"}},
	}
	md := tui.SnapshotMarkdown("home", view)

	assert.Contains(t, md, "# home")
	assert.Contains(t, md, "## 0. feed (2)")
	assert.Contains(t, md, "- `feed-2`")
	assert.Contains(t, md, "## 1. footer (0)")
	assert.Contains(t, md, "**Refreshed:** reconfigure feed-2")

	assert.Contains(t, tui.SnapshotMarkdown("empty", domain.SnapshotView{}), "_empty list_")
}

func TestRenderer_Plain(t *testing.T) {
	render, err := tui.NewRenderer(false, 60)
	require.NoError(t, err)
	out, err := render(tui.SnapshotMarkdown("home", domain.SnapshotView{
		Sections: []domain.SectionView{{Key: "feed", Items: []string{"feed-1"}}},
	}))
	require.NoError(t, err)
	assert.Contains(t, out, "feed-1")
}

func TestPrinter_Frame(t *testing.T) {
	var buf bytes.Buffer
	p := tui.NewPrinter(&buf, termenv.Ascii)

	p.Frame(headless.Frame{
		Seq:      3,
		ModeName: "animated",
		Changeset: &domain.Changeset{
			DeletedSections:  []string{"old"},
			InsertedSections: []string{"new"},
			Items: map[string]*domain.ItemChanges{
				"b": {Inserted: []string{"b-2"}},
				"a": {Deleted: []string{"a-1"}, Moved: []string{"a-3"}},
			},
			Marks: domain.Marks{ReloadedItems: []string{"a-4"}},
		},
	})
	p.Frame(headless.Frame{Seq: 4, ModeName: "immediate", Changeset: &domain.Changeset{}})

	assert.Equal(t, `#3 animated
  - section old
  + section new
  - a-1
  ~ a-3
  + b-2
  * reload a-4
#4 immediate
  (no changes)
`, buf.String())
}

func TestPrinter_Banner(t *testing.T) {
	var buf bytes.Buffer
	tui.NewPrinter(&buf, termenv.Ascii).Banner("1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
