package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// NewRenderer returns a function that renders markdown using glamour.
// Rich output follows the terminal background; otherwise the plain notty
// style is used, which is what pipes and CI logs want.
func NewRenderer(rich bool, width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(styles.NoTTYStyle)}
	if rich {
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle()}
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// SnapshotMarkdown describes a snapshot as a markdown document: one heading
// per section followed by its item keys.
func SnapshotMarkdown(title string, view domain.SnapshotView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(view.Sections) == 0 {
		b.WriteString("_empty list_\n")
		return b.String()
	}
	for i, sec := range view.Sections {
		fmt.Fprintf(&b, "## %d. %s (%d)\n\n", i, sec.Key, len(sec.Items))
		for _, key := range sec.Items {
			fmt.Fprintf(&b, "- `%s`\n", key)
		}
		b.WriteString("\n")
	}
	if view.Marks != nil {
		b.WriteString("**Refreshed:** ")
		b.WriteString(strings.Join(markList(*view.Marks), ", "))
		b.WriteString("\n")
	}
	return b.String()
}

func markList(m domain.Marks) []string {
	var out []string
	for _, s := range m.ReloadedSections {
		out = append(out, "reload "+s)
	}
	for _, k := range m.ReloadedItems {
		out = append(out, "reload "+k)
	}
	for _, k := range m.ReconfiguredItems {
		out = append(out, "reconfigure "+k)
	}
	for _, ref := range m.Supplementary {
		out = append(out, ref.Kind+" of "+ref.Section)
	}
	return out
}
