package tui

import (
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/sectionkit/pkg/adapters/headless"
	"github.com/muesli/termenv"
)

// Printer writes frames as coloured changeset summaries.
type Printer struct {
	out     io.Writer
	profile termenv.Profile
}

// NewPrinter creates a printer. termenv.Ascii disables colours.
func NewPrinter(out io.Writer, profile termenv.Profile) *Printer {
	return &Printer{out: out, profile: profile}
}

func (p *Printer) paint(s, color string) termenv.Style {
	return termenv.String(s).Foreground(p.profile.Color(color))
}

// Frame prints one applied snapshot. Lines start with + for insertions,
// - for deletions, ~ for moves and * for forced refreshes.
func (p *Printer) Frame(f headless.Frame) {
	fmt.Fprintf(p.out, "%s %s\n", p.paint(fmt.Sprintf("#%d", f.Seq), "#818cf8"), f.ModeName)
	cs := f.Changeset
	if cs == nil || cs.IsEmpty() {
		fmt.Fprintln(p.out, "  (no changes)")
		return
	}
	for _, s := range cs.DeletedSections {
		p.line("-", "section "+s, "#fb7185")
	}
	for _, s := range cs.InsertedSections {
		p.line("+", "section "+s, "#4ade80")
	}
	for _, s := range cs.MovedSections {
		p.line("~", "section "+s, "#facc15")
	}

	sections := make([]string, 0, len(cs.Items))
	for s := range cs.Items {
		sections = append(sections, s)
	}
	sort.Strings(sections)
	for _, s := range sections {
		ch := cs.Items[s]
		for _, k := range ch.Deleted {
			p.line("-", k, "#fb7185")
		}
		for _, k := range ch.Inserted {
			p.line("+", k, "#4ade80")
		}
		for _, k := range ch.Moved {
			p.line("~", k, "#facc15")
		}
	}
	for _, m := range markList(cs.Marks) {
		p.line("*", m, "#22d3ee")
	}
}

func (p *Printer) line(sign, text, color string) {
	fmt.Fprintf(p.out, "  %s\n", p.paint(sign+" "+text, color))
}

// Banner prints the tool name and version.
func (p *Printer) Banner(version string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.paint(" ┌─┐┌─┐┌─┐┌┬┐┬┌─┐┌┐┌┬┌─┬┌┬┐", "#818cf8"))
	fmt.Fprintln(p.out, p.paint(" └─┐├┤ │   │ ││ ││││├┴┐│ │ ", "#c084fc"))
	fmt.Fprintln(p.out, p.paint(" └─┘└─┘└─┘ ┴ ┴└─┘┘└┘┴ ┴┴ ┴ ", "#f472b6"))
	fmt.Fprintf(p.out, " %s\n\n", p.paint("v"+version, "#a78bfa"))
}
