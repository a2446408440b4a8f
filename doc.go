/*
Package sectionkit keeps a virtualized list view consistent with a model made of sections.

A list is an ordered set of sections. Each section owns an ordered set of identifiable items and
knows how to build their cells, sizes and supplementary views. The engine turns every mutation
into a new immutable snapshot, serializes mutations through a coalescing queue and hands each
snapshot to a rendering surface, which diffs it against what it displays.

# Concept

The engine never touches a platform view directly. Hosts implement ports.RenderingSurface (or use
the headless adapter) and forward the surface's callbacks back to the engine: cells, sizes,
visibility reports, prefetch requests and lifecycle changes. Sections opt into optional behavior
by implementing small capability interfaces; the engine discovers them at registration time.

# Key Features

  - Keyed Diffing: Items are identified by section-scoped keys, so two sections may reuse IDs.
  - Coalesced Updates: The first mutation applies immediately; later ones are spaced by an interval.
  - Impressions: Items more than half visible are reported once per list, optionally through Redis.
  - Headless Surface: Scenarios can be replayed and inspected without any UI toolkit.

# Usage

	package main

	import (
		"log"

		"github.com/aretw0/sectionkit"
		"github.com/aretw0/sectionkit/pkg/adapters/headless"
		"github.com/aretw0/sectionkit/pkg/domain"
		"github.com/aretw0/sectionkit/pkg/section"
	)

	func main() {
		surface := headless.New()
		eng, err := sectionkit.New(surface, sectionkit.WithName("inbox"))
		if err != nil {
			log.Fatal(err)
		}
		surface.Attach(eng)

		mail := section.New("mail", domain.StringItem("a"), domain.StringItem("b")).
			Cell(func(item domain.StringItem, _ int) any { return string(item) }).
			Build()

		eng.AppendSections([]domain.Section{mail}, true, func() {
			log.Println("mail shown")
		})
		mail.Append([]domain.StringItem{"c"}, true, nil)
	}
*/
package sectionkit
