/*
Package section provides a fluent builder for closure-backed sections.

Implementing domain.Section and its optional interfaces by hand is the most
flexible option, but most sections are a list of values plus a handful of
callbacks. The builder wires those callbacks and declares exactly the
capabilities that were configured, so the engine never routes prefetch or
impression traffic to a section that did not ask for it.

Example usage:

	feed := section.New("feed", posts...).
		Cell(func(p Post, _ int) any { return p.Title }).
		Size(section.Fixed(domain.Size{Height: 88})).
		Header(func(int) any { return "Latest" }).
		OnImpression(func(p Post, _ int) { analytics.Seen(p.ID()) }).
		Build()

	engine.AppendSections([]domain.Section{feed}, true, nil)

	// Later, from anywhere holding the section:
	feed.Append([]Post{next}, true, nil)

The built section keeps its own copy of the values in sync with the engine,
so Values always reflects what the surface shows.
*/
package section
