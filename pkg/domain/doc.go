/*
Package domain contains the core models of the sectionkit list engine.

It defines how sections and items are identified, the immutable Snapshot the
rendering surface consumes, the Editor used to derive one snapshot from the
next, and the Changeset describing a transition. The package is kept pure and
free of I/O so that both the engine and its adapters can share it.

# Key Entities

  - Section: a host supplied group of items plus optional capabilities
    (supplementary views, prefetching, impressions, layout, lifecycle).
  - Item: anything with an ID unique inside its section.
  - Composite key: ItemKey(sectionID, itemID), unique across the whole list.
  - Snapshot: ordered section keys and, per section, ordered item keys.
  - Changeset: inserted, deleted and moved keys between two snapshots.
*/
package domain
