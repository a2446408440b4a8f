/*
Package ports defines the driven ports (interfaces) of the sectionkit engine.

These interfaces decouple the list engine from the host: the engine never draws,
never sleeps on its own and never persists anything directly.

# Key Interfaces

  - RenderingSurface: receives snapshots and reports visible index paths and
    container size. VisibilityReporter and CapabilityReporter are optional.
  - Scheduler: runs the throttler's delayed continuations.
  - ImpressionStore: remembers which items already fired an impression.
*/
package ports
