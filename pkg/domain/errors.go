package domain

import "errors"

// ErrUnknownSection is used when an operation names a section that is not registered.
var ErrUnknownSection = errors.New("unknown section")

// ErrUnknownItem is used when an operation names an item that is not part of its section.
var ErrUnknownItem = errors.New("unknown item")

// ErrUnknownAnchor is used when a relative insert or move references a missing key.
var ErrUnknownAnchor = errors.New("unknown anchor")

// ErrKeyCollision is used when an item's composite key is already owned by another section.
var ErrKeyCollision = errors.New("item key owned by another section")

// ErrNothingToApply is used when every candidate of an operation was filtered out.
var ErrNothingToApply = errors.New("nothing to apply")

// ErrNilSurface is returned when an engine is created without a rendering surface.
var ErrNilSurface = errors.New("rendering surface is required")

// ErrUnknownOperation is returned by scenario loaders for unsupported step names.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrInvalidScenario is returned when a scenario file cannot be used.
var ErrInvalidScenario = errors.New("invalid scenario")
