package ports

import "context"

// ImpressionStore persists the per-section set of item keys that already
// fired an impression. Records only grow until Reset.
type ImpressionStore interface {
	// MarkImpressed records key under section and reports whether it was new.
	MarkImpressed(ctx context.Context, section, key string) (bool, error)

	// Impressed lists the keys recorded for section, in no particular order.
	Impressed(ctx context.Context, section string) ([]string, error)

	// Reset forgets every record.
	Reset(ctx context.Context) error
}
