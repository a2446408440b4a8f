package runtime

import (
	"context"
	"time"

	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/ports"
)

// ImpressionThreshold is the visible fraction an item must exceed.
const ImpressionThreshold = 0.5

type impressionCandidate struct {
	reporter domain.ImpressionReporter
	section  string
	item     domain.Item
	key      string
	index    int
}

// ReportVisibility runs one impression pass and returns how many items were
// impressed for the first time. Items of sections that do not report
// impressions are ignored. Store failures are logged and the item is treated
// as not impressed yet.
func (e *Engine) ReportVisibility(ctx context.Context, bounds domain.Rect, visible []domain.VisibleItem) int {
	candidates := e.impressionCandidates(bounds, visible)

	fired := 0
	for _, c := range candidates {
		fresh, err := e.impressions.MarkImpressed(ctx, e.recordKey(c.section), c.key)
		if err != nil {
			e.logger.Warn("Failed to record impression", "section", c.section, "item", c.key, "err", err)
			continue
		}
		if !fresh {
			continue
		}
		fired++
		c.reporter.Impressed(c.item, c.index)
		if e.hooks.OnImpression != nil {
			e.hooks.OnImpression(&domain.ImpressionEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventImpression, ListID: e.listID},
				Section:   c.section,
				Item:      c.key,
				Index:     c.index,
			})
		}
	}
	return fired
}

// DidScroll pulls visibility from the surface when it can report it.
func (e *Engine) DidScroll(ctx context.Context) int {
	r, ok := e.surface.(ports.VisibilityReporter)
	if !ok {
		return 0
	}
	return e.ReportVisibility(ctx, r.VisibleBounds(), r.VisibleItems())
}

// Impressed lists the composite keys recorded for a section.
func (e *Engine) Impressed(ctx context.Context, section string) ([]string, error) {
	return e.impressions.Impressed(ctx, e.recordKey(section))
}

func (e *Engine) impressionCandidates(bounds domain.Rect, visible []domain.VisibleItem) []impressionCandidate {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []impressionCandidate
	for _, v := range visible {
		if domain.VisibleFraction(v.Frame, bounds, e.env.Axis) <= ImpressionThreshold {
			continue
		}
		en, item, ok := e.registry.itemAt(v.Path)
		if !ok || !en.caps.Has(domain.CapImpressions) {
			continue
		}
		out = append(out, impressionCandidate{
			reporter: en.section.(domain.ImpressionReporter),
			section:  en.id(),
			item:     item,
			key:      en.key(item.ID()),
			index:    v.Path.Item,
		})
	}
	return out
}

func (e *Engine) recordKey(section string) string {
	return e.listID + ":" + section
}
