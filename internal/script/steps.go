package script

import (
	"fmt"
	"time"

	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/aretw0/sectionkit/pkg/section"
	"github.com/mitchellh/mapstructure"
)

// Script-only operations. Mutations use the domain.Op names.
const (
	OpWait           = "wait"
	OpScroll         = "scroll"
	OpPrefetch       = "prefetch"
	OpCancelPrefetch = "cancel_prefetch"
	OpActive         = "active"
	OpInactive       = "inactive"
)

type action func(r *run, animate bool) error

// SectionSpec describes a section built from the scenario. Items are plain
// string IDs.
type SectionSpec struct {
	ID            string   `mapstructure:"id"`
	Items         []string `mapstructure:"items"`
	Header        bool     `mapstructure:"header"`
	Footer        bool     `mapstructure:"footer"`
	Supplementary []string `mapstructure:"supplementary"`
	Impressions   bool     `mapstructure:"impressions"`
	Prefetch      bool     `mapstructure:"prefetch"`
	Extent        float64  `mapstructure:"extent"`
	Spacing       float64  `mapstructure:"spacing"`
}

// AnchorSpec names the key a step is placed relative to. Exactly one of
// Before and After is set.
type AnchorSpec struct {
	Before string `mapstructure:"before"`
	After  string `mapstructure:"after"`
}

func (a AnchorSpec) anchor() (domain.Anchor, error) {
	switch {
	case a.Before != "" && a.After != "":
		return domain.Anchor{}, fmt.Errorf("%w: before and after are exclusive", domain.ErrInvalidScenario)
	case a.Before != "":
		return domain.Before(a.Before), nil
	case a.After != "":
		return domain.After(a.After), nil
	}
	return domain.Anchor{}, fmt.Errorf("%w: before or after is required", domain.ErrInvalidScenario)
}

type sectionsArgs struct {
	Sections   []SectionSpec `mapstructure:"sections"`
	AnchorSpec `mapstructure:",squash"`
}

type updateSpec struct {
	Section        SectionSpec `mapstructure:"section"`
	RefreshItems   []string    `mapstructure:"refresh_items"`
	RefreshHeader  bool        `mapstructure:"refresh_header"`
	RefreshFooter  bool        `mapstructure:"refresh_footer"`
	RefreshCustoms []string    `mapstructure:"refresh_customs"`
}

type updateArgs struct {
	Updates []updateSpec `mapstructure:"updates"`
}

type idsArgs struct {
	Section    string   `mapstructure:"section"`
	ID         string   `mapstructure:"id"`
	IDs        []string `mapstructure:"ids"`
	AnchorSpec `mapstructure:",squash"`
}

type itemsArgs struct {
	Section    string   `mapstructure:"section"`
	Items      []string `mapstructure:"items"`
	AnchorSpec `mapstructure:",squash"`
}

type waitArgs struct {
	Duration time.Duration `mapstructure:"duration"`
}

type scrollArgs struct {
	Offset float64 `mapstructure:"offset"`
}

type pathsArgs struct {
	Paths [][2]int `mapstructure:"paths"`
}

func decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidScenario, err)
	}
	return nil
}

func check(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidScenario}, args...)...)
}

// bind validates a step and returns the function that replays it.
func bind(op string, args map[string]any) (action, error) {
	switch op {
	case string(domain.OpAppendSections), string(domain.OpReloadSections), string(domain.OpInsertSections):
		var a sectionsArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		for _, s := range a.Sections {
			if err := check(s.ID != "", "section id is required"); err != nil {
				return nil, err
			}
		}
		switch domain.Op(op) {
		case domain.OpAppendSections:
			return func(r *run, animate bool) error {
				r.engine.AppendSections(r.build(a.Sections), animate, r.completion())
				return nil
			}, nil
		case domain.OpReloadSections:
			return func(r *run, _ bool) error {
				r.engine.ReloadSections(r.build(a.Sections), r.completion())
				return nil
			}, nil
		}
		anchor, err := a.anchor()
		if err != nil {
			return nil, err
		}
		return func(r *run, animate bool) error {
			r.engine.InsertSections(r.build(a.Sections), anchor, animate, r.completion())
			return nil
		}, nil

	case string(domain.OpUpdateSections):
		var a updateArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		return func(r *run, animate bool) error {
			updates := make([]domain.SectionUpdate, len(a.Updates))
			for i, u := range a.Updates {
				updates[i] = domain.SectionUpdate{
					Section:        r.build([]SectionSpec{u.Section})[0],
					RefreshItems:   u.RefreshItems,
					RefreshHeader:  u.RefreshHeader,
					RefreshFooter:  u.RefreshFooter,
					RefreshCustoms: u.RefreshCustoms,
				}
			}
			r.engine.UpdateSections(updates, animate, r.completion())
			return nil
		}, nil

	case string(domain.OpDeleteSections):
		var a idsArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		return func(r *run, animate bool) error {
			r.engine.DeleteSections(a.IDs, animate, r.completion())
			return nil
		}, nil

	case string(domain.OpMoveSection):
		var a idsArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		if err := check(a.ID != "", "id is required"); err != nil {
			return nil, err
		}
		anchor, err := a.anchor()
		if err != nil {
			return nil, err
		}
		return func(r *run, animate bool) error {
			r.engine.MoveSection(a.ID, anchor, animate, r.completion())
			return nil
		}, nil

	case string(domain.OpAppendItems), string(domain.OpInsertItems),
		string(domain.OpReconfigureItems), string(domain.OpReloadItems):
		var a itemsArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		if err := check(a.Section != "", "section is required"); err != nil {
			return nil, err
		}
		items := domain.StringItems(a.Items...)
		switch domain.Op(op) {
		case domain.OpAppendItems:
			return func(r *run, animate bool) error {
				r.engine.AppendItems(a.Section, items, animate, r.completion())
				return nil
			}, nil
		case domain.OpReconfigureItems:
			return func(r *run, animate bool) error {
				r.engine.ReconfigureItems(a.Section, items, animate, r.completion())
				return nil
			}, nil
		case domain.OpReloadItems:
			return func(r *run, animate bool) error {
				r.engine.ReloadItems(a.Section, items, animate, r.completion())
				return nil
			}, nil
		}
		anchor, err := a.anchor()
		if err != nil {
			return nil, err
		}
		return func(r *run, animate bool) error {
			r.engine.InsertItems(a.Section, items, anchor, animate, r.completion())
			return nil
		}, nil

	case string(domain.OpDeleteItems):
		var a idsArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		return func(r *run, animate bool) error {
			r.engine.DeleteItems(a.Section, a.IDs, animate, r.completion())
			return nil
		}, nil

	case string(domain.OpMoveItem):
		var a idsArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		if err := check(a.Section != "" && a.ID != "", "section and id are required"); err != nil {
			return nil, err
		}
		anchor, err := a.anchor()
		if err != nil {
			return nil, err
		}
		return func(r *run, animate bool) error {
			r.engine.MoveItem(a.Section, a.ID, anchor, animate, r.completion())
			return nil
		}, nil

	case string(domain.OpReset):
		if err := decode(args, &struct{}{}); err != nil {
			return nil, err
		}
		return func(r *run, _ bool) error {
			r.engine.Reset(r.ctx, r.completion())
			return nil
		}, nil

	case OpWait:
		var a waitArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		if err := check(a.Duration >= 0, "negative wait"); err != nil {
			return nil, err
		}
		return func(r *run, _ bool) error {
			return r.clock.Advance(r.ctx, a.Duration)
		}, nil

	case OpScroll:
		var a scrollArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		return func(r *run, _ bool) error {
			r.surface.ScrollTo(a.Offset)
			r.engine.DidScroll(r.ctx)
			return nil
		}, nil

	case OpPrefetch, OpCancelPrefetch:
		var a pathsArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		paths := make([]domain.IndexPath, len(a.Paths))
		for i, p := range a.Paths {
			paths[i] = domain.IndexPath{Section: p[0], Item: p[1]}
		}
		if op == OpPrefetch {
			return func(r *run, _ bool) error {
				r.engine.Prefetch(paths)
				return nil
			}, nil
		}
		return func(r *run, _ bool) error {
			r.engine.CancelPrefetch(paths)
			return nil
		}, nil

	case OpActive, OpInactive:
		if err := decode(args, &struct{}{}); err != nil {
			return nil, err
		}
		if op == OpActive {
			return func(r *run, _ bool) error {
				r.engine.DidBecomeActive()
				return nil
			}, nil
		}
		return func(r *run, _ bool) error {
			r.engine.DidBecomeDeactive()
			return nil
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOperation, op)
}

// Build turns a spec into a section. Values are plain string items.
// Impressions are observed through engine hooks, so the section callback is
// empty.
func (s SectionSpec) Build() domain.Section {
	b := section.New(s.ID, toStringItems(s.Items)...).
		Cell(func(item domain.StringItem, _ int) any { return string(item) })
	if s.Extent > 0 {
		b.Size(section.FullWidth(s.Extent))
	}
	if s.Header {
		b.Header(func(int) any { return s.ID })
	}
	if s.Footer {
		b.Footer(func(int) any { return s.ID })
	}
	for _, kind := range s.Supplementary {
		b.Supplementary(kind, func(int) any { return kind })
	}
	if s.Impressions {
		b.OnImpression(func(domain.StringItem, int) {})
	}
	if s.Prefetch {
		b.Prefetch(func([]int) {})
	}
	if s.Spacing > 0 {
		b.Style(domain.Style{LineSpacing: s.Spacing, InteritemSpacing: s.Spacing})
	}
	return b.Build()
}

func toStringItems(ids []string) []domain.StringItem {
	items := make([]domain.StringItem, len(ids))
	for i, id := range ids {
		items[i] = domain.StringItem(id)
	}
	return items
}
