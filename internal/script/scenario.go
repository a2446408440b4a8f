package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/sectionkit/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of engine operations, usually read from a
// YAML file.
type Scenario struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Engine      EngineConfig   `yaml:"engine" json:"engine"`
	Viewport    ViewportConfig `yaml:"viewport" json:"viewport"`
	Steps       []Step         `yaml:"steps" json:"steps"`
}

// EngineConfig mirrors the facade options.
type EngineConfig struct {
	Name string `yaml:"name" json:"name"`
	// Coalesce is a duration string ("100ms"). Empty keeps the default.
	Coalesce string `yaml:"coalesce" json:"coalesce"`
	// Reload is "diff" or "always".
	Reload string `yaml:"reload" json:"reload"`
	// Axis is "vertical" or "horizontal".
	Axis string `yaml:"axis" json:"axis"`
}

// ViewportConfig configures the headless surface.
type ViewportConfig struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	// Animation delays completion of animated applies ("250ms").
	Animation string `yaml:"animation" json:"animation"`
	// Reconfigure and Layout advertise the matching surface capabilities.
	Reconfigure bool `yaml:"reconfigure" json:"reconfigure"`
	Layout      bool `yaml:"layout" json:"layout"`
}

// Step is one scripted operation. Keys other than op and animate are the
// operation's arguments.
type Step struct {
	Op      string         `yaml:"op" json:"op"`
	Animate bool           `yaml:"animate" json:"animate"`
	Args    map[string]any `yaml:",inline" json:"args,omitempty"`

	action action
}

// UnmarshalJSON keeps JSON scenarios flat like the YAML ones.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	op, _ := raw["op"].(string)
	animate, _ := raw["animate"].(bool)
	delete(raw, "op")
	delete(raw, "animate")
	*s = Step{Op: op, Animate: animate, Args: raw}
	return nil
}

// Load reads a scenario from a YAML or JSON file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var sc Scenario
		if err := json.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		if err := sc.compile(); err != nil {
			return nil, err
		}
		return &sc, nil
	}
	return Parse(data)
}

// Parse decodes a YAML scenario and validates every step.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.compile(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Options resolves the engine block.
func (c EngineConfig) Options() (coalesce time.Duration, reload domain.ReloadStrategy, axis domain.Axis, err error) {
	if c.Coalesce != "" {
		coalesce, err = time.ParseDuration(c.Coalesce)
		if err != nil || coalesce < 0 {
			return 0, 0, 0, fmt.Errorf("%w: engine.coalesce %q", domain.ErrInvalidScenario, c.Coalesce)
		}
	}
	reload, ok := domain.ParseReloadStrategy(c.Reload)
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: engine.reload %q", domain.ErrInvalidScenario, c.Reload)
	}
	axis, err = domain.ParseAxis(c.Axis)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: engine.axis: %w", domain.ErrInvalidScenario, err)
	}
	return coalesce, reload, axis, nil
}

func (sc *Scenario) compile() error {
	if _, _, _, err := sc.Engine.Options(); err != nil {
		return err
	}
	if sc.Viewport.Animation != "" {
		if d, err := time.ParseDuration(sc.Viewport.Animation); err != nil || d < 0 {
			return fmt.Errorf("%w: viewport.animation %q", domain.ErrInvalidScenario, sc.Viewport.Animation)
		}
	}
	for i := range sc.Steps {
		step := &sc.Steps[i]
		act, err := bind(step.Op, step.Args)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		step.action = act
	}
	return nil
}
