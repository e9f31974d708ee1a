package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownParam = errors.New("config: unknown parameter")

// params maps tunable names, as used by sweeps and scenarios, to fields.
var params = map[string]func(c *Config) *float64{
	"bounce_debounce_ms":     func(c *Config) *float64 { return &c.Options.BounceDebounce },
	"time_to_interaction_ms": func(c *Config) *float64 { return &c.Options.TimeToInteraction },
	"bounce_force_x":         func(c *Config) *float64 { return &c.Options.MouseBounceForce.X },
	"bounce_force_y":         func(c *Config) *float64 { return &c.Options.MouseBounceForce.Y },
	"gravity_x":              func(c *Config) *float64 { return &c.Engine.Gravity.X },
	"gravity_y":              func(c *Config) *float64 { return &c.Engine.Gravity.Y },
	"gravity_scale":          func(c *Config) *float64 { return &c.Engine.GravityScale },
	"delta_ms":               func(c *Config) *float64 { return &c.Engine.DeltaMs },
	"duration":               func(c *Config) *float64 { return &c.Duration },
	"pointer_jitter_px":      func(c *Config) *float64 { return &c.PointerJitter },
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) GetParam(name string) (float64, error) {
	field, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return *field(c), nil
}

func (c *Config) SetParam(name string, v float64) error {
	field, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownParam, name, ParamNames())
	}
	*field(c) = v
	return nil
}

// SetParams applies every entry of values, stopping at the first unknown
// name.
func (c *Config) SetParams(values map[string]float64) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.SetParam(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}
