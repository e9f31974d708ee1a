package dropdown

import "github.com/san-kum/matterdrop/internal/engine"

type Options struct {
	// BounceDebounce is the minimum gap in ms between two mouse bounces of
	// the same body.
	BounceDebounce float64 `yaml:"bounce_debounce_ms" json:"bounceDebounce"`
	// TimeToInteraction is how long in ms after the first element is added
	// before the pointer can touch anything. Each body also waits this
	// long after its own creation.
	TimeToInteraction float64       `yaml:"time_to_interaction_ms" json:"timeToInteraction"`
	MouseBounceForce  engine.Vector `yaml:"mouse_bounce_force" json:"mouseBounceForce"`
}

func DefaultOptions() Options {
	return Options{
		BounceDebounce:    50,
		TimeToInteraction: 2000,
		MouseBounceForce:  engine.Vector{X: 0, Y: -0.4},
	}
}

// Overrides are custom options. A nil field keeps the base value and a
// set field always wins, so an explicit zero such as no debounce is kept.
type Overrides struct {
	BounceDebounce    *float64       `yaml:"bounce_debounce_ms,omitempty" json:"bounceDebounce,omitempty"`
	TimeToInteraction *float64       `yaml:"time_to_interaction_ms,omitempty" json:"timeToInteraction,omitempty"`
	MouseBounceForce  *engine.Vector `yaml:"mouse_bounce_force,omitempty" json:"mouseBounceForce,omitempty"`
}

// Merge returns the defaults with every set field of custom applied.
func Merge(custom Overrides) Options {
	return DefaultOptions().With(custom)
}

// With returns o with every set field of custom applied.
func (o Options) With(custom Overrides) Options {
	if custom.BounceDebounce != nil {
		o.BounceDebounce = *custom.BounceDebounce
	}
	if custom.TimeToInteraction != nil {
		o.TimeToInteraction = *custom.TimeToInteraction
	}
	if custom.MouseBounceForce != nil {
		o.MouseBounceForce = *custom.MouseBounceForce
	}
	return o
}
