package page

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scene describes a page: its size, its elements and a scripted pointer.
type Scene struct {
	Name             string        `yaml:"name" json:"name"`
	Width            float64       `yaml:"width" json:"width"`
	Height           float64       `yaml:"height" json:"height"`
	DevicePixelRatio float64       `yaml:"device_pixel_ratio,omitempty" json:"devicePixelRatio,omitempty"`
	BodyClasses      []string      `yaml:"body_classes,omitempty" json:"bodyClasses,omitempty"`
	Elements         []ElementSpec `yaml:"elements" json:"elements"`
	Pointer          []Waypoint    `yaml:"pointer,omitempty" json:"pointer,omitempty"`
}

type ElementSpec struct {
	ID           string     `yaml:"id" json:"id"`
	Classes      []string   `yaml:"classes,omitempty" json:"classes,omitempty"`
	Left         float64    `yaml:"left" json:"left"`
	Top          float64    `yaml:"top" json:"top"`
	Width        float64    `yaml:"width" json:"width"`
	Height       float64    `yaml:"height" json:"height"`
	Transform    string     `yaml:"transform,omitempty" json:"transform,omitempty"`
	BorderRadius string     `yaml:"border_radius,omitempty" json:"borderRadius,omitempty"`
	InitDelayMs  float64    `yaml:"init_delay_ms,omitempty" json:"initDelayMs,omitempty"`
	Label        string     `yaml:"label,omitempty" json:"label,omitempty"`
	Animate      *Animation `yaml:"animate,omitempty" json:"animate,omitempty"`
}

// Animation is a CSS-like animation applied on top of the element's
// transform: a constant spin plus a horizontal sine sway.
type Animation struct {
	SpinDegPerSec float64 `yaml:"spin_deg_per_sec,omitempty" json:"spinDegPerSec,omitempty"`
	SwayPx        float64 `yaml:"sway_px,omitempty" json:"swayPx,omitempty"`
	SwayPeriodMs  float64 `yaml:"sway_period_ms,omitempty" json:"swayPeriodMs,omitempty"`
}

// Waypoint places the pointer at (X, Y) at time TMs.
type Waypoint struct {
	TMs float64 `yaml:"t_ms" json:"tMs"`
	X   float64 `yaml:"x" json:"x"`
	Y   float64 `yaml:"y" json:"y"`
}

// Validate checks sizes, element IDs and pointer ordering.
func (s *Scene) Validate() error {
	if !(s.Width > 0) || !(s.Height > 0) {
		return fmt.Errorf("%w: page %gx%g", ErrBadSize, s.Width, s.Height)
	}
	seen := make(map[string]bool, len(s.Elements))
	for i, e := range s.Elements {
		if e.ID == "" {
			return fmt.Errorf("%w: element %d", ErrMissingID, i)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = true
		if !(e.Width > 0) || !(e.Height > 0) {
			return fmt.Errorf("%w: element %q is %gx%g", ErrBadSize, e.ID, e.Width, e.Height)
		}
	}
	for i := 1; i < len(s.Pointer); i++ {
		if s.Pointer[i].TMs < s.Pointer[i-1].TMs {
			return fmt.Errorf("%w: waypoint %d", ErrPointerOrder, i)
		}
	}
	return nil
}

// ParseScene decodes and validates a YAML scene.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("page: decode scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScene(data)
}

func SaveScene(path string, s *Scene) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
