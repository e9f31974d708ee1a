package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/engine"
	"github.com/san-kum/matterdrop/internal/page"
	"github.com/san-kum/matterdrop/internal/sim"
)

const (
	DefaultScene        = "dropdown"
	DefaultDuration     = 10.0
	DefaultFPS          = 30
	DefaultGravityScale = 0.001
	DefaultDeltaMs      = engine.BaseDelta
)

var (
	ErrBadDuration = errors.New("config: duration must be positive")
	ErrBadDelta    = errors.New("config: engine.delta_ms must be positive")
	ErrBadFPS      = errors.New("config: fps must be positive")
	ErrNoScene     = errors.New("config: neither scene nor page set")
)

type Config struct {
	Scene    string           `yaml:"scene"`
	Page     *page.Scene      `yaml:"page,omitempty"`
	Options  dropdown.Options `yaml:"options"`
	Engine   EngineConfig     `yaml:"engine"`
	Duration float64          `yaml:"duration"`
	FPS      int              `yaml:"fps"`
	Seed     int64            `yaml:"seed"`
	// PointerJitter adds seeded noise in px to the scripted pointer.
	PointerJitter float64 `yaml:"pointer_jitter_px,omitempty"`
}

type EngineConfig struct {
	Gravity      engine.Vector `yaml:"gravity"`
	GravityScale float64       `yaml:"gravity_scale"`
	DeltaMs      float64       `yaml:"delta_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:   DefaultScene,
		Options: dropdown.DefaultOptions(),
		Engine: EngineConfig{
			Gravity:      engine.Vector{X: 0, Y: 1},
			GravityScale: DefaultGravityScale,
			DeltaMs:      DefaultDeltaMs,
		},
		Duration: DefaultDuration,
		FPS:      DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Duration > 0) {
		return ErrBadDuration
	}
	if !(c.Engine.DeltaMs > 0) {
		return ErrBadDelta
	}
	if c.FPS <= 0 {
		return ErrBadFPS
	}
	if c.Page == nil && c.Scene == "" {
		return ErrNoScene
	}
	return nil
}

// ResolveScene returns the inline page when present, otherwise the named
// or file scene.
func (c *Config) ResolveScene() (*page.Scene, error) {
	if c.Page != nil {
		if err := c.Page.Validate(); err != nil {
			return nil, fmt.Errorf("config: inline page: %w", err)
		}
		return c.Page, nil
	}
	if c.Scene == "" {
		return nil, ErrNoScene
	}
	return page.Resolve(c.Scene)
}

// SceneName is the name runs are stored under.
func (c *Config) SceneName() string {
	if c.Page != nil && c.Page.Name != "" {
		return c.Page.Name
	}
	if c.Scene != "" {
		base := filepath.Base(c.Scene)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "page"
}

// Sim returns the headless run settings.
func (c *Config) Sim() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.DeltaMs = c.Engine.DeltaMs
	cfg.Duration = c.Duration
	cfg.Gravity = c.Engine.Gravity
	cfg.GravityScale = c.Engine.GravityScale
	cfg.Seed = c.Seed
	cfg.PointerJitter = c.PointerJitter
	return cfg
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
