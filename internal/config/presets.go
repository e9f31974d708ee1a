package config

import (
	"sort"

	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/engine"
)

func preset(scene string, duration float64, opts dropdown.Options, eng EngineConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scene = scene
	cfg.Duration = duration
	cfg.Options = opts
	cfg.Engine = eng
	return cfg
}

var (
	standard = EngineConfig{Gravity: engine.Vector{X: 0, Y: 1}, GravityScale: DefaultGravityScale, DeltaMs: DefaultDeltaMs}
	moon     = EngineConfig{Gravity: engine.Vector{X: 0, Y: 0.165}, GravityScale: DefaultGravityScale, DeltaMs: DefaultDeltaMs}
	sideways = EngineConfig{Gravity: engine.Vector{X: 0.7, Y: 0.7}, GravityScale: DefaultGravityScale, DeltaMs: DefaultDeltaMs}
	fine     = EngineConfig{Gravity: engine.Vector{X: 0, Y: 1}, GravityScale: DefaultGravityScale, DeltaMs: 1000.0 / 240}

	bouncy = dropdown.Merge(dropdown.Overrides{BounceDebounce: ms(20), TimeToInteraction: ms(1000), MouseBounceForce: &engine.Vector{X: 0, Y: -0.8}})
	eager  = dropdown.Merge(dropdown.Overrides{TimeToInteraction: ms(250)})
)

func ms(v float64) *float64 { return &v }

// Presets holds named configurations per scene.
var Presets = map[string]map[string]*Config{
	"dropdown": {
		"default": preset("dropdown", 10, dropdown.DefaultOptions(), standard),
		"bouncy":  preset("dropdown", 10, bouncy, standard),
		"moon":    preset("dropdown", 20, dropdown.DefaultOptions(), moon),
	},
	"stack": {
		"default":  preset("stack", 8, dropdown.DefaultOptions(), standard),
		"sideways": preset("stack", 8, eager, sideways),
		"fine":     preset("stack", 8, dropdown.DefaultOptions(), fine),
	},
	"spinner": {
		"default": preset("spinner", 12, dropdown.DefaultOptions(), standard),
		"eager":   preset("spinner", 12, eager, standard),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
