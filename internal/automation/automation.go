// Package automation runs scripted batches of page simulations: YAML
// scenarios, one-parameter sweeps and seeded Monte Carlo trials.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/matterdrop/internal/config"
	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/metrics"
	"github.com/san-kum/matterdrop/internal/sim"
	"github.com/san-kum/matterdrop/internal/storage"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Zero fields keep the preset's or the
// default configuration's value; options set in the step always apply.
type ScenarioStep struct {
	Scene    string             `yaml:"scene"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Seed     int64              `yaml:"seed"`
	Options  dropdown.Overrides `yaml:"options"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// StepResult pairs a finished step with the run ID it was stored under,
// empty when the step was not saved.
type StepResult struct {
	Step   int
	Scene  string
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}

	return &scenario, nil
}

// Config builds the configuration for one step.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Scene != "" {
		cfg.Scene = s.Scene
	}
	if s.Preset != "" {
		p := config.GetPreset(cfg.Scene, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets(cfg.Scene))
		}
		cfg = p
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	cfg.Options = cfg.Options.With(s.Options)
	if err := cfg.SetParams(s.Params); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order. Steps with save_as are written
// to store when it is non-nil. Results gathered before a failing step are
// returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if strings.ContainsAny(step.SaveAs, `/\`) {
			return results, fmt.Errorf("step %d: save_as %q must be a plain name", i+1, step.SaveAs)
		}

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Printf("scenario %s: step %d/%d scene=%s", scenario.Name, i+1, len(scenario.Steps), cfg.SceneName())

		result, err := runOnce(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Scene: cfg.SceneName(), Result: result}
		if step.SaveAs != "" && store != nil {
			sr.RunID, err = store.Save(step.SaveAs, cfg.Sim(), cfg.Options, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

func runOnce(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	scene, err := cfg.ResolveScene()
	if err != nil {
		return nil, err
	}
	s := sim.New(scene, cfg.Options)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	return s.Run(ctx, cfg.Sim())
}

// ParameterSweep runs Base with ParamName stepped evenly from ParamMin to
// ParamMax.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds the metrics of one sweep point.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Errors     int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if _, err := sweep.Base.GetParam(sweep.ParamName); err != nil {
		return nil, err
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := runOnce(ctx, cfg)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Errors:     len(result.Errors),
		})
		log.Printf("sweep %d/%d: %s=%.4f", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloResult is one trial with its own pointer noise.
type MonteCarloResult struct {
	TrialID int
	Seed    int64
	Metrics map[string]float64
	// Stable is false when any body reached a non-finite state.
	Stable bool
}

// RunMonteCarlo runs numTrials copies of base with consecutive seeds from
// seedStart. Trials only differ when base jitters the pointer.
func RunMonteCarlo(ctx context.Context, base *config.Config, numTrials int, seedStart int64) ([]MonteCarloResult, error) {
	if numTrials < 1 {
		return nil, fmt.Errorf("automation: need at least one trial, got %d", numTrials)
	}
	scene, err := base.ResolveScene()
	if err != nil {
		return nil, err
	}

	ens := sim.NewEnsemble(sim.New(scene, base.Options), numTrials, seedStart, metrics.Default)
	runs, err := ens.Run(ctx, base.Sim())
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID: i,
			Seed:    seedStart + int64(i),
			Metrics: r.Metrics,
			Stable:  stable(r),
		}
	}
	return results, nil
}

func stable(r *sim.Result) bool {
	for _, f := range r.Frames {
		for _, b := range f.Bodies {
			if !b.IsValid() {
				return false
			}
		}
	}
	return true
}
