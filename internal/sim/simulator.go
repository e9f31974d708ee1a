package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/engine"
	"github.com/san-kum/matterdrop/internal/page"
)

var (
	ErrBadDelta    = errors.New("sim: delta must be positive")
	ErrBadDuration = errors.New("sim: duration must be positive")
)

type Simulator struct {
	scene     *page.Scene
	opts      dropdown.Options
	metrics   []Metric
	observers []Observer
}

func New(scene *page.Scene, opts dropdown.Options) *Simulator {
	return &Simulator{
		scene:     scene,
		opts:      opts,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run plays the scene headlessly for cfg.Duration seconds. Errors from the
// page, such as unreadable transforms, are collected in Result.Errors. A
// body going non-finite stops the run early but is not returned as an
// error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	sess, err := NewSession(s.scene, s.opts, cfg)
	if err != nil {
		return nil, err
	}

	steps := int(cfg.Duration*1000/cfg.DeltaMs + 1e-9)
	every := cfg.FrameEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Scene:   s.scene.Name,
		Frames:  make([]Frame, 0, steps/every+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, sess.Frame())
	s.collect(result, sess, 0)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := sess.Step(); err != nil {
			if errors.Is(err, engine.ErrUnstable) {
				result.Errors = append(result.Errors, SimError{Time: sess.Time(), Step: i, Message: "invalid state (NaN/Inf)"})
				break
			}
			return result, fmt.Errorf("sim: step %d: %w", i, err)
		}
		result.StepsTaken++
		s.collect(result, sess, i)

		f := sess.Frame()
		if cfg.ValidateState && !framesValid(f) {
			result.Errors = append(result.Errors, SimError{Time: f.Time, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}
		if (i+1)%every == 0 {
			result.Frames = append(result.Frames, f)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) collect(result *Result, sess *Session, step int) {
	for _, err := range sess.TakeErrors() {
		result.Errors = append(result.Errors, SimError{Time: sess.Time(), Step: step, Message: err.Error()})
	}
}

func framesValid(f Frame) bool {
	for _, b := range f.Bodies {
		if !b.IsValid() {
			return false
		}
	}
	return true
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.DeltaMs > 0) {
		return ErrBadDelta
	}
	if !(cfg.Duration > 0) {
		return ErrBadDuration
	}
	return nil
}

// RunWithCallback steps the scene until the duration ends or callback
// returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	sess, err := NewSession(s.scene, s.opts, cfg)
	if err != nil {
		return err
	}

	for sess.Time() < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := sess.Step(); err != nil {
			return fmt.Errorf("sim: invalid state at t=%.4f: %w", sess.Time(), err)
		}
		if !callback(sess.Frame()) {
			return nil
		}
	}
	return nil
}
