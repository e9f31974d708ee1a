package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/engine"
	"github.com/san-kum/matterdrop/internal/page"
)

func dropScene() *page.Scene {
	return &page.Scene{
		Name:   "drop",
		Width:  400,
		Height: 300,
		Elements: []page.ElementSpec{
			{ID: "box", Classes: []string{"matter"}, Left: 100, Top: 20, Width: 40, Height: 40},
			{ID: "shelf", Classes: []string{"matter", "matter-static"}, Left: 0, Top: 200, Width: 100, Height: 10},
		},
		Pointer: []page.Waypoint{{TMs: 0, X: 10, Y: 10}, {TMs: 1000, X: 390, Y: 10}},
	}
}

type countMetric struct{ n float64 }

func (c *countMetric) Name() string   { return "count" }
func (c *countMetric) Observe(Frame)  { c.n++ }
func (c *countMetric) Value() float64 { return c.n }
func (c *countMetric) Reset()         { c.n = 0 }

func TestSimulatorRun(t *testing.T) {
	sim := New(dropScene(), dropdown.DefaultOptions())
	sim.AddMetric(&countMetric{})

	var observed int
	sim.AddObserver(ObserverFunc(func(Frame) { observed++ }))

	cfg := DefaultConfig()
	cfg.Duration = 1.0
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 60 {
		t.Errorf("expected 60 steps, got %d", result.StepsTaken)
	}
	if len(result.Frames) != 61 {
		t.Errorf("expected 61 frames, got %d", len(result.Frames))
	}
	if observed != 60 || result.Metrics["count"] != 60 {
		t.Errorf("expected 60 observations, got %d and %g", observed, result.Metrics["count"])
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors %v", result.Errors)
	}

	first, _ := result.Frames[0].Body("box")
	final, _ := result.Final()
	last, ok := final.Body("box")
	if !ok {
		t.Fatal("box missing from final frame")
	}
	if last.Y <= first.Y {
		t.Errorf("expected the box to fall, y went %g -> %g", first.Y, last.Y)
	}
	if math.Abs(final.Time-1.0) > 1e-9 {
		t.Errorf("expected final time 1s, got %g", final.Time)
	}

	shelf, _ := final.Body("shelf")
	if !shelf.Static || shelf.X != 50 || shelf.Y != 205 {
		t.Errorf("shelf should stay in place, got %+v", shelf)
	}
	if last.Transform == "" {
		t.Error("expected the written transform in the frame")
	}
}

func TestSimulatorFrameEvery(t *testing.T) {
	sim := New(dropScene(), dropdown.DefaultOptions())
	cfg := DefaultConfig()
	cfg.Duration = 1.0
	cfg.FrameEvery = 10

	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Frames) != 7 {
		t.Errorf("expected 7 frames, got %d", len(result.Frames))
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(dropScene(), dropdown.DefaultOptions())

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero delta", Config{DeltaMs: 0, Duration: 1.0}, ErrBadDelta},
		{"negative delta", Config{DeltaMs: -1, Duration: 1.0}, ErrBadDelta},
		{"zero duration", Config{DeltaMs: 10, Duration: 0}, ErrBadDuration},
		{"negative duration", Config{DeltaMs: 10, Duration: -1.0}, ErrBadDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sim.Run(context.Background(), tt.cfg); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSimulatorCancel(t *testing.T) {
	sim := New(dropScene(), dropdown.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected a partial result with no steps, got %+v", result)
	}
}

func TestSimulatorReportsBadTransforms(t *testing.T) {
	scene := dropScene()
	scene.Elements[0].Transform = "wobble(1)"

	result, err := New(scene, dropdown.DefaultOptions()).Run(context.Background(), Config{DeltaMs: 10, Duration: 0.1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one reported error, got %v", result.Errors)
	}
	var se SimError
	if !errors.As(result.Errors[0], &se) || se.Step != 0 {
		t.Errorf("expected SimError at step 0, got %v", result.Errors[0])
	}
}

func TestSimulatorStopsOnUnstableState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration = 1
	cfg.GravityScale = math.Inf(1)

	result, err := New(dropScene(), dropdown.DefaultOptions()).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) == 0 || result.StepsTaken != 0 {
		t.Errorf("expected an early stop with an error, got %d steps and %v", result.StepsTaken, result.Errors)
	}
}

func TestSessionGravityKept(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = engine.Vector{X: 0.5, Y: 0.5}
	sess, err := NewSession(dropScene(), dropdown.DefaultOptions(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Engine.World.Gravity != cfg.Gravity {
		t.Errorf("expected configured gravity, got %v", sess.Engine.World.Gravity)
	}
}

func TestSessionPointer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DeltaMs = 500
	sess, err := NewSession(dropScene(), dropdown.DefaultOptions(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if err := sess.Step(); err != nil {
		t.Fatal(err)
	}
	if got := sess.Sync.Mouse(); got != (engine.Vector{X: 200, Y: 10}) {
		t.Errorf("expected scripted pointer at (200, 10), got %v", got)
	}

	sess.MoveMouse(5, 6)
	if err := sess.Step(); err != nil {
		t.Fatal(err)
	}
	if got := sess.Frame().Pointer; got != (engine.Vector{X: 5, Y: 6}) {
		t.Errorf("manual pointer should override the script, got %v", got)
	}

	if err := sess.Reset(); err != nil {
		t.Fatal(err)
	}
	if sess.Steps() != 0 || sess.Time() != 0 {
		t.Errorf("expected a fresh session, got %d steps at %gs", sess.Steps(), sess.Time())
	}
}

func TestSessionJitterIsSeeded(t *testing.T) {
	run := func(seed int64) engine.Vector {
		cfg := DefaultConfig()
		cfg.Seed = seed
		cfg.PointerJitter = 5
		sess, err := NewSession(dropScene(), dropdown.DefaultOptions(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		if err := sess.Step(); err != nil {
			t.Fatal(err)
		}
		return sess.Sync.Mouse()
	}

	if run(3) != run(3) {
		t.Error("same seed should give the same pointer")
	}
	if run(3) == run(4) {
		t.Error("different seeds should differ")
	}
}

func TestEnsemble(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration = 0.5
	cfg.PointerJitter = 2

	ens := NewEnsemble(New(dropScene(), dropdown.DefaultOptions()), 4, 100, func() []Metric {
		return []Metric{&countMetric{}}
	})
	results, err := ens.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Metrics["count"] != 30 {
			t.Errorf("run %d: expected 30 observations, got %g", i, r.Metrics["count"])
		}
	}
}
