package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/page"
	"github.com/san-kum/matterdrop/internal/sim"
)

func frame(t float64, bodies ...sim.BodyState) sim.Frame {
	return sim.Frame{Time: t, Bodies: bodies}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()

	moving := sim.BodyState{Mass: 2, VX: 3, VY: 4}
	wall := sim.BodyState{Mass: 100, VX: 1, Static: true}

	m.Observe(frame(0, moving, wall))
	m.Observe(frame(1, sim.BodyState{Mass: 2}))

	expected := (0.5*2*25 + 0) / 2
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected mean energy %g, got %g", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestBounces(t *testing.T) {
	m := NewBounces()
	m.Observe(sim.Frame{Bounces: 2})
	m.Observe(sim.Frame{})
	m.Observe(sim.Frame{Bounces: 1})
	if m.Value() != 3 {
		t.Errorf("expected 3 bounces, got %g", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMaxSpeed(t *testing.T) {
	m := NewMaxSpeed()
	m.Observe(frame(0, sim.BodyState{VX: 3, VY: 4}, sim.BodyState{VX: 50, Static: true}))
	m.Observe(frame(1, sim.BodyState{VX: 1}))
	if m.Value() != 5 {
		t.Errorf("expected max speed 5 ignoring static bodies, got %g", m.Value())
	}
}

func TestSettleTime(t *testing.T) {
	tests := []struct {
		name   string
		frames []sim.Frame
		want   float64
	}{
		{"never settles", []sim.Frame{
			frame(0, sim.BodyState{VY: 1}),
			frame(1, sim.BodyState{VY: 1}),
		}, -1},
		{"settles and holds", []sim.Frame{
			frame(0, sim.BodyState{VY: 1}),
			frame(0.5, sim.BodyState{VY: 0.001}),
			frame(0.8, sim.BodyState{VY: 0.002}),
			frame(1.1, sim.BodyState{}),
		}, 0.5},
		{"apex does not count", []sim.Frame{
			frame(0, sim.BodyState{VY: 0.001}),
			frame(0.1, sim.BodyState{VY: 0.5}),
			frame(1, sim.BodyState{}),
			frame(1.6, sim.BodyState{}),
		}, 1},
		{"static only", []sim.Frame{
			frame(0, sim.BodyState{Static: true}),
			frame(2, sim.BodyState{Static: true}),
		}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSettleTime(0.01, 0.5)
			for _, f := range tt.frames {
				m.Observe(f)
			}
			if got := m.Value(); got != tt.want {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestMetricsOnRun(t *testing.T) {
	scene := &page.Scene{
		Name: "drop", Width: 300, Height: 200,
		Elements: []page.ElementSpec{
			{ID: "box", Classes: []string{"matter"}, Left: 100, Top: 20, Width: 40, Height: 40},
		},
	}
	s := sim.New(scene, dropdown.DefaultOptions())
	for _, m := range Default() {
		s.AddMetric(m)
	}

	cfg := sim.DefaultConfig()
	cfg.Duration = 8
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, name := range []string{"kinetic_energy", "bounces", "max_speed", "settle_time"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if result.Metrics["kinetic_energy"] <= 0 || result.Metrics["max_speed"] <= 0 {
		t.Errorf("expected the box to move, got %v", result.Metrics)
	}
	if result.Metrics["bounces"] != 0 {
		t.Errorf("no pointer path, expected no bounces, got %g", result.Metrics["bounces"])
	}
	if st := result.Metrics["settle_time"]; st <= 0 || st > 7.5 {
		t.Errorf("expected the box to settle on the floor, got %g", st)
	}
}
