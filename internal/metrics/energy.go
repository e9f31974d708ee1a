package metrics

import (
	"github.com/san-kum/matterdrop/internal/sim"
)

// KineticEnergy is the mean total kinetic energy of dynamic bodies over
// all observed frames, in mass·px²/ms².
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f sim.Frame) {
	e.totalEnergy += FrameEnergy(f)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// FrameEnergy sums the kinetic energy of the dynamic bodies in f.
func FrameEnergy(f sim.Frame) float64 {
	total := 0.0
	for _, b := range f.Bodies {
		if b.Static {
			continue
		}
		total += 0.5 * b.Mass * (b.VX*b.VX + b.VY*b.VY)
	}
	return total
}

// Bounces counts pointer kicks.
type Bounces struct {
	name  string
	count int
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (b *Bounces) Name() string        { return b.name }
func (b *Bounces) Observe(f sim.Frame) { b.count += f.Bounces }
func (b *Bounces) Value() float64      { return float64(b.count) }
func (b *Bounces) Reset()              { b.count = 0 }

// Default returns a fresh instance of every metric.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewBounces(),
		NewMaxSpeed(),
		NewSettleTime(DefaultSettleSpeed, DefaultSettleHold),
	}
}
