package metrics

import (
	"math"

	"github.com/san-kum/matterdrop/internal/sim"
)

const (
	// DefaultSettleSpeed is the speed in px/ms below which a body counts
	// as resting.
	DefaultSettleSpeed = 0.01
	DefaultSettleHold  = 0.5
)

type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string {
	return m.name
}

func (m *MaxSpeed) Observe(f sim.Frame) {
	for _, b := range f.Bodies {
		if !b.Static {
			m.max = math.Max(m.max, b.Speed())
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// SettleTime records the time, in seconds, from which every dynamic body
// stayed slower than the threshold for at least hold seconds. It is -1
// until that happens. Frames with no dynamic bodies break a streak.
type SettleTime struct {
	name      string
	threshold float64
	hold      float64

	streak    bool
	since     float64
	settled   bool
	settledAt float64
}

func NewSettleTime(threshold, hold float64) *SettleTime {
	return &SettleTime{
		name:      "settle_time",
		threshold: threshold,
		hold:      hold,
	}
}

func (s *SettleTime) Name() string {
	return s.name
}

func (s *SettleTime) Observe(f sim.Frame) {
	if s.settled {
		return
	}
	if !resting(f, s.threshold) {
		s.streak = false
		return
	}
	if !s.streak {
		s.streak = true
		s.since = f.Time
	}
	if f.Time-s.since >= s.hold {
		s.settled = true
		s.settledAt = s.since
	}
}

func resting(f sim.Frame, threshold float64) bool {
	dynamic := 0
	for _, b := range f.Bodies {
		if b.Static {
			continue
		}
		dynamic++
		if b.Speed() >= threshold {
			return false
		}
	}
	return dynamic > 0
}

func (s *SettleTime) Value() float64 {
	if !s.settled {
		return -1
	}
	return s.settledAt
}

func (s *SettleTime) Reset() {
	s.streak = false
	s.since = 0
	s.settled = false
	s.settledAt = 0
}
