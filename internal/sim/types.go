package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/matterdrop/internal/engine"
)

// BodyState is one element's body at a frame.
type BodyState struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Angle     float64 `json:"angle"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Mass      float64 `json:"mass"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Static    bool    `json:"static"`
	Transform string  `json:"transform,omitempty"`
}

func (b BodyState) Speed() float64 { return math.Hypot(b.VX, b.VY) }

func (b BodyState) IsValid() bool {
	for _, v := range []float64{b.X, b.Y, b.Angle, b.VX, b.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Frame is the state of every tracked element after one tick.
type Frame struct {
	Time    float64       `json:"time"` // seconds
	Pointer engine.Vector `json:"pointer"`
	Bounces int           `json:"bounces,omitempty"` // pointer kicks during this tick
	Bodies  []BodyState   `json:"bodies"`
}

func (f Frame) Body(id string) (BodyState, bool) {
	for _, b := range f.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return BodyState{}, false
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type ObserverFunc func(Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Config struct {
	DeltaMs      float64
	Duration     float64 // seconds
	Gravity      engine.Vector
	GravityScale float64
	Seed         int64
	// PointerJitter is the half-width in px of uniform noise added to the
	// scripted pointer.
	PointerJitter float64
	// FrameEvery records one frame in n ticks. Zero records every tick.
	FrameEvery    int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		DeltaMs:       engine.BaseDelta,
		Duration:      10,
		Gravity:       engine.Vector{X: 0, Y: 1},
		GravityScale:  0.001,
		ValidateState: true,
	}
}

type Result struct {
	Scene      string
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded frame.
func (r *Result) Final() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
