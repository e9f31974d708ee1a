package sim

import (
	"errors"
	"math/rand"

	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/engine"
	"github.com/san-kum/matterdrop/internal/page"
)

// Session wires a page, an engine and the sync layer together and steps
// them in lockstep.
type Session struct {
	Page   *page.Page
	Engine *engine.Engine
	Runner *engine.Runner
	Sync   *dropdown.Dropdown

	scene  *page.Scene
	opts   dropdown.Options
	cfg    Config
	rng    *rand.Rand
	manual bool

	steps   int
	bounces int
	errs    []error
}

func NewSession(scene *page.Scene, opts dropdown.Options, cfg Config) (*Session, error) {
	s := &Session{scene: scene, opts: opts, cfg: cfg}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) build() error {
	p, err := page.New(s.scene)
	if err != nil {
		return err
	}
	e := engine.New()
	e.World.Gravity = s.cfg.Gravity
	e.World.GravityScale = s.cfg.GravityScale

	r := engine.NewRunner(e)
	if s.cfg.DeltaMs > 0 {
		r.Delta = s.cfg.DeltaMs
	}

	d := dropdown.New(r, s.opts, nil)
	d.OnBounce(func(*dropdown.Tracked) { s.bounces++ })
	d.OnError(func(err error) { s.errs = append(s.errs, err) })

	s.Page, s.Engine, s.Runner, s.Sync = p, e, r, d
	s.rng = rand.New(rand.NewSource(s.cfg.Seed))
	s.manual = false
	s.steps, s.bounces, s.errs = 0, 0, nil

	// Init forces gravity y to 1; keep the configured vector.
	g := e.World.Gravity
	err = d.Init(p)
	e.World.Gravity = g
	if err != nil && !errors.Is(err, dropdown.ErrTransform) {
		return err
	}
	if err != nil {
		s.errs = append(s.errs, err)
	}
	return nil
}

// Reset rebuilds the session from its scene.
func (s *Session) Reset() error { return s.build() }

func (s *Session) Steps() int { return s.steps }

// Time is the simulated time in seconds.
func (s *Session) Time() float64 { return s.Engine.Timestamp / 1000 }

// MoveMouse takes over the pointer from the scene's script.
func (s *Session) MoveMouse(x, y float64) {
	s.manual = true
	s.Sync.MouseMove(x, y)
}

// TakeErrors returns and clears non-fatal errors raised since the last
// call.
func (s *Session) TakeErrors() []error {
	errs := s.errs
	s.errs = nil
	return errs
}

// Step advances the page clock, moves the scripted pointer and ticks the
// engine once.
func (s *Session) Step() error {
	s.bounces = 0
	s.Page.Advance(s.Runner.Delta)

	if !s.manual {
		if p, ok := s.Page.Pointer(); ok {
			if j := s.cfg.PointerJitter; j > 0 {
				p.X += (s.rng.Float64()*2 - 1) * j
				p.Y += (s.rng.Float64()*2 - 1) * j
			}
			s.Sync.MouseMove(p.X, p.Y)
		}
	}

	if err := s.Runner.Tick(); err != nil {
		return err
	}
	s.steps++
	return nil
}

// Frame captures the tracked bodies after the latest step.
func (s *Session) Frame() Frame {
	tracked := s.Sync.Elements()
	f := Frame{
		Time:    s.Time(),
		Pointer: s.Sync.Mouse(),
		Bounces: s.bounces,
		Bodies:  make([]BodyState, 0, len(tracked)),
	}
	for _, t := range tracked {
		b := t.Body
		bs := BodyState{
			ID:     t.Element.ID(),
			X:      b.Position.X,
			Y:      b.Position.Y,
			Angle:  b.Angle,
			VX:     b.Velocity.X,
			VY:     b.Velocity.Y,
			Mass:   b.Mass,
			Width:  b.Width,
			Height: b.Height,
			Static: b.IsStatic,
		}
		if el, ok := s.Page.Element(bs.ID); ok {
			bs.Transform = el.Style("transform")
		}
		f.Bodies = append(f.Bodies, bs)
	}
	return f
}
