// Package dropdown drops page elements into a physics world and keeps them
// in sync with their bodies.
//
// Elements with class "matter" become rectangles that fall under gravity
// and bounce inside the page. Each after-tick step writes the body's
// offset and rotation back as a CSS transform. Moving the pointer over a
// body kicks it upward. Static elements stay fixed, unless they are also
// "matter-static-animated", in which case their body follows whatever
// transform the page gives them.
package dropdown

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/matterdrop/internal/cssx"
	"github.com/san-kum/matterdrop/internal/decompose"
	"github.com/san-kum/matterdrop/internal/engine"
)

const degToRad = math.Pi / 180

// Tracked links an element to its body.
type Tracked struct {
	Element Element
	Body    *engine.Body

	// PositionOrig is the untransformed centre of the element.
	PositionOrig  engine.Vector
	WidthOrig     float64
	HeightOrig    float64
	TransformOrig decompose.Decomposition

	StaticAnimated bool
	HasShadow      bool

	LastCollision float64
	Created       float64
}

// Boundaries are the static walls around the page.
type Boundaries struct {
	Top, Bottom, Left, Right *engine.Body
}

type pendingAdd struct {
	el  Element
	due float64
}

type Dropdown struct {
	opts   Options
	runner *engine.Runner
	world  *engine.World
	clock  Clock

	initialised bool
	debug       bool
	pageHeight  float64

	mouse      engine.Vector
	mouseBall  *engine.Body
	boundaries Boundaries

	tracked []*Tracked
	pending []pendingAdd

	interactionStart float64
	started          bool

	onBounce []func(*Tracked)
	onError  []func(error)
}

// New prepares a synchroniser for the runner's engine. A nil clock reads
// engine time.
func New(r *engine.Runner, opts Options, clock Clock) *Dropdown {
	if clock == nil {
		clock = EngineClock(r.Engine())
	}
	return &Dropdown{
		opts:   opts,
		runner: r,
		world:  r.Engine().World,
		clock:  clock,
	}
}

func (d *Dropdown) Options() Options        { return d.opts }
func (d *Dropdown) Debug() bool             { return d.debug }
func (d *Dropdown) MouseBall() *engine.Body { return d.mouseBall }
func (d *Dropdown) Boundaries() Boundaries  { return d.boundaries }
func (d *Dropdown) Mouse() engine.Vector    { return d.mouse }
func (d *Dropdown) PageHeight() float64     { return d.pageHeight }
func (d *Dropdown) Pending() int            { return len(d.pending) }

// OnBounce registers a handler called whenever the pointer kicks a body.
func (d *Dropdown) OnBounce(fn func(*Tracked)) { d.onBounce = append(d.onBounce, fn) }

// OnError registers a handler for errors raised inside tick listeners.
func (d *Dropdown) OnError(fn func(error)) { d.onError = append(d.onError, fn) }

// Elements returns the tracked elements in the order they were added.
func (d *Dropdown) Elements() []*Tracked {
	out := make([]*Tracked, len(d.tracked))
	copy(out, d.tracked)
	return out
}

// Init builds the walls and the mouse ball, schedules every "matter"
// element of doc and hooks the sync step onto the runner.
func (d *Dropdown) Init(doc Document) error {
	if d.initialised {
		return ErrAlreadyInitialised
	}
	d.initialised = true
	d.debug = doc.HasBodyClass(ClassDebug)
	d.pageHeight = doc.PageHeight()
	d.mouse = engine.Vector{}

	d.world.Gravity.Y = 1

	cw := doc.ClientWidth()
	dpr := doc.DevicePixelRatio()
	if !(dpr > 0) {
		dpr = 1
	}

	wall := engine.DefaultOptions()
	wall.IsStatic = true
	wall.Restitution = 0.5
	wall.Friction = 0.5

	d.boundaries = Boundaries{
		Top:    labelled(engine.Rectangle(0, -10, cw*10, 10*dpr, wall), "boundary-top"),
		Bottom: labelled(engine.Rectangle(0, d.pageHeight+10, cw*10, 10*dpr, wall), "boundary-bottom"),
		Left:   labelled(engine.Rectangle(-10, 0, 10*dpr, d.pageHeight*dpr, wall), "boundary-left"),
		Right:  labelled(engine.Rectangle(cw+10, 0, 10*dpr, d.pageHeight*dpr, wall), "boundary-right"),
	}
	b := d.boundaries
	d.world.Add(b.Top, b.Bottom, b.Left, b.Right)
	d.world.Bounds = engine.InnerBounds(b.Top, b.Bottom, b.Left, b.Right)
	d.world.WallRestitution = wall.Restitution
	d.world.WallFriction = wall.Friction

	ball := engine.DefaultOptions()
	ball.IsStatic = true
	ball.Label = "mouse"
	d.mouseBall = engine.Circle(0, 0, 1, ball)
	d.world.Add(d.mouseBall)

	now := d.clock()
	for _, el := range doc.QueryClass(ClassMatter) {
		d.pending = append(d.pending, pendingAdd{el: el, due: now + initDelay(el)})
	}
	err := d.flush(now)

	d.runner.OnBeforeTick(func(engine.Event) { d.report(d.flush(d.clock())) })
	d.runner.OnAfterTick(func(engine.Event) { d.report(d.Step()) })
	return err
}

func labelled(b *engine.Body, label string) *engine.Body {
	b.Label = label
	return b
}

// initDelay reads the element's start delay. Anything unparsable means no
// delay.
func initDelay(el Element) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(el.Attr(AttrInitDelay)), 64)
	if err != nil || !(v > 0) {
		return 0
	}
	return v
}

// flush adds every scheduled element whose delay has passed, keeping
// document order among those due together.
func (d *Dropdown) flush(now float64) error {
	if len(d.pending) == 0 {
		return nil
	}
	var errs []error
	rest := d.pending[:0]
	for _, p := range d.pending {
		if p.due > now {
			rest = append(rest, p)
			continue
		}
		if err := d.AddElement(p.el); err != nil {
			errs = append(errs, err)
		}
	}
	d.pending = rest
	return errors.Join(errs...)
}

func (d *Dropdown) report(err error) {
	if err == nil {
		return
	}
	for _, fn := range d.onError {
		fn(err)
	}
}

// AddElement creates a body for el and starts tracking it. An unreadable
// transform is reported but the element is still added, untransformed.
func (d *Dropdown) AddElement(el Element) error {
	if !d.initialised {
		return ErrNotInitialised
	}
	el.AddClass(ClassMatter)

	tr, err := readTransform(el)
	left, top := el.Offset()
	w, h := el.Size()
	now := d.clock()

	t := &Tracked{
		Element:       el,
		PositionOrig:  engine.Vector{X: left + w/2, Y: top + h/2},
		WidthOrig:     w,
		HeightOrig:    h,
		TransformOrig: tr,
		HasShadow:     el.HasClass(ClassShadow),
		Created:       now,
	}

	opts := engine.DefaultOptions()
	opts.Label = el.ID()
	opts.FrictionAir = 0
	opts.Restitution = 0.5
	opts.Chamfer = cssx.ParsePixels(el.ComputedStyle("border-radius"))
	opts.Angle = tr.RotateZ * degToRad
	opts.Plugin = t
	if el.HasClass(ClassStatic) {
		opts.IsStatic = true
		opts.FrictionAir = 0.1
		t.StaticAnimated = el.HasClass(ClassStaticAnimated)
	}

	t.Body = engine.Rectangle(t.PositionOrig.X+tr.TranslateX, t.PositionOrig.Y+tr.TranslateY, w, h, opts)
	d.world.Add(t.Body)
	d.tracked = append(d.tracked, t)

	if !d.started {
		d.started = true
		d.interactionStart = now
	}
	return err
}

// readTransform decomposes the element's computed transform. An empty
// value counts as "none".
func readTransform(el Element) (decompose.Decomposition, error) {
	s := el.ComputedStyle("transform")
	if strings.TrimSpace(s) == "" {
		return decompose.Decompose(decompose.Identity()), nil
	}
	m, err := cssx.Parse(s)
	if err != nil {
		err = fmt.Errorf("%w: element %q: %w", ErrTransform, el.ID(), err)
	}
	return decompose.Decompose(m), err
}

// Step mirrors every body onto its element. It runs after each engine tick.
func (d *Dropdown) Step() error {
	if !d.initialised {
		return ErrNotInitialised
	}
	now := d.clock()

	if d.started && now-d.interactionStart > d.opts.TimeToInteraction {
		d.mouseBall.SetPosition(d.mouse)
	}

	var errs []error
	for _, t := range d.tracked {
		b := t.Body
		el := t.Element

		if b.IsStatic {
			if t.StaticAnimated {
				tr, err := readTransform(el)
				if err != nil {
					errs = append(errs, err)
				}
				left, top := el.Offset()
				w, h := el.Size()
				b.SetPosition(engine.Vector{X: left + w/2 + tr.TranslateX, Y: top + h/2 + tr.TranslateY})
				b.SetAngle(tr.RotateZ * degToRad)
			}
		} else {
			off := b.Position.Sub(t.PositionOrig)
			el.SetStyle("transform", cssx.FormatTranslateRotate(off.X, off.Y, b.Angle))

			if engine.Collides(d.mouseBall, b) &&
				now-t.LastCollision > d.opts.BounceDebounce &&
				now-t.Created > d.opts.TimeToInteraction {
				b.ApplyForce(b.Position, d.opts.MouseBounceForce)
				t.LastCollision = now
				for _, fn := range d.onBounce {
					fn(t)
				}
			}
		}

		if t.HasShadow {
			el.SetStyle("box-shadow", cssx.FormatShadow(b.Angle))
		}
	}
	return errors.Join(errs...)
}

// MouseMove records the pointer position in page coordinates.
func (d *Dropdown) MouseMove(x, y float64) {
	d.mouse = engine.Vector{X: x, Y: y}
}

// TouchMove records the first changed touch. An empty list is ignored.
func (d *Dropdown) TouchMove(touches []engine.Vector) {
	if len(touches) > 0 {
		d.mouse = touches[0]
	}
}
