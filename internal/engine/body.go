package engine

import "math"

type Shape int

const (
	ShapeRectangle Shape = iota
	ShapeCircle
)

func (s Shape) String() string {
	if s == ShapeCircle {
		return "circle"
	}
	return "rectangle"
}

// Options configures a new body. Start from DefaultOptions.
type Options struct {
	Label       string
	IsStatic    bool
	Angle       float64 // radians
	Density     float64
	FrictionAir float64
	Friction    float64
	Restitution float64
	Chamfer     float64 // corner radius, cosmetic only
	Plugin      any
}

// DefaultOptions mirrors the matter.js body defaults.
func DefaultOptions() Options {
	return Options{
		Density:     0.001,
		FrictionAir: 0.01,
		Friction:    0.1,
	}
}

type Body struct {
	ID    int
	Label string
	Shape Shape

	Width, Height float64
	Radius        float64

	Position        Vector
	Velocity        Vector  // px per ms
	Angle           float64 // radians
	AngularVelocity float64 // radians per ms

	IsStatic    bool
	Density     float64
	Mass        float64
	Inertia     float64
	FrictionAir float64
	Friction    float64
	Restitution float64
	Chamfer     float64

	// Plugin carries caller data, such as the element a body mirrors.
	Plugin any

	force  Vector
	torque float64
}

// Rectangle creates a body centred on (x, y).
func Rectangle(x, y, w, h float64, opts Options) *Body {
	b := newBody(opts)
	b.Shape = ShapeRectangle
	b.Position = Vector{x, y}
	b.Width, b.Height = w, h
	b.Mass = b.Density * w * h
	b.Inertia = b.Mass * (w*w + h*h) / 12
	return b
}

// Circle creates a body centred on (x, y).
func Circle(x, y, r float64, opts Options) *Body {
	b := newBody(opts)
	b.Shape = ShapeCircle
	b.Position = Vector{x, y}
	b.Radius = r
	b.Mass = b.Density * math.Pi * r * r
	b.Inertia = 0.5 * b.Mass * r * r
	return b
}

func newBody(opts Options) *Body {
	return &Body{
		Label:       opts.Label,
		IsStatic:    opts.IsStatic,
		Angle:       opts.Angle,
		Density:     opts.Density,
		FrictionAir: opts.FrictionAir,
		Friction:    opts.Friction,
		Restitution: opts.Restitution,
		Chamfer:     opts.Chamfer,
		Plugin:      opts.Plugin,
	}
}

func (b *Body) SetPosition(p Vector)   { b.Position = p }
func (b *Body) SetAngle(a float64)     { b.Angle = a }
func (b *Body) SetVelocity(v Vector)   { b.Velocity = v }
func (b *Body) Speed() float64         { return b.Velocity.Len() }
func (b *Body) Force() Vector          { return b.force }
func (b *Body) IsValid() bool          { return b.Position.IsValid() && b.Velocity.IsValid() && !isBad(b.Angle) }
func (b *Body) KineticEnergy() float64 { return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity) }

// ApplyForce accumulates force acting at point until the next update.
// A point away from the centre also produces torque.
func (b *Body) ApplyForce(point, force Vector) {
	b.force = b.force.Add(force)
	b.torque += point.Sub(b.Position).Cross(force)
}

func (b *Body) clearForces() {
	b.force = Vector{}
	b.torque = 0
}

// Vertices returns the rectangle corners clockwise on screen, starting
// top-left. A circle has no vertices.
func (b *Body) Vertices() []Vector {
	if b.Shape == ShapeCircle {
		return nil
	}
	hw, hh := b.Width/2, b.Height/2
	local := [4]Vector{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	out := make([]Vector, 4)
	for i, v := range local {
		out[i] = b.Position.Add(v.Rotate(b.Angle))
	}
	return out
}

// Bounds returns the axis-aligned box around the body.
func (b *Body) Bounds() Bounds {
	if b.Shape == ShapeCircle {
		r := Vector{b.Radius, b.Radius}
		return Bounds{Min: b.Position.Sub(r), Max: b.Position.Add(r)}
	}
	return boundsOf(b.Vertices())
}
