package engine

import "math"

// BaseDelta is the matter.js reference step, 60 updates per second.
const BaseDelta = 1000.0 / 60.0

type Engine struct {
	World *World

	// Timestamp is the simulated time in ms after the last update.
	Timestamp float64
}

func New() *Engine {
	return &Engine{World: NewWorld()}
}

// Update advances every dynamic body by delta milliseconds.
//
// Velocity is updated before position (semi-implicit Euler). Air friction
// is scaled so that a FrictionAir of 0.01 removes 1% of velocity per
// BaseDelta. Applied forces are cleared afterwards.
func (e *Engine) Update(delta float64) error {
	if !(delta > 0) || math.IsInf(delta, 0) {
		return ErrInvalidDelta
	}

	w := e.World
	gravity := w.Gravity.Scale(w.GravityScale)

	for _, b := range w.bodies {
		if b.IsStatic {
			b.clearForces()
			continue
		}

		damping := 1 - b.FrictionAir*delta/BaseDelta
		if damping < 0 {
			damping = 0
		}

		accel := gravity
		if b.Mass > 0 {
			accel = accel.Add(b.force.Scale(1 / b.Mass))
		}
		b.Velocity = b.Velocity.Scale(damping).Add(accel.Scale(delta))
		b.Position = b.Position.Add(b.Velocity.Scale(delta))

		angAccel := 0.0
		if b.Inertia > 0 {
			angAccel = b.torque / b.Inertia
		}
		b.AngularVelocity = b.AngularVelocity*damping + angAccel*delta
		b.Angle += b.AngularVelocity * delta

		if !w.Bounds.Empty() {
			w.contain(b)
		}
		b.clearForces()

		if !b.IsValid() {
			return ErrUnstable
		}
	}

	e.Timestamp += delta
	return nil
}

// contain pushes b back inside the world bounds and reflects the velocity
// component that carried it out.
func (w *World) contain(b *Body) {
	bb := b.Bounds()
	rest := math.Max(b.Restitution, w.WallRestitution)
	fric := math.Max(b.Friction, w.WallFriction)
	hit := false

	// A body larger than the bounds on an axis is centred on that axis.
	if bb.Width() >= w.Bounds.Width() {
		b.Position.X = (w.Bounds.Min.X + w.Bounds.Max.X) / 2
		b.Velocity.X = 0
	} else if d := w.Bounds.Min.X - bb.Min.X; d > 0 {
		b.Position.X += d
		if b.Velocity.X < 0 {
			b.Velocity.X = -b.Velocity.X * rest
			b.Velocity.Y *= 1 - fric
		}
		hit = true
	} else if d := bb.Max.X - w.Bounds.Max.X; d > 0 {
		b.Position.X -= d
		if b.Velocity.X > 0 {
			b.Velocity.X = -b.Velocity.X * rest
			b.Velocity.Y *= 1 - fric
		}
		hit = true
	}

	if bb.Height() >= w.Bounds.Height() {
		b.Position.Y = (w.Bounds.Min.Y + w.Bounds.Max.Y) / 2
		b.Velocity.Y = 0
	} else if d := w.Bounds.Min.Y - bb.Min.Y; d > 0 {
		b.Position.Y += d
		if b.Velocity.Y < 0 {
			b.Velocity.Y = -b.Velocity.Y * rest
			b.Velocity.X *= 1 - fric
		}
		hit = true
	} else if d := bb.Max.Y - w.Bounds.Max.Y; d > 0 {
		b.Position.Y -= d
		if b.Velocity.Y > 0 {
			b.Velocity.Y = -b.Velocity.Y * rest
			b.Velocity.X *= 1 - fric
		}
		hit = true
	}

	if hit {
		b.AngularVelocity *= 1 - fric
	}
}
