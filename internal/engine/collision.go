package engine

import "math"

// Collides reports whether a and b overlap. Touching counts as overlap.
func Collides(a, b *Body) bool {
	switch {
	case a.Shape == ShapeCircle && b.Shape == ShapeCircle:
		r := a.Radius + b.Radius
		d := a.Position.Sub(b.Position)
		return d.Dot(d) <= r*r
	case a.Shape == ShapeCircle:
		return circleRect(a, b)
	case b.Shape == ShapeCircle:
		return circleRect(b, a)
	}
	return polygonsOverlap(a.Vertices(), b.Vertices())
}

// circleRect clamps the circle centre into the rectangle's local frame and
// measures the distance to the clamped point.
func circleRect(c, r *Body) bool {
	local := c.Position.Sub(r.Position).Rotate(-r.Angle)
	hw, hh := r.Width/2, r.Height/2
	nearest := Vector{
		X: math.Max(-hw, math.Min(hw, local.X)),
		Y: math.Max(-hh, math.Min(hh, local.Y)),
	}
	d := local.Sub(nearest)
	return d.Dot(d) <= c.Radius*c.Radius
}

func polygonsOverlap(a, b []Vector) bool {
	return !separated(a, b) && !separated(b, a)
}

// separated looks for a separating axis among the edge normals of a.
func separated(a, b []Vector) bool {
	for i := range a {
		edge := a[(i+1)%len(a)].Sub(a[i])
		axis := edge.Perp()
		minA, maxA := project(a, axis)
		minB, maxB := project(b, axis)
		if maxA < minB || maxB < minA {
			return true
		}
	}
	return false
}

func project(points []Vector, axis Vector) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		d := p.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
