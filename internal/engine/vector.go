package engine

import "math"

type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vector) Add(o Vector) Vector    { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector    { return Vector{v.X - o.X, v.Y - o.Y} }
func (v Vector) Scale(f float64) Vector { return Vector{v.X * f, v.Y * f} }
func (v Vector) Dot(o Vector) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vector) Cross(o Vector) float64 { return v.X*o.Y - v.Y*o.X }
func (v Vector) Len() float64           { return math.Hypot(v.X, v.Y) }
func (v Vector) Perp() Vector           { return Vector{-v.Y, v.X} }
func (v Vector) IsValid() bool          { return !isBad(v.X) && !isBad(v.Y) }

func (v Vector) Rotate(a float64) Vector {
	s, c := math.Sincos(a)
	return Vector{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

func isBad(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	Min Vector `json:"min" yaml:"min"`
	Max Vector `json:"max" yaml:"max"`
}

// Empty reports whether b encloses no area.
func (b Bounds) Empty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y
}

func (b Bounds) Width() float64  { return b.Max.X - b.Min.X }
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

func boundsOf(points []Vector) Bounds {
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}
