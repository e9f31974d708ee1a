package engine

type World struct {
	Gravity      Vector
	GravityScale float64

	// Bounds keeps dynamic bodies inside. An empty rectangle disables
	// containment.
	Bounds          Bounds
	WallRestitution float64
	WallFriction    float64

	bodies []*Body
	nextID int
}

func NewWorld() *World {
	return &World{
		Gravity:      Vector{0, 1},
		GravityScale: 0.001,
	}
}

// Add appends bodies and assigns each a world-unique ID.
func (w *World) Add(bodies ...*Body) {
	for _, b := range bodies {
		w.nextID++
		b.ID = w.nextID
		w.bodies = append(w.bodies, b)
	}
}

func (w *World) Remove(b *Body) error {
	for i, x := range w.bodies {
		if x == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return nil
		}
	}
	return ErrUnknownBody
}

// Bodies returns a copy of the body list in insertion order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

func (w *World) Len() int { return len(w.bodies) }

// BodyByLabel returns the first body with the given label.
func (w *World) BodyByLabel(label string) (*Body, bool) {
	for _, b := range w.bodies {
		if b.Label == label {
			return b, true
		}
	}
	return nil, false
}

// InnerBounds returns the region enclosed by four wall bodies, measured
// from each wall's inner edge.
func InnerBounds(top, bottom, left, right *Body) Bounds {
	return Bounds{
		Min: Vector{left.Bounds().Max.X, top.Bounds().Max.Y},
		Max: Vector{right.Bounds().Min.X, bottom.Bounds().Min.Y},
	}
}
