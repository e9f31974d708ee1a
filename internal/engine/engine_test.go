package engine

import (
	"errors"
	"math"
	"testing"
)

func still() Options {
	opts := DefaultOptions()
	opts.FrictionAir = 0
	return opts
}

func TestFreeFall(t *testing.T) {
	e := New()
	b := Rectangle(0, 0, 10, 10, still())
	e.World.Add(b)

	if err := e.Update(10); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := e.Update(10); err != nil {
		t.Fatalf("update: %v", err)
	}

	if math.Abs(b.Velocity.Y-0.02) > 1e-12 {
		t.Errorf("expected vy 0.02, got %g", b.Velocity.Y)
	}
	if math.Abs(b.Position.Y-0.3) > 1e-12 {
		t.Errorf("expected y 0.3, got %g", b.Position.Y)
	}
	if b.Position.X != 0 {
		t.Errorf("expected no horizontal drift, got %g", b.Position.X)
	}
	if e.Timestamp != 20 {
		t.Errorf("expected timestamp 20, got %g", e.Timestamp)
	}
}

func TestAirFriction(t *testing.T) {
	e := New()
	e.World.GravityScale = 0
	b := Circle(0, 0, 5, DefaultOptions())
	b.SetVelocity(Vector{1, 0})
	e.World.Add(b)

	if err := e.Update(BaseDelta); err != nil {
		t.Fatalf("update: %v", err)
	}
	if math.Abs(b.Velocity.X-0.99) > 1e-12 {
		t.Errorf("expected 1%% velocity loss, got vx %g", b.Velocity.X)
	}
}

func TestStaticBodyStaysPut(t *testing.T) {
	e := New()
	opts := DefaultOptions()
	opts.IsStatic = true
	b := Rectangle(3, 4, 10, 10, opts)
	b.ApplyForce(b.Position, Vector{5, 5})
	e.World.Add(b)

	for i := 0; i < 10; i++ {
		if err := e.Update(BaseDelta); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if b.Position != (Vector{3, 4}) {
		t.Errorf("static body moved to %v", b.Position)
	}
	if b.Force() != (Vector{}) {
		t.Errorf("expected forces cleared, got %v", b.Force())
	}
}

func TestApplyForce(t *testing.T) {
	e := New()
	e.World.GravityScale = 0
	b := Rectangle(0, 0, 10, 10, still())
	e.World.Add(b)

	if math.Abs(b.Mass-0.1) > 1e-15 {
		t.Fatalf("expected mass 0.1, got %g", b.Mass)
	}

	b.ApplyForce(b.Position, Vector{0.1, 0})
	if err := e.Update(1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if math.Abs(b.Velocity.X-1) > 1e-12 || math.Abs(b.Position.X-1) > 1e-12 {
		t.Errorf("expected vx 1 and x 1, got %v %v", b.Velocity, b.Position)
	}
	if b.Force() != (Vector{}) {
		t.Errorf("force not cleared after update: %v", b.Force())
	}

	if err := e.Update(1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if math.Abs(b.Position.X-2) > 1e-12 {
		t.Errorf("expected coasting to x 2, got %g", b.Position.X)
	}
}

func TestOffCentreForceSpins(t *testing.T) {
	e := New()
	e.World.GravityScale = 0
	b := Rectangle(0, 0, 10, 10, still())
	e.World.Add(b)

	b.ApplyForce(Vector{0, 5}, Vector{1, 0})
	if err := e.Update(1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if b.AngularVelocity >= 0 {
		t.Errorf("expected counter-clockwise spin, got %g", b.AngularVelocity)
	}
}

func TestContainment(t *testing.T) {
	e := New()
	e.World.GravityScale = 0
	e.World.Bounds = Bounds{Max: Vector{100, 100}}

	opts := still()
	opts.Restitution = 0.5
	b := Rectangle(50, 95, 10, 10, opts)
	b.SetVelocity(Vector{0, 1})
	e.World.Add(b)

	if err := e.Update(1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if b.Position.Y != 95 {
		t.Errorf("expected body pushed back to y 95, got %g", b.Position.Y)
	}
	if b.Velocity.Y != -0.5 {
		t.Errorf("expected vy -0.5 after bounce, got %g", b.Velocity.Y)
	}
}

func TestContainmentWallRestitution(t *testing.T) {
	e := New()
	e.World.GravityScale = 0
	e.World.Bounds = Bounds{Max: Vector{100, 100}}
	e.World.WallRestitution = 1

	b := Circle(2, 50, 2, still())
	b.SetVelocity(Vector{-1, 0})
	e.World.Add(b)

	if err := e.Update(1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if b.Position.X != 2 || b.Velocity.X != 1 {
		t.Errorf("expected elastic bounce off left wall, got x %g vx %g", b.Position.X, b.Velocity.X)
	}
}

func TestOversizedBodyCentred(t *testing.T) {
	e := New()
	e.World.GravityScale = 0
	e.World.Bounds = Bounds{Max: Vector{100, 100}}
	b := Rectangle(10, 50, 300, 10, still())
	e.World.Add(b)

	if err := e.Update(1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if b.Position.X != 50 {
		t.Errorf("expected centring at x 50, got %g", b.Position.X)
	}
}

func TestUpdateInvalidDelta(t *testing.T) {
	e := New()
	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := e.Update(d); !errors.Is(err, ErrInvalidDelta) {
			t.Errorf("delta %g: expected ErrInvalidDelta, got %v", d, err)
		}
	}
}

func TestUpdateUnstable(t *testing.T) {
	e := New()
	b := Rectangle(0, 0, 10, 10, still())
	b.SetVelocity(Vector{math.Inf(1), 0})
	e.World.Add(b)

	if err := e.Update(1); !errors.Is(err, ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", err)
	}
}

func TestWorldAddRemove(t *testing.T) {
	w := NewWorld()
	a := Circle(0, 0, 1, DefaultOptions())
	b := Circle(0, 0, 1, DefaultOptions())
	w.Add(a, b)

	if a.ID != 1 || b.ID != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", a.ID, b.ID)
	}

	list := w.Bodies()
	list[0] = nil
	if w.Bodies()[0] != a {
		t.Error("Bodies should return a copy")
	}

	if err := w.Remove(a); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if w.Len() != 1 {
		t.Errorf("expected 1 body, got %d", w.Len())
	}
	if err := w.Remove(a); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}

func TestBodyByLabel(t *testing.T) {
	w := NewWorld()
	opts := DefaultOptions()
	opts.Label = "mouse"
	m := Circle(0, 0, 1, opts)
	w.Add(Circle(0, 0, 1, DefaultOptions()), m)

	got, ok := w.BodyByLabel("mouse")
	if !ok || got != m {
		t.Errorf("expected mouse body, got %v %v", got, ok)
	}
	if _, ok := w.BodyByLabel("nope"); ok {
		t.Error("expected no match")
	}
}

func TestInnerBounds(t *testing.T) {
	const w, h = 800.0, 600.0
	top := Rectangle(w/2, -10, w, 10, DefaultOptions())
	bottom := Rectangle(w/2, h+10, w, 10, DefaultOptions())
	left := Rectangle(-10, h/2, 10, h, DefaultOptions())
	right := Rectangle(w+10, h/2, 10, h, DefaultOptions())

	got := InnerBounds(top, bottom, left, right)
	want := Bounds{Min: Vector{-5, -5}, Max: Vector{805, 605}}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRotatedBounds(t *testing.T) {
	b := Rectangle(0, 0, 20, 10, DefaultOptions())
	b.SetAngle(math.Pi / 2)

	bb := b.Bounds()
	if math.Abs(bb.Width()-10) > 1e-9 || math.Abs(bb.Height()-20) > 1e-9 {
		t.Errorf("expected 10x20 after quarter turn, got %gx%g", bb.Width(), bb.Height())
	}
}

func TestVectorRotate(t *testing.T) {
	v := Vector{X: 1, Y: 0}.Rotate(math.Pi / 2)
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y-1) > 1e-12 {
		t.Errorf("expected (0, 1), got %+v", v)
	}
	back := v.Rotate(-math.Pi / 2)
	if math.Abs(back.X-1) > 1e-12 || math.Abs(back.Y) > 1e-12 {
		t.Errorf("expected (1, 0), got %+v", back)
	}
}
