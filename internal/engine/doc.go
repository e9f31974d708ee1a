// Package engine is a small 2D rigid-body stepper for page elements.
//
// It covers what the element synchroniser needs from a physics engine and
// nothing more:
//
//   - [Body]: rectangles and circles with mass, air friction and restitution
//   - [World]: the body list, gravity and a containment rectangle
//   - [Engine]: integrates gravity and applied forces each update
//   - [Collides]: separating axis overlap test
//   - [Runner]: fixed-delta loop with before/after tick listeners
//
// Units follow matter.js: pixels and milliseconds, y pointing down.
// Bodies do not collide with each other; they are only kept inside the
// world bounds.
//
// # Example
//
//	e := engine.New()
//	box := engine.Rectangle(200, 50, 120, 40, engine.DefaultOptions())
//	e.World.Add(box)
//	r := engine.NewRunner(e)
//	r.OnAfterTick(func(ev engine.Event) { fmt.Println(box.Position) })
//	r.Tick()
package engine
