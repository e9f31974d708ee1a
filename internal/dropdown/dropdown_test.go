package dropdown_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/matterdrop/internal/cssx"
	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/engine"
)

var _ = Describe("Options", func() {
	It("defaults to the documented values", func() {
		o := dropdown.DefaultOptions()
		Expect(o.BounceDebounce).To(Equal(50.0))
		Expect(o.TimeToInteraction).To(Equal(2000.0))
		Expect(o.MouseBounceForce).To(Equal(engine.Vector{X: 0, Y: -0.4}))
	})

	It("merges custom values over the defaults", func() {
		debounce := 10.0
		o := dropdown.Merge(dropdown.Overrides{BounceDebounce: &debounce})
		Expect(o.BounceDebounce).To(Equal(10.0))
		Expect(o.TimeToInteraction).To(Equal(2000.0))
		Expect(o.MouseBounceForce.Y).To(Equal(-0.4))
	})

	It("keeps an explicit zero", func() {
		zero := 0.0
		o := dropdown.Merge(dropdown.Overrides{BounceDebounce: &zero, MouseBounceForce: &engine.Vector{}})
		Expect(o.BounceDebounce).To(BeZero())
		Expect(o.MouseBounceForce).To(Equal(engine.Vector{}))
		Expect(o.TimeToInteraction).To(Equal(2000.0))
	})

	It("applies overrides on top of any base", func() {
		wait := 0.0
		base := dropdown.Options{BounceDebounce: 20, TimeToInteraction: 1000, MouseBounceForce: engine.Vector{Y: -0.8}}
		o := base.With(dropdown.Overrides{TimeToInteraction: &wait})
		Expect(o.TimeToInteraction).To(BeZero())
		Expect(o.BounceDebounce).To(Equal(20.0))
		Expect(o.MouseBounceForce.Y).To(Equal(-0.8))
	})
})

var _ = Describe("Dropdown", func() {
	var (
		runner *engine.Runner
		world  *engine.World
		doc    *fakeDocument
		d      *dropdown.Dropdown
		opts   dropdown.Options
	)

	tick := func(n int) {
		for i := 0; i < n; i++ {
			Expect(runner.Tick()).To(Succeed())
		}
	}

	BeforeEach(func() {
		runner = engine.NewRunner(engine.New())
		world = runner.Engine().World
		doc = &fakeDocument{width: 800, height: 600, dpr: 1, bodyClasses: map[string]bool{}}
		opts = dropdown.DefaultOptions()
	})

	JustBeforeEach(func() {
		d = dropdown.New(runner, opts, nil)
	})

	Context("before Init", func() {
		It("refuses to add or step", func() {
			Expect(d.AddElement(newElement("a", 0, 0, 10, 10))).To(MatchError(dropdown.ErrNotInitialised))
			Expect(d.Step()).To(MatchError(dropdown.ErrNotInitialised))
		})
	})

	Context("Init", func() {
		It("builds walls and the mouse ball", func() {
			Expect(d.Init(doc)).To(Succeed())

			Expect(world.Len()).To(Equal(5))
			Expect(world.Gravity.Y).To(Equal(1.0))
			Expect(world.Bounds).To(Equal(engine.Bounds{
				Min: engine.Vector{X: -5, Y: -5},
				Max: engine.Vector{X: 805, Y: 605},
			}))

			b := d.Boundaries()
			for _, wall := range []*engine.Body{b.Top, b.Bottom, b.Left, b.Right} {
				Expect(wall.IsStatic).To(BeTrue())
				Expect(wall.Restitution).To(Equal(0.5))
				Expect(wall.Friction).To(Equal(0.5))
			}

			Expect(d.MouseBall().Shape).To(Equal(engine.ShapeCircle))
			Expect(d.MouseBall().Radius).To(Equal(1.0))
			Expect(d.MouseBall().IsStatic).To(BeTrue())
		})

		It("scales wall thickness with the device pixel ratio", func() {
			doc.dpr = 2
			Expect(d.Init(doc)).To(Succeed())
			Expect(d.Boundaries().Left.Width).To(Equal(20.0))
			Expect(d.Boundaries().Left.Height).To(Equal(1200.0))
		})

		It("can only run once", func() {
			Expect(d.Init(doc)).To(Succeed())
			Expect(d.Init(doc)).To(MatchError(dropdown.ErrAlreadyInitialised))
		})

		It("turns on debug mode from the body class", func() {
			doc.bodyClasses["debug"] = true
			Expect(d.Init(doc)).To(Succeed())
			Expect(d.Debug()).To(BeTrue())
		})

		It("adds undelayed elements at once and delayed ones later", func() {
			now := newElement("now", 10, 10, 50, 20, "matter")
			later := newElement("later", 100, 10, 50, 20, "matter")
			later.attrs["data-matter-init-delay"] = "50"
			ignored := newElement("plain", 200, 10, 50, 20)
			doc.elements = []*fakeElement{now, later, ignored}

			Expect(d.Init(doc)).To(Succeed())
			Expect(d.Elements()).To(HaveLen(1))
			Expect(d.Pending()).To(Equal(1))

			tick(2)
			Expect(d.Pending()).To(Equal(1))

			tick(3)
			Expect(d.Pending()).To(Equal(0))
			Expect(d.Elements()).To(HaveLen(2))
			Expect(d.Elements()[1].Element.ID()).To(Equal("later"))
		})
	})

	Context("AddElement", func() {
		JustBeforeEach(func() {
			Expect(d.Init(doc)).To(Succeed())
		})

		It("creates a body at the transformed centre", func() {
			el := newElement("card", 100, 50, 80, 40)
			el.computed["transform"] = "translate(10px, 20px) rotate(30deg)"
			el.computed["border-radius"] = "8px"

			Expect(d.AddElement(el)).To(Succeed())
			t := d.Elements()[0]

			Expect(el.HasClass("matter")).To(BeTrue())
			Expect(t.PositionOrig).To(Equal(engine.Vector{X: 140, Y: 70}))
			Expect(t.Body.Position.X).To(BeNumerically("~", 150, 1e-9))
			Expect(t.Body.Position.Y).To(BeNumerically("~", 90, 1e-9))
			Expect(t.Body.Angle).To(BeNumerically("~", math.Pi/6, 1e-9))
			Expect(t.Body.Chamfer).To(Equal(8.0))
			Expect(t.Body.FrictionAir).To(Equal(0.0))
			Expect(t.Body.Restitution).To(Equal(0.5))
			Expect(t.Body.IsStatic).To(BeFalse())
			Expect(t.Body.Label).To(Equal("card"))
			Expect(t.Body.Plugin).To(BeIdenticalTo(t))
		})

		It("makes static elements static with extra air friction", func() {
			el := newElement("shelf", 0, 300, 400, 20, "matter-static")
			Expect(d.AddElement(el)).To(Succeed())
			b := d.Elements()[0].Body
			Expect(b.IsStatic).To(BeTrue())
			Expect(b.FrictionAir).To(Equal(0.1))
			Expect(d.Elements()[0].StaticAnimated).To(BeFalse())
		})

		It("ignores the animated class on dynamic elements", func() {
			el := newElement("x", 0, 0, 10, 10, "matter-static-animated")
			Expect(d.AddElement(el)).To(Succeed())
			Expect(d.Elements()[0].StaticAnimated).To(BeFalse())
		})

		It("reports unreadable transforms but still adds the element", func() {
			el := newElement("bad", 100, 50, 80, 40)
			el.computed["transform"] = "wobble(3)"

			err := d.AddElement(el)
			Expect(err).To(MatchError(dropdown.ErrTransform))
			Expect(err).To(MatchError(cssx.ErrUnknownFunction))
			Expect(d.Elements()).To(HaveLen(1))
			Expect(d.Elements()[0].Body.Position).To(Equal(engine.Vector{X: 140, Y: 70}))
		})
	})

	Context("Step", func() {
		JustBeforeEach(func() {
			Expect(d.Init(doc)).To(Succeed())
		})

		It("writes the body offset back as a transform", func() {
			el := newElement("box", 100, 100, 80, 40)
			Expect(d.AddElement(el)).To(Succeed())

			tick(10)
			t := d.Elements()[0]
			off := t.Body.Position.Sub(t.PositionOrig)
			Expect(off.Y).To(BeNumerically(">", 0))
			Expect(el.styles["transform"]).To(Equal(cssx.FormatTranslateRotate(off.X, off.Y, t.Body.Angle)))
		})

		It("keeps falling bodies above the floor", func() {
			Expect(d.AddElement(newElement("box", 100, 100, 80, 40))).To(Succeed())
			tick(300)
			Expect(d.Elements()[0].Body.Bounds().Max.Y).To(BeNumerically("<=", 605+1e-9))
		})

		It("leaves static elements alone", func() {
			el := newElement("shelf", 0, 300, 400, 20, "matter-static")
			Expect(d.AddElement(el)).To(Succeed())
			tick(10)
			Expect(d.Elements()[0].Body.Position).To(Equal(engine.Vector{X: 200, Y: 310}))
			Expect(el.styles).NotTo(HaveKey("transform"))
		})

		It("moves animated static bodies with their element", func() {
			el := newElement("spinner", 100, 100, 40, 40, "matter-static", "matter-static-animated")
			Expect(d.AddElement(el)).To(Succeed())

			el.computed["transform"] = "translate(30px, 0px) rotate(90deg)"
			tick(1)

			b := d.Elements()[0].Body
			Expect(b.Position.X).To(BeNumerically("~", 150, 1e-9))
			Expect(b.Position.Y).To(BeNumerically("~", 120, 1e-9))
			Expect(b.Angle).To(BeNumerically("~", math.Pi/2, 1e-9))
		})

		It("reports animated transforms that stop parsing", func() {
			var reported []error
			d.OnError(func(err error) { reported = append(reported, err) })

			el := newElement("spinner", 100, 100, 40, 40, "matter-static", "matter-static-animated")
			Expect(d.AddElement(el)).To(Succeed())
			el.computed["transform"] = "rotate(30)"
			tick(1)

			Expect(reported).To(HaveLen(1))
			Expect(reported[0]).To(MatchError(dropdown.ErrTransform))
		})

		It("rotates the shadow of shadowed elements", func() {
			el := newElement("card", 100, 100, 40, 40, "has-shadow")
			Expect(d.AddElement(el)).To(Succeed())
			tick(1)
			Expect(el.styles["box-shadow"]).To(Equal(cssx.FormatShadow(d.Elements()[0].Body.Angle)))
		})
	})

	Context("pointer", func() {
		BeforeEach(func() {
			opts.TimeToInteraction = 100
		})

		JustBeforeEach(func() {
			Expect(d.Init(doc)).To(Succeed())
		})

		It("tracks mouse and touch positions", func() {
			d.MouseMove(12, 34)
			Expect(d.Mouse()).To(Equal(engine.Vector{X: 12, Y: 34}))

			d.TouchMove([]engine.Vector{{X: 5, Y: 6}, {X: 7, Y: 8}})
			Expect(d.Mouse()).To(Equal(engine.Vector{X: 5, Y: 6}))

			d.TouchMove(nil)
			Expect(d.Mouse()).To(Equal(engine.Vector{X: 5, Y: 6}))
		})

		It("only follows the pointer after the interaction delay", func() {
			Expect(d.AddElement(newElement("box", 100, 100, 80, 40))).To(Succeed())
			d.MouseMove(300, 200)

			tick(3)
			Expect(d.MouseBall().Position).To(Equal(engine.Vector{}))

			tick(5)
			Expect(d.MouseBall().Position).To(Equal(engine.Vector{X: 300, Y: 200}))
		})

		It("bounces bodies the pointer touches", func() {
			bounces := 0
			d.OnBounce(func(*dropdown.Tracked) { bounces++ })

			Expect(d.AddElement(newElement("box", 100, 560, 100, 40))).To(Succeed())
			d.MouseMove(150, 580)

			tick(3)
			Expect(bounces).To(Equal(0))

			tick(20)
			Expect(bounces).To(BeNumerically(">=", 1))
			Expect(d.Elements()[0].LastCollision).To(BeNumerically(">", 100))
		})
	})
})
