// Package render draws debug snapshots of an engine world: a wireframe
// view of every body, like the debug canvas a page shows when the body has
// class "debug".
package render

import (
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/san-kum/matterdrop/internal/engine"
)

const circleSegments = 32

type Options struct {
	// Scale is output pixels per page pixel.
	Scale float64
	// Supersample renders at n times the output size and downsamples.
	Supersample int
	Background  color.NRGBA
	LineWidth   float64
	// Outline draws the world containment bounds.
	Outline bool
}

func DefaultOptions() Options {
	return Options{
		Scale:       1,
		Supersample: 2,
		Background:  color.NRGBA{0x14, 0x15, 0x1a, 0xff},
		LineWidth:   1.5,
		Outline:     true,
	}
}

var (
	staticColor   = color.NRGBA{0x88, 0x88, 0x99, 0xff}
	boundaryColor = color.NRGBA{0x44, 0x44, 0x66, 0xff}
	mouseColor    = color.NRGBA{0xff, 0x44, 0x44, 0xff}
	boundsColor   = color.NRGBA{0x00, 0xcc, 0xff, 0xff}

	palette = []color.NRGBA{
		{0xff, 0x00, 0xff, 0xff},
		{0x00, 0xff, 0x88, 0xff},
		{0xff, 0xcc, 0x00, 0xff},
		{0x00, 0xa8, 0xcc, 0xff},
		{0xff, 0x6b, 0x6b, 0xff},
		{0x88, 0xff, 0x88, 0xff},
	}
)

// ColorFor picks the wireframe colour of a body from its label and kind.
func ColorFor(b *engine.Body) color.NRGBA {
	switch {
	case b.Label == "mouse":
		return mouseColor
	case strings.HasPrefix(b.Label, "boundary-"):
		return boundaryColor
	case b.IsStatic:
		return staticColor
	}
	h := fnv.New32a()
	h.Write([]byte(b.Label))
	return palette[h.Sum32()%uint32(len(palette))]
}

// Draw rasterises world into an image covering size page pixels.
func Draw(world *engine.World, size engine.Vector, opts Options) *image.RGBA {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	w := int(math.Ceil(size.X * opts.Scale))
	h := int(math.Ceil(size.Y * opts.Scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	ss := opts.Supersample
	canvas := image.NewRGBA(image.Rect(0, 0, w*ss, h*ss))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	p := &painter{
		dst:   canvas,
		z:     vector.NewRasterizer(w*ss, h*ss),
		scale: opts.Scale * float64(ss),
		line:  opts.LineWidth * float64(ss),
	}

	if opts.Outline && !world.Bounds.Empty() {
		b := world.Bounds
		p.stroke([]engine.Vector{b.Min, {X: b.Max.X, Y: b.Min.Y}, b.Max, {X: b.Min.X, Y: b.Max.Y}}, boundsColor)
	}
	view := engine.Bounds{Max: size}
	for _, b := range world.Bodies() {
		if !overlaps(b.Bounds(), view) {
			continue
		}
		c := ColorFor(b)
		outline := outlineOf(b)
		fill := c
		fill.A = 0x55
		p.fill(outline, fill)
		p.stroke(outline, c)
		if b.Shape == engine.ShapeCircle || b.IsStatic {
			continue
		}
		// heading marker from centre to the top edge midpoint
		top := b.Position.Add(engine.Vector{X: 0, Y: -b.Height / 2}.Rotate(b.Angle))
		p.segment(b.Position, top, c)
	}

	if ss == 1 {
		return canvas
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	return out
}

func overlaps(a, b engine.Bounds) bool {
	return a.Min.X < b.Max.X && a.Max.X > b.Min.X && a.Min.Y < b.Max.Y && a.Max.Y > b.Min.Y
}

func outlineOf(b *engine.Body) []engine.Vector {
	if b.Shape != engine.ShapeCircle {
		return b.Vertices()
	}
	pts := make([]engine.Vector, circleSegments)
	for i := range pts {
		s, c := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		pts[i] = b.Position.Add(engine.Vector{X: c * b.Radius, Y: s * b.Radius})
	}
	return pts
}

type painter struct {
	dst   *image.RGBA
	z     *vector.Rasterizer
	scale float64
	line  float64
}

func (p *painter) fill(pts []engine.Vector, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	b := p.dst.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	p.z.DrawOp = draw.Over
	p.z.MoveTo(p.pt(pts[0]))
	for _, v := range pts[1:] {
		p.z.LineTo(p.pt(v))
	}
	p.z.ClosePath()
	p.z.Draw(p.dst, b, image.NewUniform(c), image.Point{})
}

func (p *painter) stroke(pts []engine.Vector, c color.NRGBA) {
	for i := range pts {
		p.segment(pts[i], pts[(i+1)%len(pts)], c)
	}
}

// segment fills a quad of the painter's line width around a-b.
func (p *painter) segment(a, b engine.Vector, c color.NRGBA) {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return
	}
	n := d.Perp().Scale(p.line / 2 / p.scale / l)
	p.fill([]engine.Vector{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, c)
}

func (p *painter) pt(v engine.Vector) (float32, float32) {
	return float32(v.X * p.scale), float32(v.Y * p.scale)
}
