// Package page is an in-memory page that stands in for a browser document.
//
// A page is built from a YAML [Scene]. Its elements report offsets, sizes
// and computed styles the way the DOM does, take inline style writes, and
// can run a simple spin/sway animation. A scripted pointer path replaces
// real mouse input for headless runs.
package page

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/matterdrop/internal/dropdown"
	"github.com/san-kum/matterdrop/internal/engine"
)

type Page struct {
	scene       *Scene
	elements    []*Element
	byID        map[string]*Element
	bodyClasses map[string]bool
	time        float64
}

// New validates s and builds a page from it. The scene is not copied and
// must not be changed afterwards.
func New(s *Scene) (*Page, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	p := &Page{
		scene:       s,
		byID:        make(map[string]*Element, len(s.Elements)),
		bodyClasses: make(map[string]bool, len(s.BodyClasses)),
	}
	for _, c := range s.BodyClasses {
		p.bodyClasses[c] = true
	}
	for _, spec := range s.Elements {
		el := newElement(p, spec)
		p.elements = append(p.elements, el)
		p.byID[spec.ID] = el
	}
	return p, nil
}

func (p *Page) Scene() *Scene      { return p.scene }
func (p *Page) Time() float64      { return p.time }
func (p *Page) Advance(ms float64) { p.time += ms }

// Reset rewinds time and drops every inline style and added class.
func (p *Page) Reset() {
	p.time = 0
	for _, el := range p.elements {
		el.reset()
	}
}

func (p *Page) Elements() []*Element {
	out := make([]*Element, len(p.elements))
	copy(out, p.elements)
	return out
}

func (p *Page) Element(id string) (*Element, bool) {
	el, ok := p.byID[id]
	return el, ok
}

// QueryClass returns elements carrying class, in document order.
func (p *Page) QueryClass(class string) []dropdown.Element {
	var out []dropdown.Element
	for _, el := range p.elements {
		if el.HasClass(class) {
			out = append(out, el)
		}
	}
	return out
}

func (p *Page) ClientWidth() float64 { return p.scene.Width }

// PageHeight is the scene height or the lowest element bottom, whichever
// is larger.
func (p *Page) PageHeight() float64 {
	h := p.scene.Height
	for _, e := range p.scene.Elements {
		h = math.Max(h, e.Top+e.Height)
	}
	return h
}

func (p *Page) DevicePixelRatio() float64 {
	if p.scene.DevicePixelRatio > 0 {
		return p.scene.DevicePixelRatio
	}
	return 1
}

func (p *Page) HasBodyClass(class string) bool { return p.bodyClasses[class] }

// PointerAt interpolates the pointer path linearly. Times outside the
// path clamp to its ends.
func (p *Page) PointerAt(ms float64) (engine.Vector, bool) {
	path := p.scene.Pointer
	if len(path) == 0 {
		return engine.Vector{}, false
	}
	if ms <= path[0].TMs {
		return engine.Vector{X: path[0].X, Y: path[0].Y}, true
	}
	i := sort.Search(len(path), func(i int) bool { return path[i].TMs > ms })
	if i == len(path) {
		last := path[len(path)-1]
		return engine.Vector{X: last.X, Y: last.Y}, true
	}
	a, b := path[i-1], path[i]
	f := (ms - a.TMs) / (b.TMs - a.TMs)
	return engine.Vector{X: a.X + (b.X-a.X)*f, Y: a.Y + (b.Y-a.Y)*f}, true
}

// Pointer is PointerAt the current page time.
func (p *Page) Pointer() (engine.Vector, bool) { return p.PointerAt(p.time) }

// Element is a page element.
type Element struct {
	page    *Page
	spec    ElementSpec
	classes []string
	styles  map[string]string
}

func newElement(p *Page, spec ElementSpec) *Element {
	el := &Element{page: p, spec: spec}
	el.reset()
	return el
}

func (e *Element) reset() {
	e.classes = append([]string(nil), e.spec.Classes...)
	e.styles = make(map[string]string)
}

func (e *Element) ID() string                  { return e.spec.ID }
func (e *Element) Spec() ElementSpec           { return e.spec }
func (e *Element) Offset() (float64, float64)  { return e.spec.Left, e.spec.Top }
func (e *Element) Size() (float64, float64)    { return e.spec.Width, e.spec.Height }
func (e *Element) Classes() []string           { return append([]string(nil), e.classes...) }
func (e *Element) SetStyle(prop, value string) { e.styles[prop] = value }
func (e *Element) Style(prop string) string    { return e.styles[prop] }

// Label is the text drawn for the element, its ID when unset.
func (e *Element) Label() string {
	if e.spec.Label != "" {
		return e.spec.Label
	}
	return e.spec.ID
}

func (e *Element) HasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

func (e *Element) AddClass(class string) {
	if !e.HasClass(class) {
		e.classes = append(e.classes, class)
	}
}

func (e *Element) Attr(name string) string {
	switch name {
	case "id":
		return e.spec.ID
	case "class":
		return strings.Join(e.classes, " ")
	case dropdown.AttrInitDelay:
		if e.spec.InitDelayMs > 0 {
			return strconv.FormatFloat(e.spec.InitDelayMs, 'f', -1, 64)
		}
	}
	return ""
}

// ComputedStyle resolves prop the way a browser would for this page: a
// running animation wins over inline styles for transform, inline styles
// win over the scene's values.
func (e *Element) ComputedStyle(prop string) string {
	switch prop {
	case "transform":
		if e.spec.Animate != nil {
			return e.animatedTransform()
		}
		if v, ok := e.styles[prop]; ok {
			return v
		}
		if e.spec.Transform == "" {
			return "none"
		}
		return e.spec.Transform
	case "border-radius":
		if v, ok := e.styles[prop]; ok {
			return v
		}
		if e.spec.BorderRadius == "" {
			return "0px"
		}
		return e.spec.BorderRadius
	}
	return e.styles[prop]
}

func (e *Element) animatedTransform() string {
	a := e.spec.Animate
	t := e.page.time

	var parts []string
	if base := strings.TrimSpace(e.spec.Transform); base != "" && !strings.EqualFold(base, "none") {
		parts = append(parts, base)
	}
	if a.SwayPx != 0 && a.SwayPeriodMs > 0 {
		dx := a.SwayPx * math.Sin(2*math.Pi*t/a.SwayPeriodMs)
		parts = append(parts, "translateX("+num(dx)+"px)")
	}
	if a.SpinDegPerSec != 0 {
		deg := math.Mod(a.SpinDegPerSec*t/1000, 360)
		parts = append(parts, "rotate("+num(deg)+"deg)")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
