package dropdown_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/matterdrop/internal/dropdown"
)

func TestDropdown(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dropdown Suite")
}

type fakeElement struct {
	id               string
	left, top, w, h  float64
	classes          map[string]bool
	computed, styles map[string]string
	attrs            map[string]string
}

func newElement(id string, left, top, w, h float64, classes ...string) *fakeElement {
	el := &fakeElement{
		id: id, left: left, top: top, w: w, h: h,
		classes:  map[string]bool{},
		computed: map[string]string{},
		styles:   map[string]string{},
		attrs:    map[string]string{},
	}
	for _, c := range classes {
		el.classes[c] = true
	}
	return el
}

func (e *fakeElement) ID() string                       { return e.id }
func (e *fakeElement) Offset() (float64, float64)       { return e.left, e.top }
func (e *fakeElement) Size() (float64, float64)         { return e.w, e.h }
func (e *fakeElement) ComputedStyle(prop string) string { return e.computed[prop] }
func (e *fakeElement) HasClass(c string) bool           { return e.classes[c] }
func (e *fakeElement) AddClass(c string)                { e.classes[c] = true }
func (e *fakeElement) SetStyle(prop, value string)      { e.styles[prop] = value }
func (e *fakeElement) Attr(name string) string          { return e.attrs[name] }

type fakeDocument struct {
	elements    []*fakeElement
	width       float64
	height      float64
	dpr         float64
	bodyClasses map[string]bool
}

func (d *fakeDocument) QueryClass(class string) []dropdown.Element {
	var out []dropdown.Element
	for _, el := range d.elements {
		if el.classes[class] {
			out = append(out, el)
		}
	}
	return out
}

func (d *fakeDocument) ClientWidth() float64           { return d.width }
func (d *fakeDocument) PageHeight() float64            { return d.height }
func (d *fakeDocument) DevicePixelRatio() float64      { return d.dpr }
func (d *fakeDocument) HasBodyClass(class string) bool { return d.bodyClasses[class] }
