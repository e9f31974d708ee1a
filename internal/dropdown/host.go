package dropdown

import "github.com/san-kum/matterdrop/internal/engine"

// Element is a page element that can be mirrored by a physics body.
type Element interface {
	ID() string
	// Offset is the element's untransformed top-left corner in page
	// coordinates.
	Offset() (left, top float64)
	Size() (w, h float64)
	ComputedStyle(prop string) string
	HasClass(class string) bool
	AddClass(class string)
	SetStyle(prop, value string)
	Attr(name string) string
}

// Document is the page hosting the elements.
type Document interface {
	QueryClass(class string) []Element
	ClientWidth() float64
	PageHeight() float64
	DevicePixelRatio() float64
	HasBodyClass(class string) bool
}

// Clock returns the current time in milliseconds.
type Clock func() float64

// EngineClock reads simulated time from e, which keeps headless runs
// deterministic.
func EngineClock(e *engine.Engine) Clock {
	return func() float64 { return e.Timestamp }
}

const (
	ClassMatter         = "matter"
	ClassStatic         = "matter-static"
	ClassStaticAnimated = "matter-static-animated"
	ClassShadow         = "has-shadow"
	ClassDebug          = "debug"
	AttrInitDelay       = "data-matter-init-delay"
)
