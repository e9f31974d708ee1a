package cssx

import (
	"math"
	"strconv"
	"strings"
)

// FormatTranslateRotate renders the transform written back onto a moving
// element: translate(<dx>px, <dy>px) rotate(<angle>rad ).
func FormatTranslateRotate(dx, dy, angle float64) string {
	var b strings.Builder
	b.WriteString("translate(")
	b.WriteString(number(dx))
	b.WriteString("px, ")
	b.WriteString(number(dy))
	b.WriteString("px) rotate(")
	b.WriteString(number(angle))
	b.WriteString("rad )")
	return b.String()
}

// FormatShadow renders a box-shadow whose offset stays pointing "down" in
// page space while the element rotates by angle radians.
func FormatShadow(angle float64) string {
	shadowAngle := 0.5*math.Pi - angle
	return "rgba(0,0,0,0.2) " + number(math.Cos(shadowAngle)*10) + "px " + number(math.Sin(shadowAngle)*10) + "px 20px"
}

// ParsePixels reads the first length of a computed style value such as
// border-radius ("12px" or "12px 4px"). Non-px values read as 0.
func ParsePixels(s string) float64 {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	v, unit, err := splitUnit(fields[0])
	if err != nil || (unit != "" && unit != "px") {
		return 0
	}
	return v
}

// number formats v with the fewest digits that round trip, never in
// exponent form.
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
