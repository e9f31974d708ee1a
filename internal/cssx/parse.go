// Package cssx converts between CSS transform strings and matrices.
//
// Parse replaces the browser's DOMMatrix string constructor: it accepts a
// computed style value ("none", "matrix(...)", "matrix3d(...)") as well as
// authored transform lists such as "translate(10px, 4px) rotate(15deg)".
// Lengths must be px or unitless; anything that needs layout is rejected.
package cssx

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/matterdrop/internal/decompose"
)

// Parse returns the matrix for a CSS transform value.
func Parse(s string) (decompose.Matrix4, error) {
	m, err := parseMat4(s)
	if err != nil {
		return decompose.Identity(), err
	}
	return toMatrix4(m), nil
}

// ParseDOM is Parse returning the browser's named-field form.
func ParseDOM(s string) (decompose.DOMMatrix, error) {
	m, err := Parse(s)
	return m.DOM(), err
}

type function struct {
	name   string
	args   []string
	offset int
}

func parseMat4(s string) (mgl64.Mat4, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return mgl64.Ident4(), ErrEmpty
	}
	if strings.EqualFold(trimmed, "none") {
		return mgl64.Ident4(), nil
	}

	fns, err := tokenize(s)
	if err != nil {
		return mgl64.Ident4(), err
	}

	m := mgl64.Ident4()
	for _, fn := range fns {
		fm, err := fn.matrix()
		if err != nil {
			return mgl64.Ident4(), fmt.Errorf("%s at offset %d: %w", fn.name, fn.offset, err)
		}
		m = m.Mul4(fm)
	}
	return m, nil
}

func tokenize(s string) ([]function, error) {
	var fns []function
	i := 0
	for {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}

		start := i
		for i < len(s) && isIdent(s[i]) {
			i++
		}
		if i == start {
			return nil, &SyntaxError{Offset: i, Msg: fmt.Sprintf("unexpected %q", s[i])}
		}
		name := strings.ToLower(s[start:i])

		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) || s[i] != '(' {
			return nil, &SyntaxError{Offset: i, Msg: "expected '(' after " + name}
		}
		i++

		end := strings.IndexByte(s[i:], ')')
		if end < 0 {
			return nil, &SyntaxError{Offset: len(s), Msg: "unterminated " + name}
		}
		body := strings.TrimSpace(s[i : i+end])
		i += end + 1

		var args []string
		if body != "" {
			for _, a := range strings.Split(body, ",") {
				args = append(args, strings.TrimSpace(a))
			}
		}
		fns = append(fns, function{name: name, args: args, offset: start})
	}
	if len(fns) == 0 {
		return nil, ErrEmpty
	}
	return fns, nil
}

func (f function) matrix() (mgl64.Mat4, error) {
	switch f.name {
	case "matrix":
		v, err := f.numbers(6)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Mat4{
			v[0], v[1], 0, 0,
			v[2], v[3], 0, 0,
			0, 0, 1, 0,
			v[4], v[5], 0, 1,
		}, nil

	case "matrix3d":
		v, err := f.numbers(16)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		var m mgl64.Mat4
		copy(m[:], v)
		return m, nil

	case "translate":
		v, err := f.lengths(1, 2)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Translate3D(v[0], at(v, 1, 0), 0), nil
	case "translatex":
		v, err := f.lengths(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Translate3D(v[0], 0, 0), nil
	case "translatey":
		v, err := f.lengths(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Translate3D(0, v[0], 0), nil
	case "translatez":
		v, err := f.lengths(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Translate3D(0, 0, v[0]), nil
	case "translate3d":
		v, err := f.lengths(3, 3)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Translate3D(v[0], v[1], v[2]), nil

	case "scale":
		v, err := f.count(1, 2)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Scale3D(v[0], at(v, 1, v[0]), 1), nil
	case "scalex":
		v, err := f.count(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Scale3D(v[0], 1, 1), nil
	case "scaley":
		v, err := f.count(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Scale3D(1, v[0], 1), nil
	case "scalez":
		v, err := f.count(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Scale3D(1, 1, v[0]), nil
	case "scale3d":
		v, err := f.count(3, 3)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.Scale3D(v[0], v[1], v[2]), nil

	case "rotate", "rotatez":
		a, err := f.angles(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.HomogRotate3DZ(a[0]), nil
	case "rotatex":
		a, err := f.angles(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.HomogRotate3DX(a[0]), nil
	case "rotatey":
		a, err := f.angles(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return mgl64.HomogRotate3DY(a[0]), nil
	case "rotate3d":
		if len(f.args) != 4 {
			return mgl64.Mat4{}, fmt.Errorf("%w: want 4 values, got %d", ErrBadArgument, len(f.args))
		}
		axis := mgl64.Vec3{}
		for i := 0; i < 3; i++ {
			v, unit, err := splitUnit(f.args[i])
			if err != nil {
				return mgl64.Mat4{}, err
			}
			if unit != "" {
				return mgl64.Mat4{}, fmt.Errorf("%w: %q", ErrUnit, f.args[i])
			}
			axis[i] = v
		}
		a, err := angle(f.args[3])
		if err != nil {
			return mgl64.Mat4{}, err
		}
		if axis.Len() == 0 {
			return mgl64.Ident4(), nil
		}
		return mgl64.HomogRotate3D(a, axis.Normalize()), nil

	case "skew":
		a, err := f.angles(1, 2)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return skew(a[0], at(a, 1, 0)), nil
	case "skewx":
		a, err := f.angles(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return skew(a[0], 0), nil
	case "skewy":
		a, err := f.angles(1, 1)
		if err != nil {
			return mgl64.Mat4{}, err
		}
		return skew(0, a[0]), nil
	}
	return mgl64.Mat4{}, fmt.Errorf("%w: %s", ErrUnknownFunction, f.name)
}

func skew(ax, ay float64) mgl64.Mat4 {
	return mgl64.Mat4{
		1, math.Tan(ay), 0, 0,
		math.Tan(ax), 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func (f function) arity(min, max int) error {
	if len(f.args) < min || len(f.args) > max {
		if min == max {
			return fmt.Errorf("%w: want %d values, got %d", ErrBadArgument, min, len(f.args))
		}
		return fmt.Errorf("%w: want %d to %d values, got %d", ErrBadArgument, min, max, len(f.args))
	}
	return nil
}

// numbers parses exactly n unitless values.
func (f function) numbers(n int) ([]float64, error) {
	return f.count(n, n)
}

func (f function) count(min, max int) ([]float64, error) {
	if err := f.arity(min, max); err != nil {
		return nil, err
	}
	out := make([]float64, len(f.args))
	for i, a := range f.args {
		v, unit, err := splitUnit(a)
		if err != nil {
			return nil, err
		}
		if unit != "" {
			return nil, fmt.Errorf("%w: %q", ErrUnit, a)
		}
		out[i] = v
	}
	return out, nil
}

func (f function) lengths(min, max int) ([]float64, error) {
	if err := f.arity(min, max); err != nil {
		return nil, err
	}
	out := make([]float64, len(f.args))
	for i, a := range f.args {
		v, unit, err := splitUnit(a)
		if err != nil {
			return nil, err
		}
		if unit != "" && unit != "px" {
			return nil, fmt.Errorf("%w: %q", ErrUnit, a)
		}
		out[i] = v
	}
	return out, nil
}

func (f function) angles(min, max int) ([]float64, error) {
	if err := f.arity(min, max); err != nil {
		return nil, err
	}
	out := make([]float64, len(f.args))
	for i, a := range f.args {
		v, err := angle(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// angle returns radians.
func angle(s string) (float64, error) {
	v, unit, err := splitUnit(s)
	if err != nil {
		return 0, err
	}
	switch unit {
	case "deg":
		return mgl64.DegToRad(v), nil
	case "rad":
		return v, nil
	case "grad":
		return v * math.Pi / 200, nil
	case "turn":
		return v * 2 * math.Pi, nil
	case "":
		if v == 0 {
			return 0, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnit, s)
}

// splitUnit separates the numeric prefix from a lowercase unit suffix.
func splitUnit(s string) (float64, string, error) {
	end := 0
	for end < len(s) && strings.IndexByte("+-.0123456789eE", s[end]) >= 0 {
		end++
	}
	for end > 0 {
		v, err := strconv.ParseFloat(s[:end], 64)
		if err == nil {
			return v, strings.ToLower(s[end:]), nil
		}
		// "1em" reads "1e" as a prefix; back off one byte.
		end--
	}
	return 0, "", fmt.Errorf("%w: %q", ErrBadArgument, s)
}

func at(v []float64, i int, def float64) float64 {
	if i < len(v) {
		return v[i]
	}
	return def
}

func toMatrix4(m mgl64.Mat4) decompose.Matrix4 {
	var out decompose.Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c][r] = m[c*4+r]
		}
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

func isIdent(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-'
}
