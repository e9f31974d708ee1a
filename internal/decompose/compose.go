package decompose

import "math"

// Compose rebuilds a matrix from a decomposition:
//
//	T * Ry * Rz * Rx * K * S
//
// where K is the unit upper-triangular shear. Because Decompose rounds,
// Compose(Decompose(m)) matches m only to about three decimals.
func Compose(d Decomposition) Matrix4 {
	t := Identity()
	t[3][0], t[3][1], t[3][2] = d.TranslateX, d.TranslateY, d.TranslateZ

	k := Identity()
	k[1][0] = d.SkewXY / radToDeg
	k[2][0] = d.SkewXZ / radToDeg
	k[2][1] = d.SkewYZ / radToDeg

	s := Identity()
	s[0][0], s[1][1], s[2][2] = d.ScaleX, d.ScaleY, d.ScaleZ

	r := RotationY(d.RotateY).Mul(RotationZ(d.RotateZ)).Mul(RotationX(d.RotateX))
	return t.Mul(r).Mul(k).Mul(s)
}

// RotationX returns a rotation of deg degrees about X.
func RotationX(deg float64) Matrix4 {
	sin, cos := math.Sincos(deg / radToDeg)
	m := Identity()
	m[1][1], m[1][2] = cos, sin
	m[2][1], m[2][2] = -sin, cos
	return m
}

// RotationY returns a rotation of deg degrees about Y.
func RotationY(deg float64) Matrix4 {
	sin, cos := math.Sincos(deg / radToDeg)
	m := Identity()
	m[0][0], m[0][2] = cos, -sin
	m[2][0], m[2][2] = sin, cos
	return m
}

// RotationZ returns a rotation of deg degrees about Z.
func RotationZ(deg float64) Matrix4 {
	sin, cos := math.Sincos(deg / radToDeg)
	m := Identity()
	m[0][0], m[0][1] = cos, sin
	m[1][0], m[1][1] = -sin, cos
	return m
}
