// Package decompose splits a 4x4 homogeneous transform into translation,
// rotation, scale and skew.
//
// The input is column-major, the way a browser exposes the current
// transform of an element:
//
//	| m11 m21 m31 m41 |
//	| m12 m22 m32 m42 |
//	| m13 m23 m33 m43 |
//	| m14 m24 m34 m44 |
//
// [Matrix4] stores the same 16 values indexed [column][row], so m41 is
// Matrix4[3][0]. [DOMMatrix] is the named-field form and converts to
// [Matrix4] at the boundary.
//
// # Example
//
//	m, _ := cssx.Parse("rotate(30deg) translate(10px, 5px)")
//	d := decompose.Decompose(m)
//	fmt.Println(d.RotateZ, d.TranslateX) // 30 6.16...
//
// # Angles
//
// All angles are degrees. A pure rotation about Z is reported as
// (0, 0, rotateZ). Other rotations are Euler angles for R = Ry * Rz * Rx.
//
// # Degenerate input
//
// A singular matrix (a zero-length basis column) divides by zero and the
// NaN or Inf is returned as is. Decompose never fails and never panics.
package decompose
