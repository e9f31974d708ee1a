package decompose

import "math"

// Matrix4 is a homogeneous transform indexed [column][row].
type Matrix4 [4][4]float64

// Vector3 is a column of the upper-left 3x3 block.
type Vector3 [3]float64

// Quaternion is (x, y, z, w).
type Quaternion [4]float64

// DOMMatrix mirrors the browser DOMMatrix fields. Mcr is column c, row r.
type DOMMatrix struct {
	M11, M12, M13, M14 float64
	M21, M22, M23, M24 float64
	M31, M32, M33, M34 float64
	M41, M42, M43, M44 float64
}

// Identity returns the 4x4 identity.
func Identity() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Matrix4 converts the named fields to the indexable form.
func (d DOMMatrix) Matrix4() Matrix4 {
	return Matrix4{
		{d.M11, d.M12, d.M13, d.M14},
		{d.M21, d.M22, d.M23, d.M24},
		{d.M31, d.M32, d.M33, d.M34},
		{d.M41, d.M42, d.M43, d.M44},
	}
}

// DOM converts back to named fields.
func (m Matrix4) DOM() DOMMatrix {
	return DOMMatrix{
		M11: m[0][0], M12: m[0][1], M13: m[0][2], M14: m[0][3],
		M21: m[1][0], M22: m[1][1], M23: m[1][2], M24: m[1][3],
		M31: m[2][0], M32: m[2][1], M33: m[2][2], M34: m[2][3],
		M41: m[3][0], M42: m[3][1], M43: m[3][2], M44: m[3][3],
	}
}

// Mul returns m * n.
func (m Matrix4) Mul(n Matrix4) Matrix4 {
	var out Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c][r] = m[0][r]*n[c][0] + m[1][r]*n[c][1] + m[2][r]*n[c][2] + m[3][r]*n[c][3]
		}
	}
	return out
}

// ApproxEqual reports whether every element differs by at most tol.
func (m Matrix4) ApproxEqual(n Matrix4, tol float64) bool {
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			if math.Abs(m[c][r]-n[c][r]) > tol {
				return false
			}
		}
	}
	return true
}

// column returns the first three rows of column c.
func (m Matrix4) column(c int) Vector3 {
	return Vector3{m[c][0], m[c][1], m[c][2]}
}

func (v Vector3) length() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// normalize divides by a length the caller already computed.
func (v Vector3) normalize(length float64) Vector3 {
	return Vector3{v[0] / length, v[1] / length, v[2] / length}
}

func (v Vector3) dot(o Vector3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vector3) cross(o Vector3) Vector3 {
	return Vector3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// combine returns a*as + b*bs.
func combine(a, b Vector3, as, bs float64) Vector3 {
	return Vector3{
		a[0]*as + b[0]*bs,
		a[1]*as + b[1]*bs,
		a[2]*as + b[2]*bs,
	}
}

func (v Vector3) negate() Vector3 {
	return Vector3{-v[0], -v[1], -v[2]}
}
