package decompose

import "math"

const radToDeg = 180 / math.Pi

// planarEpsilon bounds |qx| and |qy| for a rotation treated as purely about Z.
const planarEpsilon = 0.001

// poleThreshold is the fraction of |q|^2 at which Euler extraction is singular.
const poleThreshold = 0.49999

// Decomposition is the result of Decompose. Angles are degrees.
type Decomposition struct {
	RotateX    float64 `json:"rotateX"`
	RotateY    float64 `json:"rotateY"`
	RotateZ    float64 `json:"rotateZ"`
	ScaleX     float64 `json:"scaleX"`
	ScaleY     float64 `json:"scaleY"`
	ScaleZ     float64 `json:"scaleZ"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	TranslateZ float64 `json:"translateZ"`
	SkewXY     float64 `json:"skewXY"`
	SkewXZ     float64 `json:"skewXZ"`
	SkewYZ     float64 `json:"skewYZ"`
}

// DecomposeDOM decomposes the browser's named-field matrix.
func DecomposeDOM(m DOMMatrix) Decomposition {
	return Decompose(m.Matrix4())
}

// Decompose splits m into translation, rotation, scale and skew.
//
// Scale is signed: when the basis is left-handed all three scale factors
// come back negated. Rotation, scale and skew are rounded to three decimal
// places; translation is copied unrounded.
func Decompose(m Matrix4) Decomposition {
	var scale, skew [3]float64

	c0, c1, c2 := m.column(0), m.column(1), m.column(2)

	scale[0] = c0.length()
	c0 = c0.normalize(scale[0])

	// XY shear, then make c1 orthogonal to c0.
	skew[0] = c0.dot(c1)
	c1 = combine(c1, c0, 1, -skew[0])

	scale[1] = c1.length()
	c1 = c1.normalize(scale[1])
	skew[0] /= scale[1]

	// XZ and YZ shears, then make c2 orthogonal to both.
	skew[1] = c0.dot(c2)
	c2 = combine(c2, c0, 1, -skew[1])
	skew[2] = c1.dot(c2)
	c2 = combine(c2, c1, 1, -skew[2])

	scale[2] = c2.length()
	c2 = c2.normalize(scale[2])
	skew[1] /= scale[2]
	skew[2] /= scale[2]

	// Quaternion extraction needs determinant +1.
	if c0.dot(c1.cross(c2)) < 0 {
		for i := range scale {
			scale[i] = -scale[i]
		}
		c0, c1, c2 = c0.negate(), c1.negate(), c2.negate()
	}

	q := quaternionFromBasis(c0, c1, c2)

	var rot [3]float64
	if q[0] >= 0 && q[0] < planarEpsilon && q[1] >= 0 && q[1] < planarEpsilon {
		rot = [3]float64{0, 0, round3(math.Atan2(c0[1], c0[0]) * radToDeg)}
	} else {
		rot = quaternionToDegreesXYZ(q)
	}

	return Decomposition{
		RotateX:    rot[0],
		RotateY:    rot[1],
		RotateZ:    rot[2],
		ScaleX:     round3(scale[0]),
		ScaleY:     round3(scale[1]),
		ScaleZ:     round3(scale[2]),
		TranslateX: m[3][0],
		TranslateY: m[3][1],
		TranslateZ: m[3][2],
		SkewXY:     round3(skew[0] * radToDeg),
		SkewXZ:     round3(skew[1] * radToDeg),
		SkewYZ:     round3(skew[2] * radToDeg),
	}
}

// quaternionFromBasis reads a rotation from an orthonormal right-handed
// basis given as columns.
func quaternionFromBasis(c0, c1, c2 Vector3) Quaternion {
	q := Quaternion{
		0.5 * math.Sqrt(math.Max(1+c0[0]-c1[1]-c2[2], 0)),
		0.5 * math.Sqrt(math.Max(1-c0[0]+c1[1]-c2[2], 0)),
		0.5 * math.Sqrt(math.Max(1-c0[0]-c1[1]+c2[2], 0)),
		0.5 * math.Sqrt(math.Max(1+c0[0]+c1[1]+c2[2], 0)),
	}

	if c2[1] > c1[2] {
		q[0] = -q[0]
	}
	if c0[2] > c2[0] {
		q[1] = -q[1]
	}
	if c1[0] > c0[1] {
		q[2] = -q[2]
	}
	return q
}

// quaternionToDegreesXYZ returns (x, y, z) degrees for R = Ry * Rz * Rx.
// At the poles the Z angle is exactly +-90 and the result is not rounded.
func quaternionToDegreesXYZ(q Quaternion) [3]float64 {
	qx, qy, qz, qw := q[0], q[1], q[2], q[3]
	qx2, qy2, qz2, qw2 := qx*qx, qy*qy, qz*qz, qw*qw

	test := qx*qy + qz*qw
	unit := qw2 + qx2 + qy2 + qz2

	if test > poleThreshold*unit {
		return [3]float64{0, 2 * math.Atan2(qx, qw) * radToDeg, 90}
	}
	if test < -poleThreshold*unit {
		return [3]float64{0, -2 * math.Atan2(qx, qw) * radToDeg, -90}
	}

	return [3]float64{
		round3(math.Atan2(2*qx*qw-2*qy*qz, 1-2*qx2-2*qz2) * radToDeg),
		round3(math.Atan2(2*qy*qw-2*qx*qz, 1-2*qy2-2*qz2) * radToDeg),
		round3(math.Asin(2*qx*qy+2*qz*qw) * radToDeg),
	}
}
