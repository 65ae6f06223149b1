// Package geometry implements the vector/matrix primitives, half-space sets,
// and the face-clipping convex mesher at the heart of the crystal pipeline.
package geometry

import (
	"fmt"
	"math"
)

// Vec3 is a three-component vector in IEEE-754 binary64.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v − w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale returns s·v.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the scalar product v·w.
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the vector product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns |v|.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v/|v|.  The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Neg returns −v.
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Key returns the vertex-deduplication key: the three coordinates rounded to
// six decimals and joined.  Two vertices with equal keys are treated as the
// same point everywhere in the pipeline.
func (v Vec3) Key() string {
	return keyCoord(v.X) + "," + keyCoord(v.Y) + "," + keyCoord(v.Z)
}

// keyCoord formats one coordinate to six decimals, folding "-0.000000" into
// "0.000000" so that tiny values of either sign share a key.
func keyCoord(x float64) string {
	s := fmt.Sprintf("%.6f", x)
	if s == "-0.000000" {
		return "0.000000"
	}
	return s
}

// Mat3 is a 3×3 row-major matrix.
type Mat3 [3][3]float64

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MulVec returns M·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns the matrix product m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += m[i][k] * n[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

// RotationAxisAngle builds the rotation matrix for a rotation of angleDeg
// degrees about the (not necessarily unit) axis, via Rodrigues' formula.
func RotationAxisAngle(axis Vec3, angleDeg float64) Mat3 {
	n := axis.Normalize()
	rad := angleDeg * math.Pi / 180
	c := math.Cos(rad)
	s := math.Sin(rad)
	t := 1 - c
	x, y, z := n.X, n.Y, n.Z
	return Mat3{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}

// ReflectionAcross builds the Householder reflection matrix I − 2nnᵀ across
// the plane through the origin with unit normal n.
func ReflectionAcross(normal Vec3) Mat3 {
	n := normal.Normalize()
	x, y, z := n.X, n.Y, n.Z
	return Mat3{
		{1 - 2*x*x, -2 * x * y, -2 * x * z},
		{-2 * x * y, 1 - 2*y*y, -2 * y * z},
		{-2 * x * z, -2 * y * z, 1 - 2*z*z},
	}
}
