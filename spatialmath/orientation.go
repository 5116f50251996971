package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// YawRotation returns the unit quaternion for a rotation of yaw radians about +Y.
func YawRotation(yaw float64) quat.Number {
	s, c := math.Sincos(yaw / 2)
	return quat.Number{Real: c, Jmag: s}
}

// RotateVector rotates v by the unit quaternion q.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// QuatAlmostEqual compares two rotations, treating q and -q as equal.
func QuatAlmostEqual(a, b quat.Number, tol float64) bool {
	d := quat.Abs(quat.Sub(a, b))
	s := quat.Abs(quat.Add(a, b))
	return d <= tol || s <= tol
}
