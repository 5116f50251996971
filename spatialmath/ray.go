package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// SelfHitEpsilon is the distance at or below which a ray hit is treated as the ray leaving
// the surface it started on.
const SelfHitEpsilon = 1e-6

// Ray is a half line with a unit direction. InvDir holds the per-axis reciprocals of Dir,
// which are infinite for zero components.
type Ray struct {
	Origin r3.Vector
	Dir    r3.Vector
	InvDir r3.Vector
}

// NewRay normalizes dir. It returns false when dir has zero length or is not finite.
func NewRay(origin, dir r3.Vector) (Ray, bool) {
	n := dir.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Ray{}, false
	}
	d := dir.Mul(1 / n)
	return Ray{
		Origin: origin,
		Dir:    d,
		InvDir: r3.Vector{X: 1 / d.X, Y: 1 / d.Y, Z: 1 / d.Z},
	}, true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vector {
	return r.Origin.Add(r.Dir.Mul(t))
}

// RaySlab returns the entry and exit distances of the ray against box. A ray parallel to a
// slab produces 0*Inf = NaN terms on that axis; ordered comparisons skip them, leaving the
// other axes to decide.
func RaySlab(ray Ray, box AABB) (tmin, tmax float64) {
	tmin = math.Inf(-1)
	tmax = math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o := Axis(ray.Origin, axis)
		inv := Axis(ray.InvDir, axis)
		t1 := (Axis(box.Min, axis) - o) * inv
		t2 := (Axis(box.Max, axis) - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}
	return tmin, tmax
}

// RayIntersectsAABB reports whether the ray enters box before maxDist.
func RayIntersectsAABB(ray Ray, box AABB, maxDist float64) bool {
	tmin, tmax := RaySlab(ray, box)
	if tmax < math.Max(0, tmin) {
		return false
	}
	return tmin < maxDist
}
