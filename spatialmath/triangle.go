package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// mollerTrumboreEpsilon bounds the determinant and the barycentric slack of IntersectRay.
const mollerTrumboreEpsilon = 1e-5

// Barycentric holds the weights of p0, p1, p2 in that order. They sum to 1.
type Barycentric struct {
	U, V, W float64
}

// Point evaluates the weights against three points.
func (b Barycentric) Point(p0, p1, p2 r3.Vector) r3.Vector {
	return p0.Mul(b.U).Add(p1.Mul(b.V)).Add(p2.Mul(b.W))
}

// Triangle is a world-space triangle with a cached unit normal.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle returns the triangle p0, p1, p2. Counter-clockwise winding seen from the normal.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// Points returns the three vertices.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal, or the zero vector for a degenerate triangle.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Centroid is the mean of the vertices.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// Area returns the triangle area.
func (t *Triangle) Area() float64 {
	return 0.5 * t.p1.Sub(t.p0).Cross(t.p2.Sub(t.p0)).Norm()
}

// Bounds returns the AABB of the vertices.
func (t *Triangle) Bounds() AABB {
	return AABBFromPoints(t.p0, t.p1, t.p2)
}

// ClosestPointToPoint returns the point on the triangle nearest p and its barycentric
// weights. The vertex and edge Voronoi regions are tested before the face region, so the
// result is exact for points whose projection falls outside the triangle.
func (t *Triangle) ClosestPointToPoint(p r3.Vector) (r3.Vector, Barycentric) {
	a, b, c := t.p0, t.p1, t.p2
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, Barycentric{U: 1}
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, Barycentric{V: 1}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v)), Barycentric{U: 1 - v, V: v}
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, Barycentric{W: 1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w)), Barycentric{U: 1 - w, W: w}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w)), Barycentric{V: 1 - w, W: w}
	}

	denom := va + vb + vc
	if denom == 0 {
		// Degenerate: fall back to the nearest edge.
		return t.closestEdgePoint(p)
	}
	v := vb / denom
	w := vc / denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w)), Barycentric{U: 1 - v - w, V: v, W: w}
}

func (t *Triangle) closestEdgePoint(p r3.Vector) (r3.Vector, Barycentric) {
	best := ClosestPointSegmentPoint(t.p0, t.p1, p)
	bestBary := segmentBary(t.p0, t.p1, best, 0, 1)
	bestDist := p.Sub(best).Norm2()

	if pt := ClosestPointSegmentPoint(t.p1, t.p2, p); p.Sub(pt).Norm2() < bestDist {
		best, bestDist = pt, p.Sub(pt).Norm2()
		bestBary = segmentBary(t.p1, t.p2, pt, 1, 2)
	}
	if pt := ClosestPointSegmentPoint(t.p2, t.p0, p); p.Sub(pt).Norm2() < bestDist {
		best = pt
		bestBary = segmentBary(t.p2, t.p0, pt, 2, 0)
	}
	return best, bestBary
}

func segmentBary(a, b, pt r3.Vector, ia, ib int) Barycentric {
	var s float64
	if l := b.Sub(a).Norm2(); l > 0 {
		s = pt.Sub(a).Dot(b.Sub(a)) / l
	}
	var w [3]float64
	w[ia] += 1 - s
	w[ib] += s
	return Barycentric{U: w[0], V: w[1], W: w[2]}
}

// IntersectRay intersects the ray with the front side of the triangle (Möller–Trumbore).
// Rays travelling along the normal pass through. It returns the distance along the ray and
// the barycentric weights of the hit point. On a hit t may still be tiny; callers reject
// t <= SelfHitEpsilon.
func (t *Triangle) IntersectRay(ray Ray) (float64, Barycentric, bool) {
	e1 := t.p1.Sub(t.p0)
	e2 := t.p2.Sub(t.p0)
	h := ray.Dir.Cross(e2)
	det := e1.Dot(h)
	if !(det >= mollerTrumboreEpsilon) {
		return 0, Barycentric{}, false
	}
	f := 1 / det
	s := ray.Origin.Sub(t.p0)
	u := f * s.Dot(h)
	if u < -mollerTrumboreEpsilon || u > 1+mollerTrumboreEpsilon {
		return 0, Barycentric{}, false
	}
	q := s.Cross(e1)
	v := f * ray.Dir.Dot(q)
	if v < -mollerTrumboreEpsilon || u+v > 1+mollerTrumboreEpsilon {
		return 0, Barycentric{}, false
	}
	dist := f * e2.Dot(q)
	if math.IsNaN(dist) {
		return 0, Barycentric{}, false
	}
	return dist, Barycentric{U: 1 - u - v, V: u, W: v}, true
}

// PlaneNormal returns the unit normal of the plane through p0, p1, p2 following the
// right-hand rule, or the zero vector if the points are collinear.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if norm := n.Norm(); norm > 0 {
		return n.Mul(1 / norm)
	}
	return r3.Vector{}
}

// ClosestPointSegmentPoint returns the point on segment ab nearest pt.
func ClosestPointSegmentPoint(a, b, pt r3.Vector) r3.Vector {
	ab := b.Sub(a)
	l := ab.Norm2()
	if l == 0 {
		return a
	}
	s := pt.Sub(a).Dot(ab) / l
	switch {
	case s <= 0:
		return a
	case s >= 1:
		return b
	default:
		return a.Add(ab.Mul(s))
	}
}
