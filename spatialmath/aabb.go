// Package spatialmath holds the vector, box, ray and triangle math shared by the spatial
// index and the collision resolver. Y is up.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// AABB is an axis-aligned bounding box. Min <= Max on every axis except for the empty box
// returned by EmptyAABB, which is only an accumulator seed.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// NewAABB returns the box spanning min and max. The corners are sorted per axis.
func NewAABB(min, max r3.Vector) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(min.X, max.X), Y: math.Min(min.Y, max.Y), Z: math.Min(min.Z, max.Z)},
		Max: r3.Vector{X: math.Max(min.X, max.X), Y: math.Max(min.Y, max.Y), Z: math.Max(min.Z, max.Z)},
	}
}

// EmptyAABB returns a box with +Inf min and -Inf max, the identity for Union.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: r3.Vector{X: inf, Y: inf, Z: inf},
		Max: r3.Vector{X: -inf, Y: -inf, Z: -inf},
	}
}

// AABBFromPoints folds the points into their bounding box. No points gives EmptyAABB.
func AABBFromPoints(pts ...r3.Vector) AABB {
	box := EmptyAABB()
	for _, p := range pts {
		box = box.UnionPoint(p)
	}
	return box
}

// AABBAround returns the box centered at center with the given half extents.
func AABBAround(center, halfExtents r3.Vector) AABB {
	h := halfExtents.Abs()
	return AABB{Min: center.Sub(h), Max: center.Add(h)}
}

func (b AABB) String() string {
	return fmt.Sprintf("AABB{min: %v, max: %v}", b.Min, b.Max)
}

// IsEmpty reports whether min exceeds max on any axis.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// IsFinite reports whether every bound is a finite number.
func (b AABB) IsFinite() bool {
	for _, v := range [6]float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: r3.Vector{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}
}

// UnionPoint returns the smallest box containing b and p.
func (b AABB) UnionPoint(p r3.Vector) AABB {
	return b.Union(AABB{Min: p, Max: p})
}

// Contains reports whether p is inside the box, boundary included.
func (b AABB) Contains(p r3.Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ContainsAABB reports whether o lies entirely inside b.
func (b AABB) ContainsAABB(o AABB) bool {
	return b.Contains(o.Min) && b.Contains(o.Max)
}

// Intersects reports whether the boxes overlap. Touching faces count as overlapping.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Center returns the midpoint of the box.
func (b AABB) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extent returns Max - Min.
func (b AABB) Extent() r3.Vector {
	return b.Max.Sub(b.Min)
}

// LongestAxis returns 0 for X, 1 for Y, 2 for Z. Ties go to the earlier axis.
func (b AABB) LongestAxis() int {
	e := b.Extent()
	if e.X >= e.Y && e.X >= e.Z {
		return 0
	}
	if e.Y >= e.Z {
		return 1
	}
	return 2
}

// Expand grows the box by d on every side.
func (b AABB) Expand(d float64) AABB {
	v := r3.Vector{X: d, Y: d, Z: d}
	return AABB{Min: b.Min.Sub(v), Max: b.Max.Add(v)}
}

// Translate moves the box by v.
func (b AABB) Translate(v r3.Vector) AABB {
	return AABB{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Corners returns the 8 corners of the box.
func (b AABB) Corners() [8]r3.Vector {
	var out [8]r3.Vector
	for i := range out {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out[i] = c
	}
	return out
}

// Transform maps the 8 corners through t and refolds them, so the result bounds the
// transformed box.
func (b AABB) Transform(t Transform) AABB {
	corners := b.Corners()
	out := EmptyAABB()
	for _, c := range corners {
		out = out.UnionPoint(t.Apply(c))
	}
	return out
}

// Axis returns component i (0, 1, 2) of v.
func Axis(v r3.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithAxis returns v with component i replaced by value.
func WithAxis(v r3.Vector, i int, value float64) r3.Vector {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}
