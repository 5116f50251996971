// Package occlusion answers line-of-sight and visibility questions over both partitions of a
// partition.Index.
package occlusion

import (
	"github.com/golang/geo/r3"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/bvh"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/logging"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/partition"
)

// Tester wraps an index. Each call reads one snapshot.
type Tester struct {
	index  *partition.Index
	logger logging.Logger
}

// NewTester returns a tester over index.
func NewTester(index *partition.Index, logger logging.Logger) *Tester {
	return &Tester{index: index, logger: logger}
}

// Intersect reports whether the ray from origin along dir hits anything within maxDist.
func (t *Tester) Intersect(origin, dir r3.Vector, maxDist float64, ignore bvh.Ignore) bool {
	return t.index.Snapshot().Intersect(origin, dir, maxDist, ignore)
}

// IntersectWithDetails returns the nearest hit within maxDist.
func (t *Tester) IntersectWithDetails(origin, dir r3.Vector, maxDist float64, ignore bvh.Ignore) (bvh.Hit, bool) {
	return t.index.Snapshot().IntersectWithDetails(origin, dir, maxDist, ignore)
}

// LineOfSight reports whether nothing blocks the segment from from to to.
func (t *Tester) LineOfSight(from, to r3.Vector, ignore bvh.Ignore) bool {
	return lineOfSight(t.index.Snapshot(), from, to, ignore)
}

func lineOfSight(snap partition.Snapshot, from, to r3.Vector, ignore bvh.Ignore) bool {
	d := to.Sub(from)
	dist := d.Norm()
	if dist == 0 {
		return true
	}
	return !snap.Intersect(from, d, dist, ignore)
}
