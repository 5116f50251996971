package partition

import (
	"math"
	"sync/atomic"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/bvh"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/logging"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// Index publishes a static and a dynamic partition. A rebuild constructs a whole new
// partition and swaps the pointer, so readers holding a Snapshot never see a partial build.
type Index struct {
	cellSize float64
	logger   logging.Logger

	static  atomic.Pointer[Partition]
	dynamic atomic.Pointer[Partition]
}

// NewIndex returns an index with both partitions empty.
func NewIndex(cellSize float64, logger logging.Logger) (*Index, error) {
	idx := &Index{cellSize: cellSize, logger: logger}
	if err := idx.RebuildStatic(nil); err != nil {
		return nil, err
	}
	if err := idx.RebuildDynamic(nil); err != nil {
		return nil, err
	}
	return idx, nil
}

// CellSize returns the grid cell size used for rebuilds.
func (idx *Index) CellSize() float64 { return idx.cellSize }

// PublishStatic replaces the static partition.
func (idx *Index) PublishStatic(p *Partition) error {
	if p == nil || p.kind != Static {
		return errors.New("static slot needs a static partition")
	}
	idx.static.Store(p)
	return nil
}

// PublishDynamic replaces the dynamic partition.
func (idx *Index) PublishDynamic(p *Partition) error {
	if p == nil || p.kind != Dynamic {
		return errors.New("dynamic slot needs a dynamic partition")
	}
	idx.dynamic.Store(p)
	return nil
}

// RebuildStatic builds a static partition from meshes and publishes it.
func (idx *Index) RebuildStatic(meshes []world.MeshInstance) error {
	p, err := Build(Static, meshes, idx.cellSize, idx.logger)
	if err != nil {
		return err
	}
	return idx.PublishStatic(p)
}

// RebuildDynamic builds a dynamic partition from meshes and publishes it.
func (idx *Index) RebuildDynamic(meshes []world.MeshInstance) error {
	p, err := Build(Dynamic, meshes, idx.cellSize, idx.logger)
	if err != nil {
		return err
	}
	return idx.PublishDynamic(p)
}

// Snapshot returns the currently published pair. Use one snapshot for a whole burst of
// queries so they agree with each other.
func (idx *Index) Snapshot() Snapshot {
	return Snapshot{Static: idx.static.Load(), Dynamic: idx.dynamic.Load()}
}

// Snapshot is a consistent view of both partitions.
type Snapshot struct {
	Static  *Partition
	Dynamic *Partition
}

// Candidate is a mesh found by a broad-phase query with the partition that holds it.
type Candidate struct {
	Partition *Partition
	Mesh      world.MeshInstance
}

func (s Snapshot) partitions() []*Partition {
	out := make([]*Partition, 0, 2)
	if s.Static != nil {
		out = append(out, s.Static)
	}
	if s.Dynamic != nil {
		out = append(out, s.Dynamic)
	}
	return out
}

// QueryMeshes returns the meshes of both partitions overlapping box, static first, each
// ordered by id.
func (s Snapshot) QueryMeshes(box spatialmath.AABB) []Candidate {
	var out []Candidate
	for _, p := range s.partitions() {
		for _, m := range p.QueryMeshes(box) {
			out = append(out, Candidate{Partition: p, Mesh: m})
		}
	}
	return out
}

// Owner returns the partition holding the mesh.
func (s Snapshot) Owner(id world.MeshID) (*Partition, bool) {
	for _, p := range s.partitions() {
		if _, ok := p.Mesh(id); ok {
			return p, true
		}
	}
	return nil, false
}

// QueryPrimitives returns the primitives of owner overlapping box from whichever partition
// holds owner.
func (s Snapshot) QueryPrimitives(box spatialmath.AABB, owner world.MeshID) []*bvh.TrianglePrimitive {
	p, ok := s.Owner(owner)
	if !ok {
		return nil
	}
	return p.QueryPrimitives(box, owner)
}

// Intersect reports whether a ray hits either partition.
func (s Snapshot) Intersect(origin, dir r3.Vector, maxDist float64, ignore bvh.Ignore) bool {
	for _, p := range s.partitions() {
		if p.Intersect(origin, dir, maxDist, ignore) {
			return true
		}
	}
	return false
}

// IntersectWithDetails returns the nearest hit across both partitions.
func (s Snapshot) IntersectWithDetails(origin, dir r3.Vector, maxDist float64, ignore bvh.Ignore) (bvh.Hit, bool) {
	var best bvh.Hit
	found := false
	limit := maxDist
	for _, p := range s.partitions() {
		if hit, ok := p.IntersectWithDetails(origin, dir, limit, ignore); ok {
			best, found, limit = hit, true, hit.Distance
		}
	}
	return best, found
}

// MeshesWithin returns the meshes whose bounds come within radius of center.
func (s Snapshot) MeshesWithin(center r3.Vector, radius float64) []Candidate {
	if !(radius >= 0) || math.IsInf(radius, 0) {
		return nil
	}
	box := spatialmath.AABBAround(center, r3.Vector{X: radius, Y: radius, Z: radius})
	var out []Candidate
	for _, c := range s.QueryMeshes(box) {
		b, _ := c.Partition.Bounds(c.Mesh.ID())
		if distanceToAABB(center, b) <= radius {
			out = append(out, c)
		}
	}
	return out
}

func distanceToAABB(p r3.Vector, b spatialmath.AABB) float64 {
	closest := r3.Vector{
		X: math.Max(b.Min.X, math.Min(p.X, b.Max.X)),
		Y: math.Max(b.Min.Y, math.Min(p.Y, b.Max.Y)),
		Z: math.Max(b.Min.Z, math.Min(p.Z, b.Max.Z)),
	}
	return p.Distance(closest)
}
