// Package partition pairs a BVH with a spatial hash grid over the same set of meshes, and
// keeps a static and a dynamic partition that are rebuilt and published independently.
package partition

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/bvh"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/logging"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialhash"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// Kind tells the static world apart from per-tick dynamic geometry.
type Kind int

const (
	// Static geometry changes only on explicit rebuilds.
	Static Kind = iota
	// Dynamic geometry is rebuilt every tick.
	Dynamic
)

func (k Kind) String() string {
	if k == Dynamic {
		return "dynamic"
	}
	return "static"
}

// Partition is an immutable index over one set of collision meshes.
type Partition struct {
	kind   Kind
	tree   *bvh.BVH
	grid   *spatialhash.Grid[world.MeshID]
	meshes map[world.MeshID]world.MeshInstance
	bounds map[world.MeshID]spatialmath.AABB
}

// Build indexes the collision meshes of meshes. Non-collision meshes are left out. Mesh ids
// must be unique.
func Build(kind Kind, meshes []world.MeshInstance, cellSize float64, logger logging.Logger) (*Partition, error) {
	grid, err := spatialhash.NewGrid[world.MeshID](cellSize)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s partition", kind)
	}
	collidable := lo.Filter(meshes, func(m world.MeshInstance, _ int) bool { return m.Collision() })
	p := &Partition{
		kind:   kind,
		grid:   grid,
		meshes: make(map[world.MeshID]world.MeshInstance, len(collidable)),
		bounds: make(map[world.MeshID]spatialmath.AABB, len(collidable)),
	}
	for _, m := range collidable {
		if _, dup := p.meshes[m.ID()]; dup {
			return nil, errors.Errorf("duplicate mesh id %d in %s partition", m.ID(), kind)
		}
		box := world.Bounds(m)
		p.meshes[m.ID()] = m
		p.bounds[m.ID()] = box
		if !grid.Add(m.ID(), box) {
			logger.Warnw("mesh has no usable bounds, left out of the grid", "partition", kind, "mesh", m.ID())
		}
	}
	p.tree = bvh.New(logger.Sublogger("bvh"))
	p.tree.Build(collidable)
	logger.Debugw("built partition", "partition", kind, "meshes", len(p.meshes), "cells", grid.Len())
	return p, nil
}

// Kind returns the partition kind.
func (p *Partition) Kind() Kind { return p.kind }

// BVH returns the triangle hierarchy.
func (p *Partition) BVH() *bvh.BVH { return p.tree }

// Grid returns the broad-phase grid.
func (p *Partition) Grid() *spatialhash.Grid[world.MeshID] { return p.grid }

// Len returns the number of indexed meshes.
func (p *Partition) Len() int { return len(p.meshes) }

// Mesh returns the mesh with the given id.
func (p *Partition) Mesh(id world.MeshID) (world.MeshInstance, bool) {
	m, ok := p.meshes[id]
	return m, ok
}

// Bounds returns the cached world bounds of a mesh.
func (p *Partition) Bounds(id world.MeshID) (spatialmath.AABB, bool) {
	b, ok := p.bounds[id]
	return b, ok
}

// Meshes returns every indexed mesh ordered by id.
func (p *Partition) Meshes() []world.MeshInstance {
	ids := lo.Keys(p.meshes)
	sortIDs(ids)
	return lo.Map(ids, func(id world.MeshID, _ int) world.MeshInstance { return p.meshes[id] })
}

// QueryMeshes returns the meshes whose grid cells and bounds overlap box, ordered by id.
func (p *Partition) QueryMeshes(box spatialmath.AABB) []world.MeshInstance {
	ids := lo.Filter(lo.Keys(p.grid.Query(box)), func(id world.MeshID, _ int) bool {
		return p.bounds[id].Intersects(box)
	})
	sortIDs(ids)
	return lo.Map(ids, func(id world.MeshID, _ int) world.MeshInstance { return p.meshes[id] })
}

// QueryPrimitives returns the primitives of owner overlapping box.
func (p *Partition) QueryPrimitives(box spatialmath.AABB, owner world.MeshID) []*bvh.TrianglePrimitive {
	return p.tree.QueryOwned(box, owner)
}

// Intersect is an any-hit ray query against this partition.
func (p *Partition) Intersect(origin, dir r3.Vector, maxDist float64, ignore bvh.Ignore) bool {
	return p.tree.Intersect(origin, dir, maxDist, ignore)
}

// IntersectWithDetails is a nearest-hit ray query against this partition.
func (p *Partition) IntersectWithDetails(origin, dir r3.Vector, maxDist float64, ignore bvh.Ignore) (bvh.Hit, bool) {
	return p.tree.IntersectWithDetails(origin, dir, maxDist, ignore)
}

// Excluded reports whether pt lies in an exclusion volume of the given mesh.
func (p *Partition) Excluded(owner world.MeshID, pt r3.Vector) bool {
	return p.tree.Excluded(owner, pt)
}

func sortIDs(ids []world.MeshID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
