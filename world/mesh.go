// Package world defines the mesh instances the spatial index is built from and the world
// state (block grid, remote players) that produces them.
package world

import (
	"sync/atomic"

	"github.com/golang/geo/r3"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
)

// MeshID is an opaque handle to a mesh instance. It never implies ownership.
type MeshID uint32

// IDSource hands out MeshIDs. Share one source between the static and dynamic partitions so
// an id names exactly one mesh across both.
type IDSource struct {
	next atomic.Uint32
}

// Next returns a fresh id. Ids start at 1.
func (s *IDSource) Next() MeshID {
	return MeshID(s.next.Add(1))
}

// MeshInstance is a placed, possibly collidable, mesh.
type MeshInstance interface {
	ID() MeshID
	// TransformedVertices returns world-space vertices. Callers must not modify the slice.
	TransformedVertices() []r3.Vector
	// Faces indexes into TransformedVertices. Faces may have any number of indices.
	Faces() [][]int
	Collision() bool
	// ExclusionVolumes are mesh-local boxes inside which hits and contacts are ignored.
	ExclusionVolumes() []spatialmath.AABB
	Transform() spatialmath.Transform
}

// Mesh is reusable mesh-local geometry.
type Mesh struct {
	Vertices         []r3.Vector
	Faces            [][]int
	ExclusionVolumes []spatialmath.AABB
}

// WithExclusions returns a copy of m carrying the given mesh-local exclusion volumes.
func (m *Mesh) WithExclusions(volumes ...spatialmath.AABB) *Mesh {
	out := *m
	out.ExclusionVolumes = append(append([]spatialmath.AABB(nil), m.ExclusionVolumes...), volumes...)
	return &out
}

// PlacedMesh is an immutable instance of a Mesh. Moving a mesh means building a new
// PlacedMesh and rebuilding the partition that holds it.
type PlacedMesh struct {
	id        MeshID
	mesh      *Mesh
	transform spatialmath.Transform
	collision bool

	vertices []r3.Vector
}

// NewPlacedMesh places mesh with tf. The transformed vertices are computed once here.
func NewPlacedMesh(id MeshID, mesh *Mesh, tf spatialmath.Transform, collision bool) *PlacedMesh {
	verts := make([]r3.Vector, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		verts[i] = tf.Apply(v)
	}
	return &PlacedMesh{
		id:        id,
		mesh:      mesh,
		transform: tf,
		collision: collision,
		vertices:  verts,
	}
}

// ID returns the mesh id.
func (pm *PlacedMesh) ID() MeshID { return pm.id }

// TransformedVertices returns the cached world-space vertices.
func (pm *PlacedMesh) TransformedVertices() []r3.Vector { return pm.vertices }

// Faces returns the template faces.
func (pm *PlacedMesh) Faces() [][]int { return pm.mesh.Faces }

// Collision reports whether the mesh takes part in collision and occlusion.
func (pm *PlacedMesh) Collision() bool { return pm.collision }

// ExclusionVolumes returns the mesh-local exclusion volumes.
func (pm *PlacedMesh) ExclusionVolumes() []spatialmath.AABB { return pm.mesh.ExclusionVolumes }

// Transform returns the placement transform.
func (pm *PlacedMesh) Transform() spatialmath.Transform { return pm.transform }

// WorldExclusionVolumes maps each exclusion volume of m into world space by transforming its
// 8 corners and refolding them. Inverted source boxes come out normalized.
func WorldExclusionVolumes(m MeshInstance) []spatialmath.AABB {
	local := m.ExclusionVolumes()
	if len(local) == 0 {
		return nil
	}
	tf := m.Transform()
	out := make([]spatialmath.AABB, len(local))
	for i, box := range local {
		out[i] = spatialmath.NewAABB(box.Min, box.Max).Transform(tf)
	}
	return out
}

// Bounds returns the AABB of m's world-space vertices.
func Bounds(m MeshInstance) spatialmath.AABB {
	return spatialmath.AABBFromPoints(m.TransformedVertices()...)
}

// FaceNormal returns the unit normal of face i from its first three vertices, or the zero
// vector for a degenerate or malformed face.
func FaceNormal(m MeshInstance, face int) r3.Vector {
	faces := m.Faces()
	if face < 0 || face >= len(faces) || len(faces[face]) < 3 {
		return r3.Vector{}
	}
	verts := m.TransformedVertices()
	idx := faces[face]
	for _, i := range idx[:3] {
		if i < 0 || i >= len(verts) {
			return r3.Vector{}
		}
	}
	return spatialmath.PlaneNormal(verts[idx[0]], verts[idx[1]], verts[idx[2]])
}
