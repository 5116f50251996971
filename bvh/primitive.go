package bvh

import (
	"github.com/golang/geo/r3"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// TrianglePrimitive is one world-space triangle of a mesh face. Quads and n-gons yield several
// primitives that share the source FaceIndex.
type TrianglePrimitive struct {
	V0, V1, V2 r3.Vector
	Owner      world.MeshID
	FaceIndex  int
	Center     r3.Vector
	Bounds     spatialmath.AABB

	tri *spatialmath.Triangle
}

// NewTrianglePrimitive computes the centroid, bounds and normal up front.
func NewTrianglePrimitive(v0, v1, v2 r3.Vector, owner world.MeshID, face int) TrianglePrimitive {
	tri := spatialmath.NewTriangle(v0, v1, v2)
	return TrianglePrimitive{
		V0:        v0,
		V1:        v1,
		V2:        v2,
		Owner:     owner,
		FaceIndex: face,
		Center:    tri.Centroid(),
		Bounds:    tri.Bounds(),
		tri:       tri,
	}
}

// Triangle returns the underlying triangle.
func (p *TrianglePrimitive) Triangle() *spatialmath.Triangle {
	return p.tri
}

// Normal returns the unit normal following the face winding.
func (p *TrianglePrimitive) Normal() r3.Vector {
	return p.tri.Normal()
}

// Triangulate splits the faces of a collision mesh into primitives. Triangles are kept, quads
// become (v0,v1,v2) and (v0,v2,v3), larger faces are fanned around v0. Faces with fewer than
// three indices or with an index out of range are skipped and counted. Meshes without
// collision contribute nothing.
func Triangulate(m world.MeshInstance) (prims []TrianglePrimitive, skipped int) {
	if !m.Collision() {
		return nil, 0
	}
	verts := m.TransformedVertices()
	for faceIdx, face := range m.Faces() {
		if len(face) < 3 || !indicesInRange(face, len(verts)) {
			skipped++
			continue
		}
		v0 := verts[face[0]]
		for i := 1; i+1 < len(face); i++ {
			prims = append(prims, NewTrianglePrimitive(v0, verts[face[i]], verts[face[i+1]], m.ID(), faceIdx))
		}
	}
	return prims, skipped
}

func indicesInRange(face []int, n int) bool {
	for _, i := range face {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
