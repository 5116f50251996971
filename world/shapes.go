package world

import (
	"math"

	"github.com/golang/geo/r3"
)

// Box corner i has +X if bit 0 is set, +Y for bit 1 and +Z for bit 2.
var boxFaces = [6][4]int{
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
}

// NewBoxMesh returns a box centered at the origin made of 6 outward-wound quads.
func NewBoxMesh(halfExtents r3.Vector) *Mesh {
	return newBox(halfExtents.Abs(), false)
}

// NewCubeMesh returns a cube of edge size centered at the origin. An inverted cube has its
// faces wound inward, for enclosures seen from the inside.
func NewCubeMesh(size float64, inverted bool) *Mesh {
	h := math.Abs(size) / 2
	return newBox(r3.Vector{X: h, Y: h, Z: h}, inverted)
}

func newBox(h r3.Vector, inverted bool) *Mesh {
	verts := make([]r3.Vector, 8)
	for i := range verts {
		v := h.Mul(-1)
		if i&1 != 0 {
			v.X = h.X
		}
		if i&2 != 0 {
			v.Y = h.Y
		}
		if i&4 != 0 {
			v.Z = h.Z
		}
		verts[i] = v
	}
	faces := make([][]int, len(boxFaces))
	for i, f := range boxFaces {
		face := []int{f[0], f[1], f[2], f[3]}
		if inverted {
			face[0], face[1], face[2], face[3] = face[3], face[2], face[1], face[0]
		}
		faces[i] = face
	}
	return &Mesh{Vertices: verts, Faces: faces}
}

// NewQuadMesh returns a single quad face a, b, c, d.
func NewQuadMesh(a, b, c, d r3.Vector) *Mesh {
	return &Mesh{
		Vertices: []r3.Vector{a, b, c, d},
		Faces:    [][]int{{0, 1, 2, 3}},
	}
}

// NewCapsuleMesh returns a Y-aligned capsule centered at the origin with total height height.
// segments is the number of vertices around each ring (at least 3). The pole caps are
// triangle fans and the sides are quads.
func NewCapsuleMesh(radius, height float64, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	radius = math.Abs(radius)
	halfCylinder := math.Max(0, math.Abs(height)/2-radius)
	rings := segments / 4
	if rings < 1 {
		rings = 1
	}

	type ring struct{ y, r float64 }
	var profile []ring
	// Bottom hemisphere from just above the pole up to the equator.
	for i := 1; i <= rings; i++ {
		phi := -math.Pi/2 + float64(i)*(math.Pi/2)/float64(rings)
		profile = append(profile, ring{y: -halfCylinder + radius*math.Sin(phi), r: radius * math.Cos(phi)})
	}
	// Top hemisphere from the equator up to just below the pole. Without a cylinder the two
	// equators coincide, so the top one is skipped.
	start := 0
	if halfCylinder == 0 {
		start = 1
	}
	for i := start; i < rings; i++ {
		phi := float64(i) * (math.Pi / 2) / float64(rings)
		profile = append(profile, ring{y: halfCylinder + radius*math.Sin(phi), r: radius * math.Cos(phi)})
	}

	verts := make([]r3.Vector, 0, 2+len(profile)*segments)
	verts = append(verts, r3.Vector{Y: -halfCylinder - radius})
	for _, rg := range profile {
		for k := 0; k < segments; k++ {
			theta := 2 * math.Pi * float64(k) / float64(segments)
			verts = append(verts, r3.Vector{X: rg.r * math.Cos(theta), Y: rg.y, Z: rg.r * math.Sin(theta)})
		}
	}
	top := len(verts)
	verts = append(verts, r3.Vector{Y: halfCylinder + radius})

	ringVert := func(j, k int) int { return 1 + j*segments + k%segments }
	var faces [][]int
	for k := 0; k < segments; k++ {
		faces = append(faces, []int{0, ringVert(0, k), ringVert(0, k+1)})
	}
	for j := 0; j+1 < len(profile); j++ {
		for k := 0; k < segments; k++ {
			faces = append(faces, []int{ringVert(j, k), ringVert(j+1, k), ringVert(j+1, k+1), ringVert(j, k+1)})
		}
	}
	last := len(profile) - 1
	for k := 0; k < segments; k++ {
		faces = append(faces, []int{top, ringVert(last, k+1), ringVert(last, k)})
	}
	return &Mesh{Vertices: verts, Faces: faces}
}
