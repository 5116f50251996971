package bvh

import (
	"github.com/golang/geo/r3"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// Ignore names one face that a ray must pass through, typically the surface it starts on.
type Ignore struct {
	Mesh world.MeshID
	Face int
}

// NoIgnore ignores nothing.
var NoIgnore = Ignore{Face: -1}

func (ig Ignore) matches(p *TrianglePrimitive) bool {
	return ig.Face >= 0 && p.Owner == ig.Mesh && p.FaceIndex == ig.Face
}

// Hit is the nearest accepted intersection of a ray.
type Hit struct {
	Primitive   *TrianglePrimitive
	Distance    float64
	Point       r3.Vector
	Barycentric spatialmath.Barycentric
}

// Normal returns the hit face normal flipped to face the ray origin.
func (h Hit) Normal(dir r3.Vector) r3.Vector {
	n := h.Primitive.Normal()
	if n.Dot(dir) > 0 {
		return n.Mul(-1)
	}
	return n
}

// exclusionCache resolves world exclusion volumes lazily, once per owner per query.
type exclusionCache struct {
	meshes map[world.MeshID]world.MeshInstance
	byMesh map[world.MeshID][]spatialmath.AABB
}

func (c *exclusionCache) excluded(owner world.MeshID, p r3.Vector) bool {
	m, ok := c.meshes[owner]
	if !ok || len(m.ExclusionVolumes()) == 0 {
		return false
	}
	vols, ok := c.byMesh[owner]
	if !ok {
		if c.byMesh == nil {
			c.byMesh = map[world.MeshID][]spatialmath.AABB{}
		}
		vols = world.WorldExclusionVolumes(m)
		c.byMesh[owner] = vols
	}
	for _, v := range vols {
		if v.Contains(p) {
			return true
		}
	}
	return false
}

// Excluded reports whether p lies in an exclusion volume of the given mesh.
func (b *BVH) Excluded(owner world.MeshID, p r3.Vector) bool {
	c := exclusionCache{meshes: b.meshes}
	return c.excluded(owner, p)
}

// Intersect reports whether any accepted hit lies within maxDist of origin along dir. Hits at
// or below SelfHitEpsilon, hits on the ignored face and hits inside the owner's exclusion
// volumes are not accepted. It returns on the first accepted hit.
func (b *BVH) Intersect(origin, dir r3.Vector, maxDist float64, ignore Ignore) bool {
	ray, ok := spatialmath.NewRay(origin, dir)
	if !ok || b.root == nil || !(maxDist > 0) {
		return false
	}
	cache := exclusionCache{meshes: b.meshes}
	stack := make([]*Node, 0, 64)
	stack = append(stack, b.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !spatialmath.RayIntersectsAABB(ray, n.bounds, maxDist) {
			continue
		}
		if !n.IsLeaf() {
			stack = append(stack, n.left, n.right)
			continue
		}
		for _, p := range n.primitives {
			if ignore.matches(p) {
				continue
			}
			t, _, hit := p.tri.IntersectRay(ray)
			if !hit || t <= spatialmath.SelfHitEpsilon || t >= maxDist {
				continue
			}
			if cache.excluded(p.Owner, ray.At(t)) {
				continue
			}
			return true
		}
	}
	return false
}

// IntersectWithDetails returns the nearest accepted hit within maxDist. Acceptance is the
// same as Intersect. The best distance so far is the box cut-off for the rest of the walk.
func (b *BVH) IntersectWithDetails(origin, dir r3.Vector, maxDist float64, ignore Ignore) (Hit, bool) {
	ray, ok := spatialmath.NewRay(origin, dir)
	if !ok || b.root == nil || !(maxDist > 0) {
		return Hit{}, false
	}
	cache := exclusionCache{meshes: b.meshes}
	best := Hit{Distance: maxDist}
	found := false
	stack := make([]*Node, 0, 64)
	stack = append(stack, b.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !spatialmath.RayIntersectsAABB(ray, n.bounds, best.Distance) {
			continue
		}
		if !n.IsLeaf() {
			stack = append(stack, n.left, n.right)
			continue
		}
		for _, p := range n.primitives {
			if ignore.matches(p) {
				continue
			}
			t, bary, hit := p.tri.IntersectRay(ray)
			if !hit || t <= spatialmath.SelfHitEpsilon || t >= best.Distance {
				continue
			}
			point := ray.At(t)
			if cache.excluded(p.Owner, point) {
				continue
			}
			best = Hit{Primitive: p, Distance: t, Point: point, Barycentric: bary}
			found = true
		}
	}
	return best, found
}
