package bvh

import (
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// QueryPrimitives calls visit for every primitive whose bounds overlap box. Returning false
// from visit stops the query.
func (b *BVH) QueryPrimitives(box spatialmath.AABB, visit func(*TrianglePrimitive) bool) {
	if b.root == nil {
		return
	}
	stack := make([]*Node, 0, 64)
	stack = append(stack, b.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !n.bounds.Intersects(box) {
			continue
		}
		if !n.IsLeaf() {
			stack = append(stack, n.left, n.right)
			continue
		}
		for _, p := range n.primitives {
			if p.Bounds.Intersects(box) && !visit(p) {
				return
			}
		}
	}
}

// QueryOwned returns the primitives of owner whose bounds overlap box.
func (b *BVH) QueryOwned(box spatialmath.AABB, owner world.MeshID) []*TrianglePrimitive {
	var out []*TrianglePrimitive
	b.QueryPrimitives(box, func(p *TrianglePrimitive) bool {
		if p.Owner == owner {
			out = append(out, p)
		}
		return true
	})
	return out
}
