// Package bvh is a median-split bounding volume hierarchy over triangulated collision meshes
// with any-hit and nearest-hit ray queries and box queries.
package bvh

import (
	"sort"

	"github.com/samber/lo"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/logging"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// MaxLeafPrimitives is the largest number of primitives a leaf holds.
const MaxLeafPrimitives = 8

// Node is a BVH node. Exactly one of (Left and Right) or Primitives is set.
type Node struct {
	bounds     spatialmath.AABB
	left       *Node
	right      *Node
	primitives []*TrianglePrimitive
}

// Bounds returns the union of the bounds of every primitive under the node.
func (n *Node) Bounds() spatialmath.AABB { return n.bounds }

// Left returns the left child, nil for leaves.
func (n *Node) Left() *Node { return n.left }

// Right returns the right child, nil for leaves.
func (n *Node) Right() *Node { return n.right }

// Primitives returns the primitives of a leaf, nil for internal nodes.
func (n *Node) Primitives() []*TrianglePrimitive { return n.primitives }

// IsLeaf reports whether the node holds primitives.
func (n *Node) IsLeaf() bool { return n.left == nil && n.right == nil }

// Stats summarizes a built tree.
type Stats struct {
	Primitives int
	Leaves     int
	Depth      int
	Skipped    int
}

// BVH is read-only after Build. Concurrent queries are safe; Build must not overlap them.
type BVH struct {
	logger logging.Logger

	root   *Node
	prims  []TrianglePrimitive
	meshes map[world.MeshID]world.MeshInstance
	stats  Stats
}

// New returns an empty BVH.
func New(logger logging.Logger) *BVH {
	return &BVH{logger: logger, meshes: map[world.MeshID]world.MeshInstance{}}
}

// NewFromPrimitives builds a tree over prims directly. meshes supplies exclusion volumes and
// may be nil.
func NewFromPrimitives(prims []TrianglePrimitive, meshes []world.MeshInstance, logger logging.Logger) *BVH {
	b := New(logger)
	b.build(prims, meshes, 0)
	return b
}

// Build discards the current tree and rebuilds from every collision mesh in meshes.
func (b *BVH) Build(meshes []world.MeshInstance) {
	collidable := lo.Filter(meshes, func(m world.MeshInstance, _ int) bool { return m.Collision() })
	var prims []TrianglePrimitive
	skipped := 0
	for _, m := range collidable {
		p, s := Triangulate(m)
		prims = append(prims, p...)
		skipped += s
	}
	b.build(prims, collidable, skipped)
}

func (b *BVH) build(prims []TrianglePrimitive, meshes []world.MeshInstance, skipped int) {
	b.prims = prims
	b.meshes = make(map[world.MeshID]world.MeshInstance, len(meshes))
	for _, m := range meshes {
		b.meshes[m.ID()] = m
	}

	ptrs := make([]*TrianglePrimitive, len(b.prims))
	for i := range b.prims {
		ptrs[i] = &b.prims[i]
	}
	b.stats = Stats{Primitives: len(ptrs), Skipped: skipped}
	b.root = buildNode(ptrs, 1, &b.stats)

	if b.logger != nil {
		if skipped > 0 {
			b.logger.Debugw("skipped malformed faces", "count", skipped)
		}
		b.logger.Debugw("built bvh",
			"meshes", len(b.meshes),
			"primitives", b.stats.Primitives,
			"leaves", b.stats.Leaves,
			"depth", b.stats.Depth)
	}
}

// buildNode splits prims at the median centroid along the longest axis of the centroid bounds.
// The stable sort keeps the tree identical for identical input.
func buildNode(prims []*TrianglePrimitive, depth int, stats *Stats) *Node {
	if len(prims) == 0 {
		return nil
	}
	if depth > stats.Depth {
		stats.Depth = depth
	}
	bounds := spatialmath.EmptyAABB()
	for _, p := range prims {
		bounds = bounds.Union(p.Bounds)
	}
	if len(prims) <= MaxLeafPrimitives {
		stats.Leaves++
		return &Node{bounds: bounds, primitives: prims}
	}

	centroids := spatialmath.EmptyAABB()
	for _, p := range prims {
		centroids = centroids.UnionPoint(p.Center)
	}
	axis := centroids.LongestAxis()
	sort.SliceStable(prims, func(i, j int) bool {
		return spatialmath.Axis(prims[i].Center, axis) < spatialmath.Axis(prims[j].Center, axis)
	})
	mid := len(prims) / 2
	return &Node{
		bounds: bounds,
		left:   buildNode(prims[:mid], depth+1, stats),
		right:  buildNode(prims[mid:], depth+1, stats),
	}
}

// Root returns the root node, nil for an empty tree.
func (b *BVH) Root() *Node { return b.root }

// Empty reports whether the tree holds no primitives.
func (b *BVH) Empty() bool { return b.root == nil }

// Stats returns the statistics of the last build.
func (b *BVH) Stats() Stats { return b.stats }

// Mesh returns the collision mesh with the given id.
func (b *BVH) Mesh(id world.MeshID) (world.MeshInstance, bool) {
	m, ok := b.meshes[id]
	return m, ok
}

// Walk visits nodes depth first, left before right. Returning false skips the node's children.
func (b *BVH) Walk(visit func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if n == nil || !visit(n, depth) {
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(b.root, 1)
}
