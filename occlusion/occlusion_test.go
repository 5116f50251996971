package occlusion

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/bvh"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/logging"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/partition"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// Face order of world cubes: -X, +X, -Y, +Y, -Z, +Z.
const (
	faceNegX = 0
	facePosX = 1
	facePosY = 3
)

func newTester(t *testing.T, static, dynamic []world.MeshInstance) *Tester {
	t.Helper()
	logger := logging.NewTestLogger(t)
	idx, err := partition.NewIndex(2, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, idx.RebuildStatic(static), test.ShouldBeNil)
	test.That(t, idx.RebuildDynamic(dynamic), test.ShouldBeNil)
	return NewTester(idx, logger)
}

func cubeAt(id world.MeshID, center r3.Vector) world.MeshInstance {
	return world.NewPlacedMesh(id, world.NewCubeMesh(1, false), spatialmath.Translation(center), true)
}

func TestLineOfSight(t *testing.T) {
	tester := newTester(t,
		[]world.MeshInstance{cubeAt(1, r3.Vector{X: 5, Y: 0, Z: 0})},
		[]world.MeshInstance{cubeAt(2, r3.Vector{X: 0, Y: 0, Z: 5})})

	test.That(t, tester.LineOfSight(r3.Vector{}, r3.Vector{X: 10, Y: 0, Z: 0}, bvh.NoIgnore), test.ShouldBeFalse)
	test.That(t, tester.LineOfSight(r3.Vector{}, r3.Vector{X: 4, Y: 0, Z: 0}, bvh.NoIgnore), test.ShouldBeTrue)
	test.That(t, tester.LineOfSight(r3.Vector{}, r3.Vector{X: 0, Y: 0, Z: 10}, bvh.NoIgnore), test.ShouldBeFalse)
	test.That(t, tester.LineOfSight(r3.Vector{}, r3.Vector{X: 0, Y: 10, Z: 0}, bvh.NoIgnore), test.ShouldBeTrue)
	test.That(t, tester.LineOfSight(r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: 1, Y: 1, Z: 1}, bvh.NoIgnore), test.ShouldBeTrue)

	hit, ok := tester.IntersectWithDetails(r3.Vector{X: 0, Y: 0, Z: -1}, r3.Vector{X: 0, Y: 0, Z: 1}, 100, bvh.NoIgnore)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, hit.Primitive.Owner, test.ShouldEqual, world.MeshID(2))
	test.That(t, hit.Distance, test.ShouldAlmostEqual, 5.5)
	test.That(t, tester.Intersect(r3.Vector{X: 0, Y: 0, Z: -1}, r3.Vector{X: 0, Y: 0, Z: 1}, 5, bvh.NoIgnore), test.ShouldBeFalse)
}

func TestIntersectBatch(t *testing.T) {
	tester := newTester(t, []world.MeshInstance{cubeAt(1, r3.Vector{X: 5, Y: 0, Z: 0})}, nil)

	var queries []Query
	var want []bool
	for i := 0; i < 101; i++ {
		y := float64(i%5) * 0.3
		queries = append(queries, Query{Origin: r3.Vector{X: 0, Y: y, Z: 0}, Dir: r3.Vector{X: 1, Y: 0, Z: 0}, MaxDist: 10, Ignore: bvh.NoIgnore})
		want = append(want, y <= 0.5)
	}
	got, err := tester.IntersectBatch(context.Background(), queries)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, want)

	empty, err := tester.IntersectBatch(context.Background(), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(empty), test.ShouldEqual, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tester.IntersectBatch(ctx, queries)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFaceVisibility(t *testing.T) {
	lit := cubeAt(1, r3.Vector{X: 0, Y: 0, Z: 0})
	blocker := cubeAt(2, r3.Vector{X: 3, Y: 0, Z: 0})
	tester := newTester(t, []world.MeshInstance{lit, blocker}, nil)

	t.Run("light above", func(t *testing.T) {
		vis := tester.FaceVisibility(Light{Position: r3.Vector{X: 0, Y: 5, Z: 0}, Radius: 10})
		test.That(t, vis[FaceRef{Mesh: 1, Face: facePosY}], test.ShouldEqual, 1.)
		test.That(t, vis[FaceRef{Mesh: 2, Face: facePosY}], test.ShouldEqual, 1.)
		// The bottom face looks away.
		v, ok := vis[FaceRef{Mesh: 1, Face: 2}]
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, v, test.ShouldEqual, 0.)
	})

	t.Run("shadowed by another mesh", func(t *testing.T) {
		vis := tester.FaceVisibility(Light{Position: r3.Vector{X: 6, Y: 0, Z: 0}, Radius: 10})
		test.That(t, vis[FaceRef{Mesh: 2, Face: facePosX}], test.ShouldEqual, 1.)
		test.That(t, vis[FaceRef{Mesh: 1, Face: facePosX}], test.ShouldEqual, 0.)
		test.That(t, vis[FaceRef{Mesh: 1, Face: faceNegX}], test.ShouldEqual, 0.)
	})

	t.Run("out of reach", func(t *testing.T) {
		vis := tester.FaceVisibility(Light{Position: r3.Vector{X: 0, Y: 50, Z: 0}, Radius: 10})
		test.That(t, len(vis), test.ShouldEqual, 0)
	})
}

func TestSampleLights(t *testing.T) {
	tester := newTester(t, []world.MeshInstance{cubeAt(1, r3.Vector{})}, nil)
	lights := []Light{
		{Position: r3.Vector{X: 0, Y: 5, Z: 0}, Radius: 10},
		{Position: r3.Vector{X: 0, Y: -5, Z: 0}, Radius: 10},
		{Position: r3.Vector{X: 100, Y: 0, Z: 0}, Radius: 1},
	}
	got, err := tester.SampleLights(context.Background(), lights)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(got), test.ShouldEqual, 3)
	test.That(t, got[0][FaceRef{Mesh: 1, Face: facePosY}], test.ShouldEqual, 1.)
	test.That(t, got[1][FaceRef{Mesh: 1, Face: facePosY}], test.ShouldEqual, 0.)
	test.That(t, got[1][FaceRef{Mesh: 1, Face: 2}], test.ShouldEqual, 1.)
	test.That(t, len(got[2]), test.ShouldEqual, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tester.SampleLights(ctx, lights)
	test.That(t, err, test.ShouldNotBeNil)
}
