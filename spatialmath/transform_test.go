package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/utils"
)

func vecAlmostEqual(t *testing.T, got, want r3.Vector) {
	t.Helper()
	test.That(t, got.Distance(want), test.ShouldBeLessThan, 1e-9)
}

func TestTransform(t *testing.T) {
	p := r3.Vector{X: 1, Y: 2, Z: 3}
	test.That(t, Identity().Apply(p), test.ShouldResemble, p)
	test.That(t, Translation(r3.Vector{X: 1, Y: 0, Z: -1}).Apply(p), test.ShouldResemble, r3.Vector{X: 2, Y: 2, Z: 2})
	test.That(t, Scaling(r3.Vector{X: 2, Y: 2, Z: 2}).Apply(p), test.ShouldResemble, r3.Vector{X: 2, Y: 4, Z: 6})
	vecAlmostEqual(t, RotationY(math.Pi/2).Apply(r3.Vector{X: 1, Y: 0, Z: 0}), r3.Vector{X: 0, Y: 0, Z: -1})

	t.Run("compose order", func(t *testing.T) {
		scaleThenMove := Scaling(r3.Vector{X: 2, Y: 2, Z: 2}).Compose(Translation(r3.Vector{X: 10, Y: 0, Z: 0}))
		test.That(t, scaleThenMove.Apply(p), test.ShouldResemble, r3.Vector{X: 12, Y: 4, Z: 6})
		test.That(t, scaleThenMove.Translation(), test.ShouldResemble, r3.Vector{X: 10, Y: 0, Z: 0})
		moveThenScale := Translation(r3.Vector{X: 10, Y: 0, Z: 0}).Compose(Scaling(r3.Vector{X: 2, Y: 2, Z: 2}))
		test.That(t, moveThenScale.Apply(p), test.ShouldResemble, r3.Vector{X: 22, Y: 4, Z: 6})
		test.That(t, scaleThenMove.ApproxEqual(moveThenScale), test.ShouldBeFalse)
	})

	t.Run("normals under non-uniform scale", func(t *testing.T) {
		tf := Scaling(r3.Vector{X: 4, Y: 1, Z: 1})
		n := tf.ApplyNormal(r3.Vector{X: 1, Y: 1, Z: 0}.Normalize()).Normalize()
		// A plane x + y = 0 scaled by 4 in x becomes x/4 + y = 0.
		vecAlmostEqual(t, n, r3.Vector{X: 0.25, Y: 1, Z: 0}.Normalize())
	})
}

func TestYawRotation(t *testing.T) {
	for _, yaw := range []float64{0, 0.3, math.Pi / 2, -2, math.Pi} {
		q := YawRotation(yaw)
		for _, v := range []r3.Vector{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0.5, Y: 2, Z: -1}} {
			vecAlmostEqual(t, RotateVector(q, v), RotationY(yaw).Apply(v))
		}
	}
	test.That(t, RotateVector(YawRotation(1), r3.Vector{X: 0, Y: 3, Z: 0}).Y, test.ShouldAlmostEqual, 3)
	test.That(t, QuatAlmostEqual(YawRotation(utils.DegToRad(360)), YawRotation(0), 1e-9), test.ShouldBeTrue)
	test.That(t, QuatAlmostEqual(YawRotation(1), YawRotation(0), 1e-9), test.ShouldBeFalse)
}

func TestBoxSurfacePoints(t *testing.T) {
	half := r3.Vector{X: 0.5, Y: 1, Z: 0.25}

	corners := BoxSurfacePoints(half, 0)
	test.That(t, len(corners), test.ShouldEqual, 8)
	test.That(t, AABBFromPoints(corners...), test.ShouldResemble, AABBAround(r3.Vector{}, half))

	for _, n := range []int{1, 2, 3, 4} {
		pts := BoxSurfacePoints(half, n)
		// (n+1)^3 lattice minus its (n-1)^3 interior.
		test.That(t, len(pts), test.ShouldEqual, (n+1)*(n+1)*(n+1)-(n-1)*(n-1)*(n-1))
		for _, p := range pts {
			onFace := math.Abs(math.Abs(p.X)-half.X) < 1e-12 ||
				math.Abs(math.Abs(p.Y)-half.Y) < 1e-12 ||
				math.Abs(math.Abs(p.Z)-half.Z) < 1e-12
			test.That(t, onFace, test.ShouldBeTrue)
		}
	}
}
