package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestAABB(t *testing.T) {
	t.Run("from points", func(t *testing.T) {
		box := AABBFromPoints(r3.Vector{X: 1, Y: -2, Z: 3}, r3.Vector{X: -1, Y: 2, Z: 0}, r3.Vector{X: 0, Y: 0, Z: 5})
		test.That(t, box.Min, test.ShouldResemble, r3.Vector{X: -1, Y: -2, Z: 0})
		test.That(t, box.Max, test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 5})
		test.That(t, box.Center(), test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 2.5})
		test.That(t, box.Extent(), test.ShouldResemble, r3.Vector{X: 2, Y: 4, Z: 5})
	})

	t.Run("empty", func(t *testing.T) {
		empty := AABBFromPoints()
		test.That(t, empty.IsEmpty(), test.ShouldBeTrue)
		test.That(t, empty.IsFinite(), test.ShouldBeFalse)
		unit := NewAABB(r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: 0, Y: 0, Z: 0})
		test.That(t, unit.Min, test.ShouldResemble, r3.Vector{})
		test.That(t, empty.Union(unit), test.ShouldResemble, unit)
	})

	t.Run("contains and intersects are inclusive", func(t *testing.T) {
		a := NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 1, Z: 1})
		b := NewAABB(r3.Vector{X: 1, Y: 0, Z: 0}, r3.Vector{X: 2, Y: 1, Z: 1})
		c := NewAABB(r3.Vector{X: 1.01, Y: 0, Z: 0}, r3.Vector{X: 2, Y: 1, Z: 1})
		test.That(t, a.Contains(r3.Vector{X: 1, Y: 1, Z: 1}), test.ShouldBeTrue)
		test.That(t, a.Contains(r3.Vector{X: 1, Y: 1, Z: 1.0001}), test.ShouldBeFalse)
		test.That(t, a.Intersects(b), test.ShouldBeTrue)
		test.That(t, b.Intersects(a), test.ShouldBeTrue)
		test.That(t, a.Intersects(c), test.ShouldBeFalse)
		test.That(t, a.Expand(0.5).ContainsAABB(a), test.ShouldBeTrue)
		test.That(t, a.ContainsAABB(a.Expand(0.5)), test.ShouldBeFalse)
	})

	t.Run("longest axis ties", func(t *testing.T) {
		for _, tc := range []struct {
			ext  r3.Vector
			want int
		}{
			{r3.Vector{X: 3, Y: 1, Z: 1}, 0},
			{r3.Vector{X: 1, Y: 3, Z: 1}, 1},
			{r3.Vector{X: 1, Y: 1, Z: 3}, 2},
			{r3.Vector{X: 2, Y: 2, Z: 1}, 0},
			{r3.Vector{X: 2, Y: 1, Z: 2}, 0},
			{r3.Vector{X: 1, Y: 2, Z: 2}, 1},
			{r3.Vector{X: 1, Y: 1, Z: 1}, 0},
			{r3.Vector{X: 1, Y: 2, Z: 3}, 2},
		} {
			test.That(t, NewAABB(r3.Vector{}, tc.ext).LongestAxis(), test.ShouldEqual, tc.want)
		}
	})

	t.Run("transform refolds corners", func(t *testing.T) {
		box := NewAABB(r3.Vector{X: -1, Y: 0, Z: -2}, r3.Vector{X: 1, Y: 1, Z: 2})
		rotated := box.Transform(RotationY(math.Pi / 2))
		test.That(t, rotated.Min.X, test.ShouldAlmostEqual, -2)
		test.That(t, rotated.Max.X, test.ShouldAlmostEqual, 2)
		test.That(t, rotated.Min.Z, test.ShouldAlmostEqual, -1)
		test.That(t, rotated.Max.Z, test.ShouldAlmostEqual, 1)
		moved := box.Transform(Translation(r3.Vector{X: 0, Y: 10, Z: 0}))
		test.That(t, moved, test.ShouldResemble, box.Translate(r3.Vector{X: 0, Y: 10, Z: 0}))
	})

	t.Run("corners", func(t *testing.T) {
		box := NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 2, Z: 3})
		corners := box.Corners()
		test.That(t, AABBFromPoints(corners[:]...), test.ShouldResemble, box)
	})

	t.Run("axis helpers", func(t *testing.T) {
		v := r3.Vector{X: 1, Y: 2, Z: 3}
		test.That(t, Axis(v, 0), test.ShouldEqual, 1.)
		test.That(t, Axis(v, 2), test.ShouldEqual, 3.)
		test.That(t, WithAxis(v, 1, 9), test.ShouldResemble, r3.Vector{X: 1, Y: 9, Z: 3})
	})
}

func TestRaySlab(t *testing.T) {
	cube := AABBAround(r3.Vector{}, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})

	ray, ok := NewRay(r3.Vector{X: 5, Y: 0, Z: 0}, r3.Vector{X: -1, Y: 0, Z: 0})
	test.That(t, ok, test.ShouldBeTrue)
	tmin, tmax := RaySlab(ray, cube)
	test.That(t, tmin, test.ShouldAlmostEqual, 4.5)
	test.That(t, tmax, test.ShouldAlmostEqual, 5.5)
	test.That(t, RayIntersectsAABB(ray, cube, 10), test.ShouldBeTrue)
	test.That(t, RayIntersectsAABB(ray, cube, 4.5), test.ShouldBeFalse)

	t.Run("pointing away", func(t *testing.T) {
		away, _ := NewRay(r3.Vector{X: 5, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 0, Z: 0})
		test.That(t, RayIntersectsAABB(away, cube, 100), test.ShouldBeFalse)
	})

	t.Run("origin inside", func(t *testing.T) {
		inside, _ := NewRay(r3.Vector{}, r3.Vector{X: 0, Y: 1, Z: 0})
		test.That(t, RayIntersectsAABB(inside, cube, 0.1), test.ShouldBeTrue)
	})

	t.Run("parallel on the slab boundary", func(t *testing.T) {
		// 0 * Inf on the Y and Z axes must not poison the X test.
		grazing, _ := NewRay(r3.Vector{X: 5, Y: 0.5, Z: 0.5}, r3.Vector{X: -1, Y: 0, Z: 0})
		test.That(t, RayIntersectsAABB(grazing, cube, 100), test.ShouldBeTrue)
		miss, _ := NewRay(r3.Vector{X: 5, Y: 0.6, Z: 0}, r3.Vector{X: -1, Y: 0, Z: 0})
		test.That(t, RayIntersectsAABB(miss, cube, 100), test.ShouldBeFalse)
	})

	t.Run("bad directions", func(t *testing.T) {
		_, ok := NewRay(r3.Vector{}, r3.Vector{})
		test.That(t, ok, test.ShouldBeFalse)
		_, ok = NewRay(r3.Vector{}, r3.Vector{X: math.NaN(), Y: 0, Z: 0})
		test.That(t, ok, test.ShouldBeFalse)
	})
}
