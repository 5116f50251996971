package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Transform is an affine 4x4 transform applied to column vectors.
type Transform struct {
	m mgl64.Mat4
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: mgl64.Ident4()}
}

// TransformFromMat4 wraps an existing matrix.
func TransformFromMat4(m mgl64.Mat4) Transform {
	return Transform{m: m}
}

// Translation returns a transform that moves points by v.
func Translation(v r3.Vector) Transform {
	return Transform{m: mgl64.Translate3D(v.X, v.Y, v.Z)}
}

// Scaling returns a per-axis scale about the origin.
func Scaling(s r3.Vector) Transform {
	return Transform{m: mgl64.Scale3D(s.X, s.Y, s.Z)}
}

// RotationY returns a rotation of yaw radians about +Y.
func RotationY(yaw float64) Transform {
	return Transform{m: mgl64.HomogRotate3DY(yaw)}
}

// Compose returns the transform that applies next after t.
func (t Transform) Compose(next Transform) Transform {
	return Transform{m: next.m.Mul4(t.m)}
}

// Apply transforms a point.
func (t Transform) Apply(p r3.Vector) r3.Vector {
	v := mgl64.TransformCoordinate(mgl64.Vec3{p.X, p.Y, p.Z}, t.m)
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// ApplyNormal transforms a direction by the inverse transpose, so normals stay perpendicular
// under non-uniform scale. The result is not normalized.
func (t Transform) ApplyNormal(n r3.Vector) r3.Vector {
	nm := t.m.Mat3().Inv().Transpose()
	v := nm.Mul3x1(mgl64.Vec3{n.X, n.Y, n.Z})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// Translation returns the translation column.
func (t Transform) Translation() r3.Vector {
	c := t.m.Col(3)
	return r3.Vector{X: c[0], Y: c[1], Z: c[2]}
}

// Mat4 returns the underlying matrix.
func (t Transform) Mat4() mgl64.Mat4 {
	return t.m
}

// ApproxEqual compares matrices element-wise within mgl64's default threshold.
func (t Transform) ApproxEqual(o Transform) bool {
	return t.m.ApproxEqual(o.m)
}
