package physics

import (
	"math"

	"github.com/golang/geo/r3"
)

// Body is the simulated state of the local player. Position is the eye. Only Velocity.Y is
// integrated; X and Z hold the latest horizontal input.
type Body struct {
	Position r3.Vector
	Velocity r3.Vector
	Yaw      float64
	Grounded bool
}

// Step integrates gravity for dt seconds, moves by horizontal (units per second, Y
// ignored) through r, and folds the result back into the body.
func (b *Body) Step(r *Resolver, dt float64, horizontal r3.Vector) MoveResult {
	cfg := r.Config()
	b.Velocity.X, b.Velocity.Z = horizontal.X, horizontal.Z
	if b.Grounded {
		b.Velocity.Y = math.Max(b.Velocity.Y, 0)
	} else {
		b.Velocity.Y = math.Max(b.Velocity.Y-cfg.Gravity*dt, -cfg.MaxFallSpeed)
	}
	desired := b.Position.Add(r3.Vector{
		X: horizontal.X * dt,
		Y: b.Velocity.Y * dt,
		Z: horizontal.Z * dt,
	})
	res := r.TryMove(b.Position, desired, b.Yaw)

	switch {
	case b.Velocity.Y < 0 && (res.Grounded || res.Position.Y > desired.Y):
		b.Velocity.Y = 0
	case b.Velocity.Y > 0 && res.Position.Y < desired.Y:
		b.Velocity.Y = 0
	}
	b.Position = res.Position
	b.Grounded = res.Grounded
	return res
}
