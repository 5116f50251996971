// Package physics resolves player movement against the static and dynamic partitions of a
// partition.Index: hitbox sweeps, step-ups, per-axis sliding, and ground detection.
package physics

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/bvh"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/logging"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/partition"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/spatialmath"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/utils"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// maxSweepSteps bounds the samples taken along one move.
const maxSweepSteps = 4096

// stepTolerance absorbs rounding when comparing a ledge height to the step limit.
const stepTolerance = 1e-9

var down = r3.Vector{X: 0, Y: -1, Z: 0}

// Contact is a point where the hitbox touches or rests on a surface.
type Contact struct {
	Point  r3.Vector
	Normal r3.Vector
	Mesh   world.MeshID
	Face   int
}

// MoveResult is the outcome of one TryMove.
type MoveResult struct {
	Position r3.Vector
	Grounded bool
	// SurfaceNormal is the ground normal when standing on something, otherwise the normal of
	// the surface that blocked the move. HasNormal is false when neither exists.
	SurfaceNormal r3.Vector
	HasNormal     bool
	// Blocked is set when at least one axis of the move was rejected.
	Blocked bool
	Stepped bool
}

// Resolver moves one player hitbox. It keeps the ground history of that player, so it is
// not safe for concurrent use.
type Resolver struct {
	cfg     Config
	index   *partition.Index
	logger  logging.Logger
	history *GroundHistory

	// local holds the hitbox lattice relative to the eye, before yaw; footprint is its bottom
	// layer.
	local     []r3.Vector
	footprint []r3.Vector
	// bottom is the hitbox bottom relative to the eye.
	bottom      float64
	cosMaxAngle float64
}

// NewResolver validates cfg and returns a resolver over index.
func NewResolver(cfg Config, index *partition.Index, logger logging.Logger) (*Resolver, error) {
	if err := cfg.Validate("physics"); err != nil {
		return nil, err
	}
	bottom, top := cfg.hitboxSpan()
	// Anything lower than a step is left to the ground probe.
	bottom = math.Max(bottom, -cfg.LegHeight+cfg.MaxStepHeight)
	half := r3.Vector{
		X: cfg.HalfExtents.X * cfg.Scale,
		Y: (top - bottom) / 2,
		Z: cfg.HalfExtents.Z * cfg.Scale,
	}
	center := r3.Vector{X: cfg.Offset.X, Y: (top + bottom) / 2, Z: cfg.Offset.Z}

	r := &Resolver{
		cfg:         cfg,
		index:       index,
		logger:      logger,
		history:     NewGroundHistory(cfg.GroundCheckHistorySize),
		bottom:      bottom,
		cosMaxAngle: math.Cos(utils.DegToRad(cfg.MaxGroundAngleDeg)),
	}
	for _, p := range spatialmath.BoxSurfacePoints(half, cfg.HitboxSubdivisions) {
		v := center.Add(p)
		r.local = append(r.local, v)
		if p.Y == -half.Y {
			v.Y = bottom
			r.footprint = append(r.footprint, v)
		}
	}
	return r, nil
}

// Config returns the validated configuration.
func (r *Resolver) Config() Config { return r.cfg }

// History exposes the ground history.
func (r *Resolver) History() *GroundHistory { return r.history }

// HitboxVertices returns the world-space hitbox lattice for an eye position and yaw.
func (r *Resolver) HitboxVertices(pos r3.Vector, yaw float64) []r3.Vector {
	return worldPoints(pos, spatialmath.YawRotation(yaw), r.local)
}

func worldPoints(pos r3.Vector, q quat.Number, local []r3.Vector) []r3.Vector {
	out := make([]r3.Vector, len(local))
	for i, v := range local {
		out[i] = pos.Add(spatialmath.RotateVector(q, v))
	}
	return out
}

// CollidesAt reports whether any hitbox vertex lies within the vertex radius of a collision
// surface, and returns the first such contact.
func (r *Resolver) CollidesAt(pos r3.Vector, yaw float64) (Contact, bool) {
	return r.collidesAt(r.index.Snapshot(), pos, spatialmath.YawRotation(yaw))
}

func (r *Resolver) collidesAt(snap partition.Snapshot, pos r3.Vector, q quat.Number) (Contact, bool) {
	verts := worldPoints(pos, q, r.local)
	rad := r.cfg.VertexRadius
	reach := r3.Vector{X: rad, Y: rad, Z: rad}
	broad := spatialmath.AABBFromPoints(verts...).Expand(rad)
	for _, c := range snap.QueryMeshes(broad) {
		if !c.Mesh.Collision() {
			continue
		}
		id := c.Mesh.ID()
		for _, v := range verts {
			for _, prim := range c.Partition.QueryPrimitives(spatialmath.AABBAround(v, reach), id) {
				closest, _ := prim.Triangle().ClosestPointToPoint(v)
				gap := v.Sub(closest)
				if gap.Norm2() >= rad*rad || c.Partition.Excluded(id, closest) {
					continue
				}
				// The face normal, turned to the side the vertex is on.
				normal := prim.Normal()
				if normal.Dot(gap) < 0 {
					normal = normal.Mul(-1)
				}
				return Contact{Point: closest, Normal: normal, Mesh: id, Face: prim.FaceIndex}, true
			}
		}
	}
	return Contact{}, false
}

// collidesAlong samples the move from from to to every vertex radius, excluding from itself.
func (r *Resolver) collidesAlong(snap partition.Snapshot, from, to r3.Vector, q quat.Number) (Contact, bool) {
	d := to.Sub(from)
	steps := int(utils.Clamp(math.Ceil(d.Norm()/r.cfg.VertexRadius), 1, maxSweepSteps))
	for i := 1; i <= steps; i++ {
		p := from.Add(d.Mul(float64(i) / float64(steps)))
		if c, ok := r.collidesAt(snap, p, q); ok {
			return c, true
		}
	}
	return Contact{}, false
}

// groundProbe casts down from every footprint vertex, as far below the feet as a step, and
// returns the highest walkable contact.
func (r *Resolver) groundProbe(snap partition.Snapshot, pos r3.Vector, q quat.Number) (Contact, bool) {
	reach := r.bottom + r.cfg.LegHeight + r.cfg.MaxStepHeight
	var best Contact
	found := false
	for _, o := range worldPoints(pos, q, r.footprint) {
		hit, ok := snap.IntersectWithDetails(o, down, reach, bvh.NoIgnore)
		if !ok {
			continue
		}
		n := hit.Normal(down)
		if !r.walkable(n) {
			continue
		}
		if !found || hit.Point.Y > best.Point.Y {
			best = Contact{Point: hit.Point, Normal: n, Mesh: hit.Primitive.Owner, Face: hit.Primitive.FaceIndex}
			found = true
		}
	}
	return best, found
}

// walkable reports whether a surface with normal n is less steep than the max ground angle.
func (r *Resolver) walkable(n r3.Vector) bool {
	return n.Y > r.cosMaxAngle
}

// GroundContact probes for walkable ground under the eye position without touching the
// history.
func (r *Resolver) GroundContact(pos r3.Vector, yaw float64) (Contact, bool) {
	return r.groundProbe(r.index.Snapshot(), pos, spatialmath.YawRotation(yaw))
}

// TryMove moves the hitbox from current toward desired. The whole move is tried first; if
// it is blocked and the body is grounded a step-up is tried; otherwise each axis is tried on
// its own from current and kept only if it is free. The ground probe then updates the
// history, and a grounded body that is not rising is moved onto the contact.
func (r *Resolver) TryMove(current, desired r3.Vector, yaw float64) MoveResult {
	snap := r.index.Snapshot()
	q := spatialmath.YawRotation(yaw)
	res := MoveResult{Position: current}

	if !utils.IsFinite(desired.X) || !utils.IsFinite(desired.Y) || !utils.IsFinite(desired.Z) {
		r.logger.Warnw("rejecting non-finite move", "desired", desired)
		res.Blocked = true
		res.Grounded = r.history.Grounded()
		return res
	}

	blocker, blocked := r.collidesAlong(snap, current, desired, q)
	if !blocked {
		res.Position = desired
	} else if pos, ok := r.stepUp(snap, current, desired, q); ok {
		res.Position, res.Stepped = pos, true
		r.logger.Debugw("stepped up", "from", current, "to", pos)
	} else {
		res.Position, res.Blocked = r.slide(snap, current, desired, q)
	}

	ground, onGround := r.groundProbe(snap, res.Position, q)
	r.history.Push(onGround)
	res.Grounded = r.history.Grounded()

	if res.Grounded && onGround && desired.Y <= current.Y {
		if stuck, ok := r.stick(snap, res, ground, q); ok {
			res.Position = stuck
		}
	}

	switch {
	case onGround:
		res.SurfaceNormal, res.HasNormal = ground.Normal, true
	case blocked:
		res.SurfaceNormal, res.HasNormal = blocker.Normal, true
	}
	return res
}

// stick returns the position with the feet on the ground contact. Rising onto the contact is
// limited to the same fraction of a step per move as a step-up, and a move that already
// stepped does not rise further.
func (r *Resolver) stick(snap partition.Snapshot, res MoveResult, ground Contact, q quat.Number) (r3.Vector, bool) {
	stuck := res.Position
	stuck.Y = ground.Point.Y + r.cfg.LegHeight
	if rise := stuck.Y - res.Position.Y; rise > 0 {
		if res.Stepped {
			return res.Position, false
		}
		stuck.Y = res.Position.Y + math.Min(rise, r.cfg.StepSmoothing*r.cfg.MaxStepHeight)
	}
	if _, hit := r.collidesAt(snap, stuck, q); hit {
		return res.Position, false
	}
	return stuck, true
}

// stepUp lifts the body by the step height, carries the move at that height, and accepts
// it when there is walkable ground no higher than a step above the current feet. Only a
// fraction StepSmoothing of the climb is applied when that intermediate height is free.
func (r *Resolver) stepUp(snap partition.Snapshot, current, desired r3.Vector, q quat.Number) (r3.Vector, bool) {
	step := r.cfg.MaxStepHeight
	if !r.history.Grounded() || step <= 0 {
		return current, false
	}
	if desired.X == current.X && desired.Z == current.Z {
		return current, false
	}
	lift := r3.Vector{X: 0, Y: step, Z: 0}
	lifted := current.Add(lift)
	if _, hit := r.collidesAlong(snap, current, lifted, q); hit {
		return current, false
	}
	raised := desired.Add(lift)
	if _, hit := r.collidesAlong(snap, lifted, raised, q); hit {
		return current, false
	}
	ground, ok := r.groundProbe(snap, raised, q)
	feet := current.Y - r.cfg.LegHeight
	if !ok || ground.Point.Y-feet > step+stepTolerance {
		return current, false
	}
	smoothed := raised
	smoothed.Y = current.Y + r.cfg.StepSmoothing*(raised.Y-current.Y)
	if _, hit := r.collidesAt(snap, smoothed, q); !hit {
		return smoothed, true
	}
	return raised, true
}

// slide applies each axis of the move independently from current, all or nothing.
func (r *Resolver) slide(snap partition.Snapshot, current, desired r3.Vector, q quat.Number) (r3.Vector, bool) {
	out := current
	blocked := false
	for axis := 0; axis < 3; axis++ {
		target := spatialmath.Axis(desired, axis)
		if target == spatialmath.Axis(current, axis) {
			continue
		}
		candidate := spatialmath.WithAxis(current, axis, target)
		if _, hit := r.collidesAlong(snap, current, candidate, q); hit {
			blocked = true
			continue
		}
		out = spatialmath.WithAxis(out, axis, target)
	}
	return out, blocked
}
