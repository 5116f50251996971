package physics

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/utils"
)

// Config describes the player hitbox and how it moves. Lengths are in world units; a block
// is one cube_size.
type Config struct {
	// HalfExtents is the hitbox half size before Scale.
	HalfExtents r3.Vector `json:"half_extents"`
	// Offset is the hitbox center relative to the eye position.
	Offset             r3.Vector `json:"offset"`
	Scale              float64   `json:"scale"`
	LegHeight          float64   `json:"leg_height"`
	VertexRadius       float64   `json:"vertex_radius"`
	HitboxSubdivisions int       `json:"hitbox_subdivisions"`
	MaxStepHeight      float64   `json:"max_step_height"`
	// StepSmoothing is the fraction of a step-up applied in one move.
	StepSmoothing          float64 `json:"step_smoothing"`
	GroundCheckHistorySize int     `json:"ground_check_history_size"`
	MaxGroundAngleDeg      float64 `json:"max_ground_angle_deg"`
	Gravity                float64 `json:"gravity"`
	MaxFallSpeed           float64 `json:"max_fall_speed"`
}

var errNoHitboxAboveStep = errors.New("hitbox top must be above leg_height minus max_step_height")

// DefaultConfig returns a player sized for unit cubes.
func DefaultConfig() Config {
	return Config{
		HalfExtents:            r3.Vector{X: 0.2, Y: 0.5, Z: 0.2},
		Offset:                 r3.Vector{X: 0, Y: -0.4, Z: 0},
		Scale:                  1,
		LegHeight:              0.9,
		VertexRadius:           0.05,
		HitboxSubdivisions:     2,
		MaxStepHeight:          0.35,
		StepSmoothing:          0.5,
		GroundCheckHistorySize: 15,
		MaxGroundAngleDeg:      56,
		Gravity:                20,
		MaxFallSpeed:           50,
	}
}

// Validate ensures every field is usable.
func (cfg *Config) Validate(path string) error {
	var errs error
	positive := func(field string, v float64) {
		if !(v > 0) {
			errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(path, field, v, "positive"))
		}
	}
	if cfg.HalfExtents.X <= 0 || cfg.HalfExtents.Y <= 0 || cfg.HalfExtents.Z <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(path, "half_extents", cfg.HalfExtents, "positive on every axis"))
	}
	positive("scale", cfg.Scale)
	positive("leg_height", cfg.LegHeight)
	positive("vertex_radius", cfg.VertexRadius)
	positive("gravity", cfg.Gravity)
	positive("max_fall_speed", cfg.MaxFallSpeed)
	if cfg.MaxStepHeight < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(path, "max_step_height", cfg.MaxStepHeight, "non-negative"))
	}
	if !(cfg.StepSmoothing > 0 && cfg.StepSmoothing <= 1) {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(path, "step_smoothing", cfg.StepSmoothing, "in (0, 1]"))
	}
	if cfg.HitboxSubdivisions < 1 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(path, "hitbox_subdivisions", cfg.HitboxSubdivisions, "at least 1"))
	}
	if cfg.GroundCheckHistorySize < 1 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "ground_check_history_size"))
	}
	if !(cfg.MaxGroundAngleDeg > 0 && cfg.MaxGroundAngleDeg < 90) {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(path, "max_ground_angle_deg", cfg.MaxGroundAngleDeg, "in (0, 90)"))
	}
	if errs != nil {
		return errs
	}
	if _, top := cfg.hitboxSpan(); top <= -cfg.LegHeight+cfg.MaxStepHeight {
		return utils.NewConfigValidationError(path, errNoHitboxAboveStep)
	}
	return nil
}

// hitboxSpan returns the bottom and top of the scaled hitbox relative to the eye position,
// before clamping the bottom to the step height.
func (cfg *Config) hitboxSpan() (bottom, top float64) {
	hy := cfg.HalfExtents.Y * cfg.Scale
	return cfg.Offset.Y - hy, cfg.Offset.Y + hy
}
