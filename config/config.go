// Package config defines the simulation, world, and player configuration and how it is read
// from JSON files or attribute maps.
package config

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/logging"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/physics"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/utils"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// Config is the whole configuration of a simulation run.
type Config struct {
	Simulation SimulationConfig `json:"simulation"`
	World      WorldConfig      `json:"world"`
	Player     physics.Config   `json:"player"`

	ConfigFilePath string `json:"-"`
}

// SimulationConfig controls the fixed-tick loop.
type SimulationConfig struct {
	TickHz float64 `json:"tick_hz"`
	// Ticks is the run length; 0 runs until interrupted.
	Ticks    int    `json:"ticks"`
	LogLevel string `json:"log_level"`
	// Spawn is the starting eye position of the local player.
	Spawn r3.Vector `json:"spawn"`
	// Input is the constant horizontal velocity applied every tick.
	Input         r3.Vector            `json:"input"`
	RemotePlayers []RemotePlayerConfig `json:"remote_players"`
}

// RemotePlayerConfig places one remote player.
type RemotePlayerConfig struct {
	ID       string    `json:"id"`
	Position r3.Vector `json:"position"`
}

// WorldConfig describes the block world.
type WorldConfig struct {
	CubeSize float64 `json:"cube_size"`
	// CellSize is the spatial hash cell size; 0 means twice the cube size.
	CellSize float64   `json:"cell_size"`
	Origin   r3.Vector `json:"origin"`
	// Blocks is indexed [y][z][x]: 0 empty, 1 solid, 2 solid-alt, 3 gate.
	Blocks [][][]int     `json:"blocks"`
	Lights []LightConfig `json:"lights"`
}

// LightConfig is a point light sampled against the world.
type LightConfig struct {
	Position r3.Vector `json:"position"`
	Radius   float64   `json:"radius"`
}

// Default returns a config with every default applied and an empty world.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickHz:   60,
			LogLevel: "info",
		},
		World: WorldConfig{
			CubeSize: 1,
		},
		Player: physics.DefaultConfig(),
	}
}

// ApplyDefaults fills values derived from others.
func (c *Config) ApplyDefaults() {
	if c.World.CellSize == 0 {
		c.World.CellSize = 2 * c.World.CubeSize
	}
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {
	return multierr.Combine(
		c.Simulation.Validate("simulation"),
		c.World.Validate("world"),
		c.Player.Validate("player"),
	)
}

// Validate ensures all parts of the config are valid.
func (c *SimulationConfig) Validate(path string) error {
	var errs error
	if !(c.TickHz > 0) {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(path, "tick_hz", c.TickHz, "positive"))
	}
	if c.Ticks < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(path, "ticks", c.Ticks, "non-negative"))
	}
	if _, err := logging.LevelFromString(c.LogLevel); err != nil {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, err))
	}
	for idx := range c.RemotePlayers {
		errs = multierr.Append(errs, c.RemotePlayers[idx].Validate(fmt.Sprintf("%s.%s.%d", path, "remote_players", idx)))
	}
	return errs
}

// Validate ensures the player id parses.
func (c *RemotePlayerConfig) Validate(path string) error {
	if c.ID == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "id")
	}
	if _, err := uuid.Parse(c.ID); err != nil {
		return utils.NewConfigValidationError(path, errors.Wrap(err, "id"))
	}
	return nil
}

// Validate ensures all parts of the config are valid.
func (c *WorldConfig) Validate(path string) error {
	var errs error
	if !(c.CubeSize > 0) {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(path, "cube_size", c.CubeSize, "positive"))
	}
	if c.CellSize < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(path, "cell_size", c.CellSize, "positive"))
	}
	if len(c.Blocks) > 0 {
		if _, err := world.BlockGridFromLayers(c.Blocks); err != nil {
			errs = multierr.Append(errs, utils.NewConfigValidationError(fmt.Sprintf("%s.%s", path, "blocks"), err))
		}
	}
	for idx, l := range c.Lights {
		if !(l.Radius > 0) {
			errs = multierr.Append(errs, utils.NewConfigValidationFieldRangeError(
				fmt.Sprintf("%s.%s.%d", path, "lights", idx), "radius", l.Radius, "positive"))
		}
	}
	return errs
}

// Meshes places the configured blocks, drawing ids from ids. An empty block list yields no
// meshes.
func (c *WorldConfig) Meshes(ids *world.IDSource) ([]world.MeshInstance, error) {
	if len(c.Blocks) == 0 {
		return nil, nil
	}
	grid, err := world.BlockGridFromLayers(c.Blocks)
	if err != nil {
		return nil, err
	}
	return grid.Placements(ids, c.CubeSize, c.Origin), nil
}

// Populate records every configured remote player in players.
func (c *SimulationConfig) Populate(players *world.RemotePlayers) error {
	for _, p := range c.RemotePlayers {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return errors.Wrapf(err, "remote player %q", p.ID)
		}
		players.Update(id, p.Position)
	}
	return nil
}
