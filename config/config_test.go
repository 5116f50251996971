package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/physics"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

const playerID = "3f1c8b0e-6d2a-4c5e-9a3b-2f4e6d8c0a1b"

func TestFromAttributesDefaults(t *testing.T) {
	cfg, err := FromAttributes(map[string]interface{}{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Simulation.TickHz, test.ShouldEqual, 60.)
	test.That(t, cfg.Simulation.LogLevel, test.ShouldEqual, "info")
	test.That(t, cfg.World.CubeSize, test.ShouldEqual, 1.)
	test.That(t, cfg.World.CellSize, test.ShouldEqual, 2.)
	test.That(t, cfg.Player, test.ShouldResemble, physics.DefaultConfig())

	cfg, err = FromAttributes(map[string]interface{}{
		"world": map[string]interface{}{"cube_size": 0.5},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.World.CellSize, test.ShouldEqual, 1.)
}

func TestFromAttributes(t *testing.T) {
	cfg, err := FromAttributes(map[string]interface{}{
		"simulation": map[string]interface{}{
			"tick_hz":   30.,
			"ticks":     120.,
			"log_level": "debug",
			"spawn":     map[string]interface{}{"x": 0., "y": 5., "z": 0.},
			"remote_players": []interface{}{
				map[string]interface{}{"id": playerID, "position": map[string]interface{}{"x": 2., "y": 1., "z": 0.}},
			},
		},
		"world": map[string]interface{}{
			"cell_size": 3.,
			"blocks":    []interface{}{[]interface{}{[]interface{}{1., 3.}}},
			"lights":    []interface{}{map[string]interface{}{"position": map[string]interface{}{"y": 4.}, "radius": 8.}},
		},
		"player": map[string]interface{}{
			"leg_height":   0.8,
			"half_extents": map[string]interface{}{"x": 0.25, "y": 0.5, "z": 0.25},
		},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Simulation.TickHz, test.ShouldEqual, 30.)
	test.That(t, cfg.Simulation.Ticks, test.ShouldEqual, 120)
	test.That(t, cfg.Simulation.Spawn, test.ShouldResemble, r3.Vector{X: 0, Y: 5, Z: 0})
	test.That(t, len(cfg.Simulation.RemotePlayers), test.ShouldEqual, 1)
	test.That(t, cfg.World.CellSize, test.ShouldEqual, 3.)
	test.That(t, cfg.World.Blocks, test.ShouldResemble, [][][]int{{{1, 3}}})
	test.That(t, cfg.World.Lights[0].Position, test.ShouldResemble, r3.Vector{X: 0, Y: 4, Z: 0})
	test.That(t, cfg.Player.LegHeight, test.ShouldEqual, 0.8)
	test.That(t, cfg.Player.HalfExtents, test.ShouldResemble, r3.Vector{X: 0.25, Y: 0.5, Z: 0.25})
	// Untouched player fields keep their defaults.
	test.That(t, cfg.Player.GroundCheckHistorySize, test.ShouldEqual, 15)

	ids := &world.IDSource{}
	meshes, err := cfg.World.Meshes(ids)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(meshes), test.ShouldEqual, 2)
	test.That(t, meshes[0].Collision(), test.ShouldBeTrue)
	test.That(t, meshes[1].Collision(), test.ShouldBeFalse)

	players := world.NewRemotePlayers(cfg.World.CubeSize)
	test.That(t, cfg.Simulation.Populate(players), test.ShouldBeNil)
	test.That(t, players.Len(), test.ShouldEqual, 1)
}

func TestFromAttributesErrors(t *testing.T) {
	t.Run("unknown keys", func(t *testing.T) {
		_, err := FromAttributes(map[string]interface{}{
			"simulation": map[string]interface{}{"tick_rate": 30.},
			"extra":      true,
		})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "extra")
		test.That(t, err.Error(), test.ShouldContainSubstring, "tick_rate")
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := FromAttributes(map[string]interface{}{"world": "flat"})
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := FromAttributes(map[string]interface{}{
			"simulation": map[string]interface{}{
				"tick_hz":        0.,
				"log_level":      "loud",
				"remote_players": []interface{}{map[string]interface{}{"id": "nope"}},
			},
			"world": map[string]interface{}{
				"blocks": []interface{}{[]interface{}{[]interface{}{1., 9.}}},
				"lights": []interface{}{map[string]interface{}{"radius": -1.}},
			},
			"player": map[string]interface{}{"vertex_radius": 0.},
		})
		test.That(t, err, test.ShouldNotBeNil)
		for _, want := range []string{
			"tick_hz", "simulation.remote_players.0", "world.blocks", "world.lights.0", "vertex_radius", "loud",
		} {
			test.That(t, err.Error(), test.ShouldContainSubstring, want)
		}
	})
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.json")
	t.Setenv("SIM_TICKS", "42")
	contents := `{
		"simulation": {"ticks": ${SIM_TICKS}, "spawn": {"x": 0, "y": 50, "z": 0}},
		"world": {"blocks": [[[1]]]}
	}`
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)

	cfg, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)
	test.That(t, cfg.Simulation.Ticks, test.ShouldEqual, 42)
	test.That(t, cfg.Simulation.Spawn.Y, test.ShouldEqual, 50.)

	_, err = Read(filepath.Join(dir, "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader("inline", strings.NewReader("{not json"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "decode")
}
