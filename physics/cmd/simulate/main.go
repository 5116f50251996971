// Package main runs the player physics against a block world from a config file.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/config"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/logging"
)

const (
	// Flags.
	flagConfig   = "config"
	flagDebug    = "debug"
	flagTicks    = "ticks"
	flagRealtime = "realtime"
	flagWatch    = "watch"
)

func main() {
	app := &cli.App{
		Name:  "simulate",
		Usage: "drop a player into a block world and step the collision resolver",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagConfig,
				Aliases:  []string{"c"},
				Usage:    "load configuration from `FILE`",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
			&cli.IntFlag{
				Name:  flagTicks,
				Usage: "number of ticks to run, overriding simulation.ticks",
			},
			&cli.BoolFlag{
				Name:  flagRealtime,
				Usage: "tick on the wall clock instead of as fast as possible",
			},
			&cli.BoolFlag{
				Name:  flagWatch,
				Usage: "reload the static world when the config file changes",
			},
		},
		Action: simulateAction,
	}
	if err := app.Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}

func simulateAction(c *cli.Context) error {
	path := c.String(flagConfig)
	cfg, err := config.Read(path)
	if err != nil {
		return errors.Wrapf(err, "reading config %q", path)
	}

	logger := logging.NewLogger("simulate")
	level, err := logging.LevelFromString(cfg.Simulation.LogLevel)
	if err != nil {
		return err
	}
	if c.Bool(flagDebug) {
		level = logging.DEBUG
	}
	logger.SetLevel(level)
	logging.ReplaceGlobal(logger)
	defer func() { _ = logger.Sync() }()

	ticks := cfg.Simulation.Ticks
	if c.IsSet(flagTicks) {
		ticks = c.Int(flagTicks)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	s, err := newSession(cfg, clock.New(), logger)
	if err != nil {
		return err
	}
	if c.Bool(flagWatch) {
		if err := s.watch(ctx, path); err != nil {
			return errors.Wrap(err, "watching config")
		}
	}
	if err := s.run(ctx, ticks, c.Bool(flagRealtime)); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	body := s.sim.Body()
	logger.Infow("simulation finished",
		"ticks", s.sim.Ticks(),
		"position", body.Position,
		"grounded", body.Grounded,
		"remote_players", s.players.Len())
	if _, err := s.sampleLights(context.Background()); err != nil {
		return err
	}
	return nil
}
