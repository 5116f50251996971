package main

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/config"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/logging"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/occlusion"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/partition"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/physics"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// session owns the world built from one config and the simulator running in it.
type session struct {
	cfg     *config.Config
	logger  logging.Logger
	ids     *world.IDSource
	index   *partition.Index
	players *world.RemotePlayers
	sim     *physics.Simulator
	tester  *occlusion.Tester
}

func newSession(cfg *config.Config, clk clock.Clock, logger logging.Logger) (*session, error) {
	index, err := partition.NewIndex(cfg.World.CellSize, logger.Sublogger("index"))
	if err != nil {
		return nil, err
	}
	s := &session{
		cfg:     cfg,
		logger:  logger,
		ids:     &world.IDSource{},
		index:   index,
		players: world.NewRemotePlayers(cfg.World.CubeSize),
		tester:  occlusion.NewTester(index, logger.Sublogger("occlusion")),
	}
	if err := s.reloadStatic(cfg.World); err != nil {
		return nil, err
	}
	if err := cfg.Simulation.Populate(s.players); err != nil {
		return nil, err
	}
	resolver, err := physics.NewResolver(cfg.Player, index, logger.Sublogger("physics"))
	if err != nil {
		return nil, err
	}
	s.sim, err = physics.NewSimulator(clk, cfg.Simulation.TickHz, resolver,
		physics.Body{Position: cfg.Simulation.Spawn}, index, s.players, s.ids, logger.Sublogger("simulator"))
	if err != nil {
		return nil, err
	}
	s.sim.SetInput(cfg.Simulation.Input)
	return s, nil
}

// reloadStatic rebuilds and republishes the static partition from a world config. Queries
// in flight keep the partition they started with.
func (s *session) reloadStatic(wc config.WorldConfig) error {
	meshes, err := wc.Meshes(s.ids)
	if err != nil {
		return errors.Wrap(err, "placing blocks")
	}
	if err := s.index.RebuildStatic(meshes); err != nil {
		return err
	}
	s.logger.Infow("static world loaded", "meshes", len(meshes))
	return nil
}

// run advances ticks steps. Realtime runs follow the simulator clock; otherwise the steps run
// back to back. ticks of 0 only makes sense in realtime and runs until ctx is done.
func (s *session) run(ctx context.Context, ticks int, realtime bool) error {
	if realtime {
		return s.sim.Run(ctx, ticks)
	}
	if ticks <= 0 {
		return errors.New("ticks must be positive unless running in realtime")
	}
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.sim.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// sampleLights reports, per configured light, how many faces it reaches and how many of them
// it lights fully.
func (s *session) sampleLights(ctx context.Context) ([]occlusion.Visibility, error) {
	lights := make([]occlusion.Light, 0, len(s.cfg.World.Lights))
	for _, l := range s.cfg.World.Lights {
		lights = append(lights, occlusion.Light{Position: l.Position, Radius: l.Radius})
	}
	vis, err := s.tester.SampleLights(ctx, lights)
	if err != nil {
		return nil, err
	}
	for i, v := range vis {
		lit := 0
		for _, score := range v {
			if score == 1 {
				lit++
			}
		}
		s.logger.Infow("light sampled", "light", i, "faces", len(v), "fully_lit", lit)
	}
	return vis, nil
}

// watch reloads the static world whenever the config file changes, until ctx is done. A
// config that fails to read or validate is logged and skipped.
func (s *session) watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(path); err != nil {
		goutils.UncheckedError(watcher.Close())
		return err
	}
	goutils.PanicCapturingGo(func() {
		defer goutils.UncheckedErrorFunc(watcher.Close)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := config.Read(path)
				if err != nil {
					s.logger.Warnw("ignoring config change", "path", path, "error", err)
					continue
				}
				if err := s.reloadStatic(cfg.World); err != nil {
					s.logger.Warnw("failed to reload world", "path", path, "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warnw("config watcher error", "error", err)
			}
		}
	})
	return nil
}
