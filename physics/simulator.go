package physics

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/logging"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/partition"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/world"
)

// Simulator advances one body at a fixed tick rate. Every tick it republishes the dynamic
// partition from the remote player table and then steps the body.
type Simulator struct {
	clk      clock.Clock
	period   time.Duration
	dt       float64
	resolver *Resolver
	index    *partition.Index
	players  *world.RemotePlayers
	ids      *world.IDSource
	logger   logging.Logger

	mu    sync.Mutex
	body  Body
	input r3.Vector
	ticks int
	last  MoveResult
}

// NewSimulator returns a simulator ticking tickHz times per second on clk.
func NewSimulator(
	clk clock.Clock,
	tickHz float64,
	resolver *Resolver,
	body Body,
	index *partition.Index,
	players *world.RemotePlayers,
	ids *world.IDSource,
	logger logging.Logger,
) (*Simulator, error) {
	if !(tickHz > 0) {
		return nil, errors.Errorf("tick rate must be positive, got %v", tickHz)
	}
	if resolver == nil || index == nil || players == nil || ids == nil {
		return nil, errors.New("simulator needs a resolver, an index, a player table and an id source")
	}
	return &Simulator{
		clk:      clk,
		period:   time.Duration(float64(time.Second) / tickHz),
		dt:       1 / tickHz,
		resolver: resolver,
		index:    index,
		players:  players,
		ids:      ids,
		logger:   logger,
		body:     body,
	}, nil
}

// Period returns the time between ticks.
func (s *Simulator) Period() time.Duration { return s.period }

// SetInput sets the horizontal velocity applied on following ticks.
func (s *Simulator) SetInput(v r3.Vector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = v
}

// Body returns a copy of the body state.
func (s *Simulator) Body() Body {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body
}

// Ticks returns the number of completed ticks.
func (s *Simulator) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Last returns the result of the latest tick.
func (s *Simulator) Last() MoveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Tick runs one step immediately.
func (s *Simulator) Tick() (MoveResult, error) {
	if err := s.index.RebuildDynamic(s.players.Meshes(s.ids)); err != nil {
		return MoveResult{}, errors.Wrap(err, "rebuilding dynamic partition")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wasGrounded := s.body.Grounded
	res := s.body.Step(s.resolver, s.dt, s.input)
	s.ticks++
	s.last = res
	if res.Grounded != wasGrounded {
		s.logger.Debugw("ground state changed", "grounded", res.Grounded, "position", res.Position, "tick", s.ticks)
	}
	return res, nil
}

// Run ticks on the clock until ticks steps have run or ctx is done. ticks of 0 or less runs
// until ctx is done.
func (s *Simulator) Run(ctx context.Context, ticks int) error {
	t := s.clk.Ticker(s.period)
	defer t.Stop()
	s.logger.Infow("simulation started", "period", s.period, "ticks", ticks)
	defer func() { s.logger.Infow("simulation stopped", "ticks", s.Ticks()) }()
	for n := 0; ticks <= 0 || n < ticks; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		if _, err := s.Tick(); err != nil {
			return err
		}
	}
	return nil
}
