package engine

import (
	"io"
	"log"

	"github.com/Garsondee/Tile-Engine/internal/collision"
	"github.com/Garsondee/Tile-Engine/internal/coroutine"
	"github.com/Garsondee/Tile-Engine/internal/input"
)

// Sim is a headless harness around Game: no window, no terminal, keys fed
// by the caller. Tests and cmd/headless-report drive it.
type Sim struct {
	Game *Game

	cfg      Config
	opts     []Option
	statics  []collision.StaticSource
	setupErr error
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // config, statics: applied before the game exists
	simOptEntity                      // entities and scene setup: applied after
	simOptScript                      // game-owned coroutines: applied once entities exist
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Sim)
}

// WithConfig replaces the base config (DefaultConfig by default).
func WithConfig(cfg Config) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.cfg = cfg }}
}

// WithOptions applies engine options on top of the base config.
func WithOptions(opts ...Option) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.opts = append(s.opts, opts...) }}
}

// WithStatic adds a static collider source.
func WithStatic(src collision.StaticSource) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.statics = append(s.statics, src) }}
}

// WithEntity adds an entity.
func WithEntity(cfg EntityConfig) SimOption {
	return SimOption{simOptEntity, func(s *Sim) { s.Game.NewEntity(cfg) }}
}

// WithSetup runs fn against the fresh game, e.g. to build a scene. The
// first error aborts NewSim.
func WithSetup(fn func(*Game) error) SimOption {
	return SimOption{simOptEntity, func(s *Sim) {
		if s.setupErr == nil {
			s.setupErr = fn(s.Game)
		}
	}}
}

// WithScript starts a game-owned coroutine.
func WithScript(name string, task coroutine.Task[*State]) SimOption {
	return SimOption{simOptScript, func(s *Sim) { s.Game.StartCoroutine(name, task) }}
}

// NewSim builds a Sim from the given options in three ordered passes:
//  1. Infrastructure (config, engine options, statics), then the Game
//  2. Entities and setup functions
//  3. Scripts
//
// Engine logging is discarded unless an option installs a logger.
func NewSim(opts ...SimOption) (*Sim, error) {
	s := &Sim{cfg: DefaultConfig()}
	s.cfg.Logger = log.New(io.Discard, "", 0)
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(s)
		}
	}
	g, err := New(s.cfg, s.opts...)
	if err != nil {
		return nil, err
	}
	s.Game = g
	for _, src := range s.statics {
		g.AddStatic(src)
	}
	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(s)
		}
	}
	if s.setupErr != nil {
		return nil, s.setupErr
	}
	for _, o := range opts {
		if o.kind == simOptScript {
			o.fn(s)
		}
	}
	return s, nil
}

// Tick is the number of ticks run so far.
func (s *Sim) Tick() int { return s.Game.state.Tick }

// Log is the game's SimLog.
func (s *Sim) Log() *SimLog { return s.Game.simLog }

// Entity finds a live entity by name.
func (s *Sim) Entity(name string) *Entity {
	e, _ := s.Game.Entity(name)
	return e
}

// Press and Release queue key events for the next tick.
func (s *Sim) Press(k input.Key)   { s.Game.state.Keys.Press(k) }
func (s *Sim) Release(k input.Key) { s.Game.state.Keys.Release(k) }

// Tap presses and releases k within the next tick, so it is just-down for
// exactly one tick.
func (s *Sim) Tap(k input.Key) {
	s.Press(k)
	s.Release(k)
}

// RunTicks advances the game n ticks.
func (s *Sim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.Game.Tick()
	}
}

// RunUntil advances up to maxTicks, stopping early if predicate returns
// true. Returns the tick at which the predicate was satisfied, or -1.
func (s *Sim) RunUntil(predicate func(*Sim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.Game.Tick()
		if predicate(s) {
			return s.Tick()
		}
	}
	return -1
}
