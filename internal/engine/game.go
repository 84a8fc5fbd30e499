// Package engine is the frame loop: the scene tree, the live entity
// registry, the camera and the fixed order in which a tick runs input,
// behaviors, destruction, collision and coroutines.
package engine

import (
	"fmt"
	"log"
	"os"

	"github.com/Garsondee/Tile-Engine/internal/collision"
	"github.com/Garsondee/Tile-Engine/internal/coroutine"
	"github.com/Garsondee/Tile-Engine/internal/geom"
	"github.com/Garsondee/Tile-Engine/internal/input"
)

// Names of the three stage roots.
const (
	StageName         = "Stage"
	FixedStageName    = "FixedStage"
	ParallaxStageName = "ParallaxStage"
)

// Game owns every piece of per-tick state. It is not safe for concurrent
// use; front ends call Tick from a single goroutine.
type Game struct {
	cfg    Config
	logger *log.Logger
	state  *State

	// Stage scrolls with the camera; FixedStage is pinned to the screen
	// (HUD); ParallaxStage is drawn beneath Stage.
	Stage         *Entity
	FixedStage    *Entity
	ParallaxStage *Entity

	camera     *Camera
	collisions *collision.Handler
	coroutines *coroutine.Manager[*State]
	entities   *EntitySet

	toBeDestroyed []*Entity
	statics       []collision.StaticSource
	lastGrid      *collision.Grid
	simLog        *SimLog

	nextID EntityID
}

// New validates cfg with opts applied and builds an empty game.
func New(cfg Config, opts ...Option) (*Game, error) {
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.InitialMode == "" {
		cfg.InitialMode = ModeNormal
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		cfg:      cfg,
		logger:   cfg.Logger,
		entities: NewEntitySet(),
		simLog:   NewSimLog(cfg.LogCapacity, cfg.VerboseLog),
	}
	if g.logger == nil {
		g.logger = log.New(os.Stderr, "engine: ", log.LstdFlags)
	}
	g.state = &State{Mode: cfg.InitialMode, Keys: input.NewKeyboardState(), game: g}

	g.ParallaxStage = g.newRoot(ParallaxStageName)
	g.Stage = g.newRoot(StageName)
	g.FixedStage = g.newRoot(FixedStageName)

	handler, err := collision.NewHandler(collision.HandlerConfig{
		CanvasWidth:  cfg.ViewWidth(),
		CanvasHeight: cfg.ViewHeight(),
		TileWidth:    float64(cfg.TileWidth),
		TileHeight:   float64(cfg.TileHeight),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	g.collisions = handler

	g.camera, err = NewCamera(g.Stage, cfg.ViewWidth(), cfg.ViewHeight(), cfg.CameraBounds)
	if err != nil {
		return nil, err
	}
	g.camera.Freeze(cfg.Debug)

	g.coroutines = coroutine.NewManager[*State](coroutine.Options{
		Production: cfg.Production,
		Logger:     g.logger,
		OnStart: func(info coroutine.Info) {
			g.simLog.Add(g.state.Tick, ownerLabel(info.Owner), CatCoroutine, KeyStart, info.Name, float64(info.ID))
		},
		OnStop: func(info coroutine.Info, reason coroutine.StopReason) {
			g.simLog.Add(g.state.Tick, ownerLabel(info.Owner), CatCoroutine, KeyStop,
				fmt.Sprintf("%s (%s)", info.Name, reason), float64(info.ID))
		},
	})
	return g, nil
}

func (g *Game) newRoot(name string) *Entity {
	e := newEntity(g, 0, EntityConfig{Name: name})
	e.root = true
	return e
}

func ownerLabel(owner any) string {
	if e, ok := owner.(*Entity); ok {
		return e.String()
	}
	return globalSubject
}

// NewEntity creates an entity, attaches it to its parent (the Stage by
// default) and registers it so it updates from the next tick on.
// Panics if cfg is both collidable and interactable.
func (g *Game) NewEntity(cfg EntityConfig) *Entity {
	g.nextID++
	e := newEntity(g, g.nextID, cfg)
	parent := cfg.Parent
	if parent == nil {
		parent = g.Stage
	}
	parent.AddChild(e)
	g.entities.Put(e)
	g.simLog.Add(g.state.Tick, e.String(), CatEntity, KeyCreated,
		fmt.Sprintf("at %v under %s", e.Position, parent.name), 0)
	return e
}

// AddStatic adds a source of static colliders to every grid rebuild.
func (g *Game) AddStatic(src collision.StaticSource) {
	g.statics = append(g.statics, src)
}

// Tick runs one frame.
func (g *Game) Tick() {
	s := g.state

	// 1. INPUT: apply key events queued since the last tick.
	s.Keys.Update()

	// 2. CLOCK
	s.Tick++

	// 3. UPDATE: entities created during this pass first run next tick.
	for _, e := range g.entities.Values() {
		e.update(s)
	}

	// 4. DESTROY: unregister, detach and cancel owned coroutines.
	g.sweepDestroyed()

	// 5. BROAD PHASE: rebuild the grid from entities active in this mode.
	active := g.entities.Filter(func(e *Entity) bool { return e.ActiveIn(s.Mode) })
	bodies := make([]collision.Body, len(active))
	for i, e := range active {
		bodies[i] = e
	}
	g.lastGrid = g.collisions.BuildGrid(bodies, g.camera.Bounds(), g.statics...)

	// 6. RESOLVE: move entities against the grid.
	g.collisions.Resolve(bodies, g.lastGrid)
	g.logContacts(active)

	// 7. CAMERA
	g.camera.Update()

	// 8. SCRIPTS: resume due coroutines.
	g.coroutines.Update(s)
}

func (g *Game) sweepDestroyed() {
	if len(g.toBeDestroyed) == 0 {
		return
	}
	doomed := g.toBeDestroyed
	g.toBeDestroyed = nil
	for _, e := range doomed {
		g.entities.Remove(e)
		if e.parent != nil {
			e.parent.RemoveChild(e)
		}
		stopped := g.coroutines.StopOwnedBy(e)
		g.simLog.Add(g.state.Tick, e.String(), CatEntity, KeyDestroyed,
			fmt.Sprintf("%d coroutines stopped", stopped), float64(stopped))
	}
}

func (g *Game) logContacts(active []*Entity) {
	if !g.simLog.Verbose() {
		return
	}
	for _, e := range active {
		if e.velocity.IsZero() {
			continue
		}
		h := e.hitInfo
		for _, c := range h.Collisions {
			g.simLog.Add(g.state.Tick, e.String(), CatCollision, KeyHit,
				fmt.Sprintf("%s against %s", direction(h), contactLabel(c)), 0)
		}
		for _, c := range h.Interactions {
			g.simLog.Add(g.state.Tick, e.String(), CatCollision, KeyInteraction, contactLabel(c), 0)
		}
	}
}

func direction(h collision.HitInfo) string {
	switch {
	case h.Left:
		return "left"
	case h.Right:
		return "right"
	case h.Up:
		return "up"
	case h.Down:
		return "down"
	}
	return "none"
}

func contactLabel(c collision.Contact) string {
	if e, ok := c.Other.(*Entity); ok {
		return e.String()
	}
	return "static " + c.First.String()
}

// Mode is the mode entities are gated on this tick.
func (g *Game) Mode() Mode { return g.state.Mode }

// SetMode switches the current mode; entities not active in it stop
// updating and drop out of the collision pass.
func (g *Game) SetMode(m Mode) {
	if m == g.state.Mode {
		return
	}
	g.simLog.Add(g.state.Tick, globalSubject, CatMode, KeyChange, fmt.Sprintf("%s -> %s", g.state.Mode, m), 0)
	g.state.Mode = m
}

// StartCoroutine starts a coroutine owned by the game itself.
func (g *Game) StartCoroutine(name string, task coroutine.Task[*State]) coroutine.ID {
	return g.coroutines.Start(name, task, g)
}

func (g *Game) StopCoroutine(id coroutine.ID) { g.coroutines.Stop(id) }

// Coroutines lists the active coroutines in registration order.
func (g *Game) Coroutines() []coroutine.Info { return g.coroutines.List() }

// CoroutinesOwnedBy lists the active coroutines of one owner.
func (g *Game) CoroutinesOwnedBy(owner any) []coroutine.Info { return g.coroutines.OwnedBy(owner) }

// SetDebugMode freezes the camera while on.
func (g *Game) SetDebugMode(on bool) {
	g.cfg.Debug = on
	g.camera.Freeze(on)
}

func (g *Game) DebugMode() bool { return g.cfg.Debug }

func (g *Game) State() *State              { return g.state }
func (g *Game) CurrentTick() int           { return g.state.Tick }
func (g *Game) Keys() *input.KeyboardState { return g.state.Keys }
func (g *Game) Camera() *Camera            { return g.camera }
func (g *Game) Config() Config             { return g.cfg }
func (g *Game) Log() *SimLog               { return g.simLog }
func (g *Game) Logger() *log.Logger        { return g.logger }

// Statics are the static collider sources added with AddStatic.
func (g *Game) Statics() []collision.StaticSource { return g.statics }

// LastGrid is the grid built by the most recent tick, or nil before the
// first tick.
func (g *Game) LastGrid() *collision.Grid { return g.lastGrid }

// Entities is a snapshot of the live set in insertion order.
func (g *Game) Entities() []*Entity { return g.entities.Values() }

// Registered reports whether e is in the live set.
func (g *Game) Registered(e *Entity) bool { return g.entities.Has(e) }

// Entity finds a live entity by name.
func (g *Game) Entity(name string) (*Entity, bool) { return g.entities.Named(name) }

// EntitiesAt returns visible stage entities whose bounds contain the world
// point p, topmost (last drawn) first.
func (g *Game) EntitiesAt(p geom.Vector2) []*Entity {
	var out []*Entity
	var walk func(e *Entity)
	walk = func(e *Entity) {
		if !e.Visible {
			return
		}
		if !e.root && e.Bounds().Contains(p) {
			out = append(out, e)
		}
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(g.Stage)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
