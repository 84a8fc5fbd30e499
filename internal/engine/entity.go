package engine

import (
	"errors"
	"fmt"
	"image/color"
	"slices"

	"github.com/Garsondee/Tile-Engine/internal/collision"
	"github.com/Garsondee/Tile-Engine/internal/coroutine"
	"github.com/Garsondee/Tile-Engine/internal/geom"
)

// ErrCollidableInteractable is the panic value (wrapped) when an entity is
// made both collidable and interactable.
var ErrCollidableInteractable = errors.New("engine: entity cannot be both collidable and interactable")

// EntityID is unique per game. IDs start at 1.
type EntityID int

// Behavior is an entity's per-tick logic.
type Behavior interface {
	Update(e *Entity, s *State)
}

// FirstUpdater is an optional Behavior hook that runs once, on the first
// tick the entity is eligible to update, before Update.
type FirstUpdater interface {
	FirstUpdate(e *Entity, s *State)
}

// BehaviorFunc adapts a function to Behavior.
type BehaviorFunc func(e *Entity, s *State)

func (f BehaviorFunc) Update(e *Entity, s *State) { f(e, s) }

// Look is what front ends draw for an entity.
type Look struct {
	Color color.RGBA
	Glyph rune // terminal front end
	Label string
}

// EntityConfig describes a new entity. Zero values are usable: the entity
// lands on the stage, active in ModeNormal, with a Width x Height box shape.
type EntityConfig struct {
	Name     string
	Position geom.Vector2
	Width    float64
	Height   float64
	// Shape overrides the default box; it is relative to the entity.
	Shape        *geom.Shape
	Collidable   bool
	Interactable bool
	Modes        []Mode
	Behavior     Behavior
	// Parent defaults to the game's Stage.
	Parent *Entity
	Hidden bool
	Look   Look
}

// Entity is a node in the scene tree and, when registered, a body in the
// collision pass.
type Entity struct {
	id   EntityID
	name string
	game *Game

	Position geom.Vector2 // relative to parent
	Width    float64
	Height   float64
	Visible  bool
	Modes    []Mode
	Look     Look

	velocity     geom.Vector2
	shape        *geom.Shape
	collidable   bool
	interactable bool
	hitInfo      collision.HitInfo

	parent   *Entity
	children []*Entity
	root     bool

	behavior    Behavior
	firstDone   bool
	queued      []func(*State)
	onClick     []func(*State)
	onMouseOver []func(*State)
	onMouseOut  []func(*State)

	destroyed bool
}

func newEntity(g *Game, id EntityID, cfg EntityConfig) *Entity {
	if cfg.Collidable && cfg.Interactable {
		panic(fmt.Errorf("%w: %q", ErrCollidableInteractable, cfg.Name))
	}
	modes := cfg.Modes
	if len(modes) == 0 {
		modes = []Mode{ModeNormal}
	}
	e := &Entity{
		id:           id,
		name:         cfg.Name,
		game:         g,
		Position:     cfg.Position,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Visible:      !cfg.Hidden,
		Modes:        slices.Clone(modes),
		Look:         cfg.Look,
		shape:        cfg.Shape,
		collidable:   cfg.Collidable,
		interactable: cfg.Interactable,
		behavior:     cfg.Behavior,
	}
	return e
}

func (e *Entity) ID() EntityID { return e.id }
func (e *Entity) Name() string { return e.name }
func (e *Entity) Game() *Game  { return e.game }

func (e *Entity) String() string {
	return fmt.Sprintf("#%d %s", e.id, e.name)
}

// Parent is nil for the stage roots.
func (e *Entity) Parent() *Entity { return e.parent }

// Children returns a copy of the children in draw order.
func (e *Entity) Children() []*Entity { return slices.Clone(e.children) }

// AddChild moves child under e, detaching it from its old parent.
func (e *Entity) AddChild(child *Entity) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
}

// RemoveChild detaches child if it is a direct child of e.
func (e *Entity) RemoveChild(child *Entity) {
	if i := slices.Index(e.children, child); i >= 0 {
		e.children = slices.Delete(e.children, i, i+1)
		child.parent = nil
	}
}

// IsRoot reports whether e is one of the game's stage roots.
func (e *Entity) IsRoot() bool { return e.root }

// AbsolutePosition is the position relative to the stage root the entity
// hangs under.
func (e *Entity) AbsolutePosition() geom.Vector2 {
	if e.parent == nil || e.parent.root {
		return e.Position
	}
	return e.Position.Add(e.parent.AbsolutePosition())
}

// Center is the middle of the entity's box in parent coordinates.
func (e *Entity) Center() geom.Vector2 {
	return e.Position.Add(geom.Vec(e.Width/2, e.Height/2))
}

// Shape is the collision shape relative to the entity.
func (e *Entity) Shape() geom.Shape {
	if e.shape != nil {
		return *e.shape
	}
	return geom.Single(geom.R(0, 0, e.Width, e.Height))
}

func (e *Entity) SetShape(s geom.Shape) { e.shape = &s }

// Bounds is the absolute bounding rect of the collision shape.
func (e *Entity) Bounds() geom.Rect {
	return e.Shape().Translate(e.AbsolutePosition()).Bounds()
}

func (e *Entity) Velocity() geom.Vector2     { return e.velocity }
func (e *Entity) SetVelocity(v geom.Vector2) { e.velocity = v }

func (e *Entity) IsCollidable() bool   { return e.collidable }
func (e *Entity) IsInteractable() bool { return e.interactable }

// SetCollidable panics if the entity is interactable.
func (e *Entity) SetCollidable(on bool) {
	if on && e.interactable {
		panic(fmt.Errorf("%w: %s", ErrCollidableInteractable, e))
	}
	e.collidable = on
}

// SetInteractable panics if the entity is collidable.
func (e *Entity) SetInteractable(on bool) {
	if on && e.collidable {
		panic(fmt.Errorf("%w: %s", ErrCollidableInteractable, e))
	}
	e.interactable = on
}

func (e *Entity) MoveBy(delta geom.Vector2) { e.Position = e.Position.Add(delta) }

// HitInfo is the result of the last collision pass that moved the entity.
func (e *Entity) HitInfo() collision.HitInfo      { return e.hitInfo }
func (e *Entity) SetHitInfo(h collision.HitInfo) { e.hitInfo = h }

// ActiveIn reports whether the entity updates in mode m.
func (e *Entity) ActiveIn(m Mode) bool { return slices.Contains(e.Modes, m) }

// Queue runs fn at the start of the entity's next eligible update.
// Queued callbacks are dropped on ticks the entity is not eligible.
func (e *Entity) Queue(fn func(*State)) { e.queued = append(e.queued, fn) }

func (e *Entity) OnClick(fn func(*State))     { e.onClick = append(e.onClick, fn) }
func (e *Entity) OnMouseOver(fn func(*State)) { e.onMouseOver = append(e.onMouseOver, fn) }
func (e *Entity) OnMouseOut(fn func(*State))  { e.onMouseOut = append(e.onMouseOut, fn) }

// Click queues the click listeners. Front ends call it.
func (e *Entity) Click() {
	for _, fn := range e.onClick {
		e.Queue(fn)
	}
}

func (e *Entity) MouseOver() {
	for _, fn := range e.onMouseOver {
		e.Queue(fn)
	}
}

func (e *Entity) MouseOut() {
	for _, fn := range e.onMouseOut {
		e.Queue(fn)
	}
}

// Clickable reports whether any mouse listener is attached.
func (e *Entity) Clickable() bool {
	return len(e.onClick)+len(e.onMouseOver)+len(e.onMouseOut) > 0
}

// StartCoroutine starts a coroutine owned by e; it is stopped when e is
// destroyed. A destroyed entity starts nothing and gets InvalidID.
func (e *Entity) StartCoroutine(name string, task coroutine.Task[*State]) coroutine.ID {
	if e.destroyed {
		e.game.logger.Printf("coroutine %q not started: %s is destroyed", name, e)
		return coroutine.InvalidID
	}
	return e.game.coroutines.Start(name, task, e)
}

func (e *Entity) StopCoroutine(id coroutine.ID) {
	e.game.coroutines.Stop(id)
}

// Destroy marks e for removal at the next destroy sweep.
func (e *Entity) Destroy() {
	if e.destroyed || e.root {
		return
	}
	e.destroyed = true
	e.game.toBeDestroyed = append(e.game.toBeDestroyed, e)
}

func (e *Entity) Destroyed() bool { return e.destroyed }

// update runs one tick of the entity if it is active in the current mode.
func (e *Entity) update(s *State) {
	if e.ActiveIn(s.Mode) {
		for _, fn := range e.queued {
			fn(s)
		}
		if !e.firstDone {
			e.firstDone = true
			if fu, ok := e.behavior.(FirstUpdater); ok {
				fu.FirstUpdate(e, s)
			}
		}
		if e.behavior != nil {
			e.behavior.Update(e, s)
		}
	}
	e.queued = nil
}
