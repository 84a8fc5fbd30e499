package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/Garsondee/Tile-Engine/internal/geom"
)

// ErrTileNotSquare is returned when the configured tiles are not square.
var ErrTileNotSquare = errors.New("collision: tile width and height must match")

// cellTiles is how many tiles wide one grid cell is.
const cellTiles = 4

// HandlerConfig sizes the per-tick grid.
type HandlerConfig struct {
	CanvasWidth  float64
	CanvasHeight float64
	TileWidth    float64
	TileHeight   float64
}

// Handler builds the per-tick grid and resolves body movement against it.
type Handler struct {
	gridWidth  float64
	gridHeight float64
	cellSize   float64
}

// NewHandler validates cfg. Cells are four tiles wide and the nominal grid
// covers twice the canvas.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.TileWidth != cfg.TileHeight {
		return nil, fmt.Errorf("%w: %vx%v", ErrTileNotSquare, cfg.TileWidth, cfg.TileHeight)
	}
	if cfg.TileWidth <= 0 {
		return nil, fmt.Errorf("collision: tile size must be positive, got %v", cfg.TileWidth)
	}
	return &Handler{
		gridWidth:  cfg.CanvasWidth * 2,
		gridHeight: cfg.CanvasHeight * 2,
		cellSize:   cfg.TileWidth * cellTiles,
	}, nil
}

// CellSize is the edge length of one grid cell.
func (h *Handler) CellSize() float64 { return h.cellSize }

// NewGrid returns an empty grid with the handler's dimensions.
func (h *Handler) NewGrid() *Grid {
	return NewGrid(h.gridWidth, h.gridHeight, h.cellSize)
}

// BuildGrid creates a fresh grid holding every collidable or interactable
// body whose absolute shape overlaps bounds, plus the static colliders each
// source reports inside bounds.
func (h *Handler) BuildGrid(bodies []Body, bounds geom.Rect, statics ...StaticSource) *Grid {
	grid := h.NewGrid()
	for _, b := range bodies {
		if !b.IsCollidable() && !b.IsInteractable() {
			continue
		}
		shape := b.Shape().Translate(b.AbsolutePosition())
		if !shape.Intersects(bounds) {
			continue
		}
		grid.AddShape(shape, b)
	}
	for _, src := range statics {
		for _, r := range src.CollidersInRegion(bounds) {
			grid.Add(r, nil)
		}
	}
	return grid
}

// blocks reports whether a contact stops movement. Anything not owned by an
// interactable body blocks, static geometry included.
func blocks(c Contact) bool {
	return c.Other == nil || !c.Other.IsInteractable()
}

func (h *Handler) hitsAt(grid *Grid, shape geom.Shape, b Body) (hits, interactions []Contact) {
	for _, c := range grid.ShapeCollisions(shape, b) {
		if blocks(c) {
			hits = append(hits, c)
		} else {
			interactions = append(interactions, c)
		}
	}
	return hits, interactions
}

// Resolve moves every body with non-zero velocity, x axis first, then y.
// Bodies at rest are skipped and keep the HitInfo of their last move.
func (h *Handler) Resolve(bodies []Body, grid *Grid) {
	for _, b := range bodies {
		vel := b.Velocity()
		if vel.IsZero() {
			continue
		}

		var info HitInfo
		shape := b.Shape().Translate(b.AbsolutePosition())
		delta := geom.Zero

		if vel.X != 0 {
			var blocked bool
			delta, blocked = h.sweep(grid, b, shape, delta, geom.Vec(vel.X, 0), &info)
			if blocked {
				info.Right = vel.X > 0
				info.Left = vel.X < 0
			}
		}
		if vel.Y != 0 {
			var blocked bool
			delta, blocked = h.sweep(grid, b, shape, delta, geom.Vec(0, vel.Y), &info)
			if blocked {
				info.Down = vel.Y > 0
				info.Up = vel.Y < 0
			}
		}

		info.Hit = len(info.Collisions) > 0
		b.SetHitInfo(info)
		b.MoveBy(delta)
	}
}

// sweep applies one axis of movement on top of delta. On a blocking hit the
// move is rolled back and retried one pixel at a time, keeping the furthest
// position that hits nothing.
func (h *Handler) sweep(grid *Grid, b Body, shape geom.Shape, delta, step geom.Vector2, info *HitInfo) (geom.Vector2, bool) {
	hits, interactions := h.hitsAt(grid, shape.Translate(delta.Add(step)), b)
	info.Interactions = append(info.Interactions, interactions...)
	if len(hits) == 0 {
		return delta.Add(step), false
	}
	info.Collisions = append(info.Collisions, hits...)

	dir := geom.Vec(sign(step.X), sign(step.Y))
	dist := math.Abs(step.X) + math.Abs(step.Y)
	travelled := 0.0
	for travelled < dist {
		inc := math.Min(1, dist-travelled)
		next := delta.Add(dir.Scale(travelled + inc))
		if blocking, _ := h.hitsAt(grid, shape.Translate(next), b); len(blocking) > 0 {
			break
		}
		travelled += inc
	}
	return delta.Add(dir.Scale(travelled)), true
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
