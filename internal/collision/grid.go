package collision

import (
	"math"

	"github.com/Garsondee/Tile-Engine/internal/geom"
)

// Collider is one rect stored in the grid. The same *Collider is shared by
// every cell the rect spans.
type Collider struct {
	Rect  geom.Rect
	Owner Body
}

type cellKey struct{ x, y int }

// Cell is one square bucket of the grid.
type Cell struct {
	Bounds    geom.Rect
	Colliders []*Collider
}

// Hash identifies the cell by its bounds.
func (c *Cell) Hash() string {
	return c.Bounds.String()
}

// Grid is a uniform spatial hash of colliders. Cells are created on demand
// and may lie at negative coordinates.
type Grid struct {
	width    float64
	height   float64
	cellSize float64

	cells map[cellKey]*Cell
	order []cellKey
	count int
}

// NewGrid creates an empty grid. width and height describe the nominal
// region and are only used for debug drawing.
func NewGrid(width, height, cellSize float64) *Grid {
	return &Grid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		cells:    make(map[cellKey]*Cell),
	}
}

func (g *Grid) CellSize() float64 { return g.cellSize }
func (g *Grid) Width() float64    { return g.width }
func (g *Grid) Height() float64   { return g.height }

// Count is the number of colliders added since the last Clear.
func (g *Grid) Count() int { return g.count }

func (g *Grid) cellIndex(v float64) int {
	return int(math.Floor(v / g.cellSize))
}

func (g *Grid) cellAt(k cellKey) *Cell {
	return g.cells[k]
}

func (g *Grid) ensureCell(k cellKey) *Cell {
	if c, ok := g.cells[k]; ok {
		return c
	}
	c := &Cell{Bounds: geom.R(float64(k.x)*g.cellSize, float64(k.y)*g.cellSize, g.cellSize, g.cellSize)}
	g.cells[k] = c
	g.order = append(g.order, k)
	return c
}

// Add inserts rect into every cell from floor(x/cs) to floor(right/cs) on
// each axis. owner may be nil for static geometry.
func (g *Grid) Add(rect geom.Rect, owner Body) {
	col := &Collider{Rect: rect, Owner: owner}
	x0, x1 := g.cellIndex(rect.X), g.cellIndex(rect.Right())
	y0, y1 := g.cellIndex(rect.Y), g.cellIndex(rect.Bottom())
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			c := g.ensureCell(cellKey{x, y})
			c.Colliders = append(c.Colliders, col)
		}
	}
	g.count++
}

// AddShape adds every rect of shape under the same owner.
func (g *Grid) AddShape(shape geom.Shape, owner Body) {
	for _, r := range shape.Rects() {
		g.Add(r, owner)
	}
}

// RectCollisions returns every collider overlapping rect with positive area,
// ignoring colliders owned by skip. Cells are scanned from floor(x/cs) up to
// but excluding ceil(right/cs).
func (g *Grid) RectCollisions(rect geom.Rect, skip Body) []Contact {
	var out []Contact
	seen := make(map[*Collider]struct{})

	lowX, highX := g.cellIndex(rect.X), int(math.Ceil(rect.Right()/g.cellSize))
	lowY, highY := g.cellIndex(rect.Y), int(math.Ceil(rect.Bottom()/g.cellSize))

	for x := lowX; x < highX; x++ {
		for y := lowY; y < highY; y++ {
			c := g.cellAt(cellKey{x, y})
			if c == nil {
				continue
			}
			for _, col := range c.Colliders {
				if skip != nil && col.Owner == skip {
					continue
				}
				if _, dup := seen[col]; dup {
					continue
				}
				overlap, ok := rect.Intersection(col.Rect)
				if !ok {
					continue
				}
				seen[col] = struct{}{}
				out = append(out, Contact{
					First:   col.Rect,
					Second:  rect,
					Overlap: overlap,
					Other:   col.Owner,
					This:    skip,
				})
			}
		}
	}
	return out
}

// ShapeCollisions is RectCollisions for every member of shape.
func (g *Grid) ShapeCollisions(shape geom.Shape, skip Body) []Contact {
	var out []Contact
	for _, r := range shape.Rects() {
		out = append(out, g.RectCollisions(r, skip)...)
	}
	return out
}

// CollidesRectFast reports an overlap using only the cells under the four
// corners of rect. A collider lying strictly between corners of a rect wider
// or taller than one cell can be missed.
func (g *Grid) CollidesRectFast(rect geom.Rect, skip Body) bool {
	checked := make(map[cellKey]struct{}, 4)
	for _, p := range rect.Corners() {
		k := cellKey{g.cellIndex(p.X), g.cellIndex(p.Y)}
		if _, ok := checked[k]; ok {
			continue
		}
		checked[k] = struct{}{}
		c := g.cellAt(k)
		if c == nil {
			continue
		}
		for _, col := range c.Colliders {
			if skip != nil && col.Owner == skip {
				continue
			}
			if rect.Intersects(col.Rect) {
				return true
			}
		}
	}
	return false
}

// CollidesPoint returns the colliders containing p. With takeFirst it stops
// at the first match.
func (g *Grid) CollidesPoint(p geom.Vector2, takeFirst bool) []*Collider {
	c := g.cellAt(cellKey{g.cellIndex(p.X), g.cellIndex(p.Y)})
	if c == nil {
		return nil
	}
	var out []*Collider
	for _, col := range c.Colliders {
		if col.Rect.Contains(p) {
			out = append(out, col)
			if takeFirst {
				break
			}
		}
	}
	return out
}

// AllCollisions checks every pair of colliders sharing a cell. It is
// quadratic per cell and meant for debugging.
func (g *Grid) AllCollisions() []Contact {
	var out []Contact
	for _, k := range g.order {
		cols := g.cells[k].Colliders
		for i := 0; i < len(cols); i++ {
			for j := i + 1; j < len(cols); j++ {
				a, b := cols[i], cols[j]
				if a.Owner != nil && a.Owner == b.Owner {
					continue
				}
				overlap, ok := a.Rect.Intersection(b.Rect)
				if !ok {
					continue
				}
				out = append(out, Contact{
					First:   a.Rect,
					Second:  b.Rect,
					Overlap: overlap,
					Other:   a.Owner,
					This:    b.Owner,
				})
			}
		}
	}
	return out
}

// Cells lists the non-empty cells in creation order.
func (g *Grid) Cells() []*Cell {
	out := make([]*Cell, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.cells[k])
	}
	return out
}

// Clear drops every collider.
func (g *Grid) Clear() {
	g.cells = make(map[cellKey]*Cell)
	g.order = g.order[:0]
	g.count = 0
}
