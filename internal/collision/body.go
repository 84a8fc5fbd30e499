// Package collision implements the per-tick broad phase (a uniform spatial
// hash of rect colliders) and the axis-separated swept resolution that moves
// bodies against it.
package collision

import "github.com/Garsondee/Tile-Engine/internal/geom"

// Body is anything the handler can place in the grid and move. Bodies are
// compared by identity, so implementations should be pointer types.
type Body interface {
	// Shape is the collision shape relative to the body's own position.
	Shape() geom.Shape
	AbsolutePosition() geom.Vector2
	Velocity() geom.Vector2
	IsCollidable() bool
	IsInteractable() bool
	// MoveBy shifts the body's position by delta.
	MoveBy(delta geom.Vector2)
	SetHitInfo(h HitInfo)
}

// StaticSource yields static collider rects (tile walls and the like)
// overlapping a region. Static colliders have no owning body.
type StaticSource interface {
	CollidersInRegion(region geom.Rect) []geom.Rect
}

// StaticRects adapts a fixed list of rects to StaticSource.
type StaticRects []geom.Rect

// CollidersInRegion returns the rects overlapping region.
func (s StaticRects) CollidersInRegion(region geom.Rect) []geom.Rect {
	var out []geom.Rect
	for _, r := range s {
		if r.Intersects(region) {
			out = append(out, r)
		}
	}
	return out
}

// Contact describes one overlap found by a grid query.
type Contact struct {
	First   geom.Rect // the stored collider's rect
	Second  geom.Rect // the query rect
	Overlap geom.Rect
	Other   Body // owner of First; nil for static colliders
	This    Body // the querying body, if any
}

// HitInfo is the result of the last resolution pass that moved a body.
type HitInfo struct {
	Hit   bool
	Left  bool
	Right bool
	Up    bool
	Down  bool

	Collisions   []Contact
	Interactions []Contact
}
