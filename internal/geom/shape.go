package geom

import (
	"strings"
)

// ShapeKind tags the Shape variant.
type ShapeKind uint8

const (
	ShapeSingle ShapeKind = iota
	ShapeGroup
)

// Shape is either a single rect or a group of rects, queried uniformly.
// The zero value is Single of the zero rect.
type Shape struct {
	kind  ShapeKind
	rect  Rect
	rects []Rect
}

// Single wraps one rect.
func Single(r Rect) Shape {
	return Shape{kind: ShapeSingle, rect: r}
}

// Group wraps a list of rects. The slice is copied.
func Group(rects ...Rect) Shape {
	cp := make([]Rect, len(rects))
	copy(cp, rects)
	return Shape{kind: ShapeGroup, rects: cp}
}

func (s Shape) Kind() ShapeKind { return s.kind }

// Rect returns the wrapped rect of a Single, or the bounds of a Group.
func (s Shape) Rect() Rect {
	if s.kind == ShapeSingle {
		return s.rect
	}
	return s.Bounds()
}

// Rects lists the member rects. A Single yields one.
func (s Shape) Rects() []Rect {
	if s.kind == ShapeSingle {
		return []Rect{s.rect}
	}
	out := make([]Rect, len(s.rects))
	copy(out, s.rects)
	return out
}

// Len is the number of member rects.
func (s Shape) Len() int {
	if s.kind == ShapeSingle {
		return 1
	}
	return len(s.rects)
}

func (s Shape) Translate(v Vector2) Shape {
	if s.kind == ShapeSingle {
		return Single(s.rect.Translate(v))
	}
	out := make([]Rect, len(s.rects))
	for i, r := range s.rects {
		out[i] = r.Translate(v)
	}
	return Shape{kind: ShapeGroup, rects: out}
}

// Intersects reports a positive-area overlap between any member and r.
func (s Shape) Intersects(r Rect) bool {
	if s.kind == ShapeSingle {
		return s.rect.Intersects(r)
	}
	for _, m := range s.rects {
		if m.Intersects(r) {
			return true
		}
	}
	return false
}

// IntersectsShape reports whether any pair of members overlaps.
func (s Shape) IntersectsShape(o Shape) bool {
	for _, r := range o.Rects() {
		if s.Intersects(r) {
			return true
		}
	}
	return false
}

// Contains reports whether any member contains p.
func (s Shape) Contains(p Vector2) bool {
	for _, r := range s.Rects() {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// Bounds is the bounding rect of all members. An empty group has zero bounds.
func (s Shape) Bounds() Rect {
	if s.kind == ShapeSingle {
		return s.rect
	}
	return BoundingRect(s.rects...)
}

func (s Shape) String() string {
	if s.kind == ShapeSingle {
		return s.rect.String()
	}
	parts := make([]string, len(s.rects))
	for i, r := range s.rects {
		parts[i] = r.String()
	}
	return "Group{" + strings.Join(parts, " ") + "}"
}
