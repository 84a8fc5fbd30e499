package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rect is an immutable axis-aligned rectangle. W and H are expected to be
// non-negative; nothing enforces it.
type Rect struct {
	X, Y float64
	W, H float64
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromPoints builds the rect spanning two corners in any order.
func RectFromPoints(a, b Vector2) Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }
func (r Rect) Area() float64   { return r.W * r.H }

func (r Rect) TopLeft() Vector2     { return Vector2{r.X, r.Y} }
func (r Rect) TopRight() Vector2    { return Vector2{r.Right(), r.Y} }
func (r Rect) BottomLeft() Vector2  { return Vector2{r.X, r.Bottom()} }
func (r Rect) BottomRight() Vector2 { return Vector2{r.Right(), r.Bottom()} }
func (r Rect) Dimensions() Vector2  { return Vector2{r.W, r.H} }
func (r Rect) Center() Vector2      { return Vector2{r.X + r.W/2, r.Y + r.H/2} }

// Corners returns top-left, top-right, bottom-left, bottom-right.
func (r Rect) Corners() [4]Vector2 {
	return [4]Vector2{r.TopLeft(), r.TopRight(), r.BottomLeft(), r.BottomRight()}
}

// Edges returns the top, right, bottom and left sides.
func (r Rect) Edges() [4]Line {
	return [4]Line{
		LineBetween(r.TopLeft(), r.TopRight()),
		LineBetween(r.TopRight(), r.BottomRight()),
		LineBetween(r.BottomLeft(), r.BottomRight()),
		LineBetween(r.TopLeft(), r.BottomLeft()),
	}
}

func (r Rect) WithX(x float64) Rect { return Rect{x, r.Y, r.W, r.H} }
func (r Rect) WithY(y float64) Rect { return Rect{r.X, y, r.W, r.H} }
func (r Rect) WithW(w float64) Rect { return Rect{r.X, r.Y, w, r.H} }
func (r Rect) WithH(h float64) Rect { return Rect{r.X, r.Y, r.W, h} }

// Translate moves the rect by v.
func (r Rect) Translate(v Vector2) Rect {
	return Rect{r.X + v.X, r.Y + v.Y, r.W, r.H}
}

// Add adds o field by field, size included.
func (r Rect) Add(o Rect) Rect {
	return Rect{r.X + o.X, r.Y + o.Y, r.W + o.W, r.H + o.H}
}

// Sub subtracts o field by field, size included.
func (r Rect) Sub(o Rect) Rect {
	return Rect{r.X - o.X, r.Y - o.Y, r.W - o.W, r.H - o.H}
}

// Scale multiplies every field by k.
func (r Rect) Scale(k float64) Rect {
	return Rect{r.X * k, r.Y * k, r.W * k, r.H * k}
}

// Extend grows the rect by n on the right and bottom.
func (r Rect) Extend(n float64) Rect {
	return Rect{r.X, r.Y, r.W + n, r.H + n}
}

// Expand grows the rect by n on every side.
func (r Rect) Expand(n float64) Rect {
	return Rect{r.X - n, r.Y - n, r.W + 2*n, r.H + 2*n}
}

// Shrink is Expand(-n).
func (r Rect) Shrink(n float64) Rect {
	return r.Expand(-n)
}

func (r Rect) Floor() Rect {
	return Rect{math.Floor(r.X), math.Floor(r.Y), math.Floor(r.W), math.Floor(r.H)}
}

// Contains reports whether p lies inside the half-open rect [x, right) × [y, bottom).
func (r Rect) Contains(p Vector2) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies completely within r, edges included.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Right() <= r.Right() && o.Y >= r.Y && o.Bottom() <= r.Bottom()
}

func (r Rect) overlap(o Rect) (xmin, xmax, ymin, ymax float64) {
	xmin = math.Max(r.X, o.X)
	xmax = math.Min(r.Right(), o.Right())
	ymin = math.Max(r.Y, o.Y)
	ymax = math.Min(r.Bottom(), o.Bottom())
	return
}

// Intersection returns the overlap of r and o when it has positive area.
// The result does not depend on argument order.
func (r Rect) Intersection(o Rect) (Rect, bool) {
	xmin, xmax, ymin, ymax := r.overlap(o)
	if xmax > xmin && ymax > ymin {
		return Rect{xmin, ymin, xmax - xmin, ymax - ymin}, true
	}
	return Rect{}, false
}

// IntersectionInclusive is Intersection that also accepts zero-width or
// zero-height overlaps (shared edges and corners).
func (r Rect) IntersectionInclusive(o Rect) (Rect, bool) {
	xmin, xmax, ymin, ymax := r.overlap(o)
	if xmax >= xmin && ymax >= ymin {
		return Rect{xmin, ymin, xmax - xmin, ymax - ymin}, true
	}
	return Rect{}, false
}

// Intersects reports a positive-area overlap.
func (r Rect) Intersects(o Rect) bool {
	_, ok := r.Intersection(o)
	return ok
}

// TouchesEdges reports an overlap that is at least a shared edge segment.
// Rects meeting only at a corner do not touch.
func (r Rect) TouchesEdges(o Rect) bool {
	in, ok := r.IntersectionInclusive(o)
	return ok && (in.W > 0 || in.H > 0)
}

// Equals compares all four fields within Epsilon.
func (r Rect) Equals(o Rect) bool {
	return EpsEqual(r.X, o.X) && EpsEqual(r.Y, o.Y) && EpsEqual(r.W, o.W) && EpsEqual(r.H, o.H)
}

// Serialize renders the stable key "x|y|w|h".
func (r Rect) Serialize() string {
	return fmt.Sprintf("%g|%g|%g|%g", r.X, r.Y, r.W, r.H)
}

// ParseRect is the inverse of Serialize.
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("parse rect %q: want 4 fields, got %d", s, len(parts))
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Rect{}, fmt.Errorf("parse rect %q: %w", s, err)
		}
		vals[i] = f
	}
	return Rect{vals[0], vals[1], vals[2], vals[3]}, nil
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", r.X, r.Y, r.W, r.H)
}

// BoundingRect is the smallest rect containing every input. No input gives
// the zero rect.
func BoundingRect(rects ...Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	x0, y0 := rects[0].X, rects[0].Y
	x1, y1 := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		x0 = math.Min(x0, r.X)
		y0 = math.Min(y0, r.Y)
		x1 = math.Max(x1, r.Right())
		y1 = math.Max(y1, r.Bottom())
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}
