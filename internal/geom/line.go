package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Line is an immutable segment from (X1, Y1) to (X2, Y2).
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
}

// LineBetween builds the segment from a to b.
func LineBetween(a, b Vector2) Line {
	return Line{a.X, a.Y, b.X, b.Y}
}

func (l Line) Start() Vector2 { return Vector2{l.X1, l.Y1} }
func (l Line) End() Vector2   { return Vector2{l.X2, l.Y2} }

func (l Line) Length() float64 {
	return math.Hypot(l.X2-l.X1, l.Y2-l.Y1)
}

// IsDegenerate reports a zero-length segment.
func (l Line) IsDegenerate() bool {
	return l.Length() == 0
}

// AngleDegrees is the direction from start to end in [0, 360).
func (l Line) AngleDegrees() float64 {
	deg := math.Atan2(l.Y2-l.Y1, l.X2-l.X1) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

func (l Line) IsXAligned() bool { return l.X1 == l.X2 }
func (l Line) IsYAligned() bool { return l.Y1 == l.Y2 }

func (l Line) Translate(v Vector2) Line {
	return Line{l.X1 + v.X, l.Y1 + v.Y, l.X2 + v.X, l.Y2 + v.Y}
}

func (l Line) RotateAbout(origin Vector2, degrees float64) Line {
	return LineBetween(l.Start().Rotate(origin, degrees), l.End().Rotate(origin, degrees))
}

func (l Line) WithStart(p Vector2) Line { return Line{p.X, p.Y, l.X2, l.Y2} }
func (l Line) WithEnd(p Vector2) Line   { return Line{l.X1, l.Y1, p.X, p.Y} }

// SharesVertexWith returns a vertex common to both segments, if any.
func (l Line) SharesVertexWith(o Line) (Vector2, bool) {
	for _, a := range [2]Vector2{l.Start(), l.End()} {
		for _, b := range [2]Vector2{o.Start(), o.End()} {
			if a.Equals(b) {
				return a, true
			}
		}
	}
	return Zero, false
}

// Normalized returns the unit direction of the segment. A degenerate segment
// has none; the zero vector is returned with a warning.
func (l Line) Normalized() Vector2 {
	d := l.End().Sub(l.Start())
	if d.IsZero() {
		warnf("normalize of degenerate line %s", l)
		return Zero
	}
	return d.Normalize()
}

// span returns the segment's extent along its shared axis, sorted.
func (l Line) span(vertical bool) (lo, hi float64) {
	if vertical {
		return math.Min(l.Y1, l.Y2), math.Max(l.Y1, l.Y2)
	}
	return math.Min(l.X1, l.X2), math.Max(l.X1, l.X2)
}

func (l Line) collinearAxis(o Line) (vertical, ok bool) {
	if l.X1 == l.X2 && o.X1 == o.X2 && l.X1 == o.X1 {
		return true, true
	}
	if l.Y1 == l.Y2 && o.Y1 == o.Y2 && l.Y1 == o.Y1 {
		return false, true
	}
	return false, false
}

func (l Line) alongAxis(vertical bool, lo, hi float64) Line {
	if vertical {
		return Line{l.X1, lo, l.X1, hi}
	}
	return Line{lo, l.Y1, hi, l.Y1}
}

// Overlap returns the shared section of two collinear axis-aligned segments.
// Segments that merely touch at an endpoint do not overlap.
func (l Line) Overlap(o Line) (Line, bool) {
	vertical, ok := l.collinearAxis(o)
	if !ok {
		return Line{}, false
	}
	alo, ahi := l.span(vertical)
	blo, bhi := o.span(vertical)
	lo, hi := math.Max(alo, blo), math.Min(ahi, bhi)
	if hi <= lo {
		return Line{}, false
	}
	return l.alongAxis(vertical, lo, hi), true
}

// NonOverlappingSections returns the parts of the union of two overlapping
// collinear axis-aligned segments that belong to only one of them.
func (l Line) NonOverlappingSections(o Line) ([]Line, bool) {
	vertical, ok := l.collinearAxis(o)
	if !ok {
		return nil, false
	}
	if _, ok := l.Overlap(o); !ok {
		return nil, false
	}
	alo, ahi := l.span(vertical)
	blo, bhi := o.span(vertical)
	var out []Line
	if alo != blo {
		out = append(out, l.alongAxis(vertical, math.Min(alo, blo), math.Max(alo, blo)))
	}
	if ahi != bhi {
		out = append(out, l.alongAxis(vertical, math.Min(ahi, bhi), math.Max(ahi, bhi)))
	}
	return out, true
}

// LineIntersection intersects the infinite lines through l and o. Parallel
// or degenerate lines have no single intersection.
func (l Line) LineIntersection(o Line) (Vector2, bool) {
	if l.IsDegenerate() || o.IsDegenerate() {
		warnf("intersection with degenerate line (%s, %s)", l, o)
		return Zero, false
	}
	den := (o.Y2-o.Y1)*(l.X2-l.X1) - (o.X2-o.X1)*(l.Y2-l.Y1)
	if den == 0 {
		return Zero, false
	}
	s := ((o.X2-o.X1)*(l.Y1-o.Y1) - (o.Y2-o.Y1)*(l.X1-o.X1)) / den
	return Vector2{l.X1 + s*(l.X2-l.X1), l.Y1 + s*(l.Y2-l.Y1)}, true
}

func (l Line) boxContains(p Vector2) bool {
	return EpsAtLeast(p.X, math.Min(l.X1, l.X2)) && EpsAtMost(p.X, math.Max(l.X1, l.X2)) &&
		EpsAtLeast(p.Y, math.Min(l.Y1, l.Y2)) && EpsAtMost(p.Y, math.Max(l.Y1, l.Y2))
}

// SegmentIntersection returns the point where both segments cross,
// endpoints included within Epsilon.
func (l Line) SegmentIntersection(o Line) (Vector2, bool) {
	p, ok := l.LineIntersection(o)
	if !ok {
		return Zero, false
	}
	if l.boxContains(p) && o.boxContains(p) {
		return p, true
	}
	return Zero, false
}

// Equals treats reversed segments as equal.
func (l Line) Equals(o Line) bool {
	return (l.Start().Equals(o.Start()) && l.End().Equals(o.End())) ||
		(l.Start().Equals(o.End()) && l.End().Equals(o.Start()))
}

// Serialize renders "x1|y1|x2|y2".
func (l Line) Serialize() string {
	return fmt.Sprintf("%g|%g|%g|%g", l.X1, l.Y1, l.X2, l.Y2)
}

// ParseLine is the inverse of Serialize.
func ParseLine(s string) (Line, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 4 {
		return Line{}, fmt.Errorf("parse line %q: want 4 fields, got %d", s, len(parts))
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Line{}, fmt.Errorf("parse line %q: %w", s, err)
		}
		vals[i] = f
	}
	return Line{vals[0], vals[1], vals[2], vals[3]}, nil
}

func (l Line) String() string {
	return fmt.Sprintf("Line[(%g, %g) -> (%g, %g)]", l.X1, l.Y1, l.X2, l.Y2)
}
