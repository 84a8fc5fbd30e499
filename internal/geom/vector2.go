package geom

import (
	"fmt"
	"math"
)

// Vector2 is an immutable point or offset in plane coordinates.
type Vector2 struct {
	X float64
	Y float64
}

// Vec is shorthand for Vector2{X: x, Y: y}.
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Zero is the origin.
var Zero = Vector2{}

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Mul(o Vector2) Vector2 { return Vector2{v.X * o.X, v.Y * o.Y} }

// Div divides component-wise. A zero component yields ±Inf like float division.
func (v Vector2) Div(o Vector2) Vector2 { return Vector2{v.X / o.X, v.Y / o.Y} }

func (v Vector2) Scale(k float64) Vector2 { return Vector2{v.X * k, v.Y * k} }
func (v Vector2) Invert() Vector2         { return Vector2{-v.X, -v.Y} }
func (v Vector2) Floor() Vector2          { return Vector2{math.Floor(v.X), math.Floor(v.Y)} }
func (v Vector2) Round() Vector2          { return Vector2{math.Round(v.X), math.Round(v.Y)} }
func (v Vector2) Half() Vector2           { return v.Scale(0.5) }

func (v Vector2) WithX(x float64) Vector2 { return Vector2{x, v.Y} }
func (v Vector2) WithY(y float64) Vector2 { return Vector2{v.X, y} }
func (v Vector2) AddX(dx float64) Vector2 { return Vector2{v.X + dx, v.Y} }
func (v Vector2) AddY(dy float64) Vector2 { return Vector2{v.X, v.Y + dy} }

// IsZero reports whether both components are exactly zero.
func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Length is the Euclidean norm.
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector in the direction of v. The zero vector
// has no direction; it is returned unchanged with a warning.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		warnf("normalize of zero vector")
		return Zero
	}
	return Vector2{v.X / l, v.Y / l}
}

// Distance is the Euclidean distance between v and o.
func (v Vector2) Distance(o Vector2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// TaxicabDistance is |dx| + |dy|.
func (v Vector2) TaxicabDistance(o Vector2) float64 {
	return math.Abs(v.X-o.X) + math.Abs(v.Y-o.Y)
}

// DiagonalDistance is the Chebyshev distance max(|dx|, |dy|).
func (v Vector2) DiagonalDistance(o Vector2) float64 {
	return math.Max(math.Abs(v.X-o.X), math.Abs(v.Y-o.Y))
}

// Rotate rotates v about origin by degrees (counter-clockwise in a y-up frame).
func (v Vector2) Rotate(origin Vector2, degrees float64) Vector2 {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	d := v.Sub(origin)
	return Vector2{
		X: origin.X + d.X*cos - d.Y*sin,
		Y: origin.Y + d.X*sin + d.Y*cos,
	}
}

// Lerp interpolates from v toward o. t outside [0,1] extrapolates and logs a
// warning.
func (v Vector2) Lerp(o Vector2, t float64) Vector2 {
	if t < 0 || t > 1 {
		warnf("lerp parameter %v outside [0,1]", t)
	}
	return Vector2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Lerp2D interpolates each axis with its own parameter.
func (v Vector2) Lerp2D(o Vector2, tx, ty float64) Vector2 {
	if tx < 0 || tx > 1 || ty < 0 || ty > 1 {
		warnf("lerp2D parameters (%v, %v) outside [0,1]", tx, ty)
	}
	return Vector2{v.X + (o.X-v.X)*tx, v.Y + (o.Y-v.Y)*ty}
}

// Equals compares within Epsilon on each axis.
func (v Vector2) Equals(o Vector2) bool {
	return EpsEqual(v.X, o.X) && EpsEqual(v.Y, o.Y)
}

// Hash is a stable map key.
func (v Vector2) Hash() string {
	return fmt.Sprintf("%g|%g", v.X, v.Y)
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
