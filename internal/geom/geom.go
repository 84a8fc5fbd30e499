// Package geom holds the plane primitives shared by the collision grid, the
// camera and the tilemap: Vector2, Rect, Line and the Shape variant.
package geom

import (
	"io"
	"log"
	"math"
	"os"
)

// Epsilon is the tolerance used by the approximate comparisons.
const Epsilon = 1e-7

var logger = log.New(os.Stderr, "geom: ", log.LstdFlags)

// SetLogOutput redirects degeneracy warnings. Tests pass io.Discard.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

func warnf(format string, args ...any) {
	logger.Printf("warning: "+format, args...)
}

// EpsEqual reports whether a and b differ by less than Epsilon.
func EpsEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// EpsAtLeast reports a >= b within Epsilon.
func EpsAtLeast(a, b float64) bool {
	return a+Epsilon-b > 0
}

// EpsAtMost reports a <= b within Epsilon.
func EpsAtMost(a, b float64) bool {
	return a-Epsilon-b < 0
}
