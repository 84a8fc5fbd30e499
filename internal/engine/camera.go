package engine

import (
	"math"

	"github.com/Garsondee/Tile-Engine/internal/geom"
)

const (
	cameraLerpX = 0.03
	cameraLerpY = 0.4
	// cameraSnap keeps the scroll on a 4px lattice so tiles do not shimmer.
	cameraSnap = 4
)

// Camera frames a view-sized window of the stage inside a bounding region.
// Its position is the top-left of the frame in world pixels.
type Camera struct {
	position geom.Vector2
	desired  geom.Vector2
	viewW    float64
	viewH    float64
	bounds   geom.Rect
	stage    *Entity
	frozen   bool
}

// NewCamera centres the frame on the middle of the view.
func NewCamera(stage *Entity, viewW, viewH float64, bounds geom.Rect) (*Camera, error) {
	c := &Camera{stage: stage, viewW: viewW, viewH: viewH}
	if err := c.SetBounds(bounds); err != nil {
		return nil, err
	}
	c.CenterOn(geom.Vec(viewW/2, viewH/2), true)
	c.desired = c.position
	return c, nil
}

// SetBounds changes the region the camera is confined to. A region smaller
// than the view is rejected.
func (c *Camera) SetBounds(r geom.Rect) error {
	if err := checkCameraRegion(r, c.viewW, c.viewH); err != nil {
		return err
	}
	c.bounds = r
	return nil
}

func (c *Camera) Bounds() geom.Rect      { return c.bounds }
func (c *Camera) Position() geom.Vector2 { return c.position }

func (c *Camera) half() geom.Vector2 { return geom.Vec(c.viewW/2, c.viewH/2) }

// Center is the world point in the middle of the frame.
func (c *Camera) Center() geom.Vector2 { return c.position.Add(c.half()) }

// Frame is the world rect currently in view.
func (c *Camera) Frame() geom.Rect {
	return geom.R(c.position.X, c.position.Y, c.viewW, c.viewH)
}

// CenterOn aims the camera at p. With immediate the frame jumps there,
// otherwise it eases towards it over the following updates.
func (c *Camera) CenterOn(p geom.Vector2, immediate bool) {
	if immediate {
		c.position = p.Sub(c.half())
		return
	}
	c.desired = p.Sub(c.half())
}

// Freeze stops Update from moving the camera.
func (c *Camera) Freeze(on bool) { c.frozen = on }
func (c *Camera) Frozen() bool   { return c.frozen }

// clamped fits the desired frame inside the bounds.
func (c *Camera) clamped() geom.Vector2 {
	d := c.desired
	b := c.bounds
	if d.X < b.Left() {
		d = d.WithX(b.Left())
	}
	if d.X+c.viewW > b.Right() {
		d = d.WithX(b.Right() - c.viewW)
	}
	if d.Y < b.Top() {
		d = d.WithY(b.Top())
	}
	if d.Y+c.viewH > b.Bottom() {
		d = d.WithY(b.Bottom() - c.viewH)
	}
	return d
}

// Update eases towards the desired frame, snaps to the lattice and offsets
// the stage by the negated position.
func (c *Camera) Update() {
	if c.frozen {
		return
	}
	p := c.position.Lerp2D(c.clamped(), cameraLerpX, cameraLerpY)
	c.position = geom.Vec(
		math.Floor(p.X/cameraSnap)*cameraSnap,
		math.Floor(p.Y/cameraSnap)*cameraSnap,
	)
	if c.stage != nil {
		c.stage.Position = c.position.Invert().Floor()
	}
}

// ScreenToWorld maps a point in view pixels to world pixels.
func (c *Camera) ScreenToWorld(p geom.Vector2) geom.Vector2 {
	return p.Add(c.position)
}
