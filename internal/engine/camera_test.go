package engine

import (
	"errors"
	"testing"

	"github.com/Garsondee/Tile-Engine/internal/geom"
)

func newTestCamera(t *testing.T, bounds geom.Rect) (*Camera, *Entity) {
	t.Helper()
	stage := &Entity{name: StageName, root: true}
	c, err := NewCamera(stage, 320, 240, bounds)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	return c, stage
}

func TestCamera_StartsCenteredOnView(t *testing.T) {
	c, _ := newTestCamera(t, geom.R(-5000, -5000, 10000, 10000))
	if !c.Position().IsZero() {
		t.Fatalf("expected (0, 0), got %v", c.Position())
	}
	if got := c.Center(); !got.Equals(geom.Vec(160, 120)) {
		t.Fatalf("expected center (160, 120), got %v", got)
	}
	if got := c.Frame(); !got.Equals(geom.R(0, 0, 320, 240)) {
		t.Fatalf("expected frame [0, 0, 320, 240], got %v", got)
	}
}

func TestCamera_RejectsSmallRegion(t *testing.T) {
	c, _ := newTestCamera(t, geom.R(0, 0, 1000, 1000))
	if err := c.SetBounds(geom.R(0, 0, 300, 1000)); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if !c.Bounds().Equals(geom.R(0, 0, 1000, 1000)) {
		t.Fatal("rejected bounds must not replace the old ones")
	}
	if _, err := NewCamera(nil, 320, 240, geom.R(0, 0, 100, 100)); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig from NewCamera, got %v", err)
	}
}

func TestCamera_LerpsAndSnaps(t *testing.T) {
	c, stage := newTestCamera(t, geom.R(-5000, -5000, 10000, 10000))
	c.CenterOn(geom.Vec(1160, 520), false)
	c.Update()

	// x: 1000*0.03 = 30 -> 28 on the 4px lattice; y: 400*0.4 = 160.
	if got := c.Position(); got.X != 28 || got.Y != 160 {
		t.Fatalf("expected (28, 160), got %v", got)
	}
	if got := stage.Position; got.X != -28 || got.Y != -160 {
		t.Fatalf("stage offset should be the negated position, got %v", got)
	}
}

func TestCamera_ImmediateJump(t *testing.T) {
	c, _ := newTestCamera(t, geom.R(-5000, -5000, 10000, 10000))
	c.CenterOn(geom.Vec(500, 500), true)
	if got := c.Position(); !got.Equals(geom.Vec(340, 380)) {
		t.Fatalf("expected (340, 380), got %v", got)
	}
}

func TestCamera_ClampedToBounds(t *testing.T) {
	c, _ := newTestCamera(t, geom.R(0, 0, 400, 240))
	c.CenterOn(geom.Vec(10000, 10000), false)
	if got := c.clamped(); !got.Equals(geom.Vec(80, 0)) {
		t.Fatalf("expected the target pinned at (80, 0), got %v", got)
	}
	for i := 0; i < 500; i++ {
		c.Update()
	}
	if got := c.Position(); got.X > 80 || got.Y != 0 {
		t.Fatalf("camera left its region: %v", got)
	}
}

func TestCamera_FrozenIgnoresUpdate(t *testing.T) {
	c, _ := newTestCamera(t, geom.R(-5000, -5000, 10000, 10000))
	c.Freeze(true)
	c.CenterOn(geom.Vec(1000, 1000), false)
	c.Update()
	if !c.Position().IsZero() {
		t.Fatalf("frozen camera moved to %v", c.Position())
	}
}

func TestCamera_ScreenToWorld(t *testing.T) {
	c, _ := newTestCamera(t, geom.R(-5000, -5000, 10000, 10000))
	c.CenterOn(geom.Vec(500, 500), true)
	if got := c.ScreenToWorld(geom.Vec(10, 20)); !got.Equals(geom.Vec(350, 400)) {
		t.Fatalf("expected (350, 400), got %v", got)
	}
}
