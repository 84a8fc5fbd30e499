package view

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Tile-Engine/internal/collision"
	"github.com/Garsondee/Tile-Engine/internal/engine"
)

// Inspector panel, rendered into an offscreen buffer at 1x then blitted at
// inspScale.
const (
	inspScale = 1
	inspBufW  = 230
	inspBufH  = 250
	inspPad   = 4
	inspLineH = 13
)

// inspector holds the selected entity and the view toggle.
type inspector struct {
	selected *engine.Entity
	rawView  bool // false = curated, true = raw dump
	buf      *ebiten.Image
}

func newInspector() inspector {
	return inspector{}
}

// inspectorLines is the body of the panel for e.
func inspectorLines(g *engine.Game, e *engine.Entity, raw bool) []string {
	if raw {
		return rawLines(e)
	}
	var lines []string
	line := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	section := func(title string) {
		lines = append(lines, "-- "+title+" --")
	}

	section("BODY")
	line("pos    %v", e.Position)
	line("abs    %v", e.AbsolutePosition())
	line("size   %gx%g", e.Width, e.Height)
	line("vel    %v", e.Velocity())
	line("shape  %v", e.Shape())

	section("FLAGS")
	line("collidable=%t interactable=%t", e.IsCollidable(), e.IsInteractable())
	line("visible=%t clickable=%t", e.Visible, e.Clickable())
	modes := make([]string, len(e.Modes))
	for i, m := range e.Modes {
		modes[i] = m.String()
	}
	line("modes  %s", strings.Join(modes, ","))
	if p := e.Parent(); p != nil {
		line("parent %s", p)
	}

	section("CONTACT")
	h := e.HitInfo()
	line("hit=%t %s", h.Hit, sides(h))
	line("collisions=%d interactions=%d", len(h.Collisions), len(h.Interactions))
	for _, c := range h.Interactions {
		if other, ok := c.Other.(*engine.Entity); ok {
			line("  ~ %s", other)
		}
	}

	section("SCRIPTS")
	owned := g.CoroutinesOwnedBy(e)
	if len(owned) == 0 {
		line("(none)")
	}
	for _, info := range owned {
		line("[%d] %s: %s", info.ID, info.Name, info.Status)
	}
	return lines
}

func sides(h collision.HitInfo) string {
	var s []string
	for _, side := range []struct {
		on   bool
		name string
	}{{h.Left, "L"}, {h.Right, "R"}, {h.Up, "U"}, {h.Down, "D"}} {
		if side.on {
			s = append(s, side.name)
		}
	}
	return strings.Join(s, "")
}

func rawLines(e *engine.Entity) []string {
	h := e.HitInfo()
	return []string{
		fmt.Sprintf("id=%d name=%q", e.ID(), e.Name()),
		fmt.Sprintf("Position=%+v", e.Position),
		fmt.Sprintf("Width=%g Height=%g", e.Width, e.Height),
		fmt.Sprintf("velocity=%+v", e.Velocity()),
		fmt.Sprintf("Visible=%t destroyed=%t", e.Visible, e.Destroyed()),
		fmt.Sprintf("Look=%+v", e.Look),
		fmt.Sprintf("children=%d root=%t", len(e.Children()), e.IsRoot()),
		fmt.Sprintf("hit=%t L=%t R=%t U=%t D=%t", h.Hit, h.Left, h.Right, h.Up, h.Down),
	}
}

// inspectorReport is the clipboard text for e.
func inspectorReport(g *engine.Game, e *engine.Entity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s at T=%03d ---\n", e, g.CurrentTick())
	for _, l := range inspectorLines(g, e, false) {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	for _, l := range rawLines(e) {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// drawInspector renders the panel into an offscreen buffer, then blits it
// onto the bottom-right of the canvas.
func (r *Runner) drawInspector(screen *ebiten.Image) {
	e := r.inspector.selected
	if e == nil {
		return
	}
	if e.Destroyed() {
		r.inspector.selected = nil
		return
	}
	if r.inspector.buf == nil {
		r.inspector.buf = ebiten.NewImage(inspBufW, inspBufH)
	}
	buf := r.inspector.buf
	buf.Clear()

	panelBorder := color.RGBA{R: 55, G: 70, B: 100, A: 255}
	vector.FillRect(buf, 0, 0, inspBufW, inspBufH, color.RGBA{R: 14, G: 16, B: 22, A: 230}, false)
	vector.StrokeRect(buf, 0, 0, inspBufW, inspBufH, 1, panelBorder, false)

	lx, ly := inspPad, inspPad
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("[ %s ]", e), lx, ly)
	ly += inspLineH + 2

	viewName := "CURATED"
	if r.inspector.rawView {
		viewName = "RAW"
	}
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("view: %s  [I] toggle", viewName), lx, ly)
	ly += inspLineH + 4
	vector.StrokeLine(buf, float32(lx), float32(ly), inspBufW-inspPad, float32(ly), 1, panelBorder, false)
	ly += 4

	for _, l := range inspectorLines(r.game, e, r.inspector.rawView) {
		if ly > inspBufH-inspLineH {
			break
		}
		ebitenutil.DebugPrintAt(buf, l, lx, ly)
		ly += inspLineH
	}

	cfg := r.game.Config()
	px := cfg.CanvasWidth - inspBufW*inspScale - 8
	py := cfg.CanvasHeight - inspBufH*inspScale - 8
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(inspScale, inspScale)
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)
}
