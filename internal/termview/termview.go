// Package termview runs an engine.Game in a terminal with tcell. Each
// terminal cell shows one tile; entities are drawn as their Look glyph.
//
// Terminals report key presses but not releases, so a pressed key is held
// for a few ticks and refreshed by key repeat.
package termview

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Tile-Engine/internal/engine"
	"github.com/Garsondee/Tile-Engine/internal/input"
	"github.com/Garsondee/Tile-Engine/internal/tilemap"
)

const (
	tickInterval = time.Second / 60
	// sustainTicks covers the gap between terminal key repeats for
	// movement keys.
	sustainTicks = 8
	statusRows   = 1
	footerRows   = 2
)

var (
	styleStatus   = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleFloor    = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleCollider = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorDarkSlateGray)
	styleFooter   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

var sustained = map[input.Key]bool{
	input.KeyUp: true, input.KeyDown: true, input.KeyLeft: true, input.KeyRight: true,
	input.KeyW: true, input.KeyA: true, input.KeyS: true, input.KeyD: true,
}

// Options are the optional collaborators of a Runner.
type Options struct {
	Map    *tilemap.Map
	Status func() string
	Logger *log.Logger
}

// Runner drives one game on one tcell screen.
type Runner struct {
	screen tcell.Screen
	game   *engine.Game
	opts   Options
	logger *log.Logger

	// held maps a pressed key to the tick it expires on.
	held map[input.Key]int
}

// New wraps an initialised screen.
func New(screen tcell.Screen, g *engine.Game, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{
		screen: screen,
		game:   g,
		opts:   opts,
		logger: logger,
		held:   make(map[input.Key]int),
	}
}

// toEngineKey maps a terminal key event; uppercase letters also report
// shift.
func toEngineKey(ev *tcell.EventKey) (k input.Key, shift, ok bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return input.KeyUp, false, true
	case tcell.KeyDown:
		return input.KeyDown, false, true
	case tcell.KeyLeft:
		return input.KeyLeft, false, true
	case tcell.KeyRight:
		return input.KeyRight, false, true
	case tcell.KeyEnter:
		return input.KeyEnter, false, true
	case tcell.KeyRune:
	default:
		return 0, false, false
	}
	r := ev.Rune()
	if r == ' ' {
		return input.KeySpacebar, false, true
	}
	if k, ok := letterKeys[unicode.ToUpper(r)]; ok {
		return k, unicode.IsUpper(r), true
	}
	return 0, false, false
}

var letterKeys = func() map[rune]input.Key {
	m := make(map[rune]input.Key)
	for _, k := range input.AllKeys() {
		if s := k.String(); len(s) == 1 {
			m[rune(s[0])] = k
		}
	}
	return m
}()

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (r *Runner) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		k, shift, ok := toEngineKey(ev)
		if !ok {
			return true
		}
		r.hold(k)
		if shift {
			r.hold(input.KeyShift)
		}
	case *tcell.EventResize:
		r.screen.Sync()
	}
	return true
}

func (r *Runner) hold(k input.Key) {
	if _, down := r.held[k]; !down {
		r.game.Keys().Press(k)
	}
	ticks := 1
	if sustained[k] {
		ticks = sustainTicks
	}
	r.held[k] = r.game.CurrentTick() + ticks
}

// Step advances the game one tick and releases expired keys.
func (r *Runner) Step() {
	r.game.Tick()
	now := r.game.CurrentTick()
	for k, until := range r.held {
		if now >= until {
			r.game.Keys().Release(k)
			delete(r.held, k)
		}
	}
}

// Run pumps terminal events and ticks the game at 60Hz until ctx ends or
// the user quits.
func (r *Runner) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	go r.pump(ctx, events)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !r.HandleEvent(ev) {
				r.logger.Printf("quit at T=%d", r.game.CurrentTick())
				return nil
			}
		case <-ticker.C:
			r.Step()
			r.Draw()
		}
	}
}

// pump forwards screen events until the screen is finalized or ctx ends.
// events is closed only when the screen stops delivering.
func (r *Runner) pump(ctx context.Context, events chan<- tcell.Event) {
	for {
		ev := r.screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Draw renders the map, the stage and the fixed-stage labels.
func (r *Runner) Draw() {
	s := r.screen
	s.Clear()
	w, h := s.Size()
	cfg := r.game.Config()
	tw, th := float64(cfg.TileWidth), float64(cfg.TileHeight)

	// The top-left cell shows the world point -Stage.Position.
	origin := r.game.Stage.Position.Invert()
	toCell := func(x, y float64) (int, int) {
		return int(math.Floor((x - origin.X) / tw)), int(math.Floor((y-origin.Y)/th)) + statusRows
	}

	mapRows := h - statusRows - footerRows
	if m := r.opts.Map; m != nil {
		for cy := 0; cy < mapRows; cy++ {
			for cx := 0; cx < w; cx++ {
				wx := origin.X + float64(cx)*tw + tw/2
				wy := origin.Y + float64(cy)*th + th/2
				if ch, style, ok := tileCell(m.TilesAt(wx, wy)); ok {
					s.SetContent(cx, cy+statusRows, ch, nil, style)
				}
			}
		}
	}

	var walk func(e *engine.Entity)
	walk = func(e *engine.Entity) {
		if !e.Visible {
			return
		}
		if !e.IsRoot() && e.Look.Glyph != 0 {
			b := e.Bounds()
			cx, cy := toCell(b.X, b.Y)
			if cx >= 0 && cx < w && cy >= statusRows && cy < statusRows+mapRows {
				s.SetContent(cx, cy, e.Look.Glyph, nil, lookStyle(e.Look))
			}
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	walk(r.game.Stage)

	status := fmt.Sprintf(" T=%d mode=%s", r.game.CurrentTick(), r.game.Mode())
	if r.opts.Status != nil {
		status = " " + r.opts.Status()
	}
	drawText(s, 0, 0, w, status, styleStatus)

	row := h - footerRows
	for _, e := range r.game.FixedStage.Children() {
		if row >= h {
			break
		}
		if e.Visible && e.Look.Label != "" {
			drawText(s, 0, row, w, e.Look.Label, styleFooter)
			row++
		}
	}
	s.Show()
}

// tileCell picks the glyph for the topmost tile at a point.
func tileCell(tiles []tilemap.Tile) (rune, tcell.Style, bool) {
	if len(tiles) == 0 {
		return 0, tcell.StyleDefault, false
	}
	top := tiles[len(tiles)-1]
	if top.IsCollider {
		return '#', styleCollider, true
	}
	return '.', styleFloor, true
}

func lookStyle(l engine.Look) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(l.Color.R), int32(l.Color.G), int32(l.Color.B))).Bold(true)
}

func drawText(s tcell.Screen, x, y, maxW int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= maxW {
			return
		}
		s.SetContent(x, y, ch, nil, style)
		x++
	}
	for ; x < maxW && style != styleFooter; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}
