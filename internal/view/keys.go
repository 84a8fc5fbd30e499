package view

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Tile-Engine/internal/input"
)

// keyMap translates ebiten keys to engine keys. Both shift keys map to
// KeyShift and both enters to KeyEnter.
var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyQ: input.KeyQ, ebiten.KeyW: input.KeyW, ebiten.KeyE: input.KeyE,
	ebiten.KeyR: input.KeyR, ebiten.KeyT: input.KeyT, ebiten.KeyY: input.KeyY,
	ebiten.KeyU: input.KeyU, ebiten.KeyI: input.KeyI, ebiten.KeyO: input.KeyO,
	ebiten.KeyP: input.KeyP, ebiten.KeyA: input.KeyA, ebiten.KeyS: input.KeyS,
	ebiten.KeyD: input.KeyD, ebiten.KeyF: input.KeyF, ebiten.KeyG: input.KeyG,
	ebiten.KeyH: input.KeyH, ebiten.KeyJ: input.KeyJ, ebiten.KeyK: input.KeyK,
	ebiten.KeyL: input.KeyL, ebiten.KeyZ: input.KeyZ, ebiten.KeyX: input.KeyX,
	ebiten.KeyC: input.KeyC, ebiten.KeyV: input.KeyV, ebiten.KeyB: input.KeyB,
	ebiten.KeyN: input.KeyN, ebiten.KeyM: input.KeyM,

	ebiten.KeyArrowUp:    input.KeyUp,
	ebiten.KeyArrowDown:  input.KeyDown,
	ebiten.KeyArrowLeft:  input.KeyLeft,
	ebiten.KeyArrowRight: input.KeyRight,

	ebiten.KeyShiftLeft:   input.KeyShift,
	ebiten.KeyShiftRight:  input.KeyShift,
	ebiten.KeySpace:       input.KeySpacebar,
	ebiten.KeyEnter:       input.KeyEnter,
	ebiten.KeyNumpadEnter: input.KeyEnter,
}

func toEngineKey(k ebiten.Key) (input.Key, bool) {
	ek, ok := keyMap[k]
	return ek, ok
}

// pollKeys queues this frame's key edges into the engine keyboard. The
// engine applies them at the start of the next Tick.
func (r *Runner) pollKeys() {
	keys := r.game.Keys()
	if !ebiten.IsFocused() {
		keys.Clear()
		return
	}
	r.keyBuf = inpututil.AppendJustPressedKeys(r.keyBuf[:0])
	for _, k := range r.keyBuf {
		if ek, ok := toEngineKey(k); ok {
			keys.Press(ek)
		}
	}
	r.keyBuf = inpututil.AppendJustReleasedKeys(r.keyBuf[:0])
	for _, k := range r.keyBuf {
		if ek, ok := toEngineKey(k); ok {
			keys.Release(ek)
		}
	}
}
