// Package input holds the polled keyboard snapshot consumed by entity
// updates and coroutines. Front ends feed it press/release events; the game
// loop folds them in once per tick.
package input

import "fmt"

// Key is one of the fixed set of keys the engine tracks.
type Key uint8

const (
	KeyQ Key = iota
	KeyW
	KeyE
	KeyR
	KeyT
	KeyY
	KeyU
	KeyI
	KeyO
	KeyP
	KeyA
	KeyS
	KeyD
	KeyF
	KeyG
	KeyH
	KeyJ
	KeyK
	KeyL
	KeyZ
	KeyX
	KeyC
	KeyV
	KeyB
	KeyN
	KeyM
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyShift
	KeySpacebar
	KeyEnter

	keyCount
)

var keyNames = [keyCount]string{
	KeyQ: "Q", KeyW: "W", KeyE: "E", KeyR: "R", KeyT: "T", KeyY: "Y", KeyU: "U",
	KeyI: "I", KeyO: "O", KeyP: "P", KeyA: "A", KeyS: "S", KeyD: "D", KeyF: "F",
	KeyG: "G", KeyH: "H", KeyJ: "J", KeyK: "K", KeyL: "L", KeyZ: "Z", KeyX: "X",
	KeyC: "C", KeyV: "V", KeyB: "B", KeyN: "N", KeyM: "M",
	KeyUp:       "Up",
	KeyDown:     "Down",
	KeyLeft:     "Left",
	KeyRight:    "Right",
	KeyShift:    "Shift",
	KeySpacebar: "Spacebar",
	KeyEnter:    "Enter",
}

// AllKeys lists every tracked key in declaration order.
func AllKeys() []Key {
	out := make([]Key, keyCount)
	for i := range out {
		out[i] = Key(i)
	}
	return out
}

func (k Key) String() string {
	if k >= keyCount {
		return fmt.Sprintf("Key(%d)", k)
	}
	return keyNames[k]
}

// Valid reports whether k is one of the tracked keys.
func (k Key) Valid() bool {
	return k < keyCount
}

// ParseKey maps a key name ("W", "Spacebar", "Left") back to its Key.
func ParseKey(name string) (Key, error) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("input: unknown key %q", name)
}

// LetterKey maps 'a'-'z' / 'A'-'Z' to the matching letter key.
func LetterKey(r rune) (Key, bool) {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r < 'A' || r > 'Z' {
		return 0, false
	}
	k, err := ParseKey(string(r))
	if err != nil {
		return 0, false
	}
	return k, true
}
