package input

// Snapshot is the read-only view of the keyboard for one tick.
type Snapshot interface {
	Down(k Key) bool
	JustDown(k Key) bool
	JustUp(k Key) bool
}

type keyEvent struct {
	key  Key
	down bool
}

// KeyboardState accumulates key events between ticks and exposes the
// per-tick down / just-down / just-up flags after Update.
type KeyboardState struct {
	down     [keyCount]bool
	justDown [keyCount]bool
	justUp   [keyCount]bool

	queued []keyEvent
}

// NewKeyboardState returns a state with every key up.
func NewKeyboardState() *KeyboardState {
	return &KeyboardState{}
}

// Press queues a key-down event for the next Update.
func (ks *KeyboardState) Press(k Key) {
	if !k.Valid() {
		return
	}
	ks.queued = append(ks.queued, keyEvent{key: k, down: true})
}

// Release queues a key-up event for the next Update.
func (ks *KeyboardState) Release(k Key) {
	if !k.Valid() {
		return
	}
	ks.queued = append(ks.queued, keyEvent{key: k, down: false})
}

// Update clears the edge flags and applies queued events in arrival order.
// A key is just-down only on an up-to-down transition and just-up only on a
// down-to-up transition, so key repeat does not retrigger.
func (ks *KeyboardState) Update() {
	ks.justDown = [keyCount]bool{}
	ks.justUp = [keyCount]bool{}

	for _, ev := range ks.queued {
		if ev.down {
			if !ks.down[ev.key] {
				ks.justDown[ev.key] = true
			}
			ks.down[ev.key] = true
		} else {
			if ks.down[ev.key] {
				ks.justUp[ev.key] = true
			}
			ks.down[ev.key] = false
		}
	}
	ks.queued = ks.queued[:0]
}

// Clear forgets every key and pending event, e.g. when the window loses focus.
func (ks *KeyboardState) Clear() {
	ks.down = [keyCount]bool{}
	ks.justDown = [keyCount]bool{}
	ks.justUp = [keyCount]bool{}
	ks.queued = ks.queued[:0]
}

func (ks *KeyboardState) Down(k Key) bool     { return k.Valid() && ks.down[k] }
func (ks *KeyboardState) JustDown(k Key) bool { return k.Valid() && ks.justDown[k] }
func (ks *KeyboardState) JustUp(k Key) bool   { return k.Valid() && ks.justUp[k] }

// Pending is the number of events waiting for the next Update.
func (ks *KeyboardState) Pending() int {
	return len(ks.queued)
}
