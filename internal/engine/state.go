package engine

import "github.com/Garsondee/Tile-Engine/internal/input"

// State is the per-tick view handed to behaviors and coroutines.
type State struct {
	Tick int
	Mode Mode
	Keys *input.KeyboardState

	game *Game
}

// JustPressed reports a key-down edge this tick.
func (s *State) JustPressed(k input.Key) bool { return s.Keys.JustDown(k) }

// Down reports whether k is held this tick.
func (s *State) Down(k input.Key) bool { return s.Keys.Down(k) }

func (s *State) Game() *Game { return s.game }
