package engine

// Mode gates which entities update. The set is open: games may declare
// their own modes next to these.
type Mode string

const (
	ModeNormal Mode = "Normal"
	ModeDialog Mode = "Dialog"
	ModeMenu   Mode = "Menu"
)

func (m Mode) String() string { return string(m) }
