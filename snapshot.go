package reflexpong

// Snapshot is a point-in-time copy of the engine, suitable for YAML or JSON
// encoding.
type Snapshot struct {
	State       State       `yaml:"state" json:"state"`
	Initialized bool        `yaml:"initialized" json:"initialized"`
	Controllers Controllers `yaml:"controllers" json:"controllers"`
	PressP1     uint32      `yaml:"press_p1" json:"press_p1"`
	PressP2     uint32      `yaml:"press_p2" json:"press_p2"`
}

// Snapshot captures the engine. Like Tick, it must be called from the
// goroutine that owns the engine.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:       e.state,
		Initialized: e.initialized,
		Controllers: e.ctl,
		PressP1:     e.presses(Player1),
		PressP2:     e.presses(Player2),
	}
}
