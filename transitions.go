package reflexpong

// transitionRow is one guarded edge. Rows of a state are evaluated in table
// order and the first satisfied guard wins.
type transitionRow struct {
	from  State
	to    State
	label string
	guard func(e *Engine) bool
}

var transitionTable = []transitionRow{
	{Start, WaitPressP1, "intro ended", func(e *Engine) bool {
		return e.ctl.Animation == Ended
	}},

	{WaitPressP1, GoToP2, "P1 serves", func(e *Engine) bool {
		return e.presses(Player1) >= 1
	}},
	{WaitPressP2, GoToP1, "P2 serves", func(e *Engine) bool {
		return e.presses(Player2) >= 1
	}},

	{GoToP1, ScoreP2, "P1 early", func(e *Engine) bool {
		return e.presses(Player1) >= 1 && e.ctl.LEDIndex < 7
	}},
	{GoToP1, ReflexP1, "border P1", func(e *Engine) bool {
		return e.ctl.LEDIndex > 7
	}},
	{GoToP2, ScoreP1, "P2 early", func(e *Engine) bool {
		return e.presses(Player2) >= 1 && e.ctl.LEDIndex > 0
	}},
	{GoToP2, ReflexP2, "border P2", func(e *Engine) bool {
		return e.ctl.LEDIndex < 0
	}},

	{ReflexP1, GoToP2, "P1 returns", func(e *Engine) bool {
		return e.ctl.ExecutionCount == e.ctl.LEDShiftPeriod && e.presses(Player1) >= 1
	}},
	{ReflexP1, ScoreP2, "P1 misses", func(e *Engine) bool {
		return e.ctl.ExecutionCount == e.ctl.LEDShiftPeriod
	}},
	{ReflexP2, GoToP1, "P2 returns", func(e *Engine) bool {
		return e.ctl.ExecutionCount == e.ctl.LEDShiftPeriod && e.presses(Player2) >= 1
	}},
	{ReflexP2, ScoreP1, "P2 misses", func(e *Engine) bool {
		return e.ctl.ExecutionCount == e.ctl.LEDShiftPeriod
	}},

	{ScoreP1, P1Wins, "P1 reaches max", func(e *Engine) bool {
		return e.ctl.ExecutionCount == ScoreDisplayTicks && e.ctl.P1Score >= MaxScore
	}},
	{ScoreP1, WaitPressP2, "score shown", func(e *Engine) bool {
		return e.ctl.ExecutionCount == ScoreDisplayTicks
	}},
	{ScoreP2, P2Wins, "P2 reaches max", func(e *Engine) bool {
		return e.ctl.ExecutionCount == ScoreDisplayTicks && e.ctl.P2Score >= MaxScore
	}},
	{ScoreP2, WaitPressP1, "score shown", func(e *Engine) bool {
		return e.ctl.ExecutionCount == ScoreDisplayTicks
	}},

	{P1Wins, WaitPressP2, "any press", func(e *Engine) bool {
		return e.presses(Player1) >= 1 || e.presses(Player2) >= 1
	}},
	{P2Wins, WaitPressP1, "any press", func(e *Engine) bool {
		return e.presses(Player1) >= 1 || e.presses(Player2) >= 1
	}},
}

// next returns the state to enter after this tick, if any. An unknown state
// always falls back to Start.
func (e *Engine) next() (State, bool) {
	if !e.state.Valid() {
		return Start, true
	}
	for _, row := range transitionTable {
		if row.from == e.state && row.guard(e) {
			return row.to, true
		}
	}
	return 0, false
}

// Edge describes one row of the transition table.
type Edge struct {
	From  State
	To    State
	Label string
}

// Edges returns the transition table in evaluation order.
func Edges() []Edge {
	out := make([]Edge, len(transitionTable))
	for i, row := range transitionTable {
		out[i] = Edge{From: row.from, To: row.to, Label: row.label}
	}
	return out
}
