package reflexpong

import (
	"fmt"
	"sync/atomic"
)

// Player identifies a button.
type Player uint8

const (
	Player1 Player = iota
	Player2
)

func (p Player) String() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	default:
		return fmt.Sprintf("Player(%d)", uint8(p))
	}
}

// Latch counts button edges. Press is called from the button context and
// only ever increments; the engine reads the counters and resets them when
// it changes state.
type Latch struct {
	presses [2]atomic.Uint32
}

// Press records one edge for p. Unknown players are ignored.
func (l *Latch) Press(p Player) {
	if int(p) >= len(l.presses) {
		return
	}
	l.presses[p].Add(1)
}

// PressCount returns the number of edges since the last reset.
func (l *Latch) PressCount(p Player) uint32 {
	if int(p) >= len(l.presses) {
		return 0
	}
	return l.presses[p].Load()
}

// ResetPressCount zeroes p's counter.
func (l *Latch) ResetPressCount(p Player) {
	if int(p) >= len(l.presses) {
		return
	}
	l.presses[p].Store(0)
}
