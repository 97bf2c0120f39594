// Package testutil provides recording fakes for the peripheral interfaces and
// an ordered tick/event queue for driving the game loop deterministically.
package testutil

import (
	"errors"
	"sync"
)

// ErrInjected is returned by fakes configured to fail.
var ErrInjected = errors.New("injected failure")

// TickSource records every period programmed by a dispatcher.
type TickSource struct {
	mu      sync.Mutex
	Periods []uint32
}

func (s *TickSource) ConfigurePeriod(period uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Periods = append(s.Periods, period)
}

// Last returns the most recently configured period, or 0.
func (s *TickSource) Last() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Periods) == 0 {
		return 0
	}
	return s.Periods[len(s.Periods)-1]
}

// Segments is a fake digit driver holding one pattern per cell.
type Segments struct {
	mu      sync.Mutex
	cells   []uint8
	Writes  int
	InitErr error
	FailOn  int // cell index whose writes fail; -1 disables
}

// NewSegments returns a driver with n blank cells.
func NewSegments(n int) *Segments {
	return &Segments{cells: make([]uint8, n), FailOn: -1}
}

func (s *Segments) Init() error { return s.InitErr }

func (s *Segments) Cells() int { return len(s.cells) }

func (s *Segments) WriteCell(cell int, pattern uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cell == s.FailOn {
		return ErrInjected
	}
	s.cells[cell] = pattern
	s.Writes++
	return nil
}

// Snapshot returns a copy of the cell patterns.
func (s *Segments) Snapshot() []uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint8(nil), s.cells...)
}

// Blank reports whether every cell is off.
func (s *Segments) Blank() bool {
	for _, p := range s.Snapshot() {
		if p != 0 {
			return false
		}
	}
	return true
}

// Pins is a fake LED strip.
type Pins struct {
	mu      sync.Mutex
	on      []bool
	History []int // indexes switched on, in order
	InitErr error
}

// NewPins returns a strip of n dark LEDs.
func NewPins(n int) *Pins {
	return &Pins{on: make([]bool, n)}
}

func (p *Pins) Init() error { return p.InitErr }

func (p *Pins) Len() int { return len(p.on) }

func (p *Pins) Set(index int, on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.on[index] = on
	if on {
		p.History = append(p.History, index)
	}
	return nil
}

// Lit returns the indexes currently on.
func (p *Pins) Lit() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	var lit []int
	for i, on := range p.on {
		if on {
			lit = append(lit, i)
		}
	}
	return lit
}

// Buzzer records played periods; a muted step is recorded as 0.
type Buzzer struct {
	mu      sync.Mutex
	Played  []uint16
	InitErr error
}

func (b *Buzzer) Init() error { return b.InitErr }

func (b *Buzzer) Play(period uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Played = append(b.Played, period)
	return nil
}

func (b *Buzzer) Mute() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Played = append(b.Played, 0)
	return nil
}

// Steps returns a copy of the recorded steps.
func (b *Buzzer) Steps() []uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]uint16(nil), b.Played...)
}
