// Package ledrow drives the strip of LEDs the ball travels along.
package ledrow

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrIndexOutOfRange = errors.New("led index out of range")
	ErrNoPins          = errors.New("led pins are required")
)

// Pins switches individual LEDs.
type Pins interface {
	Len() int
	Set(index int, on bool) error
}

// Row lights at most what the game asks for, one index at a time.
type Row struct {
	mu   sync.Mutex
	pins Pins
}

// New wraps pins.
func New(pins Pins) *Row {
	return &Row{pins: pins}
}

// Init initializes the pins when they support it and switches every LED off.
func (r *Row) Init() error {
	if r.pins == nil {
		return ErrNoPins
	}
	if initer, ok := r.pins.(interface{ Init() error }); ok {
		if err := initer.Init(); err != nil {
			return err
		}
	}
	return r.Clear()
}

// Len returns the number of LEDs.
func (r *Row) Len() int {
	return r.pins.Len()
}

// Clear switches every LED off.
func (r *Row) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < r.pins.Len(); i++ {
		if err := r.pins.Set(i, false); err != nil {
			return fmt.Errorf("clear led %d: %w", i, err)
		}
	}
	return nil
}

// Light switches one LED on. Valid indexes are 0..Len()-1; other LEDs are
// left as they are.
func (r *Row) Light(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= r.pins.Len() {
		return fmt.Errorf("led %d of %d: %w", index, r.pins.Len(), ErrIndexOutOfRange)
	}
	return r.pins.Set(index, true)
}
