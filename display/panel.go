// Package display drives a row of seven-segment cells: raw patterns, short
// text messages, and a blink renderer stepped by the tick dispatcher.
package display

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"
)

// MaxMessage is the longest text ShowText accepts.
const MaxMessage = 4

var (
	ErrMessageTooLong = errors.New("message too long")
	ErrCellOutOfRange = errors.New("cell index out of range")
	ErrNoDriver       = errors.New("segment driver is required")
)

// Driver writes one segment pattern to one cell (SPI, I2C...).
type Driver interface {
	Cells() int
	WriteCell(cell int, pattern uint8) error
}

// Panel validates and encodes writes before handing them to the driver. It is
// safe to share between the game loop and the tick context.
type Panel struct {
	mu  sync.Mutex
	drv Driver
}

// NewPanel wraps drv.
func NewPanel(drv Driver) *Panel {
	return &Panel{drv: drv}
}

// Init initializes the driver when it supports it and blanks every cell.
func (p *Panel) Init() error {
	if p.drv == nil {
		return ErrNoDriver
	}
	if initer, ok := p.drv.(interface{ Init() error }); ok {
		if err := initer.Init(); err != nil {
			return err
		}
	}
	return p.Erase()
}

// Cells returns the number of cells.
func (p *Panel) Cells() int {
	return p.drv.Cells()
}

// Erase blanks every cell.
func (p *Panel) Erase() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eraseLocked()
}

// ShowRaw writes a pattern to one cell. Valid cells are 0..Cells()-1.
func (p *Panel) ShowRaw(cell int, pattern uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeLocked(cell, pattern)
}

// ShowText erases the panel and writes msg left-aligned, one rune per cell.
func (p *Panel) ShowText(msg string) error {
	if err := ValidateMessage(msg); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.eraseLocked(); err != nil {
		return err
	}
	cell := 0
	for _, r := range msg {
		if cell >= p.drv.Cells() {
			break
		}
		if pattern := Encode(r); pattern != Blank {
			if err := p.writeLocked(cell, pattern); err != nil {
				return err
			}
		}
		cell++
	}
	return nil
}

// ValidateMessage rejects text that does not fit on the panel.
func ValidateMessage(msg string) error {
	if n := utf8.RuneCountInString(msg); n > MaxMessage {
		return fmt.Errorf("%q has %d characters, max %d: %w", msg, n, MaxMessage, ErrMessageTooLong)
	}
	return nil
}

func (p *Panel) eraseLocked() error {
	for i := 0; i < p.drv.Cells(); i++ {
		if err := p.drv.WriteCell(i, Blank); err != nil {
			return err
		}
	}
	return nil
}

func (p *Panel) writeLocked(cell int, pattern uint8) error {
	if cell < 0 || cell >= p.drv.Cells() {
		return fmt.Errorf("cell %d of %d: %w", cell, p.drv.Cells(), ErrCellOutOfRange)
	}
	return p.drv.WriteCell(cell, pattern)
}
