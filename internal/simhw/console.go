// Package simhw provides terminal-backed peripherals for the host simulator:
// a seven-segment driver, an LED strip and a buzzer, all drawn on one status
// line.
package simhw

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/comalice/reflexpong/display"
	"github.com/comalice/reflexpong/music"
)

// Console is the shared frame the peripherals draw into.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	lib   *music.Library
	cells []uint8
	leds  []bool
	note  string
	dirty bool
	last  string
}

// NewConsole returns a console with the given panel and strip sizes. lib is
// used to name the notes played; it may be nil.
func NewConsole(out io.Writer, cells, leds int, lib *music.Library) *Console {
	return &Console{
		out:   out,
		lib:   lib,
		cells: make([]uint8, cells),
		leds:  make([]bool, leds),
		note:  "-",
	}
}

// Segments returns the seven-segment driver.
func (c *Console) Segments() *Segments { return &Segments{c: c} }

// Pins returns the LED strip.
func (c *Console) Pins() *Pins { return &Pins{c: c} }

// Buzzer returns the buzzer.
func (c *Console) Buzzer() *Buzzer { return &Buzzer{c: c} }

// Frame renders the current state, e.g. "[ P1 ] [*.......] C5".
func (c *Console) Frame() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameLocked()
}

func (c *Console) frameLocked() string {
	var b strings.Builder
	b.WriteString("[")
	for _, p := range c.cells {
		b.WriteRune(display.Decode(p))
	}
	b.WriteString("] [")
	for _, on := range c.leds {
		if on {
			b.WriteByte('*')
		} else {
			b.WriteByte('.')
		}
	}
	fmt.Fprintf(&b, "] %-3s", c.note)
	return b.String()
}

// Flush redraws the status line if anything changed since the last draw.
func (c *Console) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	c.dirty = false
	frame := c.frameLocked()
	if frame == c.last {
		return nil
	}
	c.last = frame
	_, err := fmt.Fprintf(c.out, "\r%s", frame)
	return err
}

// Run flushes every interval until ctx is done.
func (c *Console) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return c.Flush()
		case <-ticker.C:
			if err := c.Flush(); err != nil {
				return err
			}
		}
	}
}

func (c *Console) update(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
	c.dirty = true
}

// Segments implements display.Driver.
type Segments struct{ c *Console }

func (s *Segments) Cells() int { return len(s.c.cells) }

func (s *Segments) WriteCell(cell int, pattern uint8) error {
	if cell < 0 || cell >= len(s.c.cells) {
		return fmt.Errorf("cell %d: %w", cell, display.ErrCellOutOfRange)
	}
	s.c.update(func() { s.c.cells[cell] = pattern })
	return nil
}

// Pins implements ledrow.Pins.
type Pins struct{ c *Console }

func (p *Pins) Len() int { return len(p.c.leds) }

func (p *Pins) Set(index int, on bool) error {
	if index < 0 || index >= len(p.c.leds) {
		return fmt.Errorf("led %d out of range", index)
	}
	p.c.update(func() { p.c.leds[index] = on })
	return nil
}

// Buzzer implements music.Buzzer by showing the note name.
type Buzzer struct{ c *Console }

func (b *Buzzer) Play(period uint16) error {
	name := fmt.Sprintf("%d", period)
	if b.c.lib != nil {
		if n, ok := b.c.lib.NoteByPeriod(period); ok {
			name = n.Name
		}
	}
	b.c.update(func() { b.c.note = name })
	return nil
}

func (b *Buzzer) Mute() error {
	b.c.update(func() { b.c.note = music.Rest })
	return nil
}
