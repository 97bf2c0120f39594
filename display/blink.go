package display

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"
)

// TextDisplay is the part of Panel the blinker needs.
type TextDisplay interface {
	Erase() error
	ShowText(msg string) error
	ShowRaw(cell int, pattern uint8) error
}

// BlinkMode selects how the blinker renders its message.
type BlinkMode uint8

const (
	Steady BlinkMode = iota
	Blinking
	// BlinkingDot blinks and lights the decimal point after the last
	// character while the message is shown.
	BlinkingDot
)

func (m BlinkMode) String() string {
	switch m {
	case Steady:
		return "steady"
	case Blinking:
		return "blinking"
	case BlinkingDot:
		return "blinking-dot"
	default:
		return fmt.Sprintf("BlinkMode(%d)", uint8(m))
	}
}

// ErrUnknownBlinkMode is returned by SetMessageMode for an undefined mode.
var ErrUnknownBlinkMode = errors.New("unknown blink mode")

// Blinker renders a message one step per tick: show it, then, when blinking,
// erase it on the next step, and so on. Without blinking the message is
// simply redrawn every step.
type Blinker struct {
	mu       sync.Mutex
	out      TextDisplay
	message string
	mode    BlinkMode
	shown   bool
	logger   *slog.Logger
}

// NewBlinker returns a blinker with an empty message.
func NewBlinker(out TextDisplay) *Blinker {
	return &Blinker{out: out, logger: slog.Default()}
}

// SetLogger replaces the blinker's logger.
func (b *Blinker) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = l
}

// SetMessage installs the message, blinking or steady, and restarts on its
// visible phase.
func (b *Blinker) SetMessage(msg string, blinking bool) error {
	mode := Steady
	if blinking {
		mode = Blinking
	}
	return b.SetMessageMode(msg, mode)
}

// SetMessageMode is SetMessage with an explicit mode.
func (b *Blinker) SetMessageMode(msg string, mode BlinkMode) error {
	if mode > BlinkingDot {
		return fmt.Errorf("%d: %w", uint8(mode), ErrUnknownBlinkMode)
	}
	if err := ValidateMessage(msg); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = msg
	b.mode = mode
	b.shown = false
	return nil
}

// SetBlink toggles blinking for the current message. Enabling it keeps the
// dot of a BlinkingDot message.
func (b *Blinker) SetBlink(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case !enabled:
		b.mode = Steady
	case b.mode == Steady:
		b.mode = Blinking
	}
}

// Message returns the current message and whether it blinks.
func (b *Blinker) Message() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message, b.mode != Steady
}

// Mode returns the current blink mode.
func (b *Blinker) Mode() BlinkMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// Step advances the blink by one phase.
func (b *Blinker) Step() {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.shown && b.mode != Steady {
		err = b.out.Erase()
		b.shown = false
	} else {
		err = b.show()
		b.shown = true
	}
	if err != nil {
		b.logger.Warn("blink step failed", "message", b.message, "mode", b.mode, "error", err)
	}
}

func (b *Blinker) show() error {
	if err := b.out.ShowText(b.message); err != nil {
		return err
	}
	n := utf8.RuneCountInString(b.message)
	if b.mode != BlinkingDot || n == 0 {
		return nil
	}
	last, _ := utf8.DecodeLastRuneInString(b.message)
	return b.out.ShowRaw(n-1, Encode(last)|SegDP)
}

// Visible reports whether the last step drew the message.
func (b *Blinker) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shown
}
