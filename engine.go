// Package reflexpong is the control core of a two-player reflex game: a ball
// runs along an LED strip, scores show on a seven-segment panel, a buzzer
// plays tunes and two buttons provide input.
//
// The Engine is a tick-driven state machine. Each Tick runs the active
// state's behavior once, counts it, then consults the transition table. A
// state does its one-time setup when its execution count is zero, so every
// transition re-initializes the state it enters.
package reflexpong

import (
	"fmt"
	"log/slog"
)

// Observer is notified after every transition, from the goroutine calling
// Tick.
type Observer interface {
	OnTransition(from, to State, c Controllers)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(from, to State, c Controllers)

func (f ObserverFunc) OnTransition(from, to State, c Controllers) { f(from, to, c) }

// Engine owns the game state. It is not safe for concurrent use: one
// goroutine calls Init and Tick, while the tick source and the buttons reach
// the engine only through Hardware.Timer's renderers and Hardware.Buttons.
type Engine struct {
	hw          Hardware
	state       State
	ctl         Controllers
	scr         scratch
	initialized bool
	logger      *slog.Logger
	observers   []Observer
	banners     [2][]uint8
}

// New validates hw and returns an uninitialized engine.
func New(hw Hardware, opts ...Option) (*Engine, error) {
	if err := hw.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		hw:     hw,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.banners[0] = encodeBanner(Player1)
	e.banners[1] = encodeBanner(Player2)
	return e, nil
}

// Init initializes the display, the LED row, the music and the timer in that
// order, then enters Start. The first failure aborts and is returned wrapped
// in ErrHardwareInit; the engine then stays uninitialized.
func (e *Engine) Init() error {
	steps := []struct {
		name string
		init func() error
	}{
		{"display", e.hw.Display.Init},
		{"leds", e.hw.LEDs.Init},
		{"music", e.hw.Music.Init},
		{"timer", e.hw.Timer.Init},
	}
	for _, step := range steps {
		if err := step.init(); err != nil {
			e.logger.Error("hardware init failed", "component", step.name, "error", err)
			return fmt.Errorf("%w: %w", ErrHardwareInit, &HardwareError{Component: step.name, Err: err})
		}
	}

	e.ctl = Controllers{}
	e.initialized = true
	e.transition(Start)
	e.logger.Info("engine initialized", "state", e.state)
	return nil
}

// Tick runs the active state's behavior once, then applies at most one
// transition.
func (e *Engine) Tick() error {
	if !e.initialized {
		return ErrNotInitialized
	}
	e.run()
	e.ctl.ExecutionCount++
	if next, ok := e.next(); ok {
		e.transition(next)
	}
	return nil
}

// State returns the active state.
func (e *Engine) State() State {
	return e.state
}

// Controllers returns a copy of the extended state.
func (e *Engine) Controllers() Controllers {
	return e.ctl
}

// Initialized reports whether Init succeeded.
func (e *Engine) Initialized() bool {
	return e.initialized
}

// transition installs next and resets everything a state entry relies on.
// Stopping the timer comes last so no renderer of the previous state runs
// against the new one.
func (e *Engine) transition(next State) {
	from := e.state
	e.state = next
	e.ctl.ExecutionCount = 0
	e.ctl.Animation = Running
	e.scr = scratch{}
	e.hw.Buttons.ResetPressCount(Player1)
	e.hw.Buttons.ResetPressCount(Player2)
	e.hw.Timer.Stop()

	e.logger.Debug("transition", "from", from, "to", next)
	for _, o := range e.observers {
		o.OnTransition(from, next, e.ctl)
	}
}

func (e *Engine) presses(p Player) uint32 {
	return e.hw.Buttons.PressCount(p)
}

// absorb logs a peripheral error; gameplay continues regardless.
func (e *Engine) absorb(op string, err error) {
	if err != nil {
		e.logger.Warn("peripheral error", "state", e.state, "op", op, "error", err)
	}
}
