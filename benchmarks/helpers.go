// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/comalice/reflexpong"
	"github.com/comalice/reflexpong/dispatch"
	"github.com/comalice/reflexpong/display"
	"github.com/comalice/reflexpong/ledrow"
	"github.com/comalice/reflexpong/music"
	"github.com/comalice/reflexpong/testutil"
	"gopkg.in/yaml.v3"
)

// Rig is an initialized engine wired to in-memory peripherals.
type Rig struct {
	Engine     *reflexpong.Engine
	Latch      *reflexpong.Latch
	Dispatcher *dispatch.Dispatcher
	Source     *testutil.TickSource
}

// NewRig builds and initializes an engine on fake hardware, logging nowhere.
func NewRig(opts ...reflexpong.Option) (*Rig, error) {
	lib, err := music.DefaultLibrary()
	if err != nil {
		return nil, err
	}
	panel := display.NewPanel(testutil.NewSegments(4))
	stepper := music.NewStepper(lib, &testutil.Buzzer{})
	blink := display.NewBlinker(panel)
	r := &Rig{
		Latch:  &reflexpong.Latch{},
		Source: &testutil.TickSource{},
	}
	r.Dispatcher = dispatch.New(r.Source, map[dispatch.Slot]dispatch.Binding{
		dispatch.Tune:  {Renderer: stepper, Period: dispatch.TunePeriod},
		dispatch.Blink: {Renderer: blink, Period: dispatch.BlinkPeriod},
	})
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	stepper.SetLogger(quiet)
	blink.SetLogger(quiet)
	r.Dispatcher.SetLogger(quiet)

	opts = append([]reflexpong.Option{reflexpong.WithLogger(quiet)}, opts...)
	r.Engine, err = reflexpong.New(reflexpong.Hardware{
		Display: panel,
		LEDs:    ledrow.New(testutil.NewPins(reflexpong.LEDCount)),
		Music:   stepper,
		Blink:   blink,
		Timer:   r.Dispatcher,
		Buttons: r.Latch,
	}, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Engine.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

// Bot presses buttons for both players. A player that returns always hits
// the ball inside the reflex window; one that does not never returns.
type Bot struct {
	Returns [2]bool
}

// Press presses whatever the current state waits for.
func (b Bot) Press(r *Rig) {
	switch r.Engine.State() {
	case reflexpong.WaitPressP1, reflexpong.P1Wins, reflexpong.P2Wins:
		r.Latch.Press(reflexpong.Player1)
	case reflexpong.WaitPressP2:
		r.Latch.Press(reflexpong.Player2)
	case reflexpong.ReflexP1:
		if b.Returns[reflexpong.Player1] {
			r.Latch.Press(reflexpong.Player1)
		}
	case reflexpong.ReflexP2:
		if b.Returns[reflexpong.Player2] {
			r.Latch.Press(reflexpong.Player2)
		}
	}
}

// Play runs n engine ticks with the bot pressing and the dispatcher firing
// every 100 ticks.
func (r *Rig) Play(b Bot, n int) error {
	for i := 0; i < n; i++ {
		b.Press(r)
		if err := r.Engine.Tick(); err != nil {
			return err
		}
		if i%100 == 0 {
			r.Dispatcher.OnTick()
		}
	}
	return nil
}

// GenSnapshotYAML plays ticks of a one-sided game and returns the final
// snapshot as YAML.
func GenSnapshotYAML(ticks int) []byte {
	r, err := NewRig()
	if err != nil {
		panic(err)
	}
	if err := r.Play(Bot{Returns: [2]bool{true, false}}, ticks); err != nil {
		panic(err)
	}
	data, err := yaml.Marshal(r.Engine.Snapshot())
	if err != nil {
		panic(fmt.Errorf("marshal snapshot: %w", err))
	}
	return data
}
