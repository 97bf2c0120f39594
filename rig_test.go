package reflexpong

import (
	"io"
	"log/slog"
	"testing"

	"github.com/comalice/reflexpong/dispatch"
	"github.com/comalice/reflexpong/display"
	"github.com/comalice/reflexpong/ledrow"
	"github.com/comalice/reflexpong/music"
	"github.com/comalice/reflexpong/testutil"
)

// rig is an engine wired to the real renderers and recording fakes.
type rig struct {
	t       *testing.T
	seg     *testutil.Segments
	pins    *testutil.Pins
	bz      *testutil.Buzzer
	src     *testutil.TickSource
	panel   *display.Panel
	row     *ledrow.Row
	stepper *music.Stepper
	blink   *display.Blinker
	disp    *dispatch.Dispatcher
	latch   *Latch
	eng     *Engine
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRig(t *testing.T, opts ...Option) *rig {
	t.Helper()
	lib, err := music.DefaultLibrary()
	if err != nil {
		t.Fatalf("DefaultLibrary: %v", err)
	}
	r := &rig{
		t:     t,
		seg:   testutil.NewSegments(4),
		pins:  testutil.NewPins(LEDCount),
		bz:    &testutil.Buzzer{},
		src:   &testutil.TickSource{},
		latch: &Latch{},
	}
	r.panel = display.NewPanel(r.seg)
	r.row = ledrow.New(r.pins)
	r.stepper = music.NewStepper(lib, r.bz)
	r.blink = display.NewBlinker(r.panel)
	r.disp = dispatch.New(r.src, map[dispatch.Slot]dispatch.Binding{
		dispatch.Tune:  {Renderer: r.stepper, Period: dispatch.TunePeriod},
		dispatch.Blink: {Renderer: r.blink, Period: dispatch.BlinkPeriod},
	})

	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	r.eng, err = New(r.hardware(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func (r *rig) hardware() Hardware {
	return Hardware{
		Display: r.panel,
		LEDs:    r.row,
		Music:   r.stepper,
		Blink:   r.blink,
		Timer:   r.disp,
		Buttons: r.latch,
	}
}

func (r *rig) init() *rig {
	r.t.Helper()
	if err := r.eng.Init(); err != nil {
		r.t.Fatalf("Init: %v", err)
	}
	return r
}

// enter forces a transition into s without running its setup.
func (r *rig) enter(s State) {
	r.eng.transition(s)
}

func (r *rig) tick(n int) {
	r.t.Helper()
	for i := 0; i < n; i++ {
		if err := r.eng.Tick(); err != nil {
			r.t.Fatalf("tick %d: %v", i, err)
		}
	}
}

// tickUntil ticks until the engine reaches s and returns how many ticks it
// took. It fails after max ticks.
func (r *rig) tickUntil(s State, max int) int {
	r.t.Helper()
	for i := 1; i <= max; i++ {
		r.tick(1)
		if r.eng.State() == s {
			return i
		}
	}
	r.t.Fatalf("state %s not reached after %d ticks (in %s)", s, max, r.eng.State())
	return 0
}

func (r *rig) requireState(want State) {
	r.t.Helper()
	if got := r.eng.State(); got != want {
		r.t.Fatalf("state = %s, want %s", got, want)
	}
}

func (r *rig) text() string {
	var out []rune
	for _, p := range r.seg.Snapshot() {
		out = append(out, display.Decode(p))
	}
	return string(out)
}
