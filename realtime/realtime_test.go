package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/comalice/reflexpong"
	"github.com/comalice/reflexpong/dispatch"
	"github.com/comalice/reflexpong/display"
	"github.com/comalice/reflexpong/ledrow"
	"github.com/comalice/reflexpong/music"
	"github.com/comalice/reflexpong/testutil"
)

// fakeEngine records the press counters seen by each tick.
type fakeEngine struct {
	mu      sync.Mutex
	latch   *reflexpong.Latch
	ticks   int
	panicAt int
	err     error
	seen    []uint32
}

func (e *fakeEngine) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ticks++
	if e.ticks == e.panicAt {
		panic("boom")
	}
	e.seen = append(e.seen, e.latch.PressCount(reflexpong.Player1))
	return e.err
}

func (e *fakeEngine) Snapshot() reflexpong.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return reflexpong.Snapshot{Controllers: reflexpong.Controllers{ExecutionCount: uint32(e.ticks)}}
}

func (e *fakeEngine) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSortEdges(t *testing.T) {
	edges := []Edge{
		{Player: reflexpong.Player1, SequenceNum: 0},
		{Player: reflexpong.Player2, SequenceNum: 1, Priority: 2},
		{Player: reflexpong.Player1, SequenceNum: 2},
		{Player: reflexpong.Player2, SequenceNum: 3, Priority: 2},
	}
	sortEdges(edges)
	want := []uint64{1, 3, 0, 2}
	for i, e := range edges {
		if e.SequenceNum != want[i] {
			t.Fatalf("order = %v, want sequence %v", edges, want)
		}
	}
}

func TestPressQueueFull(t *testing.T) {
	rt := NewRuntime(&fakeEngine{}, &reflexpong.Latch{}, nil, nil, Config{MaxEdgesPerWake: 2})
	if err := rt.Press(reflexpong.Player1); err != nil {
		t.Fatalf("Press: %v", err)
	}
	if err := rt.Press(reflexpong.Player2); err != nil {
		t.Fatalf("Press: %v", err)
	}
	if err := rt.Press(reflexpong.Player1); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
}

func TestWakeDeliversEdgesBeforeTicks(t *testing.T) {
	latch := &reflexpong.Latch{}
	eng := &fakeEngine{latch: latch}
	rt := NewRuntime(eng, latch, nil, nil, Config{TicksPerWake: 3})

	_ = rt.Press(reflexpong.Player1)
	_ = rt.Press(reflexpong.Player1)
	rt.processWake()

	if rt.Ticks() != 3 {
		t.Fatalf("ticks = %d, want 3", rt.Ticks())
	}
	for i, n := range eng.seen {
		if n != 2 {
			t.Fatalf("tick %d saw %d presses, want 2", i, n)
		}
	}

	rt.processWake()
	if latch.PressCount(reflexpong.Player1) != 2 {
		t.Fatal("edges delivered twice")
	}
}

func TestWakeStopsOnTickError(t *testing.T) {
	eng := &fakeEngine{latch: &reflexpong.Latch{}, err: reflexpong.ErrNotInitialized}
	rt := NewRuntime(eng, eng.latch, nil, nil, Config{TicksPerWake: 5})
	rt.SetLogger(quiet())
	rt.processWake()
	if eng.count() != 1 || rt.Ticks() != 0 {
		t.Fatalf("engine ticks = %d, runtime ticks = %d", eng.count(), rt.Ticks())
	}
}

func TestRuntimeRecoversPanics(t *testing.T) {
	eng := &fakeEngine{latch: &reflexpong.Latch{}, panicAt: 3}
	rt := NewRuntime(eng, eng.latch, nil, nil, Config{
		LoopInterval: time.Millisecond,
		TicksPerWake: 5,
	})
	rt.SetLogger(quiet())
	if err := rt.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer rt.Stop()

	waitFor(t, "ticks after panic", func() bool { return eng.count() > 20 })
	if err := rt.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("err = %v, want ErrAlreadyStarted", err)
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer(100 * time.Microsecond)
	timer.ConfigurePeriod(9)
	if timer.Interval() != time.Millisecond {
		t.Fatalf("interval = %v, want 1ms", timer.Interval())
	}

	var mu sync.Mutex
	calls := 0
	timer.SetLogger(quiet())
	ctx, cancel := context.WithCancel(context.Background())
	timer.Start(ctx, func() {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 2 {
			panic("handler")
		}
	})

	waitFor(t, "timer fires", func() bool { return timer.Fired() >= 5 })
	timer.ConfigurePeriod(0)
	if timer.Period() != 0 || timer.Interval() != 100*time.Microsecond {
		t.Fatalf("period = %d interval = %v", timer.Period(), timer.Interval())
	}
	cancel()
	timer.Wait()
}

// End to end: the intro plays out on the host clocks and a queued serve
// reaches the engine.
func TestRuntimeDrivesEngine(t *testing.T) {
	lib, err := music.DefaultLibrary()
	if err != nil {
		t.Fatalf("DefaultLibrary: %v", err)
	}
	panel := display.NewPanel(testutil.NewSegments(4))
	stepper := music.NewStepper(lib, &testutil.Buzzer{})
	blink := display.NewBlinker(panel)
	timer := NewTimer(time.Microsecond)
	disp := dispatch.New(timer, map[dispatch.Slot]dispatch.Binding{
		dispatch.Tune:  {Renderer: stepper, Period: dispatch.TunePeriod},
		dispatch.Blink: {Renderer: blink, Period: dispatch.BlinkPeriod},
	})
	latch := &reflexpong.Latch{}
	var (
		mu     sync.Mutex
		served bool
	)
	observer := reflexpong.ObserverFunc(func(from, to reflexpong.State, _ reflexpong.Controllers) {
		mu.Lock()
		defer mu.Unlock()
		served = served || (from == reflexpong.WaitPressP1 && to == reflexpong.GoToP2)
	})
	engine, err := reflexpong.New(reflexpong.Hardware{
		Display: panel,
		LEDs:    ledrow.New(testutil.NewPins(reflexpong.LEDCount)),
		Music:   stepper,
		Blink:   blink,
		Timer:   disp,
		Buttons: latch,
	}, reflexpong.WithLogger(quiet()), reflexpong.WithObserver(observer))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := engine.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	rt := NewRuntime(engine, latch, timer, disp, Config{
		LoopInterval: time.Millisecond,
		TicksPerWake: 50000,
	})
	rt.SetLogger(quiet())
	if err := rt.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer rt.Stop()

	waitFor(t, "WaitPressP1", func() bool { return rt.Snapshot().State == reflexpong.WaitPressP1 })
	if err := rt.Press(reflexpong.Player1); err != nil {
		t.Fatalf("Press: %v", err)
	}
	waitFor(t, "serve", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return served
	})
	if timer.Fired() == 0 {
		t.Fatal("timer never fired")
	}
}
