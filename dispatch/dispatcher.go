// Package dispatch multiplexes a single periodic tick source between the
// renderers that need it (tune stepping, display blinking).
//
// Exactly one renderer is armed at a time. The tick source calls OnTick from
// its own context; the game loop arms, starts and stops the dispatcher. Stop
// waits for an OnTick already in progress, so once it returns no renderer
// runs until the next Start.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Slot identifies a renderer binding.
type Slot uint8

const (
	None Slot = iota
	Tune
	Blink
)

func (s Slot) String() string {
	switch s {
	case None:
		return "none"
	case Tune:
		return "tune"
	case Blink:
		return "blink"
	default:
		return fmt.Sprintf("slot(%d)", uint8(s))
	}
}

// Tick source periods, in tick-source units.
const (
	IdlePeriod  uint32 = 100
	TunePeriod  uint32 = 69
	BlinkPeriod uint32 = 499
)

var (
	ErrUnknownSlot = errors.New("unknown renderer slot")
	ErrNoSource    = errors.New("tick source is required")
)

// Renderer advances one step per tick.
type Renderer interface {
	Step()
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func()

func (f RendererFunc) Step() { f() }

// TickSource is the periodic interrupt driving OnTick.
type TickSource interface {
	ConfigurePeriod(period uint32)
}

// Binding ties a renderer to the period it needs.
type Binding struct {
	Renderer Renderer
	Period   uint32
}

// Dispatcher owns the armed renderer and the running flag.
type Dispatcher struct {
	mu       sync.Mutex
	source   TickSource
	bindings map[Slot]Binding
	armed    Slot
	running  bool
	period   uint32
	fired    uint64
	logger   *slog.Logger
}

// New creates a stopped dispatcher with nothing armed.
func New(source TickSource, bindings map[Slot]Binding) *Dispatcher {
	b := make(map[Slot]Binding, len(bindings))
	for slot, binding := range bindings {
		if slot == None || binding.Renderer == nil {
			continue
		}
		b[slot] = binding
	}
	return &Dispatcher{
		source:   source,
		bindings: b,
		logger:   slog.Default(),
	}
}

// SetLogger replaces the dispatcher's logger.
func (d *Dispatcher) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = l
}

// Init stops the dispatcher, disarms it and programs the idle period.
func (d *Dispatcher) Init() error {
	if d.source == nil {
		return ErrNoSource
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
	d.armed = None
	d.period = IdlePeriod
	d.source.ConfigurePeriod(IdlePeriod)
	return nil
}

// Arm selects the renderer invoked on the following ticks and programs its
// period. The previously armed renderer is dropped.
func (d *Dispatcher) Arm(slot Slot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	binding, ok := d.bindings[slot]
	if !ok {
		return fmt.Errorf("arm %s: %w", slot, ErrUnknownSlot)
	}
	d.armed = slot
	d.period = binding.Period
	if d.source != nil {
		d.source.ConfigurePeriod(binding.Period)
	}
	d.logger.Debug("dispatcher armed", "slot", slot, "period", binding.Period)
	return nil
}

// Start lets OnTick invoke the armed renderer.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = true
}

// Stop blocks until any in-flight OnTick returns, then disables dispatch.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
}

// OnTick is called by the tick source. It invokes the armed renderer once
// when running, and does nothing otherwise.
func (d *Dispatcher) OnTick() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	binding, ok := d.bindings[d.armed]
	if !ok {
		return
	}
	d.fired++
	binding.Renderer.Step()
}

// Running reports whether the dispatcher is started.
func (d *Dispatcher) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Armed returns the currently armed slot.
func (d *Dispatcher) Armed() Slot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Period returns the period programmed on the tick source.
func (d *Dispatcher) Period() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.period
}

// Fired returns how many renderer steps have been dispatched.
func (d *Dispatcher) Fired() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fired
}
