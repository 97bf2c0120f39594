package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/comalice/reflexpong"
)

var (
	ErrQueueFull      = errors.New("edge queue full")
	ErrAlreadyStarted = errors.New("runtime already started")
)

// Engine is the game loop body.
type Engine interface {
	Tick() error
	Snapshot() reflexpong.Snapshot
}

// Buttons receives button edges.
type Buttons interface {
	Press(p reflexpong.Player)
}

// OnTicker is called by the tick source, usually a dispatch.Dispatcher.
type OnTicker interface {
	OnTick()
}

// Config configures the host runtime.
type Config struct {
	LoopInterval    time.Duration // Main-loop wake period (default 10ms)
	TicksPerWake    int           // Engine ticks per wake (default 800)
	MaxEdgesPerWake int           // Edge queue capacity (default 64)
}

// Runtime drives an engine from a main-loop goroutine and, when a Timer is
// supplied, the renderers from the timer goroutine.
type Runtime struct {
	engine  Engine
	buttons Buttons
	timer   *Timer
	onTick  OnTicker
	cfg     Config
	logger  *slog.Logger

	// Engine access and tick count
	mu      sync.Mutex
	tickNum uint64

	// Edge batching
	batch       []Edge
	batchMu     sync.Mutex
	sequenceNum uint64

	// Control
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewRuntime creates a stopped runtime. timer and onTick may be nil when the
// renderers are driven elsewhere.
func NewRuntime(engine Engine, buttons Buttons, timer *Timer, onTick OnTicker, cfg Config) *Runtime {
	if cfg.LoopInterval <= 0 {
		cfg.LoopInterval = 10 * time.Millisecond
	}
	if cfg.TicksPerWake <= 0 {
		cfg.TicksPerWake = 800
	}
	if cfg.MaxEdgesPerWake <= 0 {
		cfg.MaxEdgesPerWake = 64
	}
	return &Runtime{
		engine:  engine,
		buttons: buttons,
		timer:   timer,
		onTick:  onTick,
		cfg:     cfg,
		logger:  slog.Default(),
		batch:   make([]Edge, 0, cfg.MaxEdgesPerWake),
	}
}

// SetLogger replaces the runtime's logger.
func (rt *Runtime) SetLogger(l *slog.Logger) {
	if l != nil {
		rt.logger = l
	}
}

// Start launches the main loop and the timer. The engine must already be
// initialized.
func (rt *Runtime) Start(ctx context.Context) error {
	if rt.stopped != nil {
		return ErrAlreadyStarted
	}
	ctx, rt.cancel = context.WithCancel(ctx)
	rt.stopped = make(chan struct{})

	if rt.timer != nil && rt.onTick != nil {
		rt.timer.Start(ctx, rt.onTick.OnTick)
	}
	go rt.loop(ctx)

	rt.logger.Info("runtime started",
		"loop_interval", rt.cfg.LoopInterval,
		"ticks_per_wake", rt.cfg.TicksPerWake)
	return nil
}

// Stop cancels the loops and waits for them to exit.
func (rt *Runtime) Stop() {
	if rt.cancel == nil {
		return
	}
	rt.cancel()
	<-rt.stopped
	if rt.timer != nil {
		rt.timer.Wait()
	}
	rt.logger.Info("runtime stopped", "ticks", rt.Ticks())
}

func (rt *Runtime) loop(ctx context.Context) {
	defer close(rt.stopped)

	ticker := time.NewTicker(rt.cfg.LoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rt.safeWake()
		}
	}
}

func (rt *Runtime) safeWake() {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("recovered panic in engine tick", "panic", r, "tick", rt.Ticks())
		}
	}()
	rt.processWake()
}

// Press queues a button edge for the next wake (thread-safe).
func (rt *Runtime) Press(p reflexpong.Player) error {
	return rt.PressWithPriority(p, 0)
}

// PressWithPriority queues an edge delivered before lower-priority edges of
// the same wake.
func (rt *Runtime) PressWithPriority(p reflexpong.Player, priority int) error {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	if len(rt.batch) >= cap(rt.batch) {
		return ErrQueueFull
	}
	rt.batch = append(rt.batch, Edge{
		Player:      p,
		SequenceNum: rt.sequenceNum,
		Priority:    priority,
	})
	rt.sequenceNum++
	return nil
}

// Ticks returns how many engine ticks have run.
func (rt *Runtime) Ticks() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.tickNum
}

// Snapshot captures the engine between ticks.
func (rt *Runtime) Snapshot() reflexpong.Snapshot {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.engine.Snapshot()
}
