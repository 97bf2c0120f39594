package realtime

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Timer is a host tick source. Its interval is (period+1)*unit, mirroring a
// hardware timer counting from 0 to its auto-reload value.
type Timer struct {
	unit      time.Duration
	period    atomic.Uint32
	reprogram chan struct{}
	fired     atomic.Uint64
	logger    *slog.Logger
	stopped   chan struct{}
}

// NewTimer returns a stopped timer. A non-positive unit defaults to 1µs.
func NewTimer(unit time.Duration) *Timer {
	if unit <= 0 {
		unit = time.Microsecond
	}
	return &Timer{
		unit:      unit,
		reprogram: make(chan struct{}, 1),
		logger:    slog.Default(),
	}
}

// SetLogger replaces the timer's logger.
func (t *Timer) SetLogger(l *slog.Logger) {
	if l != nil {
		t.logger = l
	}
}

// ConfigurePeriod reprograms the timer. It never blocks; the running loop
// picks up the latest value.
func (t *Timer) ConfigurePeriod(period uint32) {
	t.period.Store(period)
	select {
	case t.reprogram <- struct{}{}:
	default:
	}
}

// Period returns the last programmed period.
func (t *Timer) Period() uint32 {
	return t.period.Load()
}

// Interval returns the wall-clock time between two fires.
func (t *Timer) Interval() time.Duration {
	return time.Duration(uint64(t.period.Load())+1) * t.unit
}

// Fired returns how many times the handler ran.
func (t *Timer) Fired() uint64 {
	return t.fired.Load()
}

// Start fires onTick every Interval until ctx is done.
func (t *Timer) Start(ctx context.Context, onTick func()) {
	t.stopped = make(chan struct{})
	go t.run(ctx, onTick)
}

// Wait blocks until a started timer has exited.
func (t *Timer) Wait() {
	if t.stopped != nil {
		<-t.stopped
	}
}

func (t *Timer) run(ctx context.Context, onTick func()) {
	defer close(t.stopped)

	ticker := time.NewTicker(t.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.reprogram:
			ticker.Reset(t.Interval())
		case <-ticker.C:
			t.fire(onTick)
		}
	}
}

func (t *Timer) fire(onTick func()) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("recovered panic in timer handler", "panic", r)
		}
	}()
	onTick()
	t.fired.Add(1)
}
