package benchmarks

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/comalice/reflexpong"
	"github.com/comalice/reflexpong/realtime"
)

// BenchmarkRuntimePress measures presses accepted by a running runtime from
// many goroutines, reporting how many were dropped on a full edge queue.
func BenchmarkRuntimePress(b *testing.B) {
	r := newRig(b)
	rt := realtime.NewRuntime(r.Engine, r.Latch, nil, nil, realtime.Config{
		LoopInterval: time.Millisecond,
		TicksPerWake: 100,
	})
	rt.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := rt.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	defer rt.Stop()

	var dropped int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		p := reflexpong.Player1
		for pb.Next() {
			if err := rt.Press(p); err != nil {
				atomic.AddInt64(&dropped, 1)
			}
			p ^= 1
		}
	})
	b.StopTimer()
	b.ReportMetric(float64(atomic.LoadInt64(&dropped))/float64(b.N)*100, "%dropped")
}

// BenchmarkRuntimeWake measures wall time for a fixed number of engine ticks
// driven through the main loop.
func BenchmarkRuntimeWake(b *testing.B) {
	const ticksPerWake = 800
	r := newRig(b)
	rt := realtime.NewRuntime(r.Engine, r.Latch, nil, nil, realtime.Config{
		LoopInterval: 100 * time.Microsecond,
		TicksPerWake: ticksPerWake,
	})
	rt.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	target := uint64(b.N) * ticksPerWake
	b.ResetTimer()
	if err := rt.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	for rt.Ticks() < target {
		time.Sleep(50 * time.Microsecond)
	}
	rt.Stop()
	b.StopTimer()
	b.ReportMetric(float64(rt.Ticks())/b.Elapsed().Seconds(), "ticks/s")
}
