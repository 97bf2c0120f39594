package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/reflexpong"
)

const instrumentationName = "github.com/comalice/reflexpong"

// TransitionTracer records one span per state visit. A span starts when the
// engine enters a state and ends at the next transition, carrying the
// controllers as they were on leaving.
type TransitionTracer struct {
	mu      sync.Mutex
	ctx     context.Context
	tracer  trace.Tracer
	current trace.Span
}

// NewTransitionTracer returns an observer reporting to tp. Spans are children
// of any span in ctx.
func NewTransitionTracer(ctx context.Context, tp trace.TracerProvider) *TransitionTracer {
	return &TransitionTracer{
		ctx:    ctx,
		tracer: tp.Tracer(instrumentationName),
	}
}

// OnTransition implements reflexpong.Observer.
func (t *TransitionTracer) OnTransition(from, to reflexpong.State, c reflexpong.Controllers) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.endLocked(c, to.String())
	_, t.current = t.tracer.Start(t.ctx, "state "+to.String(),
		trace.WithAttributes(
			attribute.String("pong.state", to.String()),
			attribute.String("pong.from", from.String()),
			attribute.Int("pong.p1_score", int(c.P1Score)),
			attribute.Int("pong.p2_score", int(c.P2Score)),
			attribute.Int64("pong.pass_count", int64(c.PassCount)),
		),
	)
}

// Close ends the span of the current state.
func (t *TransitionTracer) Close(c reflexpong.Controllers) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.endLocked(c, "")
}

func (t *TransitionTracer) endLocked(c reflexpong.Controllers, next string) {
	if t.current == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.Int("pong.p1_score", int(c.P1Score)),
		attribute.Int("pong.p2_score", int(c.P2Score)),
		attribute.Int64("pong.pass_count", int64(c.PassCount)),
		attribute.Int64("pong.led_shift_period", int64(c.LEDShiftPeriod)),
	}
	if next != "" {
		attrs = append(attrs, attribute.String("pong.next", next))
	}
	t.current.SetAttributes(attrs...)
	t.current.End()
	t.current = nil
}
