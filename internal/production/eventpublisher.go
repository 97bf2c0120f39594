package production

import (
	"sync/atomic"
	"time"

	"github.com/comalice/reflexpong"
)

// TransitionEvent is one engine transition.
type TransitionEvent struct {
	From        reflexpong.State
	To          reflexpong.State
	Controllers reflexpong.Controllers
	Timestamp   time.Time
}

// ChannelPublisher forwards transitions to a Go channel. It implements
// reflexpong.Observer. Publishing never blocks the engine: when the channel
// is full the event is dropped and counted.
type ChannelPublisher struct {
	ch      chan<- TransitionEvent
	dropped atomic.Uint64
	now     func() time.Time
}

var _ reflexpong.Observer = (*ChannelPublisher)(nil)

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- TransitionEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch, now: time.Now}
}

func (p *ChannelPublisher) OnTransition(from, to reflexpong.State, c reflexpong.Controllers) {
	select {
	case p.ch <- TransitionEvent{From: from, To: to, Controllers: c, Timestamp: p.now()}:
	default:
		p.dropped.Add(1) // Non-blocking drop
	}
}

// Dropped returns how many events were dropped so far.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
