// Tests for ChannelPublisher delivery.
package production

import (
	"sync"
	"testing"
	"time"

	"github.com/comalice/reflexpong"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan TransitionEvent, 10)
	p := NewChannelPublisher(ch)
	stamp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return stamp }

	p.OnTransition(reflexpong.WaitPressP1, reflexpong.GoToP2, reflexpong.Controllers{PassCount: 2})

	select {
	case got := <-ch:
		if got.From != reflexpong.WaitPressP1 || got.To != reflexpong.GoToP2 {
			t.Errorf("transition = %s -> %s", got.From, got.To)
		}
		if got.Controllers.PassCount != 2 || !got.Timestamp.Equal(stamp) {
			t.Errorf("event = %+v", got)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No event delivered")
	}
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan TransitionEvent, 1)
	p := NewChannelPublisher(ch)
	ch <- TransitionEvent{} // Fill buffer

	p.OnTransition(reflexpong.Start, reflexpong.WaitPressP1, reflexpong.Controllers{})
	if p.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", p.Dropped())
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// Engines on several goroutines may share one publisher; the drop count
// stays exact and Dropped can be read while they run.
func TestChannelPublisher_ConcurrentDrops(t *testing.T) {
	ch := make(chan TransitionEvent, 4)
	p := NewChannelPublisher(ch)

	const workers, perWorker = 8, 100
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				p.OnTransition(reflexpong.GoToP1, reflexpong.ReflexP1, reflexpong.Controllers{})
				_ = p.Dropped()
			}
		}()
	}
	wg.Wait()

	if got, want := p.Dropped(), uint64(workers*perWorker-cap(ch)); got != want {
		t.Fatalf("dropped = %d, want %d", got, want)
	}
	if len(ch) != cap(ch) {
		t.Fatalf("delivered = %d, want %d", len(ch), cap(ch))
	}
}
