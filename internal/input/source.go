// Package input turns host input into button presses.
package input

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/comalice/reflexpong"
)

// Event is one button press, or a request to quit.
type Event struct {
	Player reflexpong.Player
	Quit   bool
}

// Source is anything producing events. The channel is closed when the
// source is exhausted.
type Source interface {
	Events() <-chan Event
}

// Presser accepts button presses, usually a realtime.Runtime.
type Presser interface {
	Press(p reflexpong.Player) error
}

// ChannelSource is a Source backed by a caller-owned channel.
type ChannelSource struct {
	ch chan Event
}

// NewChannelSource wraps ch. Buffer it if senders must not block.
func NewChannelSource(ch chan Event) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Events returns the wrapped channel.
func (s *ChannelSource) Events() <-chan Event {
	return s.ch
}

// KeySource reads lines from a reader: '1' and '2' press the matching
// player's button, 'q' quits. Other characters are ignored.
type KeySource struct {
	ch chan Event
}

// NewKeySource starts reading r. Reading stops at end of input, after a quit
// key, or when ctx ends.
func NewKeySource(ctx context.Context, r io.Reader) *KeySource {
	s := &KeySource{ch: make(chan Event, 16)}
	go s.run(ctx, r)
	return s
}

func (s *KeySource) run(ctx context.Context, r io.Reader) {
	defer close(s.ch)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		for _, c := range scanner.Text() {
			var ev Event
			switch c {
			case '1':
				ev = Event{Player: reflexpong.Player1}
			case '2':
				ev = Event{Player: reflexpong.Player2}
			case 'q', 'Q':
				ev = Event{Quit: true}
			default:
				continue
			}
			select {
			case s.ch <- ev:
			case <-ctx.Done():
				return
			}
			if ev.Quit {
				return
			}
		}
	}
}

// Events returns the key event channel.
func (s *KeySource) Events() <-chan Event {
	return s.ch
}

// TickerSource presses one player's button at a fixed interval, standing in
// for a second player.
type TickerSource struct {
	ch     chan Event
	player reflexpong.Player
	ticker *time.Ticker
	stop   chan struct{}
}

// NewTickerSource starts pressing p's button every d.
func NewTickerSource(p reflexpong.Player, d time.Duration) *TickerSource {
	t := &TickerSource{
		ch:     make(chan Event, 4),
		player: p,
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TickerSource) run() {
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- Event{Player: t.player}:
			default:
				// drop if full
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

// Events returns the press channel.
func (t *TickerSource) Events() <-chan Event {
	return t.ch
}

// Stop stops the ticker and closes the channel.
func (t *TickerSource) Stop() {
	close(t.stop)
}

// Forward delivers presses from src to p until src closes or sends a quit,
// in which case it returns nil, or until ctx ends. Rejected presses are
// logged and skipped.
func Forward(ctx context.Context, src Source, p Presser, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || ev.Quit {
				return nil
			}
			if err := p.Press(ev.Player); err != nil {
				logger.Warn("press dropped", "player", ev.Player, "error", err)
			}
		}
	}
}
