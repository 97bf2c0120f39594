package music

import (
	"log/slog"
	"sync"
)

// Buzzer is the PWM output driven by the stepper.
type Buzzer interface {
	Play(period uint16) error
	Mute() error
}

// Stepper plays the selected tune one token per Step. It is meant to be
// armed on a dispatcher slot; SetTune is called from the game loop while
// Step runs from the tick context.
type Stepper struct {
	mu      sync.Mutex
	lib     *Library
	buzzer  Buzzer
	tune    TuneID
	index   int
	playing bool
	logger  *slog.Logger
}

// NewStepper returns an idle stepper.
func NewStepper(lib *Library, buzzer Buzzer) *Stepper {
	return &Stepper{lib: lib, buzzer: buzzer, logger: slog.Default()}
}

// SetLogger replaces the stepper's logger.
func (s *Stepper) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Init mutes the buzzer and leaves the stepper idle.
func (s *Stepper) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.index = 0
	if initer, ok := s.buzzer.(interface{ Init() error }); ok {
		if err := initer.Init(); err != nil {
			return err
		}
	}
	return s.buzzer.Mute()
}

// SetTune selects a tune and restarts it from the first token.
func (s *Stepper) SetTune(id TuneID) error {
	if _, err := s.lib.Tune(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tune = id
	s.index = 0
	s.playing = true
	return nil
}

// Step plays the token under the cursor and advances. After the last token
// the cursor wraps to 0 and the stepper goes idle.
func (s *Stepper) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		return
	}
	tokens, err := s.lib.Tune(s.tune)
	if err != nil || len(tokens) == 0 {
		s.playing = false
		s.index = 0
		return
	}

	tok := tokens[s.index]
	if tok == Rest {
		err = s.buzzer.Mute()
	} else if n, ok := s.lib.Note(tok); ok {
		err = s.buzzer.Play(n.Period)
	}
	if err != nil {
		s.logger.Warn("buzzer step failed", "tune", s.tune, "index", s.index, "token", tok, "error", err)
	}

	s.index++
	if s.index >= len(tokens) {
		s.index = 0
		s.playing = false
	}
}

// Playing reports whether a tune is in progress.
func (s *Stepper) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Cursor returns the index of the next token to play.
func (s *Stepper) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the selected tune.
func (s *Stepper) Current() TuneID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tune
}
