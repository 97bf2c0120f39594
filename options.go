package reflexpong

import "log/slog"

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for transitions and absorbed peripheral
// errors.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers an observer notified after every transition.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}
