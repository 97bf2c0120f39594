package testutil

import (
	"slices"
	"sort"
)

// Scheduler replays asynchronous events (tick interrupts, button edges)
// against a synchronous main loop in a fixed order.
//
// Events scheduled for main-loop iteration N run before the N-th call to the
// step function. Events sharing an iteration run by priority, then in the
// order they were scheduled.
type Scheduler struct {
	events      []scheduled
	sequenceNum uint64
	iteration   uint64
}

type scheduled struct {
	At          uint64
	Priority    int
	SequenceNum uint64
	Fn          func()
}

// At schedules fn before main-loop iteration n (0-based, relative to the
// scheduler's lifetime).
func (s *Scheduler) At(n uint64, fn func()) {
	s.AtWithPriority(n, 0, fn)
}

// AtWithPriority schedules fn; higher priority runs first within an iteration.
func (s *Scheduler) AtWithPriority(n uint64, priority int, fn func()) {
	e := scheduled{
		At:          n,
		Priority:    priority,
		SequenceNum: s.sequenceNum,
		Fn:          fn,
	}
	s.sequenceNum++

	// Keep the queue ordered so firing only inspects its head.
	i := sort.Search(len(s.events), func(i int) bool { return e.before(s.events[i]) })
	s.events = slices.Insert(s.events, i, e)
}

// Every schedules fn before every period-th iteration in [from, to).
func (s *Scheduler) Every(from, to, period uint64, fn func()) {
	if period == 0 {
		return
	}
	for n := from; n < to; n += period {
		s.At(n, fn)
	}
}

// Iteration returns how many main-loop iterations have run.
func (s *Scheduler) Iteration() uint64 { return s.iteration }

// Run executes n main-loop iterations, firing due events before each one.
// It stops early and returns the error if step fails.
func (s *Scheduler) Run(n uint64, step func() error) error {
	for i := uint64(0); i < n; i++ {
		s.fire(s.iteration)
		if err := step(); err != nil {
			return err
		}
		s.iteration++
	}
	return nil
}

// Pending returns the number of events not yet fired.
func (s *Scheduler) Pending() int { return len(s.events) }

func (s *Scheduler) fire(iteration uint64) {
	n := 0
	for n < len(s.events) && s.events[n].At <= iteration {
		n++
	}
	if n == 0 {
		return
	}
	due := append([]scheduled(nil), s.events[:n]...)
	s.events = s.events[n:]
	for _, e := range due {
		e.Fn()
	}
}

func (e scheduled) before(o scheduled) bool {
	if e.At != o.At {
		return e.At < o.At
	}
	if e.Priority != o.Priority {
		return e.Priority > o.Priority
	}
	return e.SequenceNum < o.SequenceNum
}
