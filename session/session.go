// Package session owns the generation control loop: a worker goroutine that
// drives the optimizer one command at a time and publishes each completed
// figure through a single-slot hand-off buffer.
package session

import (
	"sync"

	"github.com/akrol/geodebug/figure"
)

// Optimizer is the generation collaborator. Implementations are confined to
// the session's worker goroutine after Start; the caller must not touch the
// optimizer again.
type Optimizer interface {
	// Precompute bakes step magnitudes from the adjustment bound. Called
	// once, before the first step.
	Precompute(bound float64)
	// Step advances the internal state by one refinement.
	Step()
	// Materialize snapshots the current state as a figure.
	Materialize() figure.Figure
}

// Session is one active generation run. Commands flow from the UI goroutine
// through Step and Close; results flow back through the slot. The zero value
// is not usable, construct with Start.
type Session struct {
	Flags figure.Flags

	slot    *Slot
	steps   chan struct{}
	quit    chan struct{}
	done    chan struct{}
	updates chan int
	closing sync.Once
}

// Start seeds the hand-off slot with the optimizer's initial figure and
// spawns the worker goroutine. The returned session must eventually be
// closed or the worker leaks.
func Start(opt Optimizer, flags figure.Flags, bound float64) *Session {
	s := &Session{
		Flags: flags,
		slot:  &Slot{},
		// Capacity 1 bounds in-flight steps: a producer issuing Step
		// every frame cannot grow a backlog faster than the worker
		// drains it.
		steps:   make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		updates: make(chan int, 1),
	}
	s.slot.seed(opt.Materialize())
	go s.run(opt, bound)
	return s
}

func (s *Session) run(opt Optimizer, bound float64) {
	defer close(s.done)
	opt.Precompute(bound)
	for {
		select {
		case <-s.quit:
			return
		case <-s.steps:
			// Quit wins over a command that was queued before
			// teardown; that command is then never processed.
			select {
			case <-s.quit:
				return
			default:
			}
			opt.Step()
			s.notify(s.slot.Publish(opt.Materialize()))
		}
	}
}

// Step requests one refinement. It never blocks: the request is refused when
// the session is closed or a previous command is still pending, so callers in
// continuous-run mode can issue it every frame without growing a backlog.
func (s *Session) Step() bool {
	select {
	case <-s.quit:
		return false
	default:
	}
	select {
	case s.steps <- struct{}{}:
		return true
	default:
		return false
	}
}

// Close tears the session down. It signals quit exactly once, is safe to call
// multiple times, and does not wait for the worker: an in-progress step is
// allowed to finish, after which the worker exits. No command issued after
// Close is ever processed.
func (s *Session) Close() {
	s.closing.Do(func() { close(s.quit) })
}

// Done is closed when the worker goroutine has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Updates delivers the step count after each published figure. Notifications
// coalesce: a slow receiver only ever sees the most recent count.
func (s *Session) Updates() <-chan int { return s.updates }

// Latest clones the most recently completed figure out of the slot.
func (s *Session) Latest() (figure.Figure, int) { return s.slot.Latest() }

// TryLatest is the non-blocking variant for the render loop.
func (s *Session) TryLatest() (figure.Figure, int, bool) { return s.slot.TryLatest() }

func (s *Session) notify(n int) {
	for {
		select {
		case s.updates <- n:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}
