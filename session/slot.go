package session

import (
	"sync"

	"github.com/akrol/geodebug/figure"
)

// Slot is the single-value hand-off buffer between the generation worker and
// the render loop. The worker replaces the value after each step; readers
// clone it out so the lock is never held across projection or drawing.
type Slot struct {
	mu  sync.Mutex
	fig figure.Figure
	n   int
}

// Publish replaces the slot's figure and returns the new step count. Earlier
// values are dropped, never queued: only the latest figure matters.
func (s *Slot) Publish(fig figure.Figure) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fig = fig
	s.n++
	return s.n
}

// seed installs the pre-step figure without counting it as a step.
func (s *Slot) seed(fig figure.Figure) {
	s.mu.Lock()
	s.fig = fig
	s.mu.Unlock()
}

// Latest blocks until the lock is free and clones the current figure out,
// together with the number of steps it reflects.
func (s *Slot) Latest() (figure.Figure, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fig.Clone(), s.n
}

// TryLatest is the render-loop read path: it never waits on the worker. The
// caller keeps its previous clone when the slot is busy.
func (s *Slot) TryLatest() (figure.Figure, int, bool) {
	if !s.mu.TryLock() {
		return figure.Figure{}, 0, false
	}
	defer s.mu.Unlock()
	return s.fig.Clone(), s.n, true
}
