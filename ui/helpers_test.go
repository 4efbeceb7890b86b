package ui

import (
	"testing"
	"time"

	"github.com/akrol/geodebug/session"
)

func timeout(t *testing.T) <-chan time.Time {
	t.Helper()
	return time.After(2 * time.Second)
}

func waitForStep(t *testing.T, s *session.Session, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, n := s.Latest(); n >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	_, n := s.Latest()
	t.Fatalf("session never reached step %d, at %d", want, n)
}
