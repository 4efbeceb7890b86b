package session

import (
	"testing"
	"time"

	"github.com/akrol/geodebug/figure"
)

func TestSlotCloneIsolation(t *testing.T) {
	s := &Slot{}
	s.Publish(figure.Figure{Points: []figure.Point{{Label: "A"}}})

	fig, n := s.Latest()
	if n != 1 {
		t.Fatalf("step count %d, want 1", n)
	}
	fig.Points[0].Label = "mutated"

	again, _ := s.Latest()
	if again.Points[0].Label != "A" {
		t.Fatal("reader mutation leaked back into the slot")
	}
}

func TestSlotReplacesNeverQueues(t *testing.T) {
	s := &Slot{}
	for i := 1; i <= 10; i++ {
		s.Publish(figure.Figure{Points: []figure.Point{{At: figure.Vec{X: float64(i)}}}})
	}
	fig, n := s.Latest()
	if n != 10 {
		t.Fatalf("step count %d, want 10", n)
	}
	if len(fig.Points) != 1 || fig.Points[0].At.X != 10 {
		t.Fatalf("slot holds %+v, want only the latest figure", fig)
	}
}

// A reader must never wait on a busy writer longer than one copy; with the
// non-blocking variant it must not wait at all.
func TestSlotReadDoesNotBlockOnWriter(t *testing.T) {
	s := &Slot{}
	fig := figure.Figure{Points: make([]figure.Point, 100)}
	stop := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-stop:
				return
			default:
				s.Publish(fig.Clone())
			}
		}
	}()

	reads, hits := 0, 0
	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		start := time.Now()
		if _, _, ok := s.TryLatest(); ok {
			hits++
		}
		if d := time.Since(start); d > 50*time.Millisecond {
			t.Fatalf("TryLatest took %v", d)
		}
		reads++
	}
	close(stop)
	<-writerDone

	if reads == 0 || hits == 0 {
		t.Fatalf("reader starved: %d reads, %d hits", reads, hits)
	}
}

func TestSlotStepCountMonotonic(t *testing.T) {
	s := &Slot{}
	stop := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for i := 0; i < 1000; i++ {
			s.Publish(figure.Figure{})
		}
		close(stop)
	}()

	last := 0
	for {
		if _, n, ok := s.TryLatest(); ok {
			if n < last {
				t.Errorf("step count went backwards: %d after %d", n, last)
				break
			}
			last = n
		}
		select {
		case <-stop:
			<-writerDone
			if _, n := s.Latest(); n != 1000 {
				t.Fatalf("final step count %d, want 1000", n)
			}
			return
		default:
		}
	}
}
