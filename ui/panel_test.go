package ui

import (
	"fmt"
	"testing"

	"github.com/akrol/geodebug/figure"
	"github.com/akrol/geodebug/script"
	"github.com/akrol/geodebug/session"
)

type stubOptimizer struct{}

func (s *stubOptimizer) Precompute(bound float64)   {}
func (s *stubOptimizer) Step()                      {}
func (s *stubOptimizer) Materialize() figure.Figure { return figure.Figure{} }

func testPanel(loadErr error) *Panel {
	p := NewPanel("triangle.geo")
	p.Load = func(path string) (*script.Problem, error) {
		if loadErr != nil {
			return nil, loadErr
		}
		return &script.Problem{Flags: figure.DefaultFlags()}, nil
	}
	p.NewOptimizer = func(workers int, prob *script.Problem) session.Optimizer {
		return &stubOptimizer{}
	}
	return p
}

func TestStartValidationGating(t *testing.T) {
	tests := []struct {
		name        string
		workers     string
		bound       string
		loadErr     error
		wantSession bool
		wantErrs    []string // which fields carry an error: file, workers, bound
	}{
		{"all valid", "512", "0.5", nil, true, nil},
		{"trimmed input", " 4 ", " 0.25 ", nil, true, nil},
		{"negative workers", "-3", "0.5", nil, false, []string{"workers"}},
		{"zero workers", "0", "0.5", nil, false, []string{"workers"}},
		{"non-numeric workers", "many", "0.5", nil, false, []string{"workers"}},
		{"zero bound", "512", "0", nil, false, []string{"bound"}},
		{"non-numeric bound", "512", "half", nil, false, []string{"bound"}},
		{"bad file", "512", "0.5", fmt.Errorf("no such file"), false, []string{"file"}},
		{"all invalid", "-3", "half", fmt.Errorf("no such file"), false, []string{"file", "workers", "bound"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPanel(tt.loadErr)
			p.Workers.Text = tt.workers
			p.Bound.Text = tt.bound

			created := p.Start()
			defer p.Quit()

			if created != tt.wantSession || (p.Session != nil) != tt.wantSession {
				t.Fatalf("session created = %v, want %v", created, tt.wantSession)
			}

			errs := map[string]string{
				"file":    p.File.Err,
				"workers": p.Workers.Err,
				"bound":   p.Bound.Err,
			}
			want := map[string]bool{}
			for _, f := range tt.wantErrs {
				want[f] = true
			}
			for field, msg := range errs {
				if want[field] && msg == "" {
					t.Errorf("field %s has no error", field)
				}
				if !want[field] && msg != "" {
					t.Errorf("field %s unexpectedly flagged: %q", field, msg)
				}
			}
		})
	}
}

func TestStartClearsStaleErrors(t *testing.T) {
	p := testPanel(nil)
	p.Workers.Text = "-3"
	if p.Start() {
		t.Fatal("invalid input created a session")
	}
	if p.Workers.Err == "" {
		t.Fatal("invalid worker count not flagged")
	}

	p.Workers.Text = "4"
	if !p.Start() {
		t.Fatal("valid input rejected")
	}
	defer p.Quit()
	if p.Workers.Err != "" {
		t.Errorf("stale error kept: %q", p.Workers.Err)
	}
}

func TestStartWhileActiveIsNoOp(t *testing.T) {
	p := testPanel(nil)
	if !p.Start() {
		t.Fatal("valid input rejected")
	}
	defer p.Quit()
	first := p.Session
	if p.Start() {
		t.Fatal("second start created a session over an active one")
	}
	if p.Session != first {
		t.Fatal("active session replaced")
	}
}

func TestQuitReturnsToPreSessionState(t *testing.T) {
	p := testPanel(nil)
	if !p.Start() {
		t.Fatal("valid input rejected")
	}
	sess := p.Session
	p.Run = true

	p.Quit()
	if p.Session != nil || p.Run {
		t.Fatal("panel still in session state after quit")
	}
	select {
	case <-sess.Done():
	case <-timeout(t):
		t.Fatal("worker did not exit after quit")
	}
	if sess.Step() {
		t.Fatal("quit session still accepts commands")
	}

	// Quit with no session is harmless.
	p.Quit()
}

func TestTickStepsOnlyWhileRunning(t *testing.T) {
	p := testPanel(nil)
	if !p.Start() {
		t.Fatal("valid input rejected")
	}
	defer p.Quit()

	p.Tick()
	if _, n := p.Session.Latest(); n != 0 {
		t.Fatalf("tick stepped a paused session: %d", n)
	}

	p.Run = true
	p.Tick()
	waitForStep(t, p.Session, 1)
}
