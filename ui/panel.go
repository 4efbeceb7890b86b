package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/akrol/geodebug/engine"
	"github.com/akrol/geodebug/script"
	"github.com/akrol/geodebug/session"
)

// Panel is the control panel state machine. Session == nil means the
// pre-session fields are live; otherwise the run controls are. The two sets
// are never visible at the same time.
type Panel struct {
	File    Input
	Workers Input
	Bound   Input

	Session *session.Session
	Run     bool

	// Load and NewOptimizer are swappable for tests.
	Load         func(path string) (*script.Problem, error)
	NewOptimizer func(workers int, prob *script.Problem) session.Optimizer

	focus int
}

func NewPanel(file string) *Panel {
	p := &Panel{
		File:    Input{Label: "File", Text: file, Focused: true},
		Workers: Input{Label: "Worker count", Text: "512"},
		Bound:   Input{Label: "Maximum adjustment", Text: "0.5"},
		Load:    loadFile,
		NewOptimizer: func(workers int, prob *script.Problem) session.Optimizer {
			return engine.New(workers, prob)
		},
	}
	return p
}

func loadFile(path string) (*script.Problem, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return script.Load(string(src))
}

func (p *Panel) fields() []*Input {
	return []*Input{&p.File, &p.Workers, &p.Bound}
}

// Start validates the three fields independently and creates the session only
// when all of them pass. Failures stay on the panel as field errors; no
// resources are allocated.
func (p *Panel) Start() bool {
	if p.Session != nil {
		return false
	}

	workers, err := strconv.Atoi(strings.TrimSpace(p.Workers.Text))
	if err != nil || workers <= 0 {
		p.Workers.Err = "must be a positive integer"
	} else {
		p.Workers.Err = ""
	}

	bound, err := strconv.ParseFloat(strings.TrimSpace(p.Bound.Text), 64)
	if err != nil || bound <= 0 {
		p.Bound.Err = "must be a positive number"
	} else {
		p.Bound.Err = ""
	}

	prob, err := p.Load(strings.TrimSpace(p.File.Text))
	if err != nil {
		p.File.Err = "invalid file"
	} else {
		p.File.Err = ""
	}

	if p.Workers.Err != "" || p.Bound.Err != "" || p.File.Err != "" {
		return false
	}

	p.Session = session.Start(p.NewOptimizer(workers, prob), prob.Flags, bound)
	p.Run = false
	return true
}

// Quit tears the session down and returns the panel to its pre-session state.
func (p *Panel) Quit() {
	if p.Session == nil {
		return
	}
	p.Session.Close()
	p.Session = nil
	p.Run = false
}

// Tick runs once per frame. While running continuously it requests one step
// per frame; the session refuses the request while a previous one is pending,
// which keeps the command backlog bounded.
func (p *Panel) Tick() {
	if p.Session != nil && p.Run {
		p.Session.Step()
	}
}

// FocusNext cycles keyboard focus over the pre-session fields.
func (p *Panel) FocusNext() {
	fields := p.fields()
	p.focus = (p.focus + 1) % len(fields)
	for i, f := range fields {
		f.Focused = i == p.focus
	}
}

func (p *Panel) UpdateFields() {
	for _, f := range p.fields() {
		f.Update()
	}
}
