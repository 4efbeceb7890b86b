// Package engine implements the figure optimizer: a worker-pool hill climber
// that nudges free points until the problem's constraints are satisfied.
package engine

import (
	"math"
	"math/rand"
	"sync"

	"github.com/akrol/geodebug/figure"
	"github.com/akrol/geodebug/script"
)

// Optimizer owns the mutable generation state. It is not safe for concurrent
// use; a session confines it to a single worker goroutine.
type Optimizer struct {
	workers int
	tmpl    *script.Template
	coords  []figure.Vec
	free    []int
	mags    []float64
	quality float64
	steps   int
	rng     *rand.Rand
}

func New(workers int, prob *script.Problem) *Optimizer {
	if workers < 1 {
		workers = 1
	}
	o := &Optimizer{
		workers: workers,
		tmpl:    &prob.Template,
		coords:  make([]figure.Vec, len(prob.Template.Points)),
		rng:     rand.New(rand.NewSource(int64(len(prob.Template.Points))*7919 + 1)),
	}
	// Points without a starting hint get spread on a unit circle so the
	// first materialized figure is already non-degenerate.
	n := len(prob.Template.Points)
	for i, p := range prob.Template.Points {
		if p.HasStart {
			o.coords[i] = p.Start
		} else {
			a := 2 * math.Pi * float64(i) / float64(n)
			o.coords[i] = figure.Vec{X: math.Cos(a), Y: math.Sin(a)}
		}
		if !p.Fixed {
			o.free = append(o.free, i)
		}
	}
	o.quality = quality(o.tmpl, o.coords)
	return o
}

// Precompute bakes per-point adjustment magnitudes from the operator-supplied
// bound. Called once per session before the first step.
func (o *Optimizer) Precompute(bound float64) {
	involved := make([]int, len(o.coords))
	for _, r := range o.tmpl.Rules {
		involved[r.A]++
		involved[r.B]++
		if r.Kind == script.RuleAngle {
			involved[r.C]++
		}
	}
	o.mags = make([]float64, len(o.coords))
	for i := range o.mags {
		o.mags[i] = bound / math.Sqrt(1+float64(involved[i]))
	}
}

// Step advances the state by one refinement cycle: every worker proposes a
// perturbed candidate and the best one wins if it beats the current state.
func (o *Optimizer) Step() {
	if o.mags == nil {
		o.Precompute(0.5)
	}
	o.steps++
	if len(o.free) == 0 {
		return
	}

	type candidate struct {
		coords  []figure.Vec
		quality float64
	}
	results := make([]candidate, o.workers)
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		seed := o.rng.Int63()
		go func(w int, seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			c := make([]figure.Vec, len(o.coords))
			copy(c, o.coords)
			// The closer the state is to satisfying the rules, the
			// smaller the proposed adjustments.
			damp := 1 - o.quality
			if damp < 0.05 {
				damp = 0.05
			}
			for _, i := range o.free {
				c[i].X += rng.NormFloat64() * o.mags[i] * damp
				c[i].Y += rng.NormFloat64() * o.mags[i] * damp
			}
			results[w] = candidate{coords: c, quality: quality(o.tmpl, c)}
		}(w, seed)
	}
	wg.Wait()

	best := candidate{quality: -1}
	for _, c := range results {
		if c.quality > best.quality {
			best = c
		}
	}
	if best.quality > o.quality {
		o.coords = best.coords
		o.quality = best.quality
	}
}

// Materialize snapshots the current state as a drawable figure.
func (o *Optimizer) Materialize() figure.Figure {
	fig := figure.Figure{}
	for i, p := range o.tmpl.Points {
		fig.Points = append(fig.Points, figure.Point{
			Label: p.Name,
			At:    o.coords[i],
			Dot:   true,
		})
	}
	for _, ln := range o.tmpl.Lines {
		fig.Lines = append(fig.Lines, figure.Line{
			Kind:  ln.Kind,
			A:     o.coords[ln.A],
			B:     o.coords[ln.B],
			Label: ln.Label,
		})
	}
	for _, c := range o.tmpl.Circles {
		fig.Circles = append(fig.Circles, figure.Circle{
			Center: o.coords[c.Center],
			Radius: c.Radius,
			Label:  c.Label,
		})
	}
	return fig
}

// Quality is 1 for a figure satisfying every rule, approaching 0 as the total
// constraint error grows.
func (o *Optimizer) Quality() float64 { return o.quality }

func (o *Optimizer) Steps() int { return o.steps }

// Evaluate recomputes the quality of a materialized figure against the
// problem's rules. Figure points keep template order, so this works on
// snapshots without touching optimizer state.
func Evaluate(prob *script.Problem, fig figure.Figure) float64 {
	coords := make([]figure.Vec, len(fig.Points))
	for i, p := range fig.Points {
		coords[i] = p.At
	}
	return quality(&prob.Template, coords)
}

func quality(tmpl *script.Template, coords []figure.Vec) float64 {
	total := 0.0
	for _, r := range tmpl.Rules {
		switch r.Kind {
		case script.RuleDist:
			d := figure.Dist(coords[r.A], coords[r.B])
			total += math.Abs(d-r.Value) / r.Value
		case script.RuleAngle:
			want := r.Value * math.Pi / 180
			got := figure.Angle(coords[r.A], coords[r.B], coords[r.C])
			total += math.Abs(got - want)
		}
	}
	return 1 / (1 + total)
}
