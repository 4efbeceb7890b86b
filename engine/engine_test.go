package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/akrol/geodebug/figure"
	"github.com/akrol/geodebug/script"
)

const triangleProblem = `
point A at (0, 0) fixed
point B
point C
segment c: A B
segment a: B C
segment b: C A
require dist(A, B) = 3
require dist(B, C) = 4
require angle(A, B, C) = 90
`

func loadProblem(t *testing.T, src string) *script.Problem {
	t.Helper()
	prob, err := script.Load(src)
	if err != nil {
		t.Fatal(err)
	}
	return prob
}

func TestNewPlacesPoints(t *testing.T) {
	prob := loadProblem(t, triangleProblem)
	o := New(4, prob)

	if got := o.coords[0]; got != (figure.Vec{X: 0, Y: 0}) {
		t.Errorf("fixed point moved to %v", got)
	}
	if o.coords[1] == o.coords[2] {
		t.Error("free points start at the same place")
	}
	if !reflect.DeepEqual(o.free, []int{1, 2}) {
		t.Errorf("free points %v, want [1 2]", o.free)
	}
}

func TestPrecomputeMagnitudes(t *testing.T) {
	prob := loadProblem(t, triangleProblem)
	o := New(4, prob)
	o.Precompute(0.5)

	if len(o.mags) != 3 {
		t.Fatalf("got %d magnitudes, want 3", len(o.mags))
	}
	for i, m := range o.mags {
		if m <= 0 || m > 0.5 {
			t.Errorf("magnitude[%d] = %v, want in (0, 0.5]", i, m)
		}
	}
	// B appears in all three rules, C in two: more constrained points get
	// smaller adjustments.
	if o.mags[1] >= o.mags[2] {
		t.Errorf("mags B=%v C=%v, want B < C", o.mags[1], o.mags[2])
	}
}

func TestStepNeverRegresses(t *testing.T) {
	prob := loadProblem(t, triangleProblem)
	o := New(8, prob)
	o.Precompute(0.5)

	q := o.Quality()
	for i := 0; i < 100; i++ {
		o.Step()
		if o.Quality() < q {
			t.Fatalf("quality regressed at step %d: %v -> %v", i, q, o.Quality())
		}
		q = o.Quality()
	}
	if q <= New(8, prob).Quality() {
		t.Errorf("quality did not improve after 100 steps: %v", q)
	}
}

func TestStepDeterministic(t *testing.T) {
	prob := loadProblem(t, triangleProblem)
	a, b := New(4, prob), New(4, prob)
	a.Precompute(0.5)
	b.Precompute(0.5)
	for i := 0; i < 10; i++ {
		a.Step()
		b.Step()
	}
	if !reflect.DeepEqual(a.Materialize(), b.Materialize()) {
		t.Fatal("identical runs diverged")
	}
}

func TestFixedPointsStayPut(t *testing.T) {
	prob := loadProblem(t, triangleProblem)
	o := New(4, prob)
	o.Precompute(0.5)
	for i := 0; i < 50; i++ {
		o.Step()
	}
	if got := o.coords[0]; got != (figure.Vec{X: 0, Y: 0}) {
		t.Errorf("fixed point drifted to %v", got)
	}
}

func TestMaterialize(t *testing.T) {
	prob := loadProblem(t, `
point A at (1, 2) fixed
point B at (4, 6) fixed
segment c: A B
circle k: A radius 2
`)
	o := New(1, prob)
	fig := o.Materialize()

	want := figure.Figure{
		Points: []figure.Point{
			{Label: "A", At: figure.Vec{X: 1, Y: 2}, Dot: true},
			{Label: "B", At: figure.Vec{X: 4, Y: 6}, Dot: true},
		},
		Lines: []figure.Line{
			{Kind: figure.Segment, A: figure.Vec{X: 1, Y: 2}, B: figure.Vec{X: 4, Y: 6}, Label: "c"},
		},
		Circles: []figure.Circle{
			{Center: figure.Vec{X: 1, Y: 2}, Radius: 2, Label: "k"},
		},
	}
	if !reflect.DeepEqual(fig, want) {
		t.Errorf("materialized %+v\nwant %+v", fig, want)
	}
}

func TestQualityOfSatisfiedProblem(t *testing.T) {
	prob := loadProblem(t, `
point A at (0, 0) fixed
point B at (3, 0) fixed
require dist(A, B) = 3
`)
	o := New(1, prob)
	if math.Abs(o.Quality()-1) > 1e-9 {
		t.Errorf("quality %v, want 1", o.Quality())
	}
	// Nothing is adjustable, steps keep the perfect score.
	o.Precompute(0.5)
	o.Step()
	if math.Abs(o.Quality()-1) > 1e-9 {
		t.Errorf("quality after step %v, want 1", o.Quality())
	}
}

func TestEvaluateMatchesQuality(t *testing.T) {
	prob := loadProblem(t, triangleProblem)
	o := New(4, prob)
	o.Precompute(0.5)
	for i := 0; i < 5; i++ {
		o.Step()
	}
	if got, want := Evaluate(prob, o.Materialize()), o.Quality(); math.Abs(got-want) > 1e-12 {
		t.Errorf("Evaluate = %v, Quality = %v", got, want)
	}
}
