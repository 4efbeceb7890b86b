package record

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/akrol/geodebug/figure"
)

func openRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRunRoundTrip(t *testing.T) {
	repo := openRepo(t)

	run, err := repo.CreateRun("triangle.geo", 512, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if run.Id == "" {
		t.Fatal("run got no id")
	}

	runs, err := repo.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Id != run.Id || runs[0].File != "triangle.geo" || runs[0].Workers != 512 || runs[0].Bound != 0.5 {
		t.Errorf("run round trip mismatch: %+v", runs[0])
	}
}

func TestStepRoundTrip(t *testing.T) {
	repo := openRepo(t)
	run, err := repo.CreateRun("triangle.geo", 4, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	figs := []figure.Figure{
		{Points: []figure.Point{{Label: "A", At: figure.Vec{X: 1}, Dot: true}}},
		{
			Points:  []figure.Point{{Label: "A", At: figure.Vec{X: 2}, Dot: true}},
			Lines:   []figure.Line{{Kind: figure.Segment, A: figure.Vec{X: 2}, B: figure.Vec{Y: 1}, Label: "c"}},
			Circles: []figure.Circle{{Center: figure.Vec{X: 2}, Radius: 1.5, Label: "k"}},
		},
	}
	for i, fig := range figs {
		if err := repo.AddStep(run.Id, i+1, float64(i)*0.3, fig); err != nil {
			t.Fatal(err)
		}
	}

	steps, err := repo.Steps(run.Id)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	for i, s := range steps {
		if s.N != i+1 {
			t.Errorf("step %d has ordinal %d", i, s.N)
		}
		if !reflect.DeepEqual(s.Figure, figs[i]) {
			t.Errorf("step %d figure mismatch:\ngot  %+v\nwant %+v", s.N, s.Figure, figs[i])
		}
	}
}

func TestDuplicateStepRejected(t *testing.T) {
	repo := openRepo(t)
	run, err := repo.CreateRun("triangle.geo", 4, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.AddStep(run.Id, 1, 0.5, figure.Figure{}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddStep(run.Id, 1, 0.6, figure.Figure{}); err == nil {
		t.Fatal("duplicate step ordinal accepted")
	}
}

func TestStepsOfUnknownRun(t *testing.T) {
	repo := openRepo(t)
	steps, err := repo.Steps("nope")
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 0 {
		t.Fatalf("got %d steps for unknown run", len(steps))
	}
}
