// Package record persists generation runs to sqlite so a run can be inspected
// or replayed after the debugger window is gone.
package record

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/akrol/geodebug/figure"
)

type Repository struct {
	db *sql.DB
}

func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS run (
			id TEXT PRIMARY KEY,
			file TEXT NOT NULL,
			workers INTEGER NOT NULL,
			bound REAL NOT NULL,
			created INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS step (
			run_id TEXT NOT NULL REFERENCES run(id),
			n INTEGER NOT NULL,
			quality REAL NOT NULL,
			figure TEXT NOT NULL,
			PRIMARY KEY (run_id, n)
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

type Run struct {
	Id      string
	File    string
	Workers int
	Bound   float64
	Created time.Time
}

type Step struct {
	N       int
	Quality float64
	Figure  figure.Figure
}

func (r *Repository) CreateRun(file string, workers int, bound float64) (*Run, error) {
	run := &Run{
		Id:      ulid.Make().String(),
		File:    file,
		Workers: workers,
		Bound:   bound,
		Created: time.Now(),
	}
	_, err := r.db.Exec(
		"INSERT INTO run(id, file, workers, bound, created) VALUES(?, ?, ?, ?, ?)",
		run.Id, run.File, run.Workers, run.Bound, run.Created.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	return run, nil
}

func (r *Repository) AddStep(runId string, n int, quality float64, fig figure.Figure) error {
	data, err := json.Marshal(fig)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		"INSERT INTO step(run_id, n, quality, figure) VALUES(?, ?, ?, ?)",
		runId, n, quality, string(data),
	)
	if err != nil {
		return fmt.Errorf("error in db execution: %w", err)
	}
	return nil
}

func (r *Repository) Steps(runId string) ([]Step, error) {
	rows, err := r.db.Query(
		"SELECT n, quality, figure FROM step WHERE run_id = ? ORDER BY n", runId)
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var s Step
		var data string
		if err := rows.Scan(&s.N, &s.Quality, &data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &s.Figure); err != nil {
			return nil, fmt.Errorf("decoding step %d figure: %w", s.N, err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

func (r *Repository) Runs() ([]Run, error) {
	rows, err := r.db.Query("SELECT id, file, workers, bound, created FROM run ORDER BY created")
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var created int64
		if err := rows.Scan(&run.Id, &run.File, &run.Workers, &run.Bound, &created); err != nil {
			return nil, err
		}
		run.Created = time.Unix(created, 0)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
