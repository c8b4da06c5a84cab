/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package ledger records experiment runs in a local SQLite database.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tarslab/tarsctl/internal/experiment"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ErrNotFound is returned when a run is not recorded in the ledger.
var ErrNotFound = errors.New("run not found")

// Run is a single recorded invocation.
type Run struct {
	ID             string    `json:"id"`
	ExperimentName string    `json:"experimentName"`
	Dataset        string    `json:"dataset"`
	Scenario       string    `json:"scenario"`
	Algorithms     []string  `json:"algorithms"`
	Interactions   int       `json:"interactions"`
	Users          int       `json:"users"`
	Items          int       `json:"items"`
	ResultsDir     string    `json:"resultsDir,omitempty"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	StartedAt      time.Time `json:"startedAt"`
	CompletedAt    time.Time `json:"completedAt"`
}

// Duration returns the wall clock time of the run.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// FromResult returns the ledger entry of a successful run.
func FromResult(r *experiment.Result) Run {
	run := Run{
		ID:           r.ID.String(),
		Interactions: r.Interactions,
		Users:        r.Users,
		Items:        r.Items,
		ResultsDir:   r.ResultsDir,
		Status:       StatusSucceeded,
		StartedAt:    r.StartTime,
		CompletedAt:  r.EndTime,
	}
	if p := r.Plan; p != nil {
		run.Scenario = string(p.Scenario)
		if p.Request != nil {
			run.ExperimentName = p.Request.ExperimentName
			run.Dataset = p.Request.DatasetID
			run.Algorithms = append(run.Algorithms, p.Request.ExperimentIDs...)
		}
	}
	return run
}

// FromFailure returns the ledger entry of a run that did not complete.
func FromFailure(req *experiment.Request, start time.Time, err error) Run {
	return Run{
		ID:             uuid.New().String(),
		ExperimentName: req.ExperimentName,
		Dataset:        req.DatasetID,
		Scenario:       req.Scenario,
		Algorithms:     append([]string(nil), req.ExperimentIDs...),
		Status:         StatusFailed,
		Error:          err.Error(),
		StartedAt:      start,
		CompletedAt:    time.Now(),
	}
}

// Ledger is the run database.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if necessary) the ledger database at the specified path.
func Open(path string) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Each connection to an in-memory database is a new database
		db.SetMaxOpenConns(1)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func initSchema(db *sql.DB) error {
	const createRuns = `
CREATE TABLE IF NOT EXISTS runs (
  id              TEXT PRIMARY KEY,
  experiment_name TEXT,
  dataset         TEXT,
  scenario        TEXT,
  algorithms      TEXT,
  interactions    INTEGER,
  users           INTEGER,
  items           INTEGER,
  results_dir     TEXT,
  status          TEXT,
  error           TEXT,
  started_at      TEXT,
  completed_at    TEXT
);`
	_, err := db.Exec(createRuns)
	return err
}

// Record inserts a run into the ledger.
func (l *Ledger) Record(ctx context.Context, r Run) error {
	algorithms, err := json.Marshal(r.Algorithms)
	if err != nil {
		return err
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO runs (id, experiment_name, dataset, scenario, algorithms, interactions, users, items,
                   results_dir, status, error, started_at, completed_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ExperimentName, r.Dataset, r.Scenario, string(algorithms), r.Interactions, r.Users, r.Items,
		r.ResultsDir, r.Status, r.Error, formatTime(r.StartedAt), formatTime(r.CompletedAt))
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.ID, err)
	}
	return nil
}

const selectRuns = `SELECT id, experiment_name, dataset, scenario, algorithms, interactions, users, items,
       results_dir, status, error, started_at, completed_at FROM runs`

// List returns every recorded run, most recent first.
func (l *Ledger) List(ctx context.Context) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx, selectRuns+` ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Get returns a single run by identifier.
func (l *Ledger) Get(ctx context.Context, id string) (*Run, error) {
	r, err := scanRun(l.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	var algorithms, resultsDir, errMsg, started, completed sql.NullString
	if err := s.Scan(
		&r.ID,
		&r.ExperimentName,
		&r.Dataset,
		&r.Scenario,
		&algorithms,
		&r.Interactions,
		&r.Users,
		&r.Items,
		&resultsDir,
		&r.Status,
		&errMsg,
		&started,
		&completed,
	); err != nil {
		return nil, err
	}

	if algorithms.Valid && algorithms.String != "" {
		if err := json.Unmarshal([]byte(algorithms.String), &r.Algorithms); err != nil {
			return nil, fmt.Errorf("invalid algorithms for run %s: %w", r.ID, err)
		}
	}
	r.ResultsDir = resultsDir.String
	r.Error = errMsg.String
	r.StartedAt = parseTime(started)
	r.CompletedAt = parseTime(completed)
	return &r, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
