// SPDX-License-Identifier: MIT

// Package trajstore persists sampling runs in SQLite: one row per run with
// its diagnostics and final state, plus one row per trajectory frame.
// States are stored as JSON blobs.
package trajstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/katalvlaran/foldflow/sampler"
)

// ErrNotFound is returned when a run id is not in the store.
var ErrNotFound = errors.New("trajstore: run not found")

// Run is a stored sampling run.
type Run struct {
	Summary   sampler.Summary
	State     sampler.ProteinState
	Frames    []sampler.ProteinState
	CreatedAt time.Time
}

// Store is a SQLite-backed run store. It is safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (creating if needed) the database at path.
// Use ":memory:" for an in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("trajstore: open sqlite database: %w", err)
	}
	// one connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("trajstore: initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		summary BLOB NOT NULL,
		final_state BLOB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS frames (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		step INTEGER NOT NULL,
		t REAL NOT NULL,
		state BLOB NOT NULL,
		PRIMARY KEY (run_id, step)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores sum and the final state and trajectory of res in one
// transaction. Saving the same run id twice fails.
func (s *Store) SaveRun(ctx context.Context, sum sampler.Summary, res *sampler.Result) (err error) {
	if res == nil {
		return errors.New("trajstore: nil result")
	}
	summaryJSON, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("trajstore: marshal summary: %w", err)
	}
	stateJSON, err := json.Marshal(res.State)
	if err != nil {
		return fmt.Errorf("trajstore: marshal state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("trajstore: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO runs (run_id, created_at, summary, final_state) VALUES (?, ?, ?, ?)",
		res.RunID, time.Now().UnixNano(), summaryJSON, stateJSON,
	); err != nil {
		return fmt.Errorf("trajstore: insert run: %w", err)
	}

	for i, frame := range res.Trajectory {
		var frameJSON []byte
		if frameJSON, err = json.Marshal(frame); err != nil {
			return fmt.Errorf("trajstore: marshal frame %d: %w", i+1, err)
		}
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO frames (run_id, step, t, state) VALUES (?, ?, ?, ?)",
			res.RunID, i+1, frame.T, frameJSON,
		); err != nil {
			return fmt.Errorf("trajstore: insert frame %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("trajstore: commit: %w", err)
	}

	return nil
}

// LoadRun returns the run with the given id, frames ordered by step.
//
// Errors:
//   - ErrNotFound when the id is unknown.
func (s *Store) LoadRun(ctx context.Context, runID string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		created              int64
		summaryJSON, stateJS []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT created_at, summary, final_state FROM runs WHERE run_id = ?", runID,
	).Scan(&created, &summaryJSON, &stateJS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("trajstore: query run: %w", err)
	}

	run := &Run{CreatedAt: time.Unix(0, created)}
	if err = json.Unmarshal(summaryJSON, &run.Summary); err != nil {
		return nil, fmt.Errorf("trajstore: unmarshal summary: %w", err)
	}
	if err = json.Unmarshal(stateJS, &run.State); err != nil {
		return nil, fmt.Errorf("trajstore: unmarshal state: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT state FROM frames WHERE run_id = ? ORDER BY step", runID)
	if err != nil {
		return nil, fmt.Errorf("trajstore: query frames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			blob  []byte
			frame sampler.ProteinState
		)
		if err = rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("trajstore: scan frame: %w", err)
		}
		if err = json.Unmarshal(blob, &frame); err != nil {
			return nil, fmt.Errorf("trajstore: unmarshal frame: %w", err)
		}
		run.Frames = append(run.Frames, frame)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("trajstore: iterate frames: %w", err)
	}

	return run, nil
}

// ListRuns returns the summaries of all stored runs, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]sampler.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT summary FROM runs ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("trajstore: query runs: %w", err)
	}
	defer rows.Close()

	var out []sampler.Summary
	for rows.Next() {
		var (
			blob []byte
			sum  sampler.Summary
		)
		if err = rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("trajstore: scan run: %w", err)
		}
		if err = json.Unmarshal(blob, &sum); err != nil {
			return nil, fmt.Errorf("trajstore: unmarshal summary: %w", err)
		}
		out = append(out, sum)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("trajstore: iterate runs: %w", err)
	}

	return out, nil
}
