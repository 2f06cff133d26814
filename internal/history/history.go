// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package history implements the append-only run-metadata store:
// a sqlite3-backed runs table, read by the `status` summary.
// Grounded on kdeps-kdeps's pkg/session usage pattern (plain database/sql
// over a blank-imported github.com/mattn/go-sqlite3 driver, no ORM); this
// package is new code, since speak-to-ai ships no history store at all.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one row of the runs table. The engine may track additional
// metadata of its own (diarization, timing breakdowns); Store only
// reads/writes the columns this daemon's controller produces.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Backend    string
	Transcript string
}

// Store wraps the history.sqlite3 database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite3 database at path and ensures
// the runs table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: connect %s: %w", path, err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		backend TEXT NOT NULL,
		transcript TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one completed run. Called by the transcription worker
// after each successful job: a persistence failure is logged there and is
// not a controller-level operation.
func (s *Store) Append(run Run) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO runs (id, started_at, finished_at, backend, transcript) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339), run.Backend, run.Transcript,
	)
	if err != nil {
		return fmt.Errorf("history: append run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns the most recent limit runs, most recent first. It
// tolerates a missing or malformed schema by returning an empty list
// rather than an error.
func (s *Store) Recent(limit int) []Run {
	rows, err := s.db.Query(
		`SELECT id, started_at, finished_at, backend, transcript FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var startedAt, finishedAt string
		if err := rows.Scan(&r.ID, &startedAt, &finishedAt, &r.Backend, &r.Transcript); err != nil {
			return out
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
		out = append(out, r)
	}
	return out
}

// Count returns the total number of recorded runs, or 0 if the table is
// missing or unreadable.
func (s *Store) Count() int {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0
	}
	return n
}
