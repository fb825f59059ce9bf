// Package store keeps finished runs in an in-memory SQLite database for
// stats queries. Nothing is written to disk.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/simonsays/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const memoryDSN = ":memory:"

// Store wraps SQLite access for run data.
type Store struct {
	db *sql.DB
}

// Open creates a private in-memory database and applies migrations.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, err
	}
	// Every pooled connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database, discarding its contents.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			streak INTEGER NOT NULL,
			message TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_rounds (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			gesture TEXT NOT NULL,
			commanded INTEGER NOT NULL,
			result TEXT NOT NULL,
			cause TEXT NOT NULL,
			performed TEXT NOT NULL,
			reaction_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_run_rounds_gesture ON run_rounds(gesture);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a finished run and its rounds.
func (s *Store) InsertRun(ctx context.Context, run model.RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, ended_at, streak, message, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Format(time.RFC3339Nano),
		run.EndedAt.Format(time.RFC3339Nano),
		run.Streak,
		run.Message,
		run.EndedAt.Sub(run.StartedAt).Milliseconds(),
	)
	if err != nil {
		return err
	}

	if len(run.Rounds) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO run_rounds (run_id, idx, gesture, commanded, result, cause, performed, reaction_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, r := range run.Rounds {
			if _, err = stmt.ExecContext(ctx, run.ID, i,
				r.Prompt.Gesture.String(),
				r.Prompt.Commanded,
				string(r.Result),
				string(r.Cause),
				r.Gesture.String(),
				r.Reaction.Milliseconds(),
			); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// ListRuns returns runs in the order they were inserted, which is the order
// they ended, limited to the last cfg.Last runs when set.
func (s *Store) ListRuns(ctx context.Context, cfg model.StatsConfig) ([]model.RunAggregate, error) {
	query := `SELECT r.id, r.ended_at, r.streak, r.duration_ms,
			(SELECT COUNT(*) FROM run_rounds rr WHERE rr.run_id = r.id) AS rounds
		FROM runs r
		ORDER BY r.rowid ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunAggregate
	for rows.Next() {
		var agg model.RunAggregate
		var endedAt string
		if err := rows.Scan(&agg.ID, &endedAt, &agg.Streak, &agg.DurationMs, &agg.Rounds); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		runs = append(runs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}

// ListGestureAggregates aggregates round outcomes per prompted gesture for
// the given runs. An empty id list aggregates every run.
func (s *Store) ListGestureAggregates(ctx context.Context, runIDs []string) ([]model.GestureAggregate, error) {
	where := "1=1"
	args := make([]any, 0, len(runIDs))
	if len(runIDs) > 0 {
		placeholders := make([]string, len(runIDs))
		for i, id := range runIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		where = fmt.Sprintf("run_id IN (%s)", strings.Join(placeholders, ","))
	}
	query := fmt.Sprintf(`SELECT gesture,
			SUM(CASE WHEN result = ? THEN 1 ELSE 0 END) AS successes,
			SUM(CASE WHEN result = ? THEN 1 ELSE 0 END) AS failures,
			SUM(CASE WHEN commanded = 1 AND result = ? THEN reaction_ms ELSE 0 END) AS reaction_sum_ms,
			SUM(CASE WHEN commanded = 1 AND result = ? THEN 1 ELSE 0 END) AS reaction_count
		FROM run_rounds
		WHERE %s
		GROUP BY gesture`, where)
	args = append([]any{
		string(model.Success),
		string(model.Failure),
		string(model.Success),
		string(model.Success),
	}, args...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.GestureAggregate
	for rows.Next() {
		var agg model.GestureAggregate
		var name string
		if err := rows.Scan(&name, &agg.Successes, &agg.Failures, &agg.ReactionSumMs, &agg.ReactionCount); err != nil {
			return nil, err
		}
		g, err := model.ParseGesture(name)
		if err != nil {
			return nil, err
		}
		agg.Gesture = g
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
