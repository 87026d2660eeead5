package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/thruflo/gonogo/internal/stimulus"
	"github.com/thruflo/gonogo/internal/trial"

	_ "modernc.org/sqlite"
)

// SQLiteWriter inserts one row per trial into a "trials" table keyed by
// run id and trial number.
type SQLiteWriter struct {
	db      *sql.DB
	runID   string
	subject string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path, runID, subject string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	s := &SQLiteWriter{db: db, runID: runID, subject: subject}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init results table: %w", err)
	}
	return s, nil
}

func (s *SQLiteWriter) migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS trials (
		run_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		trial INTEGER NOT NULL,
		stimulus TEXT NOT NULL,
		category TEXT NOT NULL,
		is_target INTEGER NOT NULL,
		pressed INTEGER NOT NULL,
		rt_ms INTEGER,
		correct INTEGER NOT NULL,
		phase TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, trial)
	);`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Append inserts r. A second row for the same trial is rejected.
func (s *SQLiteWriter) Append(ctx context.Context, r trial.Result) error {
	query := `INSERT INTO trials (
		run_id, subject, trial, stimulus, category, is_target, pressed, rt_ms, correct, phase
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var rt sql.NullInt64
	if r.ReactionTimeMS != nil {
		rt = sql.NullInt64{Int64: int64(*r.ReactionTimeMS), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		s.runID, s.subject, r.Index, r.Stimulus, string(r.Category), r.IsTarget, r.Pressed, rt, r.Correct, string(r.ResponsePhase),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trial %d: %w", r.Index, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteWriter) Close() error {
	return s.db.Close()
}

// ReadSQLite returns the records stored for runID in trial order.
func ReadSQLite(ctx context.Context, path, runID string) ([]Record, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat results db: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	query := `
	SELECT run_id, subject, trial, stimulus, category, is_target, pressed, rt_ms, correct, phase
	FROM trials
	WHERE run_id = ?
	ORDER BY trial`
	rows, err := db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var (
			rec      Record
			category string
			phase    string
			rt       sql.NullInt64
		)
		if err := rows.Scan(&rec.RunID, &rec.Subject, &rec.Index, &rec.Stimulus, &category,
			&rec.IsTarget, &rec.Pressed, &rt, &rec.Correct, &phase); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		rec.Category = stimulus.Category(category)
		rec.ResponsePhase = trial.Phase(phase)
		if rt.Valid {
			ms := int(rt.Int64)
			rec.ReactionTimeMS = &ms
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
