// Package results persists trial results, one row per trial, as each trial
// completes. Two formats are supported: CSV (the default) and SQLite.
package results

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/thruflo/gonogo/internal/trial"
)

// Format names a result log format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatSQLite}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatSQLite
}

// FileName returns the log file name for f inside a run directory.
func (f Format) FileName() string {
	switch f {
	case FormatSQLite:
		return "results.db"
	default:
		return "results.csv"
	}
}

// Record is one persisted trial result.
type Record struct {
	RunID   string
	Subject string
	trial.Result
}

// Writer appends trial results to a log. Rows are never rewritten.
type Writer interface {
	Append(ctx context.Context, r trial.Result) error
	Close() error
}

// Open creates or opens the result log for one run in dir.
func Open(format Format, dir, runID, subject string) (Writer, error) {
	path := filepath.Join(dir, format.FileName())
	switch format {
	case FormatCSV:
		return OpenCSV(path, runID, subject)
	case FormatSQLite:
		return OpenSQLite(path, runID, subject)
	}
	return nil, fmt.Errorf("unknown results format %q", format)
}

// Read loads every record stored for runID in dir.
func Read(ctx context.Context, format Format, dir, runID string) ([]Record, error) {
	path := filepath.Join(dir, format.FileName())
	switch format {
	case FormatCSV:
		return ReadCSV(path)
	case FormatSQLite:
		return ReadSQLite(ctx, path, runID)
	}
	return nil, fmt.Errorf("unknown results format %q", format)
}

// Summary holds response counts for a set of records.
type Summary struct {
	Trials    int
	Responses int
	Correct   int
}

// Summarize counts trials, presses and correct trials.
func Summarize(rs []trial.Result) Summary {
	var s Summary
	for _, r := range rs {
		s.Trials++
		if r.Pressed {
			s.Responses++
		}
		if r.Correct {
			s.Correct++
		}
	}
	return s
}
