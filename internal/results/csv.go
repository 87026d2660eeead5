package results

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/thruflo/gonogo/internal/stimulus"
	"github.com/thruflo/gonogo/internal/trial"
)

// CSVHeader is the column order of the CSV log.
var CSVHeader = []string{"run_id", "subject", "trial", "stimulus", "category", "target", "pressed", "rt_ms", "correct", "phase"}

// CSVWriter appends results to a CSV file, flushing after every row so a
// crash loses at most the trial in progress.
type CSVWriter struct {
	file    *os.File
	w       *csv.Writer
	runID   string
	subject string
}

// OpenCSV opens path for appending and writes the header if the file is new.
func OpenCSV(path, runID, subject string) (*CSVWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat results file: %w", err)
	}

	cw := &CSVWriter{file: f, w: csv.NewWriter(f), runID: runID, subject: subject}
	if info.Size() == 0 {
		if err := cw.write(CSVHeader); err != nil {
			f.Close()
			return nil, err
		}
	}
	return cw, nil
}

// Append writes one row for r.
func (c *CSVWriter) Append(_ context.Context, r trial.Result) error {
	rt := ""
	if r.ReactionTimeMS != nil {
		rt = strconv.Itoa(*r.ReactionTimeMS)
	}
	return c.write([]string{
		c.runID,
		c.subject,
		strconv.Itoa(r.Index),
		r.Stimulus,
		string(r.Category),
		strconv.FormatBool(r.IsTarget),
		strconv.FormatBool(r.Pressed),
		rt,
		strconv.FormatBool(r.Correct),
		string(r.ResponsePhase),
	})
}

func (c *CSVWriter) write(row []string) error {
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("failed to write results row: %w", err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("failed to flush results: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.file.Close()
		return fmt.Errorf("failed to flush results: %w", err)
	}
	return c.file.Close()
}

// ReadCSV parses a CSV log written by CSVWriter.
func ReadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(CSVHeader)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read results header: %w", err)
	}
	for i, name := range CSVHeader {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected results column %d: %q", i, header[i])
		}
	}

	var out []Record
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read results: %w", err)
		}
		rec, err := parseCSVRow(row)
		if err != nil {
			return nil, fmt.Errorf("results line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseCSVRow(row []string) (Record, error) {
	rec := Record{RunID: row[0], Subject: row[1]}

	var err error
	if rec.Index, err = strconv.Atoi(row[2]); err != nil {
		return rec, fmt.Errorf("trial: %w", err)
	}
	rec.Stimulus = row[3]
	rec.Category = stimulus.Category(row[4])
	if rec.IsTarget, err = strconv.ParseBool(row[5]); err != nil {
		return rec, fmt.Errorf("target: %w", err)
	}
	if rec.Pressed, err = strconv.ParseBool(row[6]); err != nil {
		return rec, fmt.Errorf("pressed: %w", err)
	}
	if row[7] != "" {
		rt, err := strconv.Atoi(row[7])
		if err != nil {
			return rec, fmt.Errorf("rt_ms: %w", err)
		}
		rec.ReactionTimeMS = &rt
	}
	if rec.Correct, err = strconv.ParseBool(row[8]); err != nil {
		return rec, fmt.Errorf("correct: %w", err)
	}
	rec.ResponsePhase = trial.Phase(row[9])
	return rec, nil
}
